// Command dap-decorator sits between an IDE's DAP client and a
// backend LLDB-based DAP adapter, intercepting and rewriting the
// protocol stream in both directions.
//
// Grounded on the teacher's own proxy entrypoint (custom-debugger's
// main.go and tdlv/main.go): flag.BoolVar/StringVar/IntVar with a
// custom flag.Usage, log.SetFlags(log.LstdFlags|log.Lshortfile), and
// a signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM) shutdown
// goroutine. Unlike tdlv's long-lived multi-client listener, a
// dap-decorator process serves exactly one client/backend pairing for
// its whole lifetime, matching spec.md's one-decorator-per-session
// model.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"dap-decorator/pkg/backend"
	"dap-decorator/pkg/decorator"
	"dap-decorator/pkg/diag"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		port        int
		connect     int
		backendPath string
		backendArgs string
	)
	flag.IntVar(&port, "port", 0, "listen on 127.0.0.1:PORT and accept one client connection")
	flag.IntVar(&connect, "connect", 0, "dial 127.0.0.1:PORT for the client connection")
	flag.StringVar(&backendPath, "backend", "", "path to the backend DAP adapter executable to spawn")
	flag.StringVar(&backendArgs, "backend-args", "", "comma-separated arguments passed to the backend")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "dap-decorator intercepts and rewrites a DAP session between an IDE client and a backend adapter.\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "With no -port/-connect, the client stream is stdin/stdout.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if port != 0 && connect != 0 {
		fmt.Fprintln(flag.CommandLine.Output(), "dap-decorator: -port and -connect are mutually exclusive")
		return 2
	}
	if backendPath == "" {
		fmt.Fprintln(flag.CommandLine.Output(), "dap-decorator: -backend is required")
		return 2
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	logger := diag.New("[dap-decorator] ")

	clientR, clientW, closeClient, err := dialClient(port, connect)
	if err != nil {
		logger.Errorf("client transport: %v", err)
		return 1
	}
	defer closeClient()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		logger.Infof("received shutdown signal")
		cancel()
	}()

	var args []string
	if backendArgs != "" {
		args = strings.Split(backendArgs, ",")
	}
	proc, err := backend.Start(ctx, backendPath, args, logger.With("backend "))
	if err != nil {
		logger.Errorf("starting backend: %v", err)
		return 1
	}

	sess := decorator.New(clientR, clientW, proc.Stdout, proc.Stdin, logger.With("session "))

	sessionErrCh := make(chan error, 1)
	go func() { sessionErrCh <- sess.Run(ctx) }()

	backendErrCh := make(chan error, 1)
	go func() { backendErrCh <- proc.Wait() }()

	select {
	case err := <-sessionErrCh:
		_ = proc.Kill()
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf("session ended: %v", err)
			return 1
		}
		return 0
	case err := <-backendErrCh:
		if err != nil {
			logger.Errorf("backend exited: %v", err)
			cancel()
			return 1
		}
		cancel()
		return 0
	case <-ctx.Done():
		_ = proc.Kill()
		return 0
	}
}

// dialClient returns the client-facing reader/writer per the
// transport the flags select: stdio by default, a one-shot TCP
// listener for -port, or a TCP dial for -connect.
func dialClient(port, connect int) (io.Reader, io.Writer, func(), error) {
	switch {
	case port != 0:
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		l, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("listening on %s: %w", addr, err)
		}
		conn, err := l.Accept()
		_ = l.Close()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("accepting client on %s: %w", addr, err)
		}
		return conn, conn, func() { _ = conn.Close() }, nil
	case connect != 0:
		addr := fmt.Sprintf("127.0.0.1:%d", connect)
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("dialing %s: %w", addr, err)
		}
		return conn, conn, func() { _ = conn.Close() }, nil
	default:
		return os.Stdin, os.Stdout, func() {}, nil
	}
}
