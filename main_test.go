package main

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialClientStdioIsDefault(t *testing.T) {
	r, w, closeFn, err := dialClient(0, 0)
	require.NoError(t, err)
	defer closeFn()
	assert.NotNil(t, r)
	assert.NotNil(t, w)
}

func TestDialClientPortAcceptsOneConnection(t *testing.T) {
	// reserve a free port, then hand it to dialClient so it can bind it itself.
	probe, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := probe.Addr().String()
	port := probe.Addr().(*net.TCPAddr).Port
	require.NoError(t, probe.Close())

	type result struct {
		closeFn func()
		err     error
	}
	resCh := make(chan result, 1)
	go func() {
		_, _, closeFn, err := dialClient(port, 0)
		resCh <- result{closeFn: closeFn, err: err}
	}()

	var conn net.Conn
	for i := 0; i < 100; i++ {
		conn, err = net.Dial("tcp", addr)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, err)
	defer conn.Close()

	select {
	case res := <-resCh:
		require.NoError(t, res.err)
		defer res.closeFn()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dialClient to accept")
	}
}

func TestDialClientRejectsUnreachableConnectPort(t *testing.T) {
	// port 1 is reserved and should refuse the connection immediately.
	_, _, _, err := dialClient(0, 1)
	assert.Error(t, err)
}
