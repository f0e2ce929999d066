package handlers

import (
	"context"
	"fmt"

	"dap-decorator/pkg/dapmsg"
	"dap-decorator/pkg/handler"
	"dap-decorator/pkg/session"
)

// LaunchHandler drives the "launch"/"attach" request asynchronously
// (§4.5.8): it records the session-lifecycle arguments
// (terminateOnDisconnect, preTerminateCommands, exitCommands,
// gracefulShutdown) other handlers later read, optionally negotiates a
// "runInTerminal" reverse request with the client, then forwards the
// original request to the backend and relays its answer. It also
// observes (and forwards unchanged) the "initialize" request, recording
// whether the client supports runInTerminal.
//
// Grounded on custom-debugger/main.go's delve handshake sequencing
// (dial, wait for readiness, respond), generalized from "wait for one
// fixed backend" to the spec's reverse-request/launch-arg shape.
type LaunchHandler struct {
	handler.Base
	state *session.State
}

// NewLaunchHandler constructs a LaunchHandler sharing st.
func NewLaunchHandler(st *session.State) *LaunchHandler {
	return &LaunchHandler{state: st}
}

// OnRequest implements handler.Handler.
func (h *LaunchHandler) OnRequest(req *dapmsg.Request) handler.RequestAction {
	if req.Command == "initialize" {
		var args dapmsg.InitializeArguments
		if err := req.DecodeArguments(&args); err == nil {
			h.state.SetClientSupportsRunInTerminal(args.SupportsRunInTerminalRequest)
		}
		return handler.ForwardAction()
	}
	if req.Command != "launch" && req.Command != "attach" {
		return handler.ForwardAction()
	}
	return handler.HandleAsyncAction(func(ctx context.Context, ac handler.AsyncContext) error {
		return h.run(ctx, ac, req)
	})
}

func (h *LaunchHandler) run(ctx context.Context, ac handler.AsyncContext, req *dapmsg.Request) error {
	switch req.Command {
	case "launch":
		var args dapmsg.LaunchArguments
		if err := req.DecodeArguments(&args); err != nil {
			return ac.Respond(dapmsg.NewErrorResponse(req, fmt.Sprintf("invalid launch arguments: %v", err)))
		}
		h.applyLifecycleArgs(args.TerminateOnDisconnect, args.PreTerminateCommands, args.ExitCommands, args.GracefulShutdown)
		if args.Terminal != "" && h.state.ClientSupportsRunInTerminal() {
			if err := h.runInTerminal(ctx, ac, args); err != nil {
				return ac.Respond(dapmsg.NewErrorResponse(req, fmt.Sprintf("runInTerminal failed: %v", err)))
			}
		}
	case "attach":
		var args dapmsg.AttachArguments
		if err := req.DecodeArguments(&args); err != nil {
			return ac.Respond(dapmsg.NewErrorResponse(req, fmt.Sprintf("invalid attach arguments: %v", err)))
		}
		h.applyLifecycleArgs(args.TerminateOnDisconnect, args.PreTerminateCommands, args.ExitCommands, args.GracefulShutdown)
	}

	resp, err := ac.SendToBackend(ctx, req)
	if err != nil {
		return ac.Respond(dapmsg.NewErrorResponse(req, fmt.Sprintf("backend did not answer %s: %v", req.Command, err)))
	}
	return ac.Respond(resp)
}

func (h *LaunchHandler) applyLifecycleArgs(terminateOnDisconnect bool, preTerminate, exit []string, gracefulShutdownRaw []byte) {
	h.state.SetTerminateOnDisconnect(terminateOnDisconnect)
	h.state.SetPreTerminateCommands(preTerminate)
	h.state.SetExitCommands(exit)
	h.state.SetGracefulShutdown(decodeGracefulShutdown(gracefulShutdownRaw))
}

// runInTerminal asks the client to host the debuggee's terminal
// (§4.5.8), blocking for its answer before launch proceeds.
func (h *LaunchHandler) runInTerminal(ctx context.Context, ac handler.AsyncContext, args dapmsg.LaunchArguments) error {
	rtArgs, err := jsonMarshal(dapmsg.RunInTerminalArguments{
		Kind: args.Terminal,
		Cwd:  args.Cwd,
		Args: append([]string{args.Program}, args.Args...),
	})
	if err != nil {
		return err
	}
	reverse := &dapmsg.Request{Type: "request", Command: "runInTerminal", Arguments: rtArgs}
	resp, err := ac.SendToClient(ctx, reverse)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("client rejected runInTerminal: %s", resp.Message)
	}
	return nil
}
