package handlers

import (
	"context"
	"fmt"

	"dap-decorator/pkg/dapmsg"
	"dap-decorator/pkg/handler"
	"dap-decorator/pkg/session"
)

// TerminateHandler drives the "terminate" request asynchronously
// (§4.5.9): run preTerminateCommands, apply the configured graceful
// shutdown, forward the real terminate, then best-effort run
// exitCommands regardless of whether terminate itself succeeded.
//
// Grounded on the teacher's sequential multi-step RPC orchestration
// (performDirectAutoStepping's sub-request/await/continue shape),
// redirected at the terminate lifecycle instead of auto-stepping.
type TerminateHandler struct {
	handler.Base
	state *session.State
}

// NewTerminateHandler constructs a TerminateHandler sharing st.
func NewTerminateHandler(st *session.State) *TerminateHandler {
	return &TerminateHandler{state: st}
}

// OnRequest implements handler.Handler.
func (h *TerminateHandler) OnRequest(req *dapmsg.Request) handler.RequestAction {
	if req.Command != "terminate" {
		return handler.ForwardAction()
	}
	return handler.HandleAsyncAction(func(ctx context.Context, ac handler.AsyncContext) error {
		return runShutdownSequence(ctx, ac, h.state, req)
	})
}

// runShutdownSequence implements the preTerminateCommands ->
// gracefulShutdown -> forward req -> exitCommands pipeline shared by
// TerminateHandler (req is "terminate") and DisconnectHandler's
// terminate path (req is "disconnect").
func runShutdownSequence(ctx context.Context, ac handler.AsyncContext, state *session.State, req *dapmsg.Request) error {
	for _, cmd := range state.PreTerminateCommands() {
		if ok := sendEvaluateCommand(ctx, ac, cmd); !ok {
			break
		}
	}

	switch shutdown := state.GracefulShutdown(); shutdown.Mode {
	case session.ShutdownSignal:
		sendEvaluateCommand(ctx, ac, "process signal "+shutdown.Signal)
	case session.ShutdownCommands:
		for _, cmd := range shutdown.Commands {
			sendEvaluateCommand(ctx, ac, cmd)
		}
	}

	resp, err := ac.SendToBackend(ctx, req)

	for _, cmd := range state.ExitCommands() {
		sendEvaluateCommand(ctx, ac, cmd)
	}

	if err != nil {
		return ac.Respond(dapmsg.NewErrorResponse(req, fmt.Sprintf("backend did not answer %s: %v", req.Command, err)))
	}
	return ac.Respond(resp)
}

// sendEvaluateCommand forwards cmd to the backend as an opaque REPL
// evaluation, the same way preTerminateCommands/exitCommands and the
// gracefulShutdown vocabulary are transported without interpretation
// (DESIGN.md's "gracefulShutdown signal vocabulary" decision). It
// reports whether the backend answered successfully, so callers that
// must stop at the first failure (preTerminateCommands) can do so;
// callers that run best-effort (exitCommands, gracefulShutdown) simply
// ignore the result.
func sendEvaluateCommand(ctx context.Context, ac handler.AsyncContext, cmd string) bool {
	args, err := jsonMarshal(dapmsg.EvaluateArguments{Expression: cmd, Context: "repl"})
	if err != nil {
		return false
	}
	sub := &dapmsg.Request{Type: "request", Command: "evaluate", Arguments: args}
	resp, err := ac.SendToBackend(ctx, sub)
	if err != nil {
		return false
	}
	return resp.Success
}
