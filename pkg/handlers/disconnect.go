package handlers

import (
	"context"
	"fmt"

	"dap-decorator/pkg/dapmsg"
	"dap-decorator/pkg/handler"
	"dap-decorator/pkg/session"
)

// DisconnectHandler drives the "disconnect" request asynchronously
// (§4.5.10). Whether it terminates (running the same
// preTerminateCommands -> gracefulShutdown -> forward ->
// exitCommands sequence TerminateHandler runs, with the disconnect
// request itself as the forwarded request) or merely detaches is
// decided by the request's own terminateDebuggee argument when
// present, falling back to session.State.TerminateOnDisconnect
// (captured at launch/attach) only when the argument is absent —
// mirroring the backend's own terminateDebuggee / terminateOnDisconnect
// decision in the teacher's delve wrapper.
type DisconnectHandler struct {
	handler.Base
	state *session.State
}

// NewDisconnectHandler constructs a DisconnectHandler sharing st.
func NewDisconnectHandler(st *session.State) *DisconnectHandler {
	return &DisconnectHandler{state: st}
}

// OnRequest implements handler.Handler.
func (h *DisconnectHandler) OnRequest(req *dapmsg.Request) handler.RequestAction {
	if req.Command != "disconnect" {
		return handler.ForwardAction()
	}
	return handler.HandleAsyncAction(func(ctx context.Context, ac handler.AsyncContext) error {
		var args dapmsg.DisconnectArguments
		_ = req.DecodeArguments(&args)

		terminate := h.state.TerminateOnDisconnect()
		if args.TerminateDebuggee != nil {
			terminate = *args.TerminateDebuggee
		}

		if terminate {
			return runShutdownSequence(ctx, ac, h.state, req)
		}

		resp, err := ac.SendToBackend(ctx, req)
		if err != nil {
			return ac.Respond(dapmsg.NewErrorResponse(req, fmt.Sprintf("backend did not answer disconnect: %v", err)))
		}
		return ac.Respond(resp)
	})
}
