package handlers

import (
	"encoding/json"

	"dap-decorator/pkg/dapmsg"
	"dap-decorator/pkg/handler"
)

// EvaluateContextRewriter rewrites an "evaluate" request's
// context:"_command" to "repl" before it reaches the backend (§4.5.1).
// Most DAP backends only special-case a handful of well-known
// contexts ("watch", "hover", "repl", "clipboard"); a client that
// tags console-triggered evaluations with a private "_command" marker
// would otherwise be rejected or mis-handled by a backend that has
// never heard of it.
//
// The teacher's own request_interceptor.go stubs this exact hook
// point ("case \"evaluate\": doing nothing") without filling it in;
// this handler is that fill-in, generalized into the typed Handler
// contract.
type EvaluateContextRewriter struct {
	handler.Base
}

const commandContext = "_command"

// OnRequest implements handler.Handler.
func (h *EvaluateContextRewriter) OnRequest(req *dapmsg.Request) handler.RequestAction {
	if req.Command != "evaluate" {
		return handler.ForwardAction()
	}

	var args dapmsg.EvaluateArguments
	if err := req.DecodeArguments(&args); err != nil || args.Context != commandContext {
		return handler.ForwardAction()
	}

	args.Context = "repl"
	raw, err := json.Marshal(args)
	if err != nil {
		return handler.ForwardAction()
	}

	modified := &dapmsg.Request{
		Seq:       req.Seq,
		Type:      req.Type,
		Command:   req.Command,
		Arguments: raw,
	}
	return handler.ForwardModifiedAction(modified)
}
