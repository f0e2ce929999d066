package handlers

import (
	"dap-decorator/pkg/dapmsg"
	"dap-decorator/pkg/handler"
)

// TriggerErrorCommand is the client-private command
// TriggerErrorHandler answers locally (§4.5.2), used by IDE-side test
// suites to assert the decorator's own error-response shape without
// needing a live backend.
const TriggerErrorCommand = "__triggerError"

// TriggerErrorHandler answers TriggerErrorCommand with a canned
// failed response and never forwards it to the backend, exercising
// the handler.Respond case the same way a handler that locally
// answers a request is expected to.
type TriggerErrorHandler struct {
	handler.Base
}

// OnRequest implements handler.Handler.
func (h *TriggerErrorHandler) OnRequest(req *dapmsg.Request) handler.RequestAction {
	if req.Command != TriggerErrorCommand {
		return handler.ForwardAction()
	}
	return handler.RespondAction(dapmsg.NewErrorResponse(req, "triggered error for testing"))
}
