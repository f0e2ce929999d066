package handlers

import (
	dap "github.com/google/go-dap"

	"dap-decorator/pkg/dapmsg"
	"dap-decorator/pkg/handler"
	"dap-decorator/pkg/session"
)

// ProcessEventHandler replaces the backend's "process" event with a
// "continued" event for the main thread (§4.5.5), and marks the
// session's process as running; an "exited" or "terminated" event
// (passed through unchanged) marks it as no longer running. Must run
// after LaunchEventsHandler in
// the backend-side chain (§4.6) so LaunchEventsHandler still observes
// the original "process" event before this handler replaces it.
type ProcessEventHandler struct {
	handler.Base
	state *session.State
}

// NewProcessEventHandler constructs a ProcessEventHandler sharing st.
func NewProcessEventHandler(st *session.State) *ProcessEventHandler {
	return &ProcessEventHandler{state: st}
}

// OnBackendMessage implements handler.Handler.
func (h *ProcessEventHandler) OnBackendMessage(msg dap.Message) []dap.Message {
	ev, ok := msg.(*dapmsg.Event)
	if !ok {
		return []dap.Message{msg}
	}
	if ev.Event == "exited" || ev.Event == "terminated" {
		h.state.SetProcessRunning(false)
	}
	if ev.Event != "process" {
		return []dap.Message{msg}
	}

	h.state.SetProcessRunning(true)

	continued, err := dapmsg.NewEvent("continued", dapmsg.ContinuedEventBody{
		ThreadID:            1,
		AllThreadsContinued: true,
	})
	if err != nil {
		return []dap.Message{msg}
	}
	return []dap.Message{continued}
}
