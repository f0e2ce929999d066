package handlers

import (
	"fmt"
	"sync/atomic"

	dap "github.com/google/go-dap"

	"dap-decorator/pkg/dapmsg"
	"dap-decorator/pkg/handler"
	"dap-decorator/pkg/session"
)

// LaunchEventsHandler captures the launch program into session state
// and injects two "output" events immediately ahead of the first
// "process" event the backend sends (§4.5.4): the program path, then
// a launch-acknowledged notice. The first of the two is omitted when
// no launch program was captured. Must run before ProcessEventHandler
// in the backend-side chain (§4.6) so both see the same "process"
// event in the order the spec requires.
//
// Grounded on the teacher's own "watch a response, then react to it"
// shape in its auto-stepping location tracking
// (storeCurrentLocationFromCommandResponse), applied here to
// "launch"/"process" instead of a step command's response.
type LaunchEventsHandler struct {
	handler.Base
	state     *session.State
	announced atomic.Bool
}

// NewLaunchEventsHandler constructs a LaunchEventsHandler sharing st.
func NewLaunchEventsHandler(st *session.State) *LaunchEventsHandler {
	return &LaunchEventsHandler{state: st}
}

// OnRequest captures LaunchArguments.Program into session state; the
// request itself is always forwarded unchanged.
func (h *LaunchEventsHandler) OnRequest(req *dapmsg.Request) handler.RequestAction {
	if req.Command != "launch" {
		return handler.ForwardAction()
	}
	var args dapmsg.LaunchArguments
	if err := req.DecodeArguments(&args); err == nil {
		h.state.SetLaunchProgram(args.Program)
	}
	return handler.ForwardAction()
}

// OnBackendMessage implements handler.Handler.
func (h *LaunchEventsHandler) OnBackendMessage(msg dap.Message) []dap.Message {
	ev, ok := msg.(*dapmsg.Event)
	if !ok || ev.Event != "process" || h.announced.Swap(true) {
		return []dap.Message{msg}
	}

	program := h.state.LaunchProgram()

	out := make([]dap.Message, 0, 3)
	if program != "" {
		if e, err := dapmsg.NewEvent("output", dapmsg.OutputEventBody{
			Category: dapmsg.OutputCategoryConsole,
			Output:   fmt.Sprintf("Launching: %s\n", program),
		}); err == nil {
			out = append(out, e)
		}
	}

	pid := "?"
	var body dapmsg.ProcessEventBody
	if err := ev.DecodeBody(&body); err == nil && body.SystemProcessID != 0 {
		pid = fmt.Sprintf("%d", body.SystemProcessID)
	}
	if e, err := dapmsg.NewEvent("output", dapmsg.OutputEventBody{
		Category: dapmsg.OutputCategoryConsole,
		Output:   fmt.Sprintf("Launched process %s from '%s'\n", pid, program),
	}); err == nil {
		out = append(out, e)
	}
	out = append(out, msg)
	return out
}
