package handlers

import (
	"regexp"

	dap "github.com/google/go-dap"

	"dap-decorator/pkg/dapmsg"
	"dap-decorator/pkg/handler"
)

// exitStatusPattern matches the console line a backend typically
// prints when the debuggee exits, capturing its numeric status.
var exitStatusPattern = regexp.MustCompile(`^Process (\d+) exited with status = (\d+)`)

// ExitStatusHandler rewrites a console "output" event announcing
// process exit into a plain, client-agnostic sentence (§4.5.7),
// stripping backend-specific phrasing the client should not need to
// parse.
type ExitStatusHandler struct {
	handler.Base
}

// OnBackendMessage implements handler.Handler.
func (h *ExitStatusHandler) OnBackendMessage(msg dap.Message) []dap.Message {
	ev, ok := msg.(*dapmsg.Event)
	if !ok || ev.Event != "output" {
		return []dap.Message{msg}
	}

	var body dapmsg.OutputEventBody
	if err := ev.DecodeBody(&body); err != nil {
		return []dap.Message{msg}
	}

	if body.Category != dapmsg.OutputCategoryConsole {
		return []dap.Message{msg}
	}

	m := exitStatusPattern.FindStringSubmatch(body.Output)
	if m == nil {
		return []dap.Message{msg}
	}

	body.Category = dapmsg.OutputCategoryConsole
	body.Output = "Process exited with code " + m[2] + ".\n"
	rewritten, err := dapmsg.NewEvent("output", body)
	if err != nil {
		return []dap.Message{msg}
	}
	return []dap.Message{rewritten}
}
