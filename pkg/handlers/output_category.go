package handlers

import (
	dap "github.com/google/go-dap"

	"dap-decorator/pkg/dapmsg"
	"dap-decorator/pkg/handler"
	"dap-decorator/pkg/session"
)

// OutputCategoryNormalizer reclassifies "output" events tagged
// category:"console" as category:"stdout" while the debuggee process
// is running (§4.5.6): a backend that only ever emits "console" for
// program output makes the client's stdout pane invisible unless
// something downstream relabels it.
//
// Grounded on the category-string inspection already present in the
// teacher's stacktrace content-sniffing
// (strings.Contains(strings.ToLower(jsonStr), ...)), applied here to
// a typed OutputEventBody.Category field instead of raw JSON text.
type OutputCategoryNormalizer struct {
	handler.Base
	state *session.State
}

// NewOutputCategoryNormalizer constructs a normalizer sharing st.
func NewOutputCategoryNormalizer(st *session.State) *OutputCategoryNormalizer {
	return &OutputCategoryNormalizer{state: st}
}

// OnBackendMessage implements handler.Handler.
func (h *OutputCategoryNormalizer) OnBackendMessage(msg dap.Message) []dap.Message {
	ev, ok := msg.(*dapmsg.Event)
	if !ok || ev.Event != "output" || !h.state.ProcessRunning() {
		return []dap.Message{msg}
	}

	var body dapmsg.OutputEventBody
	if err := ev.DecodeBody(&body); err != nil || body.Category != dapmsg.OutputCategoryConsole {
		return []dap.Message{msg}
	}

	// Leave the exit-status line as category:console so ExitStatusHandler
	// (ordered after this handler, §4.6) still recognizes and rewrites it.
	if exitStatusPattern.MatchString(body.Output) {
		return []dap.Message{msg}
	}

	body.Category = dapmsg.OutputCategoryStdout
	rewritten, err := dapmsg.NewEvent("output", body)
	if err != nil {
		return []dap.Message{msg}
	}
	return []dap.Message{rewritten}
}
