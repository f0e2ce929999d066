package handlers

import (
	"sync/atomic"

	dap "github.com/google/go-dap"

	"dap-decorator/pkg/dapmsg"
	"dap-decorator/pkg/handler"
)

// ConsoleModeHandler injects one "output" event announcing console
// mode immediately ahead of the first "initialized" event the backend
// sends (§4.5.3). It is a one-shot latch: a backend that (per the
// open question in §9) emits "initialized" more than once only gets
// the injected event ahead of the first occurrence; later ones pass
// through unchanged.
//
// Grounded on the injection capacity implicit in the teacher's
// ResponseInterceptingReader.Read: its buffering loop already supports
// returning more bytes than it read, it just never exercises that
// path to add a message, only to replace or suppress one.
type ConsoleModeHandler struct {
	handler.Base
	injected atomic.Bool
}

// OnBackendMessage implements handler.Handler.
func (h *ConsoleModeHandler) OnBackendMessage(msg dap.Message) []dap.Message {
	ev, ok := msg.(*dapmsg.Event)
	if !ok || ev.Event != "initialized" || h.injected.Swap(true) {
		return []dap.Message{msg}
	}

	announce, err := dapmsg.NewEvent("output", dapmsg.OutputEventBody{
		Category: dapmsg.OutputCategoryConsole,
		Output:   "console mode enabled\n",
	})
	if err != nil {
		return []dap.Message{msg}
	}
	return []dap.Message{announce, msg}
}
