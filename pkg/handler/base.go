package handler

import (
	dap "github.com/google/go-dap"

	"dap-decorator/pkg/dapmsg"
)

// Base implements Handler as a no-op: OnRequest always forwards,
// OnBackendMessage always passes msg through unchanged. Concrete
// handlers in pkg/handlers embed Base and override only the method
// their concern needs, the same "implement the one hook you care
// about" shape as the teacher's interceptors (most of
// custom-debugger's request_interceptor.go's switch cases are
// "doing nothing" stubs for commands that one handler doesn't touch).
type Base struct{}

// OnRequest forwards every request unchanged.
func (Base) OnRequest(req *dapmsg.Request) RequestAction {
	return ForwardAction()
}

// OnBackendMessage passes msg through unchanged.
func (Base) OnBackendMessage(msg dap.Message) []dap.Message {
	return []dap.Message{msg}
}
