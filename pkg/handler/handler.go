// Package handler defines the composable interception contract (C4):
// one interface every concrete handler in pkg/handlers implements,
// and the RequestAction tagged union a handler returns to say what
// should happen to a client request.
//
// This generalizes the teacher's own ad hoc pattern: its
// RequestInterceptingReader and ResponseInterceptingReader
// (custom-debugger/pkg/dap-interceptors) already special-case specific
// commands in a switch statement and already use "return nil" to mean
// "suppress this message". Handler turns that raw-buffer switch into
// a typed interface operating on pkg/dapmsg messages instead of JSON
// bytes, so a router (C6) can chain ten of them instead of one
// monolithic Read method.
package handler

import (
	"context"

	dap "github.com/google/go-dap"

	"dap-decorator/pkg/dapmsg"
)

// ActionKind tags which case of RequestAction is populated.
type ActionKind int

const (
	// Forward passes the request to the backend unchanged.
	Forward ActionKind = iota
	// ForwardModified passes NewRequest to the backend in place of
	// the original.
	ForwardModified
	// Respond answers the client locally; the request never reaches
	// the backend.
	Respond
	// HandleAsync hands the request to Func, which runs outside the
	// router's synchronous dispatch loop and drives the session
	// directly via the AsyncContext it receives.
	HandleAsync
)

// RequestAction is the tagged union a Handler.OnRequest returns.
// Exactly the field matching Kind is meaningful.
type RequestAction struct {
	Kind        ActionKind
	NewRequest  *dapmsg.Request
	Response    *dapmsg.Response
	Func        func(ctx context.Context, ac AsyncContext) error
}

// ForwardAction is the common "do nothing" case.
func ForwardAction() RequestAction {
	return RequestAction{Kind: Forward}
}

// ForwardModifiedAction relays req in place of the original.
func ForwardModifiedAction(req *dapmsg.Request) RequestAction {
	return RequestAction{Kind: ForwardModified, NewRequest: req}
}

// RespondAction answers locally with resp, never forwarding.
func RespondAction(resp *dapmsg.Response) RequestAction {
	return RequestAction{Kind: Respond, Response: resp}
}

// HandleAsyncAction hands the request to fn for asynchronous
// handling.
func HandleAsyncAction(fn func(ctx context.Context, ac AsyncContext) error) RequestAction {
	return RequestAction{Kind: HandleAsync, Func: fn}
}

// AsyncContext is what a HandleAsync handler uses to drive the
// session directly: send sub-requests to the backend and await their
// matching response, send a reverse request to the client and await
// its answer, and finally produce the response the original client
// request gets.
type AsyncContext struct {
	// SendToBackend forwards req to the backend and blocks for its
	// response, correlated by the backend's request_seq.
	SendToBackend func(ctx context.Context, req *dapmsg.Request) (*dapmsg.Response, error)
	// SendToClient sends a reverse request to the client and blocks
	// for the client's answering response.
	SendToClient func(ctx context.Context, req *dapmsg.Request) (*dapmsg.Response, error)
	// EmitToClient sends a one-way event to the client without
	// waiting for an answer.
	EmitToClient func(ev *dapmsg.Event) error
	// Respond completes the original client request with resp. Every
	// HandleAsync handler must call this exactly once.
	Respond func(resp *dapmsg.Response) error
}

// Handler is the interception contract every concrete handler in
// pkg/handlers implements. A router chains several handlers in a
// fixed order (§4.6):
//
//   - OnRequest: every handler in the chain is called, in order; the
//     first non-Forward result wins and later results are ignored.
//   - OnBackendMessage: every handler in the chain runs in order,
//     each consuming the previous handler's output messages and
//     producing its own (inject, suppress, replace); the final slice
//     is what reaches the client.
type Handler interface {
	// OnRequest is called for every client-originated request before
	// it is forwarded to the backend.
	OnRequest(req *dapmsg.Request) RequestAction
	// OnBackendMessage is called for every backend-originated
	// message (response or event) before it is forwarded to the
	// client. Returning nil or an empty slice suppresses msg;
	// returning more than one message injects additional messages.
	OnBackendMessage(msg dap.Message) []dap.Message
}
