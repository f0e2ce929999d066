// Package decerror holds the sentinel errors for the taxonomy the
// router and handlers classify failures against.
package decerror

import "errors"

var (
	// ErrProtocolFraming signals a malformed DAP header or body on
	// either stream. Fatal for the session.
	ErrProtocolFraming = errors.New("dap-decorator: protocol framing error")

	// ErrInvalidRequestArgs signals a known command with arguments
	// that failed to parse. The session continues; only the one
	// request fails.
	ErrInvalidRequestArgs = errors.New("dap-decorator: invalid request arguments")

	// ErrBackendError wraps a forwarded response the backend itself
	// marked success:false. Carried through verbatim to the client.
	ErrBackendError = errors.New("dap-decorator: backend reported failure")

	// ErrBackendCrash signals the backend stream hit EOF or the
	// backend process exited before answering a pending request.
	ErrBackendCrash = errors.New("dap-decorator: backend terminated")

	// ErrHandlerFailure signals an async handler returned an error.
	ErrHandlerFailure = errors.New("dap-decorator: handler failure")

	// ErrTimeout signals an async handler exceeded its budget.
	ErrTimeout = errors.New("dap-decorator: timeout")

	// ErrCancelled signals a request was cancelled via DAP "cancel".
	ErrCancelled = errors.New("dap-decorator: cancelled")
)
