// Package decorator assembles the session router (C6) from the
// concrete handlers (C5) in the canonical registration order spec.md
// §4.6 requires, and exposes the single entry point the CLI (C8)
// calls to run one session.
package decorator

import (
	"context"
	"io"

	"dap-decorator/pkg/diag"
	"dap-decorator/pkg/handler"
	"dap-decorator/pkg/handlers"
	"dap-decorator/pkg/router"
	"dap-decorator/pkg/session"
)

// Session is one client/backend pairing, wired with a fresh session
// state and the canonical handler chains.
type Session struct {
	router *router.Router
	state  *session.State
}

// New builds a Session speaking DAP to the client over
// (clientR, clientW) and to the backend over (backendR, backendW).
func New(clientR io.Reader, clientW io.Writer, backendR io.Reader, backendW io.Writer, log *diag.Logger) *Session {
	st := &session.State{}

	launchEvents := handlers.NewLaunchEventsHandler(st)

	// §4.6 request-side order: first non-Forward wins.
	requestChain := []handler.Handler{
		&handlers.TriggerErrorHandler{},
		&handlers.EvaluateContextRewriter{},
		handlers.NewLaunchHandler(st),
		handlers.NewTerminateHandler(st),
		handlers.NewDisconnectHandler(st),
		launchEvents,
	}

	// §4.6 backend-side order: flat-mapped in sequence, each handler
	// consuming the previous one's output.
	backendChain := []handler.Handler{
		&handlers.ConsoleModeHandler{},
		launchEvents,
		handlers.NewProcessEventHandler(st),
		handlers.NewOutputCategoryNormalizer(st),
		&handlers.ExitStatusHandler{},
	}

	return &Session{
		router: router.New(clientR, clientW, backendR, backendW, requestChain, backendChain, log),
		state:  st,
	}
}

// Run drives the session until the client or backend stream closes,
// returning the first protocol or backend error encountered (nil on a
// clean shutdown).
func (s *Session) Run(ctx context.Context) error {
	return s.router.Run(ctx)
}
