package handlers

import (
	"encoding/json"

	"dap-decorator/pkg/session"
)

// decodeGracefulShutdown resolves a launch/attach argument's
// gracefulShutdown field, which per §9's open question is left
// backend-specific: either a bare string naming a signal to forward,
// or an array of backend command strings to run before terminating.
// This repo never interprets the value beyond that shape; it is
// transported to the backend as opaque REPL text (see DESIGN.md's
// "gracefulShutdown signal vocabulary" decision).
func decodeGracefulShutdown(raw []byte) session.GracefulShutdown {
	if len(raw) == 0 {
		return session.GracefulShutdown{Mode: session.ShutdownNone}
	}

	var signal string
	if err := json.Unmarshal(raw, &signal); err == nil {
		return session.GracefulShutdown{Mode: session.ShutdownSignal, Signal: signal}
	}

	var commands []string
	if err := json.Unmarshal(raw, &commands); err == nil {
		return session.GracefulShutdown{Mode: session.ShutdownCommands, Commands: commands}
	}

	return session.GracefulShutdown{Mode: session.ShutdownNone}
}

func jsonMarshal(v interface{}) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}
