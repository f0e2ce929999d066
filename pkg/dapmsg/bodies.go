package dapmsg

import "encoding/json"

// InitializeArguments is the "initialize" request's arguments, §3.2.
type InitializeArguments struct {
	ClientID                     string `json:"clientID,omitempty"`
	ClientName                   string `json:"clientName,omitempty"`
	AdapterID                    string `json:"adapterID"`
	Locale                       string `json:"locale,omitempty"`
	LinesStartAt1                bool   `json:"linesStartAt1,omitempty"`
	ColumnsStartAt1              bool   `json:"columnsStartAt1,omitempty"`
	PathFormat                   string `json:"pathFormat,omitempty"`
	SupportsRunInTerminalRequest bool   `json:"supportsRunInTerminalRequest,omitempty"`
}

// InitializeResponseBody mirrors the adapter capabilities the
// decorator reports back; the backend's own capabilities are passed
// through untouched except where a handler needs to advertise
// something the decorator itself adds.
type InitializeResponseBody struct {
	SupportsConfigurationDoneRequest bool `json:"supportsConfigurationDoneRequest,omitempty"`
	SupportsEvaluateForHovers        bool `json:"supportsEvaluateForHovers,omitempty"`
}

// LaunchArguments is the "launch" request's arguments. Fields beyond
// the base DAP schema (program, preTerminateCommands, exitCommands,
// terminateOnDisconnect, gracefulShutdown) are adapter-defined
// extensions the session state (C3) tracks per §3.3.
type LaunchArguments struct {
	NoDebug                bool            `json:"noDebug,omitempty"`
	Program                string          `json:"program,omitempty"`
	Args                   []string        `json:"args,omitempty"`
	Cwd                    string          `json:"cwd,omitempty"`
	StopOnEntry            bool            `json:"stopOnEntry,omitempty"`
	Terminal               string          `json:"terminal,omitempty"`
	PreTerminateCommands   []string        `json:"preTerminateCommands,omitempty"`
	ExitCommands           []string        `json:"exitCommands,omitempty"`
	TerminateOnDisconnect  bool            `json:"terminateOnDisconnect,omitempty"`
	GracefulShutdown       json.RawMessage `json:"gracefulShutdown,omitempty"`
}

// AttachArguments is the "attach" request's arguments; like Launch it
// carries the cleanup-lifecycle extensions.
type AttachArguments struct {
	ProcessID              int             `json:"processId,omitempty"`
	PreTerminateCommands   []string        `json:"preTerminateCommands,omitempty"`
	ExitCommands           []string        `json:"exitCommands,omitempty"`
	TerminateOnDisconnect  bool            `json:"terminateOnDisconnect,omitempty"`
	GracefulShutdown       json.RawMessage `json:"gracefulShutdown,omitempty"`
}

// SourceBreakpoint is one line entry of a "setBreakpoints" request.
type SourceBreakpoint struct {
	Line      int    `json:"line"`
	Condition string `json:"condition,omitempty"`
}

// Source identifies a source file by path.
type Source struct {
	Name string `json:"name,omitempty"`
	Path string `json:"path,omitempty"`
}

// SetBreakpointsArguments is the "setBreakpoints" request's arguments.
type SetBreakpointsArguments struct {
	Source      Source             `json:"source"`
	Breakpoints []SourceBreakpoint `json:"breakpoints,omitempty"`
}

// Breakpoint is one entry of a "setBreakpoints" response body.
type Breakpoint struct {
	ID       int  `json:"id,omitempty"`
	Verified bool `json:"verified"`
	Line     int  `json:"line,omitempty"`
}

// SetBreakpointsResponseBody is the "setBreakpoints" response body.
type SetBreakpointsResponseBody struct {
	Breakpoints []Breakpoint `json:"breakpoints"`
}

// EvaluateArguments is the "evaluate" request's arguments. Context is
// what EvaluateContextRewriter (§4.5.1) rewrites.
type EvaluateArguments struct {
	Expression string `json:"expression"`
	FrameID    int    `json:"frameId,omitempty"`
	Context    string `json:"context,omitempty"`
}

// EvaluateResponseBody is the "evaluate" response body.
type EvaluateResponseBody struct {
	Result             string `json:"result"`
	Type               string `json:"type,omitempty"`
	VariablesReference int    `json:"variablesReference"`
}

// DisconnectArguments is the "disconnect" request's arguments.
// TerminateDebuggee is a pointer so callers can distinguish "absent"
// from an explicit "false": the field, when present, overrides the
// session's terminateOnDisconnect default either way.
type DisconnectArguments struct {
	Restart           bool  `json:"restart,omitempty"`
	TerminateDebuggee *bool `json:"terminateDebuggee,omitempty"`
}

// TerminateArguments is the "terminate" request's arguments.
type TerminateArguments struct {
	Restart bool `json:"restart,omitempty"`
}

// RunInTerminalArguments is the backend-originated "runInTerminal"
// reverse request's arguments (§4.5.8).
type RunInTerminalArguments struct {
	Kind  string            `json:"kind,omitempty"`
	Title string            `json:"title,omitempty"`
	Cwd   string            `json:"cwd"`
	Args  []string          `json:"args"`
	Env   map[string]string `json:"env,omitempty"`
}

// RunInTerminalResponseBody is the client's answer to a
// "runInTerminal" reverse request.
type RunInTerminalResponseBody struct {
	ProcessID int `json:"processId,omitempty"`
}

// ProcessEventBody is the "process" event body.
type ProcessEventBody struct {
	Name            string `json:"name"`
	SystemProcessID int    `json:"systemProcessId,omitempty"`
	IsLocalProcess  bool   `json:"isLocalProcess,omitempty"`
	StartMethod     string `json:"startMethod,omitempty"`
}

// ContinuedEventBody is the "continued" event body.
type ContinuedEventBody struct {
	ThreadID            int  `json:"threadId"`
	AllThreadsContinued bool `json:"allThreadsContinued,omitempty"`
}

// Output event categories recognized by OutputCategoryNormalizer
// (§4.5.6).
const (
	OutputCategoryConsole = "console"
	OutputCategoryStdout  = "stdout"
	OutputCategoryStderr  = "stderr"
)

// OutputEventBody is the "output" event body.
type OutputEventBody struct {
	Category string `json:"category,omitempty"`
	Output   string `json:"output"`
}

// ExitedEventBody is the "exited" event body.
type ExitedEventBody struct {
	ExitCode int `json:"exitCode"`
}

// TerminatedEventBody is the "terminated" event body.
type TerminatedEventBody struct {
	Restart json.RawMessage `json:"restart,omitempty"`
}

// StoppedEventBody is the "stopped" event body.
type StoppedEventBody struct {
	Reason            string `json:"reason"`
	Description       string `json:"description,omitempty"`
	ThreadID          int    `json:"threadId,omitempty"`
	AllThreadsStopped bool   `json:"allThreadsStopped,omitempty"`
}

// ErrorMessage is the structured error carried by an ErrorResponse
// body, mirroring the DAP base schema's Message shape.
type ErrorMessage struct {
	ID     int    `json:"id"`
	Format string `json:"format"`
}

// ErrorResponseBody is a failed response's structured body, used
// alongside (not instead of) Response.Message.
type ErrorResponseBody struct {
	Error ErrorMessage `json:"error"`
}
