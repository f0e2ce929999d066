// Package dapmsg is the typed message model (C2): the envelope types
// every DAP request/response/event shares, the minimum set of
// command-specific argument and body structs §3.2 requires, and the
// decode/encode pair the framing codec calls into.
//
// Recognized commands decode into typed structs; anything outside
// that set falls back to *UnknownRequest, which keeps the original
// bytes around so it can be re-emitted verbatim instead of drifting
// through a marshal/unmarshal round trip.
package dapmsg

import (
	"encoding/json"
	"fmt"

	dap "github.com/google/go-dap"
)

// envelope is unmarshaled first to sniff "type"/"command"/"event"
// before committing to a concrete struct.
type envelope struct {
	Type    string `json:"type"`
	Command string `json:"command,omitempty"`
	Event   string `json:"event,omitempty"`
}

// Request is a request traveling in either direction: client to
// backend, or a reverse request from backend to client.
type Request struct {
	Seq       int             `json:"seq"`
	Type      string          `json:"type"`
	Command   string          `json:"command"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

func (r *Request) GetSeq() int { return r.Seq }

// DecodeArguments unmarshals the request's raw arguments into v.
func (r *Request) DecodeArguments(v interface{}) error {
	if len(r.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(r.Arguments, v)
}

// Response answers a prior request by request_seq.
type Response struct {
	Seq        int             `json:"seq"`
	Type       string          `json:"type"`
	RequestSeq int             `json:"request_seq"`
	Success    bool            `json:"success"`
	Command    string          `json:"command"`
	Message    string          `json:"message,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
}

func (r *Response) GetSeq() int { return r.Seq }

// DecodeBody unmarshals the response's raw body into v.
func (r *Response) DecodeBody(v interface{}) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// Event is a one-way notification, backend to client (or injected by
// a handler).
type Event struct {
	Seq   int             `json:"seq"`
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Body  json.RawMessage `json:"body,omitempty"`
}

func (e *Event) GetSeq() int { return e.Seq }

// DecodeBody unmarshals the event's raw body into v.
func (e *Event) DecodeBody(v interface{}) error {
	if len(e.Body) == 0 {
		return nil
	}
	return json.Unmarshal(e.Body, v)
}

// UnknownRequest is a request whose command falls outside the
// recognized set. Raw holds the exact bytes as received so the
// forwarder can re-emit them verbatim rather than re-marshal a
// struct that only partially understood the payload.
type UnknownRequest struct {
	Request
	Raw json.RawMessage
}

// recognizedCommands is the minimum set spec.md §3.2 requires typed
// handling for. Everything else becomes an *UnknownRequest, forwarded
// untouched.
var recognizedCommands = map[string]bool{
	"initialize":        true,
	"launch":            true,
	"attach":            true,
	"configurationDone": true,
	"disconnect":        true,
	"terminate":         true,
	"setBreakpoints":    true,
	"evaluate":          true,
	"runInTerminal":     true,
}

// Decode parses one complete DAP message body (the Content-Length
// header already stripped by the codec) into a *Request, *Response,
// *Event, or *UnknownRequest.
func Decode(raw []byte) (dap.Message, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("dapmsg: malformed message: %w", err)
	}
	switch env.Type {
	case "request":
		var req Request
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("dapmsg: malformed request: %w", err)
		}
		if recognizedCommands[req.Command] {
			return &req, nil
		}
		cp := make(json.RawMessage, len(raw))
		copy(cp, raw)
		return &UnknownRequest{Request: req, Raw: cp}, nil
	case "response":
		var resp Response
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("dapmsg: malformed response: %w", err)
		}
		return &resp, nil
	case "event":
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("dapmsg: malformed event: %w", err)
		}
		return &ev, nil
	default:
		return nil, fmt.Errorf("dapmsg: unrecognized message type %q", env.Type)
	}
}

// Encode serializes msg back to wire JSON (without the Content-Length
// header; the codec adds that). *UnknownRequest re-emits its original
// bytes verbatim instead of round-tripping through json.Marshal.
func Encode(msg dap.Message) ([]byte, error) {
	if u, ok := msg.(*UnknownRequest); ok {
		return u.Raw, nil
	}
	return json.Marshal(msg)
}

// NewEvent builds an Event carrying body as its JSON-encoded Body.
// seq is left zero; the client-bound writer assigns it (§3, seq
// ownership).
func NewEvent(name string, body interface{}) (*Event, error) {
	ev := &Event{Type: "event", Event: name}
	if body == nil {
		return ev, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("dapmsg: encoding %s event body: %w", name, err)
	}
	ev.Body = b
	return ev, nil
}

// NewResponse builds a Response to req. seq is left zero; the
// client-bound writer assigns it.
func NewResponse(req *Request, success bool, body interface{}) (*Response, error) {
	resp := &Response{
		Type:       "response",
		RequestSeq: req.Seq,
		Success:    success,
		Command:    req.Command,
	}
	if body == nil {
		return resp, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("dapmsg: encoding %s response body: %w", req.Command, err)
	}
	resp.Body = b
	return resp, nil
}

// NewErrorResponse builds a failed Response carrying message as the
// human-readable summary (the "message" field DAP clients surface
// directly).
func NewErrorResponse(req *Request, message string) *Response {
	return &Response{
		Type:       "response",
		RequestSeq: req.Seq,
		Success:    false,
		Command:    req.Command,
		Message:    message,
	}
}
