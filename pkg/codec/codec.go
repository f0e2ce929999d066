// Package codec is the framing codec (C1): Content-Length headers on
// the wire, decoding delegated to pkg/dapmsg, and a writer that owns
// its direction's seq sequence space per the §3 seq-ownership rule.
//
// Reading is grounded on google/go-dap's ReadBaseMessage (the same
// header-parsing step go-dap's own ReadProtocolMessage uses
// internally), extended here to hand the raw body to dapmsg.Decode
// instead of go-dap's command-switch decoder, so an unrecognized
// command falls back to dapmsg.UnknownRequest instead of erroring.
// The writer's seq-stamping trick (unmarshal into a generic map,
// overwrite "seq", re-marshal) mirrors the one other DAP proxies in
// the retrieval pack use for the same purpose.
package codec

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	dap "github.com/google/go-dap"

	"dap-decorator/pkg/dapmsg"
	"dap-decorator/pkg/decerror"
)

// Reader decodes framed DAP messages from one direction of a stream.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r for reading.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadMessage blocks until one complete framed message is available,
// returning it decoded via pkg/dapmsg. Any framing error (bad or
// missing Content-Length header, truncated body) is wrapped in
// decerror.ErrProtocolFraming; io.EOF is returned unwrapped so callers
// can distinguish a clean stream close from a malformed one.
func (c *Reader) ReadMessage() (dap.Message, error) {
	raw, err := dap.ReadBaseMessage(c.r)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %v", decerror.ErrProtocolFraming, err)
	}
	msg, err := dapmsg.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", decerror.ErrProtocolFraming, err)
	}
	return msg, nil
}

// Writer encodes and frames DAP messages onto one direction of a
// stream. It is the single owner of that direction's seq sequence
// space: every write through WriteAssignSeq stamps a fresh monotonic
// seq, overwriting whatever the caller set.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
	seq int64
}

// NewWriter wraps w for writing.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w}
}

// NextSeq allocates the next seq in this direction without writing
// anything. Callers that need to know a message's assigned seq before
// it goes on the wire (to register a pending-response correlation
// ahead of the write) set it on the message and call Write, instead
// of using WriteAssignSeq.
func (c *Writer) NextSeq() int {
	return int(atomic.AddInt64(&c.seq, 1))
}

// Write frames and sends msg with its seq field unchanged. Used for
// relaying a client request to the backend, where the pending-request
// map keys on the client's original seq (§3 seq-ownership rule).
func (c *Writer) Write(msg dap.Message) error {
	raw, err := dapmsg.Encode(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", decerror.ErrProtocolFraming, err)
	}
	return c.writeFramed(raw)
}

// WriteAssignSeq frames and sends msg after stamping it with the next
// seq in this direction's sequence, regardless of what seq it already
// carried. Used by the client-bound writer, which owns the client
// direction's sequence space whether the message originated at the
// backend (relayed) or was synthesized locally by a handler.
func (c *Writer) WriteAssignSeq(msg dap.Message) error {
	next := atomic.AddInt64(&c.seq, 1)
	raw, err := dapmsg.Encode(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", decerror.ErrProtocolFraming, err)
	}
	stamped, err := withSeq(raw, int(next))
	if err != nil {
		return fmt.Errorf("%w: %v", decerror.ErrProtocolFraming, err)
	}
	return c.writeFramed(stamped)
}

func (c *Writer) writeFramed(body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.out, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err := c.out.Write(body)
	return err
}

// withSeq rewrites the top-level "seq" field of an already-encoded
// DAP message, preserving every other field (including, for an
// UnknownRequest, fields this codec never typed).
func withSeq(raw []byte, seq int) ([]byte, error) {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	seqBytes, err := json.Marshal(seq)
	if err != nil {
		return nil, err
	}
	generic["seq"] = seqBytes
	return json.Marshal(generic)
}
