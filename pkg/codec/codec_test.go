package codec

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dap-decorator/pkg/dapmsg"
	"dap-decorator/pkg/decerror"
)

func TestWriteThenReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	req := &dapmsg.Request{Seq: 9, Type: "request", Command: "evaluate"}
	require.NoError(t, w.Write(req))

	r := NewReader(&buf)
	msg, err := r.ReadMessage()
	require.NoError(t, err)

	got, ok := msg.(*dapmsg.Request)
	require.True(t, ok)
	assert.Equal(t, 9, got.Seq)
	assert.Equal(t, "evaluate", got.Command)
}

func TestWriteAssignSeqStampsMonotonicSeq(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	first := &dapmsg.Event{Type: "event", Event: "initialized"}
	second := &dapmsg.Event{Type: "event", Event: "process", Seq: 999}

	require.NoError(t, w.WriteAssignSeq(first))
	require.NoError(t, w.WriteAssignSeq(second))

	r := NewReader(&buf)

	m1, err := r.ReadMessage()
	require.NoError(t, err)
	e1 := m1.(*dapmsg.Event)
	assert.Equal(t, 1, e1.Seq)

	m2, err := r.ReadMessage()
	require.NoError(t, err)
	e2 := m2.(*dapmsg.Event)
	assert.Equal(t, 2, e2.Seq, "WriteAssignSeq must overwrite a pre-set seq")
}

func TestReadMessageUnknownCommandFallsBack(t *testing.T) {
	var buf bytes.Buffer
	raw := []byte(`{"seq":3,"type":"request","command":"customStepBack","arguments":{}}`)
	buf.WriteString("Content-Length: ")
	buf.WriteString(strconv.Itoa(len(raw)))
	buf.WriteString("\r\n\r\n")
	buf.Write(raw)

	r := NewReader(&buf)
	msg, err := r.ReadMessage()
	require.NoError(t, err)

	unk, ok := msg.(*dapmsg.UnknownRequest)
	require.True(t, ok, "expected *dapmsg.UnknownRequest, got %T", msg)
	assert.Equal(t, "customStepBack", unk.Command)
}

func TestReadMessageMalformedHeaderIsProtocolFraming(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Not-A-Header\r\n\r\n")

	r := NewReader(&buf)
	_, err := r.ReadMessage()
	assert.ErrorIs(t, err, decerror.ErrProtocolFraming)
}

