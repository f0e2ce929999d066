package router

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	dap "github.com/google/go-dap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dap-decorator/pkg/codec"
	"dap-decorator/pkg/dapmsg"
	"dap-decorator/pkg/diag"
	"dap-decorator/pkg/handler"
)

// harness wires a Router between two net.Pipe pairs and gives the
// test direct codec access to both the fake IDE client and the fake
// backend, the same in-memory-pipe shape the teacher's daptest
// package uses to drive a fake DAP peer.
type harness struct {
	t          *testing.T
	clientSide *codec.Reader // test acts as the IDE client
	clientW    *codec.Writer
	backendSide *codec.Reader // test acts as the backend
	backendW   *codec.Writer
	cancel     context.CancelFunc
	done       chan error
}

func newHarness(t *testing.T, handlers []handler.Handler) *harness {
	t.Helper()
	clientCoreR, clientTestW := net.Pipe()
	clientTestR, clientCoreW := net.Pipe()
	backendCoreR, backendTestW := net.Pipe()
	backendTestR, backendCoreW := net.Pipe()

	rt := New(clientCoreR, clientCoreW, backendCoreR, backendCoreW, handlers, handlers, diag.New("[test] "))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.Run(ctx) }()

	h := &harness{
		t:           t,
		clientSide:  codec.NewReader(clientTestR),
		clientW:     codec.NewWriter(clientTestW),
		backendSide: codec.NewReader(backendTestR),
		backendW:    codec.NewWriter(backendTestW),
		cancel:      cancel,
		done:        done,
	}
	t.Cleanup(func() { cancel() })
	return h
}

func (h *harness) sendClientRequest(req *dapmsg.Request) {
	require.NoError(h.t, h.clientW.Write(req))
}

func (h *harness) recvBackend() dap.Message {
	h.t.Helper()
	msg, err := h.backendSide.ReadMessage()
	require.NoError(h.t, err)
	return msg
}

func (h *harness) sendBackendResponse(resp *dapmsg.Response) {
	require.NoError(h.t, h.backendW.Write(resp))
}

func (h *harness) sendBackendEvent(ev *dapmsg.Event) {
	require.NoError(h.t, h.backendW.Write(ev))
}

func (h *harness) recvClient() dap.Message {
	h.t.Helper()
	msg, err := h.clientSide.ReadMessage()
	require.NoError(h.t, err)
	return msg
}

// passThroughHandler forwards every request and every backend message
// unchanged; used where a test only cares about router plumbing.
type passThroughHandler struct{ handler.Base }

func withTimeout(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() { fn(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for router to deliver a message")
	}
}

func TestRouterForwardsRequestAndRelaysResponseWithOriginalSeq(t *testing.T) {
	h := newHarness(t, []handler.Handler{&passThroughHandler{}})

	h.sendClientRequest(&dapmsg.Request{Seq: 5, Type: "request", Command: "evaluate"})

	withTimeout(t, func() {
		backendReq := h.recvBackend().(*dapmsg.Request)
		assert.Equal(t, 5, backendReq.Seq, "forwarded request keeps the client's original seq")

		h.sendBackendResponse(&dapmsg.Response{RequestSeq: 5, Success: true, Command: "evaluate"})

		clientResp := h.recvClient().(*dapmsg.Response)
		assert.Equal(t, 5, clientResp.RequestSeq)
		assert.True(t, clientResp.Success)
	})
}

func TestRouterAssignsFreshSeqToClientBoundEvents(t *testing.T) {
	h := newHarness(t, []handler.Handler{&passThroughHandler{}})

	withTimeout(t, func() {
		h.sendBackendEvent(&dapmsg.Event{Type: "event", Event: "initialized", Seq: 777})
		ev := h.recvClient().(*dapmsg.Event)
		assert.Equal(t, 1, ev.Seq, "client-bound writer must overwrite any pre-set seq")
	})
}

// suppressingHandler drops every "output" event and otherwise passes
// messages through, exercising the flat-map suppress case.
type suppressingHandler struct{ handler.Base }

func (suppressingHandler) OnBackendMessage(msg dap.Message) []dap.Message {
	if ev, ok := msg.(*dapmsg.Event); ok && ev.Event == "output" {
		return nil
	}
	return []dap.Message{msg}
}

func TestRouterSuppressesBackendMessageWhenHandlerReturnsNil(t *testing.T) {
	h := newHarness(t, []handler.Handler{&suppressingHandler{}})

	withTimeout(t, func() {
		h.sendBackendEvent(&dapmsg.Event{Type: "event", Event: "output"})
		h.sendBackendEvent(&dapmsg.Event{Type: "event", Event: "stopped"})
		ev := h.recvClient().(*dapmsg.Event)
		assert.Equal(t, "stopped", ev.Event, "the output event must have been suppressed")
	})
}

// asyncRespondHandler answers "launch" asynchronously by forwarding it
// to the backend itself and relaying the backend's response,
// exercising the HandleAsync + SendToBackend path end to end.
type asyncRespondHandler struct{ handler.Base }

func (asyncRespondHandler) OnRequest(req *dapmsg.Request) handler.RequestAction {
	if req.Command != "launch" {
		return handler.ForwardAction()
	}
	return handler.HandleAsyncAction(func(ctx context.Context, ac handler.AsyncContext) error {
		resp, err := ac.SendToBackend(ctx, req)
		if err != nil {
			return err
		}
		return ac.Respond(resp)
	})
}

func TestRouterAsyncHandlerRoundTripsThroughBackend(t *testing.T) {
	h := newHarness(t, []handler.Handler{&asyncRespondHandler{}})

	args, err := json.Marshal(dapmsg.LaunchArguments{Program: "/bin/a.out"})
	require.NoError(t, err)
	h.sendClientRequest(&dapmsg.Request{Seq: 11, Type: "request", Command: "launch", Arguments: args})

	withTimeout(t, func() {
		backendReq := h.recvBackend().(*dapmsg.Request)
		assert.Equal(t, 11, backendReq.Seq)

		h.sendBackendResponse(&dapmsg.Response{RequestSeq: 11, Success: true, Command: "launch"})

		clientResp := h.recvClient().(*dapmsg.Response)
		assert.True(t, clientResp.Success)
		assert.Equal(t, "launch", clientResp.Command)
	})
}

// observingHandler records every request it is shown, regardless of
// position in the chain, and never itself produces a non-Forward
// action.
type observingHandler struct {
	handler.Base
	seen []string
}

func (o *observingHandler) OnRequest(req *dapmsg.Request) handler.RequestAction {
	o.seen = append(o.seen, req.Command)
	return handler.ForwardAction()
}

// respondingHandler answers every request locally without forwarding.
type respondingHandler struct{ handler.Base }

func (respondingHandler) OnRequest(req *dapmsg.Request) handler.RequestAction {
	return handler.RespondAction(&dapmsg.Response{RequestSeq: req.Seq, Success: true, Command: req.Command})
}

func TestRouterStillLetsLaterHandlersObserveAfterAnEarlierOneDecides(t *testing.T) {
	observer := &observingHandler{}
	h := newHarness(t, []handler.Handler{&respondingHandler{}, observer})

	h.sendClientRequest(&dapmsg.Request{Seq: 9, Type: "request", Command: "launch"})

	withTimeout(t, func() {
		clientResp := h.recvClient().(*dapmsg.Response)
		assert.True(t, clientResp.Success)
		assert.Equal(t, 9, clientResp.RequestSeq)
	})

	// Give the observer's synchronous OnRequest call a chance to land;
	// dispatchRequest runs it inline (not in a goroutine) before
	// returning, so by the time the response above is read it has run.
	assert.Equal(t, []string{"launch"}, observer.seen, "a later handler must still observe the request even though an earlier one already decided the action")
}
