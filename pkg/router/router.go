// Package router implements the session router (C6): two long-lived
// reader loops (client, backend), the ordered dispatch of client
// requests through the C4/C5 request chain (first non-Forward wins),
// the flat-map dispatch of backend messages through a separately
// ordered backend chain (inject/suppress/replace), and the
// pending-request/reverse-request
// correlation async handlers need.
//
// This generalizes the teacher's own HandleClientConnection
// (custom-debugger/handler.go): two goroutines piping raw bytes
// between client and backend, joined by a requestMethodMap the
// response side consults to know how to interpret what it's reading.
// Router keeps the two-goroutine, two-map shape but replaces the
// byte-oriented io.Copy with typed dispatch through pkg/handler's
// interface, and replaces the single command-name map with the two
// purpose-built correlation maps (backend-request, client-reverse)
// the spec's seq-ownership rule (§3) requires.
package router

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	dap "github.com/google/go-dap"

	"dap-decorator/pkg/codec"
	"dap-decorator/pkg/dapmsg"
	"dap-decorator/pkg/decerror"
	"dap-decorator/pkg/diag"
	"dap-decorator/pkg/handler"
)

// Router owns one client/backend pairing for the lifetime of one
// debug session.
type Router struct {
	clientR *codec.Reader
	clientW *codec.Writer

	backendR *codec.Reader
	backendW *codec.Writer

	// requestChain and backendChain are ordered independently (§4.6):
	// a handler instance can appear in both (sharing the same session
	// state) at a different position in each, since the request-path
	// "first non-Forward wins" order and the response-path flat-map
	// order are unrelated requirements.
	requestChain []handler.Handler
	backendChain []handler.Handler
	log          *diag.Logger

	mu                   sync.Mutex
	pendingBackend       map[int]chan *dapmsg.Response
	pendingClientReverse map[int]chan *dapmsg.Response
	syntheticSeq         int64
}

// New builds a Router speaking DAP to client over (clientR, clientW)
// and to the backend over (backendR, backendW). requestChain
// dispatches client requests in order (first non-Forward wins);
// backendChain flat-maps backend-originated responses/events in
// order (inject/suppress/replace).
func New(clientR io.Reader, clientW io.Writer, backendR io.Reader, backendW io.Writer, requestChain, backendChain []handler.Handler, log *diag.Logger) *Router {
	return &Router{
		clientR:              codec.NewReader(clientR),
		clientW:              codec.NewWriter(clientW),
		backendR:             codec.NewReader(backendR),
		backendW:             codec.NewWriter(backendW),
		requestChain:         requestChain,
		backendChain:         backendChain,
		log:                  log,
		pendingBackend:       make(map[int]chan *dapmsg.Response),
		pendingClientReverse: make(map[int]chan *dapmsg.Response),
	}
}

// Run drives both reader loops until either stream closes cleanly or
// hits a protocol error, returning that loop's error (nil on a clean
// EOF).
func (rt *Router) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() { errCh <- rt.runClientLoop(ctx) }()
	go func() { errCh <- rt.runBackendLoop(ctx) }()

	return <-errCh
}

func (rt *Router) runClientLoop(ctx context.Context) error {
	for {
		msg, err := rt.clientR.ReadMessage()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch m := msg.(type) {
		case *dapmsg.Response:
			rt.deliverClientReverseResponse(m)
		case *dapmsg.UnknownRequest:
			rt.dispatchRequest(ctx, &m.Request, m)
		case *dapmsg.Request:
			rt.dispatchRequest(ctx, m, m)
		default:
			rt.log.Warnf("unexpected message from client: %T", m)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func (rt *Router) runBackendLoop(ctx context.Context) error {
	for {
		msg, err := rt.backendR.ReadMessage()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch m := msg.(type) {
		case *dapmsg.Response:
			if ch, ok := rt.takePendingBackend(m.RequestSeq); ok {
				ch <- m
				continue
			}
			rt.emitToClient(msg)
		case *dapmsg.Request:
			go rt.relayReverseRequestToClient(ctx, m)
		default:
			rt.emitToClient(msg)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// dispatchRequest runs req through every handler in the chain, in
// order, so each gets to observe it regardless of what an earlier
// handler decided (§4.4 bullet 2: "later handlers still see the
// original request (observation) but their actions are ignored").
// Only the first non-Forward action is acted on; the rest are
// discarded. If every handler forwards, original is relayed to the
// backend unchanged.
func (rt *Router) dispatchRequest(ctx context.Context, req *dapmsg.Request, original dap.Message) {
	var decision *handler.RequestAction
	for _, h := range rt.requestChain {
		action := h.OnRequest(req)
		if decision == nil && action.Kind != handler.Forward {
			decision = &action
		}
	}

	if decision == nil {
		rt.forwardToBackend(original)
		return
	}

	switch decision.Kind {
	case handler.ForwardModified:
		rt.forwardToBackend(decision.NewRequest)
	case handler.Respond:
		if err := rt.clientW.WriteAssignSeq(decision.Response); err != nil {
			rt.log.Errorf("responding to %s: %v", req.Command, err)
		}
	case handler.HandleAsync:
		go rt.runAsyncHandler(ctx, decision.Func, req)
	}
}

// emitToClient flat-maps msg through the backend-side handler chain
// (§4.4): each handler consumes the previous handler's output list
// and produces its own, so a handler can inject, suppress, or replace
// messages. What survives is written to the client with a freshly
// assigned seq (§3 seq-ownership rule).
func (rt *Router) emitToClient(msg dap.Message) {
	msgs := []dap.Message{msg}
	for _, h := range rt.backendChain {
		var next []dap.Message
		for _, m := range msgs {
			next = append(next, h.OnBackendMessage(m)...)
		}
		msgs = next
	}
	for _, m := range msgs {
		if err := rt.clientW.WriteAssignSeq(m); err != nil {
			rt.log.Errorf("writing to client: %v", err)
		}
	}
}

func (rt *Router) forwardToBackend(msg dap.Message) {
	if err := rt.backendW.Write(msg); err != nil {
		rt.log.Errorf("forwarding to backend: %v", err)
	}
}

// runAsyncHandler wires an AsyncContext to this router and runs fn,
// which is solely responsible for eventually calling ac.Respond
// exactly once (§4.5.8-10).
func (rt *Router) runAsyncHandler(ctx context.Context, fn func(context.Context, handler.AsyncContext) error, req *dapmsg.Request) {
	ac := handler.AsyncContext{
		SendToBackend: rt.sendToBackendAwait,
		SendToClient:  rt.sendReverseToClient,
		EmitToClient: func(ev *dapmsg.Event) error {
			return rt.clientW.WriteAssignSeq(ev)
		},
		Respond: func(resp *dapmsg.Response) error {
			return rt.clientW.WriteAssignSeq(resp)
		},
	}
	if err := fn(ctx, ac); err != nil {
		rt.log.Errorf("async handler for %s: %v", req.Command, err)
	}
}

// sendToBackendAwait forwards req to the backend and blocks for its
// matching response. req retains its seq if already set (a relayed
// client request, keyed on the client's original seq per §3);
// otherwise a synthetic negative seq is allocated, since synthetic
// sub-requests an async handler originates (preTerminateCommands,
// gracefulShutdown) never had a client seq of their own and must not
// collide with one.
func (rt *Router) sendToBackendAwait(ctx context.Context, req *dapmsg.Request) (*dapmsg.Response, error) {
	if req.Seq == 0 {
		req.Seq = int(atomic.AddInt64(&rt.syntheticSeq, -1))
	}
	ch := make(chan *dapmsg.Response, 1)
	rt.registerPendingBackend(req.Seq, ch)
	defer rt.unregisterPendingBackend(req.Seq)

	if err := rt.backendW.Write(req); err != nil {
		return nil, err
	}
	select {
	case resp := <-ch:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// sendReverseToClient sends req to the client as a reverse request
// (the client direction's seq is assigned here, ahead of the write,
// so the correlation channel can be registered before anything can
// race the answer in) and blocks for the client's response.
func (rt *Router) sendReverseToClient(ctx context.Context, req *dapmsg.Request) (*dapmsg.Response, error) {
	seq := rt.clientW.NextSeq()
	req.Seq = seq

	ch := make(chan *dapmsg.Response, 1)
	rt.registerPendingClientReverse(seq, ch)
	defer rt.unregisterPendingClientReverse(seq)

	if err := rt.clientW.Write(req); err != nil {
		return nil, err
	}
	select {
	case resp := <-ch:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// relayReverseRequestToClient forwards a reverse request the backend
// itself originated (e.g. a real "runInTerminal") to the client and
// relays the client's answer back to the backend, restoring the
// backend's original request_seq on the way back. Generalizes the
// teacher's requestMethodMap correlation idea
// (custom-debugger/handler.go) to the mirror-image direction.
func (rt *Router) relayReverseRequestToClient(ctx context.Context, req *dapmsg.Request) {
	originalSeq := req.Seq
	resp, err := rt.sendReverseToClient(ctx, req)
	if err != nil {
		rt.log.Errorf("relaying reverse request %s to client: %v", req.Command, err)
		return
	}
	resp.RequestSeq = originalSeq
	if err := rt.backendW.WriteAssignSeq(resp); err != nil {
		rt.log.Errorf("answering backend reverse request %s: %v", req.Command, err)
	}
}

func (rt *Router) deliverClientReverseResponse(resp *dapmsg.Response) {
	if ch, ok := rt.takePendingClientReverse(resp.RequestSeq); ok {
		ch <- resp
		return
	}
	rt.log.Warnf("%v: unsolicited response from client for request_seq=%d", decerror.ErrProtocolFraming, resp.RequestSeq)
}

func (rt *Router) registerPendingBackend(seq int, ch chan *dapmsg.Response) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.pendingBackend[seq] = ch
}

func (rt *Router) unregisterPendingBackend(seq int) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	delete(rt.pendingBackend, seq)
}

func (rt *Router) takePendingBackend(seq int) (chan *dapmsg.Response, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	ch, ok := rt.pendingBackend[seq]
	return ch, ok
}

func (rt *Router) registerPendingClientReverse(seq int, ch chan *dapmsg.Response) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.pendingClientReverse[seq] = ch
}

func (rt *Router) unregisterPendingClientReverse(seq int) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	delete(rt.pendingClientReverse, seq)
}

func (rt *Router) takePendingClientReverse(seq int) (chan *dapmsg.Response, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	ch, ok := rt.pendingClientReverse[seq]
	return ch, ok
}
