// Package app is the relay engine: an in-memory event store, a filter
// matcher, a subscription registry and the broadcast coordinator that ties
// the three together under one lock, plus the websocket adapter that exposes
// them as a NIP-01 relay.
package app

import (
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/nostrtools/simulatr/pkg/nostr/context"
	"github.com/nostrtools/simulatr/pkg/nostr/envelope"
	"github.com/nostrtools/simulatr/pkg/nostr/event"
	"github.com/nostrtools/simulatr/pkg/nostr/eventstore"
	"github.com/nostrtools/simulatr/pkg/nostr/eventstore/memory"
	"github.com/nostrtools/simulatr/pkg/slog"
	"github.com/puzpuzpuz/xsync/v2"
)

var log, chk = slog.New(os.Stderr)

var (
	AppName = "simulatr"
	Version = "v0.1.0"
)

const (
	WriteWait       = 10 * time.Second
	PongWait        = 60 * time.Second
	PingPeriod      = 30 * time.Second
	ReadBufferSize  = 4096
	WriteBufferSize = 4096
	MaxMessageSize  = 512000
)

// Conn is what the engine needs from one client connection: a stable
// identity (implementations are pointers) and a way to push envelopes at it.
// The websocket adapter and the test harness recorder both satisfy it.
type Conn interface {
	WriteEnvelope(env envelope.E) error
}

// function types used in the relay state
type (
	RejectEvent  func(c context.T, ev *event.T) (rej bool, msg string)
	OnEventSaved func(c context.T, ev *event.T)
)

// Relay is one engine instance. Each instantiation owns independent state;
// there is no process-wide table anywhere, and all of it is discarded with
// the instance.
type Relay struct {
	// mx is the single serialization point of the engine: every mutating
	// operation on the store, the subscription registry and the broadcast
	// path runs under it, so no submission can interleave inside another
	// subscription's replay-then-boundary sequence.
	mx sync.Mutex

	store eventstore.I

	// listeners maps each connection to its subscription table. Only the
	// registry structure is guarded by mx; the inner tables are concurrent
	// maps so read paths stay cheap.
	listeners map[Conn]ListenerMap

	// conns tracks every connection the engine has been told about,
	// subscribed or not, for Status and teardown cascade.
	conns map[Conn]struct{}

	RejectEvent  []RejectEvent
	OnEventSaved []OnEventSaved

	// websocket plumbing
	upgrader websocket.Upgrader
	clients  *xsync.MapOf[*websocket.Conn, struct{}]
}

// Status is the read-only introspection snapshot for harness assertions.
type Status struct {
	Events        int `json:"events"`
	Connections   int `json:"connections"`
	Subscriptions int `json:"subscriptions"`
}

func NewRelay() (rl *Relay) {
	rl = &Relay{
		store:     memory.New(),
		listeners: make(map[Conn]ListenerMap),
		conns:     make(map[Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  ReadBufferSize,
			WriteBufferSize: WriteBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: xsync.NewTypedMapOf[*websocket.Conn, struct{}](
			PointerHasher[websocket.Conn]),
	}
	return
}

// Store exposes the event store for read-only harness access.
func (rl *Relay) Store() eventstore.I { return rl.store }

// Status reports stored event, connection and subscription counts with no
// side effects.
func (rl *Relay) Status() (s Status) {
	rl.mx.Lock()
	defer rl.mx.Unlock()
	n, err := rl.store.CountEvents(context.Bg(), nil)
	chk.E(err)
	s = Status{
		Events:        n,
		Connections:   len(rl.conns),
		Subscriptions: rl.subscriptionCount(),
	}
	return
}

// Connect registers a connection with the engine. Opening a subscription
// registers implicitly, so only transports that want accurate connection
// counts before the first REQ need to call it.
func (rl *Relay) Connect(conn Conn) {
	rl.mx.Lock()
	defer rl.mx.Unlock()
	rl.conns[conn] = struct{}{}
}

// Disconnect is the teardown cascade: it removes the connection and every
// subscription it owns.
func (rl *Relay) Disconnect(conn Conn) {
	rl.mx.Lock()
	defer rl.mx.Unlock()
	rl.removeListener(conn)
	delete(rl.conns, conn)
}

// Wipe resets the store only. Live subscriptions remain registered and keep
// receiving whatever is submitted after the reset.
func (rl *Relay) Wipe() (err error) {
	rl.mx.Lock()
	defer rl.mx.Unlock()
	return rl.store.Wipe()
}
