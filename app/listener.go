package app

import (
	"github.com/nostrtools/simulatr/pkg/nostr/filters"
	"github.com/nostrtools/simulatr/pkg/nostr/subscriptionid"
	"github.com/puzpuzpuz/xsync/v2"
)

// Listener is one standing subscription: a filter list owned by one
// connection. The owning connection is the key of the table it lives in. A
// Listener only enters the table once its backlog replay and boundary marker
// have been written, so everything in the table is live.
type Listener struct {
	filters filters.T
}

// ListenerMap is the per-connection table of subscription id to Listener.
type ListenerMap = *xsync.MapOf[string, *Listener]

// setListener registers or replaces a subscription. Re-registering an
// existing (conn, id) pair swaps its filter list rather than duplicating.
// Callers hold rl.mx.
func (rl *Relay) setListener(id subscriptionid.T, conn Conn, f filters.T) {
	rl.conns[conn] = struct{}{}
	subs, ok := rl.listeners[conn]
	if !ok {
		subs = xsync.NewMapOf[*Listener]()
		rl.listeners[conn] = subs
	}
	subs.Store(id.String(), &Listener{filters: f})
}

// removeListenerId removes a specific subscription id for a given client,
// a no-op when absent. Callers hold rl.mx.
func (rl *Relay) removeListenerId(conn Conn, id subscriptionid.T) {
	if subs, ok := rl.listeners[conn]; ok {
		subs.Delete(id.String())
		if subs.Size() == 0 {
			delete(rl.listeners, conn)
		}
	}
}

// removeListener removes a client and everything it subscribed. Callers hold
// rl.mx.
func (rl *Relay) removeListener(conn Conn) {
	delete(rl.listeners, conn)
}

// subscription is one (connection, id, filters) triple as enumerated for
// fan-out.
type subscription struct {
	conn Conn
	id   subscriptionid.T
	l    *Listener
}

// enumerateListeners snapshots the subscription table at a single point in
// time, so a handler unregistering mid-fan-out cannot invalidate the pass
// that is feeding it. Callers hold rl.mx.
func (rl *Relay) enumerateListeners() (snapshot []subscription) {
	for conn, subs := range rl.listeners {
		subs.Range(func(id string, l *Listener) bool {
			snapshot = append(snapshot, subscription{
				conn: conn,
				id:   subscriptionid.T(id),
				l:    l,
			})
			return true
		})
	}
	return
}

// subscriptionCount reports the number of active subscriptions across all
// connections. Callers hold rl.mx.
func (rl *Relay) subscriptionCount() (n int) {
	for _, subs := range rl.listeners {
		n += subs.Size()
	}
	return
}
