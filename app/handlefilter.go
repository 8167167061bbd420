package app

import (
	"sort"

	"github.com/nostrtools/simulatr/pkg/nostr/context"
	"github.com/nostrtools/simulatr/pkg/nostr/envelope"
	"github.com/nostrtools/simulatr/pkg/nostr/event"
	"github.com/nostrtools/simulatr/pkg/nostr/filters"
	"github.com/nostrtools/simulatr/pkg/nostr/subscriptionid"
)

// HandleReq opens (or replaces) a subscription: replay the matching backlog
// newest-first, emit the boundary marker, then go live. The whole sequence
// runs under the engine lock, so no submission can land between the backlog
// snapshot and the boundary; a subscriber sees each event in exactly one of
// the two phases.
func (rl *Relay) HandleReq(c context.T, conn Conn, id subscriptionid.T,
	f filters.T) (err error) {

	rl.mx.Lock()
	defer rl.mx.Unlock()

	var backlog []*event.T
	stored, err := rl.store.QueryEvents(c, nil)
	if chk.E(err) {
		return
	}
	for _, ev := range stored {
		if f.Match(ev) {
			backlog = append(backlog, ev)
		}
	}
	// newest first, capped at the largest limit declared across the
	// subscription's filters; no limit anywhere means unbounded
	sort.Sort(event.Descending(backlog))
	if limit, bounded := f.MaxLimit(); bounded && len(backlog) > limit {
		backlog = backlog[:limit]
	}
	for _, ev := range backlog {
		chk.D(conn.WriteEnvelope(&envelope.Event{
			SubscriptionID: id,
			Event:          ev,
		}))
	}
	// exactly one boundary marker per registration, then live
	chk.D(conn.WriteEnvelope(&envelope.Eose{SubscriptionID: id}))
	rl.setListener(id, conn, f)
	log.D.F("subscription %s live after %d backlog events", id, len(backlog))
	return
}

// HandleClose cancels one subscription, a no-op when it does not exist.
func (rl *Relay) HandleClose(conn Conn, id subscriptionid.T) {
	rl.mx.Lock()
	defer rl.mx.Unlock()
	rl.removeListenerId(conn, id)
}
