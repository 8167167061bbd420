package app

import (
	"github.com/nostrtools/simulatr/pkg/nostr/envelope"
	"github.com/nostrtools/simulatr/pkg/nostr/event"
)

// broadcastEvent emits an event to all live listeners whose filters match.
// Callers hold rl.mx, which is what makes the fan-out synchronous with the
// submission: by the time the submit call returns, every matching live
// subscriber has been notified.
//
// A failing subscriber is isolated; its write error is logged and the pass
// moves on, and nothing of it reaches the submitter.
func (rl *Relay) broadcastEvent(ev *event.T) {
	for _, sub := range rl.enumerateListeners() {
		if !sub.l.filters.Match(ev) {
			continue
		}
		log.T.F("sending event %s to subscriber %s", ev.ID, sub.id)
		chk.D(sub.conn.WriteEnvelope(&envelope.Event{
			SubscriptionID: sub.id,
			Event:          ev,
		}))
	}
}

// BroadcastEvent emits an event to all listeners whose filters match,
// skipping the store and the accept pipeline entirely.
func (rl *Relay) BroadcastEvent(ev *event.T) {
	rl.mx.Lock()
	defer rl.mx.Unlock()
	rl.broadcastEvent(ev)
}
