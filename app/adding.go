package app

import (
	"errors"

	"github.com/nostrtools/simulatr/pkg/nostr/context"
	"github.com/nostrtools/simulatr/pkg/nostr/event"
	"github.com/nostrtools/simulatr/pkg/nostr/eventstore"
	"github.com/nostrtools/simulatr/pkg/nostr/filter"
	"github.com/nostrtools/simulatr/pkg/nostr/normalize"
)

// AddEvent sends an event through the normal add pipeline, as if it was
// received from a websocket. By the time it returns, every live subscription
// whose filters match has been notified; accepted reports whether the store
// took the event, and is false for the idempotent duplicate/stale no-ops as
// well as for rejections.
func (rl *Relay) AddEvent(c context.T, ev *event.T) (accepted bool,
	message string) {

	rl.mx.Lock()
	defer rl.mx.Unlock()
	return rl.addEvent(c, ev)
}

// Inject is the test-harness entry: identical serialized path as transport
// submissions, minus any acknowledgment channel.
func (rl *Relay) Inject(ev *event.T) (accepted bool) {
	accepted, _ = rl.AddEvent(context.Bg(), ev)
	return
}

// addEvent is the body of the pipeline. Callers hold rl.mx.
func (rl *Relay) addEvent(c context.T, ev *event.T) (accepted bool,
	message string) {

	if err := ev.Validate(); err != nil {
		log.D.Ln("rejecting event:", err)
		return false, normalize.Reason(err.Error(), "invalid")
	}
	for _, rej := range rl.RejectEvent {
		if reject, msg := rej(c, ev); reject {
			if msg == "" {
				msg = "no reason"
			}
			return false, normalize.Reason(msg, "blocked")
		}
	}
	if ev.Kind.IsEphemeral() {
		// not stored, only relayed to whoever is listening right now
		rl.broadcastEvent(ev)
		return true, ""
	}
	if err := rl.store.SaveEvent(c, ev); err != nil {
		switch {
		case errors.Is(err, eventstore.ErrDupEvent),
			errors.Is(err, eventstore.ErrStale):
			return false, normalize.Reason(err.Error(), "duplicate")
		default:
			chk.E(err)
			return false, normalize.Reason(err.Error(), "error")
		}
	}
	for _, ons := range rl.OnEventSaved {
		ons(c, ev)
	}
	rl.broadcastEvent(ev)
	return true, ""
}

// QueryEvents is the read-only harness surface over the store, nil filter
// meaning everything.
func (rl *Relay) QueryEvents(c context.T, f *filter.T) ([]*event.T, error) {
	return rl.store.QueryEvents(c, f)
}
