// Package memory is an eventstore backend holding everything in maps for the
// lifetime of the process. It is the only backend the test double ships: the
// protocol semantics under test (id idempotence, replaceable supersession,
// filter queries) live here, persistence deliberately does not.
package memory

import (
	"os"
	"strconv"
	"sync"

	"github.com/nostrtools/simulatr/pkg/nostr/context"
	"github.com/nostrtools/simulatr/pkg/nostr/event"
	"github.com/nostrtools/simulatr/pkg/nostr/eventid"
	"github.com/nostrtools/simulatr/pkg/nostr/eventstore"
	"github.com/nostrtools/simulatr/pkg/nostr/filter"
	"github.com/nostrtools/simulatr/pkg/slog"
)

var log, chk = slog.New(os.Stderr)

// Backend is the in-memory store. The zero value is not usable, call New.
//
// Scans are linear. That is fine at test fixture scale and keeps the
// supersession logic readable; there are no indexes to fall out of sync.
type Backend struct {
	mx sync.Mutex

	// events holds every accepted event by id.
	events map[eventid.T]*event.T

	// slots maps a replaceable key to the id of the single event currently
	// occupying it, always the greatest createdAt observed so far.
	slots map[string]eventid.T
}

var _ eventstore.I = (*Backend)(nil)

func New() *Backend {
	return &Backend{
		events: make(map[eventid.T]*event.T),
		slots:  make(map[string]eventid.T),
	}
}

// replaceableKey derives the latest-wins slot identity for an event, and
// reports false for regular (and ephemeral) kinds which have none.
func replaceableKey(ev *event.T) (key string, ok bool) {
	ks := strconv.Itoa(ev.Kind.ToInt())
	switch {
	case ev.Kind.IsReplaceable():
		return ev.PubKey + ":" + ks, true
	case ev.Kind.IsParameterizedReplaceable():
		return ev.PubKey + ":" + ks + ":" + ev.DTag(), true
	}
	return "", false
}

// SaveEvent stores ev unless an event with the same id is present
// (ErrDupEvent) or a same-replaceable-key event with a strictly greater
// createdAt occupies its slot (ErrStale). On an equal createdAt the arriving
// event wins and evicts the occupant.
func (b *Backend) SaveEvent(c context.T, ev *event.T) (err error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	if _, have := b.events[ev.ID]; have {
		return eventstore.ErrDupEvent
	}
	key, replaceable := replaceableKey(ev)
	if replaceable {
		if occupant, have := b.slots[key]; have {
			prior := b.events[occupant]
			if prior.CreatedAt > ev.CreatedAt {
				return eventstore.ErrStale
			}
			log.T.F("superseding %s (%d) with %s (%d)",
				occupant, prior.CreatedAt, ev.ID, ev.CreatedAt)
			delete(b.events, occupant)
		}
		b.slots[key] = ev.ID
	}
	b.events[ev.ID] = ev
	return
}

// QueryEvents scans every stored event against the filter, nil meaning all.
func (b *Backend) QueryEvents(c context.T, f *filter.T) (evs []*event.T,
	err error) {

	b.mx.Lock()
	defer b.mx.Unlock()
	for _, ev := range b.events {
		if f == nil || f.Matches(ev) {
			evs = append(evs, ev)
		}
	}
	return
}

func (b *Backend) CountEvents(c context.T, f *filter.T) (count int,
	err error) {

	b.mx.Lock()
	defer b.mx.Unlock()
	for _, ev := range b.events {
		if f == nil || f.Matches(ev) {
			count++
		}
	}
	return
}

// DeleteEvent removes one event by id, freeing its replaceable slot if it
// holds one. No-op if absent.
func (b *Backend) DeleteEvent(c context.T, id eventid.T) (err error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	ev, have := b.events[id]
	if !have {
		return
	}
	if key, ok := replaceableKey(ev); ok && b.slots[key] == id {
		delete(b.slots, key)
	}
	delete(b.events, id)
	return
}

// Wipe removes all stored events. It does not touch anything outside the
// store; live subscriptions remain registered with their owners.
func (b *Backend) Wipe() (err error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.events = make(map[eventid.T]*event.T)
	b.slots = make(map[string]eventid.T)
	return
}

// Len reports the number of stored events.
func (b *Backend) Len() int {
	b.mx.Lock()
	defer b.mx.Unlock()
	return len(b.events)
}
