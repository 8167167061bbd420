// Package eventstore is the interface abstracting the event storage from the
// implementation, composed so parts can be implemented separately.
package eventstore

import (
	"errors"

	"github.com/nostrtools/simulatr/pkg/nostr/context"
	"github.com/nostrtools/simulatr/pkg/nostr/event"
	"github.com/nostrtools/simulatr/pkg/nostr/eventid"
	"github.com/nostrtools/simulatr/pkg/nostr/filter"
)

var (
	// ErrDupEvent signals an event whose id is already stored. Not a failure,
	// the submit is an idempotent no-op.
	ErrDupEvent = errors.New("duplicate: event already present")

	// ErrStale signals a replaceable event older than the stored event
	// occupying its replaceable key. It is not stored.
	ErrStale = errors.New("duplicate: newer event occupies the replaceable slot")
)

// I is a storage layer for nostr events handled by a relay.
type I interface {
	Saver
	Querent
	Deleter
	Counter
	Wiper
}

type Saver interface {
	// SaveEvent stores an event, enforcing id idempotence and replaceable
	// key supersession. ErrDupEvent and ErrStale report the two no-op cases.
	SaveEvent(c context.T, ev *event.T) (err error)
}

type Querent interface {
	// QueryEvents returns the stored events satisfying the filter, a nil
	// filter meaning all of them. No ordering is guaranteed; callers
	// needing delivery order sort the result.
	QueryEvents(c context.T, f *filter.T) (evs []*event.T, err error)
}

type Deleter interface {
	// DeleteEvent removes one event by id, a no-op if absent.
	DeleteEvent(c context.T, id eventid.T) (err error)
}

type Counter interface {
	CountEvents(c context.T, f *filter.T) (count int, err error)
}

type Wiper interface {
	// Wipe deletes every stored event. Subscriptions are not its concern.
	Wipe() (err error)
}
