package harness

import (
	"errors"
	"sync"

	"github.com/nostrtools/simulatr/app"
	"github.com/nostrtools/simulatr/pkg/nostr/envelope"
	"github.com/nostrtools/simulatr/pkg/nostr/event"
	"github.com/nostrtools/simulatr/pkg/nostr/subscriptionid"
)

// ErrUnreachable is what a Recorder produces for every write once its
// transport has been torn down.
var ErrUnreachable = errors.New("subscriber unreachable")

// Delivery is one EVENT envelope as it arrived at the client, in arrival
// order.
type Delivery struct {
	SubscriptionID subscriptionid.T
	Event          *event.T

	// AfterBoundary records whether this subscription's boundary marker had
	// already arrived, i.e. whether the delivery was live rather than
	// backlog.
	AfterBoundary bool
}

// Recorder plays the part of one client connection: it accepts every
// outbound envelope the engine writes and keeps it for the scenario's
// assertions. It satisfies app.Conn.
type Recorder struct {
	Name string

	mx         sync.Mutex
	deliveries []Delivery
	boundaries map[subscriptionid.T]int
	oks        []envelope.OK
	notices    []string
	dead       bool
}

var _ app.Conn = (*Recorder)(nil)

func NewRecorder(name string) *Recorder {
	return &Recorder{
		Name:       name,
		boundaries: make(map[subscriptionid.T]int),
	}
}

// WriteEnvelope records one outbound envelope, or fails if the recorder has
// been marked unreachable.
func (r *Recorder) WriteEnvelope(env envelope.E) error {
	r.mx.Lock()
	defer r.mx.Unlock()
	if r.dead {
		return ErrUnreachable
	}
	switch e := env.(type) {
	case *envelope.Event:
		r.deliveries = append(r.deliveries, Delivery{
			SubscriptionID: e.SubscriptionID,
			Event:          e.Event,
			AfterBoundary:  r.boundaries[e.SubscriptionID] > 0,
		})
	case *envelope.Eose:
		r.boundaries[e.SubscriptionID]++
	case *envelope.OK:
		r.oks = append(r.oks, *e)
	case *envelope.Notice:
		r.notices = append(r.notices, e.Text)
	}
	return nil
}

// MarkUnreachable makes every subsequent write fail, simulating a gone
// transport.
func (r *Recorder) MarkUnreachable() {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.dead = true
}

// Deliveries returns the events delivered to one subscription, in arrival
// order.
func (r *Recorder) Deliveries(id subscriptionid.T) (evs []*event.T) {
	r.mx.Lock()
	defer r.mx.Unlock()
	for _, d := range r.deliveries {
		if d.SubscriptionID == id {
			evs = append(evs, d.Event)
		}
	}
	return
}

// Backlog returns the events delivered to one subscription before its
// boundary marker.
func (r *Recorder) Backlog(id subscriptionid.T) (evs []*event.T) {
	r.mx.Lock()
	defer r.mx.Unlock()
	for _, d := range r.deliveries {
		if d.SubscriptionID == id && !d.AfterBoundary {
			evs = append(evs, d.Event)
		}
	}
	return
}

// Live returns the events delivered to one subscription after its boundary
// marker.
func (r *Recorder) Live(id subscriptionid.T) (evs []*event.T) {
	r.mx.Lock()
	defer r.mx.Unlock()
	for _, d := range r.deliveries {
		if d.SubscriptionID == id && d.AfterBoundary {
			evs = append(evs, d.Event)
		}
	}
	return
}

// BoundaryCount reports how many boundary markers arrived for one
// subscription; the engine promises exactly one per registration.
func (r *Recorder) BoundaryCount(id subscriptionid.T) int {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.boundaries[id]
}

// OKs returns the recorded acknowledgments in arrival order.
func (r *Recorder) OKs() []envelope.OK {
	r.mx.Lock()
	defer r.mx.Unlock()
	return append([]envelope.OK(nil), r.oks...)
}

// Notices returns the recorded NOTICE texts in arrival order.
func (r *Recorder) Notices() []string {
	r.mx.Lock()
	defer r.mx.Unlock()
	return append([]string(nil), r.notices...)
}
