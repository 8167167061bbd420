// Package harness wires one relay engine, recording clients and wallets into
// a scenario, so protocol flows can be scripted and asserted on without a
// network in the way. Everything drives the identical serialized engine path
// a live transport would.
package harness

import (
	"fmt"
	"os"
	"time"

	"github.com/nostrtools/simulatr/app"
	"github.com/nostrtools/simulatr/pkg/nostr/context"
	"github.com/nostrtools/simulatr/pkg/nostr/event"
	"github.com/nostrtools/simulatr/pkg/nostr/filter"
	"github.com/nostrtools/simulatr/pkg/nostr/filters"
	"github.com/nostrtools/simulatr/pkg/nostr/subscriptionid"
	"github.com/nostrtools/simulatr/pkg/slog"
	"github.com/nostrtools/simulatr/pkg/wallet"
)

var log, chk = slog.New(os.Stderr)

// Scenario owns one engine instance and the cast of clients and wallets
// around it. Scenarios are independent; nothing is shared between two of
// them.
type Scenario struct {
	Relay   *app.Relay
	clients map[string]*Recorder
	wallets map[string]*wallet.T
}

func New() *Scenario {
	return &Scenario{
		Relay:   app.NewRelay(),
		clients: make(map[string]*Recorder),
		wallets: make(map[string]*wallet.T),
	}
}

// Client returns the named recording client, creating and connecting it on
// first use.
func (s *Scenario) Client(name string) *Recorder {
	r, ok := s.clients[name]
	if !ok {
		r = NewRecorder(name)
		s.Relay.Connect(r)
		s.clients[name] = r
	}
	return r
}

// Wallet returns the named wallet, creating it with the given opening
// balance on first use.
func (s *Scenario) Wallet(name string, balance int64) *wallet.T {
	w, ok := s.wallets[name]
	if !ok {
		w = wallet.New(balance)
		s.wallets[name] = w
	}
	return w
}

// Subscribe opens (or replaces) a subscription for the named client and
// returns its recorder. On return the backlog has been replayed and the
// subscription is live.
func (s *Scenario) Subscribe(clientName string, id subscriptionid.T,
	f ...*filter.T) *Recorder {

	r := s.Client(clientName)
	chk.E(s.Relay.HandleReq(context.Bg(), r, id, filters.T(f)))
	return r
}

// Unsubscribe cancels one subscription for the named client.
func (s *Scenario) Unsubscribe(clientName string, id subscriptionid.T) {
	s.Relay.HandleClose(s.Client(clientName), id)
}

// DropClient simulates the transport reporting the named client's
// connection closed: all its subscriptions are cascaded away.
func (s *Scenario) DropClient(name string) {
	if r, ok := s.clients[name]; ok {
		s.Relay.Disconnect(r)
		delete(s.clients, name)
	}
}

// Inject submits an event through the engine's serialized path, reporting
// whether the store accepted it.
func (s *Scenario) Inject(ev *event.T) bool {
	return s.Relay.Inject(ev)
}

// Query is the read-only assertion surface over the store.
func (s *Scenario) Query(f *filter.T) []*event.T {
	evs, err := s.Relay.QueryEvents(context.Bg(), f)
	chk.E(err)
	return evs
}

// Await polls until cond holds or the timeout passes. The engine itself is
// fully synchronous and imposes no timeouts, so this exists only for
// scenarios that put real transports or goroutines in play.
func (s *Scenario) Await(timeout time.Duration,
	cond func() bool) (err error) {

	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			return fmt.Errorf("condition not met within %s", timeout)
		}
		time.Sleep(time.Millisecond)
	}
	return
}
