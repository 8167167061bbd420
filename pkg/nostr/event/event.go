package event

import (
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/minio/sha256-simd"
	"github.com/nostrtools/simulatr/pkg/nostr/eventid"
	"github.com/nostrtools/simulatr/pkg/nostr/kind"
	"github.com/nostrtools/simulatr/pkg/nostr/tags"
	"github.com/nostrtools/simulatr/pkg/nostr/timestamp"
)

// T is the primary datatype of nostr. This is the form of the structure that
// defines its JSON string based format.
type T struct {

	// ID is the SHA256 hash of the canonical encoding of the event, meaning
	// any change to any other field below produces a different ID.
	ID eventid.T `json:"id"`

	// PubKey is the public key of the event creator in hexadecimal format.
	PubKey string `json:"pubkey"`

	// CreatedAt is the UNIX timestamp of the event according to the event
	// creator (never trust a timestamp!)
	CreatedAt timestamp.T `json:"created_at"`

	// Kind is the nostr protocol code for the type of event. See kind.T.
	Kind kind.T `json:"kind"`

	// Tags are a list of tags, which are a list of strings usually
	// structured as a 3 layer scheme indicating specific features of an
	// event.
	Tags tags.T `json:"tags"`

	// Content is an arbitrary string that can contain anything, its
	// interpretation depending on the Kind and the Tags.
	Content string `json:"content"`

	// Sig is the signature on the ID hash. This engine carries it opaquely
	// and never verifies it.
	Sig string `json:"sig"`
}

// Ascending is a slice of events that sorts in ascending chronological order.
type Ascending []*T

func (ev Ascending) Len() int           { return len(ev) }
func (ev Ascending) Less(i, j int) bool { return ev[i].CreatedAt < ev[j].CreatedAt }
func (ev Ascending) Swap(i, j int)      { ev[i], ev[j] = ev[j], ev[i] }

// Descending sorts a slice of events in reverse chronological order (newest
// first).
type Descending []*T

func (e Descending) Len() int           { return len(e) }
func (e Descending) Less(i, j int) bool { return e[i].CreatedAt > e[j].CreatedAt }
func (e Descending) Swap(i, j int)      { e[i], e[j] = e[j], e[i] }

func (ev *T) Serialize() []byte {
	b, _ := json.Marshal(ev)
	return b
}

func (ev *T) String() string { return string(ev.Serialize()) }

// ToCanonical returns the canonical form used to generate the ID hash.
func (ev *T) ToCanonical() []byte {
	tgs := ev.Tags
	if tgs == nil {
		tgs = tags.T{}
	}
	b, _ := json.Marshal([]interface{}{
		0, ev.PubKey, ev.CreatedAt, ev.Kind, tgs, ev.Content,
	})
	return b
}

// GetIDBytes returns the raw SHA256 hash of the canonical form of a T.
func (ev *T) GetIDBytes() []byte {
	h := sha256.Sum256(ev.ToCanonical())
	return h[:]
}

// GetID serializes and returns the event ID as a hexadecimal string.
func (ev *T) GetID() eventid.T {
	return eventid.T(hex.EncodeToString(ev.GetIDBytes()))
}

// CheckID recomputes the canonical hash and reports whether the ID field
// carries it.
func (ev *T) CheckID() bool { return ev.GetID() == ev.ID }

// Validate checks the presence and form of the required fields. It does not
// verify the signature, nor that the ID is the canonical hash, as test
// doubles are routinely fed synthetic events.
func (ev *T) Validate() (err error) {
	if ev == nil {
		return errors.New("nil event")
	}
	if ev.ID == "" {
		return errors.New("event has no id")
	}
	if err = ev.ID.Validate(); err != nil {
		return
	}
	if ev.PubKey == "" {
		return errors.New("event has no pubkey")
	}
	return
}

// DTag returns the value of the first `d` tag, the discriminator for
// parameterized replaceable events, empty string when absent.
func (ev *T) DTag() string {
	if d := ev.Tags.GetFirst([]string{"d"}); d != nil {
		return d.Value()
	}
	return ""
}
