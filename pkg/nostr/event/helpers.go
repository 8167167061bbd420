package event

import (
	"encoding/hex"

	"github.com/nostrtools/simulatr/pkg/nostr/kind"
	"github.com/nostrtools/simulatr/pkg/nostr/tags"
	"github.com/nostrtools/simulatr/pkg/nostr/timestamp"
	"lukechampine.com/frand"
)

// Stateless constructors for well-formed events, mainly for fixtures and
// scenario scripts. They compute the content-addressed ID; the signature is
// filled with random bytes since nothing in this repository verifies it.

// New assembles an event from all its id-relevant fields and stamps the ID.
func New(pubkey string, ki kind.T, tgs tags.T, content string,
	at timestamp.T) (ev *T) {

	ev = &T{
		PubKey:    pubkey,
		CreatedAt: at,
		Kind:      ki,
		Tags:      tgs,
		Content:   content,
		Sig:       hex.EncodeToString(frand.Bytes(64)),
	}
	ev.ID = ev.GetID()
	return
}

// TextNote returns a kind 1 note.
func TextNote(pubkey, content string, at timestamp.T) *T {
	return New(pubkey, kind.TextNote, nil, content, at)
}

// Metadata returns a kind 0 (replaceable) profile event.
func Metadata(pubkey, content string, at timestamp.T) *T {
	return New(pubkey, kind.ProfileMetadata, nil, content, at)
}

// Parameterized returns a parameterized replaceable event with the given `d`
// tag discriminator.
func Parameterized(pubkey string, ki kind.T, d, content string,
	at timestamp.T) *T {

	return New(pubkey, ki, tags.T{{"d", d}}, content, at)
}

// RandomPubKey produces a random 32 byte hexadecimal author id for fixtures.
func RandomPubKey() string {
	return hex.EncodeToString(frand.Bytes(32))
}
