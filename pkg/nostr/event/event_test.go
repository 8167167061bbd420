package event

import (
	"sort"
	"testing"

	"github.com/nostrtools/simulatr/pkg/nostr/kind"
	"github.com/nostrtools/simulatr/pkg/nostr/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIDIsDeterministic(t *testing.T) {
	pk := RandomPubKey()
	a := New(pk, kind.TextNote, tags.T{{"e", "abc"}}, "hello", 1000)
	b := New(pk, kind.TextNote, tags.T{{"e", "abc"}}, "hello", 1000)
	assert.Equal(t, a.ID, b.ID)
	assert.True(t, a.CheckID())
	assert.Len(t, a.ID.String(), 64)
}

func TestGetIDVariesWithEveryField(t *testing.T) {
	pk := RandomPubKey()
	base := New(pk, kind.TextNote, tags.T{{"e", "abc"}}, "hello", 1000)
	variants := []*T{
		New(RandomPubKey(), kind.TextNote, tags.T{{"e", "abc"}}, "hello", 1000),
		New(pk, kind.Reaction, tags.T{{"e", "abc"}}, "hello", 1000),
		New(pk, kind.TextNote, tags.T{{"e", "def"}}, "hello", 1000),
		New(pk, kind.TextNote, tags.T{{"e", "abc"}}, "bye", 1000),
		New(pk, kind.TextNote, tags.T{{"e", "abc"}}, "hello", 1001),
	}
	for _, v := range variants {
		assert.NotEqual(t, base.ID, v.ID)
	}
}

func TestNilTagsCanonicalizeAsEmptyList(t *testing.T) {
	pk := RandomPubKey()
	a := New(pk, kind.TextNote, nil, "x", 1)
	b := New(pk, kind.TextNote, tags.T{}, "x", 1)
	assert.Equal(t, a.ID, b.ID)
}

func TestValidate(t *testing.T) {
	ok := TextNote(RandomPubKey(), "x", 1)
	require.NoError(t, ok.Validate())

	var nilEv *T
	assert.Error(t, nilEv.Validate())

	noID := &T{PubKey: RandomPubKey()}
	assert.Error(t, noID.Validate())

	badID := &T{ID: "not-hex", PubKey: RandomPubKey()}
	assert.Error(t, badID.Validate())

	noPub := &T{ID: ok.ID}
	assert.Error(t, noPub.Validate())

	// synthetic events with a well-formed but non-canonical id pass; the
	// engine treats the id as the identity, not as proof of content
	forged := TextNote(RandomPubKey(), "x", 1)
	forged.Content = "tampered"
	require.NoError(t, forged.Validate())
	assert.False(t, forged.CheckID())
}

func TestDTag(t *testing.T) {
	pk := RandomPubKey()
	assert.Equal(t, "home",
		Parameterized(pk, kind.CategorizedBookmarksList, "home", "", 1).DTag())
	assert.Equal(t, "",
		New(pk, kind.CategorizedBookmarksList, nil, "", 1).DTag())
	// first d tag wins when several are present
	multi := New(pk, kind.CategorizedBookmarksList,
		tags.T{{"d", "one"}, {"d", "two"}}, "", 1)
	assert.Equal(t, "one", multi.DTag())
}

func TestDescendingSort(t *testing.T) {
	evs := Descending{
		TextNote(RandomPubKey(), "a", 100),
		TextNote(RandomPubKey(), "b", 300),
		TextNote(RandomPubKey(), "c", 200),
	}
	sort.Sort(evs)
	assert.Equal(t, "b", evs[0].Content)
	assert.Equal(t, "c", evs[1].Content)
	assert.Equal(t, "a", evs[2].Content)
}
