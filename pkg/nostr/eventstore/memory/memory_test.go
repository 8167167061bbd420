package memory

import (
	"testing"

	"github.com/nostrtools/simulatr/pkg/nostr/context"
	"github.com/nostrtools/simulatr/pkg/nostr/event"
	"github.com/nostrtools/simulatr/pkg/nostr/eventstore"
	"github.com/nostrtools/simulatr/pkg/nostr/filter"
	"github.com/nostrtools/simulatr/pkg/nostr/kind"
	"github.com/nostrtools/simulatr/pkg/nostr/kinds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveEventIdempotence(t *testing.T) {
	b := New()
	c := context.Bg()
	ev := event.TextNote(event.RandomPubKey(), "hello", 100)
	require.NoError(t, b.SaveEvent(c, ev))
	assert.ErrorIs(t, b.SaveEvent(c, ev), eventstore.ErrDupEvent)
	assert.Equal(t, 1, b.Len())
}

func TestReplaceableSupersession(t *testing.T) {
	b := New()
	c := context.Bg()
	pk := event.RandomPubKey()
	older := event.Metadata(pk, "old profile", 100)
	newer := event.Metadata(pk, "new profile", 200)

	require.NoError(t, b.SaveEvent(c, older))
	require.NoError(t, b.SaveEvent(c, newer))

	evs, err := b.QueryEvents(c, nil)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, newer.ID, evs[0].ID)
}

func TestReplaceableStaleArrival(t *testing.T) {
	b := New()
	c := context.Bg()
	pk := event.RandomPubKey()
	older := event.Metadata(pk, "old profile", 100)
	newer := event.Metadata(pk, "new profile", 200)

	// newer lands first, then the stale one must bounce off the slot
	require.NoError(t, b.SaveEvent(c, newer))
	assert.ErrorIs(t, b.SaveEvent(c, older), eventstore.ErrStale)

	evs, err := b.QueryEvents(c, nil)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, newer.ID, evs[0].ID)
}

func TestReplaceableEqualTimestampArrivalWins(t *testing.T) {
	b := New()
	c := context.Bg()
	pk := event.RandomPubKey()
	first := event.Metadata(pk, "first", 100)
	second := event.Metadata(pk, "second", 100)

	require.NoError(t, b.SaveEvent(c, first))
	require.NoError(t, b.SaveEvent(c, second))

	evs, err := b.QueryEvents(c, nil)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, second.ID, evs[0].ID)
}

func TestReplaceableSlotsAreIsolatedByAuthor(t *testing.T) {
	b := New()
	c := context.Bg()
	alice := event.Metadata(event.RandomPubKey(), "alice", 100)
	bob := event.Metadata(event.RandomPubKey(), "bob", 200)

	require.NoError(t, b.SaveEvent(c, alice))
	require.NoError(t, b.SaveEvent(c, bob))
	assert.Equal(t, 2, b.Len())
}

func TestParameterizedReplaceableKeyedOnDTag(t *testing.T) {
	b := New()
	c := context.Bg()
	pk := event.RandomPubKey()
	home := event.Parameterized(pk, kind.CategorizedBookmarksList, "home",
		"v1", 100)
	work := event.Parameterized(pk, kind.CategorizedBookmarksList, "work",
		"v1", 100)
	home2 := event.Parameterized(pk, kind.CategorizedBookmarksList, "home",
		"v2", 200)

	require.NoError(t, b.SaveEvent(c, home))
	require.NoError(t, b.SaveEvent(c, work))
	require.NoError(t, b.SaveEvent(c, home2))

	evs, err := b.QueryEvents(c, nil)
	require.NoError(t, err)
	require.Len(t, evs, 2)
	for _, ev := range evs {
		assert.NotEqual(t, home.ID, ev.ID)
	}
}

func TestParameterizedMissingDTagIsEmptyDiscriminator(t *testing.T) {
	b := New()
	c := context.Bg()
	pk := event.RandomPubKey()
	// no d tag at all and an explicit empty one share the slot
	bare := event.New(pk, kind.CategorizedPeopleList, nil, "bare", 100)
	empty := event.Parameterized(pk, kind.CategorizedPeopleList, "",
		"empty", 200)

	require.NoError(t, b.SaveEvent(c, bare))
	require.NoError(t, b.SaveEvent(c, empty))
	assert.Equal(t, 1, b.Len())
}

func TestRegularKindsNeverSupersede(t *testing.T) {
	b := New()
	c := context.Bg()
	pk := event.RandomPubKey()
	require.NoError(t, b.SaveEvent(c, event.TextNote(pk, "one", 100)))
	require.NoError(t, b.SaveEvent(c, event.TextNote(pk, "two", 200)))
	require.NoError(t, b.SaveEvent(c, event.TextNote(pk, "three", 300)))
	assert.Equal(t, 3, b.Len())
}

func TestDeleteEventFreesSlot(t *testing.T) {
	b := New()
	c := context.Bg()
	pk := event.RandomPubKey()
	newer := event.Metadata(pk, "new", 200)
	older := event.Metadata(pk, "old", 100)

	require.NoError(t, b.SaveEvent(c, newer))
	require.NoError(t, b.DeleteEvent(c, newer.ID))
	assert.Equal(t, 0, b.Len())

	// slot is free again, so the previously stale event is storable
	require.NoError(t, b.SaveEvent(c, older))
	assert.Equal(t, 1, b.Len())
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	b := New()
	c := context.Bg()
	ev := event.TextNote(event.RandomPubKey(), "x", 100)
	require.NoError(t, b.SaveEvent(c, ev))
	require.NoError(t, b.DeleteEvent(c, "deadbeef"))
	assert.Equal(t, 1, b.Len())
}

func TestQueryAndCountHonorFilters(t *testing.T) {
	b := New()
	c := context.Bg()
	pk := event.RandomPubKey()
	require.NoError(t, b.SaveEvent(c, event.TextNote(pk, "note", 100)))
	require.NoError(t, b.SaveEvent(c,
		event.Metadata(event.RandomPubKey(), "profile", 100)))

	f := &filter.T{Kinds: kinds.T{kind.TextNote}}
	evs, err := b.QueryEvents(c, f)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "note", evs[0].Content)

	n, err := b.CountEvents(c, f)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWipe(t *testing.T) {
	b := New()
	c := context.Bg()
	pk := event.RandomPubKey()
	require.NoError(t, b.SaveEvent(c, event.Metadata(pk, "v1", 100)))
	require.NoError(t, b.Wipe())
	assert.Equal(t, 0, b.Len())

	// no stale bookkeeping survives the wipe
	require.NoError(t, b.SaveEvent(c, event.Metadata(pk, "v0", 50)))
	assert.Equal(t, 1, b.Len())
}
