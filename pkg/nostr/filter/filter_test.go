package filter

import (
	"encoding/json"
	"testing"

	"github.com/nostrtools/simulatr/pkg/nostr/event"
	"github.com/nostrtools/simulatr/pkg/nostr/kind"
	"github.com/nostrtools/simulatr/pkg/nostr/kinds"
	"github.com/nostrtools/simulatr/pkg/nostr/tag"
	"github.com/nostrtools/simulatr/pkg/nostr/tags"
	"github.com/nostrtools/simulatr/pkg/nostr/timestamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyFilterMatchesEverything(t *testing.T) {
	f := &T{}
	assert.True(t, f.Matches(event.TextNote(event.RandomPubKey(), "x", 100)))
	assert.False(t, f.Matches(nil))
}

func TestMatchesByField(t *testing.T) {
	pk := event.RandomPubKey()
	ev := event.New(pk, kind.TextNote,
		tags.T{{"e", "abc"}, {"p", pk}}, "hi", 500)

	tests := []struct {
		name  string
		f     *T
		match bool
	}{
		{"id listed", &T{IDs: tag.T{ev.ID.String()}}, true},
		{"id not listed", &T{IDs: tag.T{"other"}}, false},
		{"kind listed", &T{Kinds: kinds.T{kind.TextNote}}, true},
		{"kind not listed", &T{Kinds: kinds.T{kind.Reaction}}, false},
		{"author listed", &T{Authors: tag.T{pk}}, true},
		{"author not listed",
			&T{Authors: tag.T{event.RandomPubKey()}}, false},
		{"since inclusive", &T{Since: timestamp.T(500).Ptr()}, true},
		{"since excludes older", &T{Since: timestamp.T(501).Ptr()}, false},
		{"until inclusive", &T{Until: timestamp.T(500).Ptr()}, true},
		{"until excludes newer", &T{Until: timestamp.T(499).Ptr()}, false},
		{"tag value present",
			&T{Tags: TagMap{"e": tag.T{"abc", "zzz"}}}, true},
		{"tag value absent",
			&T{Tags: TagMap{"e": tag.T{"zzz"}}}, false},
		{"tag name absent on event",
			&T{Tags: TagMap{"t": tag.T{"abc"}}}, false},
		// distinct tag names AND together, values within one name OR
		{"two tag names both satisfied",
			&T{Tags: TagMap{"e": tag.T{"abc"}, "p": tag.T{pk}}}, true},
		{"two tag names one unsatisfied",
			&T{Tags: TagMap{"e": tag.T{"abc"}, "p": tag.T{"nope"}}}, false},
		{"all fields together", &T{
			Kinds:   kinds.T{kind.TextNote},
			Authors: tag.T{pk},
			Since:   timestamp.T(400).Ptr(),
			Until:   timestamp.T(600).Ptr(),
			Tags:    TagMap{"e": tag.T{"abc"}},
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, tt.f.Matches(ev))
		})
	}
}

func TestEmptyValueSetMatchesNothing(t *testing.T) {
	// an empty (non-nil) set is an OR over zero alternatives
	ev := event.TextNote(event.RandomPubKey(), "x", 100)
	assert.False(t, (&T{Kinds: kinds.T{}}).Matches(ev))
	assert.False(t, (&T{Authors: tag.T{}}).Matches(ev))
	assert.False(t, (&T{IDs: tag.T{}}).Matches(ev))
}

func TestEqual(t *testing.T) {
	a := &T{
		Kinds:   kinds.T{kind.TextNote},
		Authors: tag.T{"aa"},
		Tags:    TagMap{"e": tag.T{"x"}},
		Since:   timestamp.T(5).Ptr(),
		Limit:   10,
	}
	assert.True(t, Equal(a, a.Clone()))
	b := a.Clone()
	b.Limit = 11
	assert.False(t, Equal(a, b))
	c := a.Clone()
	c.Tags["e"] = tag.T{"y"}
	assert.False(t, Equal(a, c))
	d := a.Clone()
	d.Since = nil
	assert.False(t, Equal(a, d))
}

func TestCloneIsIndependent(t *testing.T) {
	orig := &T{Authors: tag.T{"aa"}, Tags: TagMap{"e": tag.T{"x"}}}
	cp := orig.Clone()
	cp.Authors[0] = "bb"
	cp.Tags["e"][0] = "y"
	assert.Equal(t, "aa", orig.Authors[0])
	assert.Equal(t, "x", orig.Tags["e"][0])

	// nil fields stay nil; they mean unconstrained, not empty
	empty := (&T{}).Clone()
	assert.Nil(t, empty.Kinds)
	assert.Nil(t, empty.Authors)
	assert.Nil(t, empty.Tags)
}

func TestJSONTagKeysPromoted(t *testing.T) {
	f := &T{
		Kinds: kinds.T{kind.TextNote},
		Tags:  TagMap{"e": tag.T{"abc"}, "p": tag.T{"def"}},
		Limit: 3,
	}
	j, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"kinds":[1],"#e":["abc"],"#p":["def"],"limit":3}`, string(j))

	var back T
	require.NoError(t, json.Unmarshal(j, &back))
	assert.True(t, Equal(f, &back))
}

func TestJSONRoundTripAllFields(t *testing.T) {
	f := &T{
		IDs:     tag.T{"0011"},
		Kinds:   kinds.T{kind.ProfileMetadata, kind.TextNote},
		Authors: tag.T{"aabb"},
		Tags:    TagMap{"d": tag.T{"home"}},
		Since:   timestamp.T(100).Ptr(),
		Until:   timestamp.T(200).Ptr(),
		Limit:   7,
	}
	j, err := json.Marshal(f)
	require.NoError(t, err)
	var back T
	require.NoError(t, json.Unmarshal(j, &back))
	assert.True(t, Equal(f, &back))
}
