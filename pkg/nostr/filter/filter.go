// Package filter implements the predicate language shared by one-shot
// queries and standing subscriptions. All fields present on a filter are
// ANDed; within the value set of one field it is an OR.
package filter

import (
	"encoding/json"

	"github.com/nostrtools/simulatr/pkg/nostr/event"
	"github.com/nostrtools/simulatr/pkg/nostr/kinds"
	"github.com/nostrtools/simulatr/pkg/nostr/tag"
	"github.com/nostrtools/simulatr/pkg/nostr/timestamp"
	"golang.org/x/exp/slices"
)

// T is a query where one or all elements can be filled in.
//
// The wire form is entirely hand-rolled in json.go, no stdlib struct tags:
// the protocol requires the tag map unwrapped into the enclosing object,
// each key prefixed with '#', which encoding/json cannot do by itself.
type T struct {
	IDs     tag.T
	Kinds   kinds.T
	Authors tag.T
	Tags    TagMap
	Since   *timestamp.Tp
	Until   *timestamp.Tp
	Limit   int
}

// TagMap is the set of tag-name constrained value sets, keyed by bare tag
// name (no '#' prefix).
type TagMap map[string]tag.T

func (t TagMap) Clone() (t1 TagMap) {
	if t == nil {
		return
	}
	t1 = make(TagMap)
	for i := range t {
		t1[i] = t[i].Clone()
	}
	return
}

func (f *T) String() string {
	j, _ := json.Marshal(f)
	return string(j)
}

// Matches reports whether the event satisfies every constraint present on
// the filter. An absent field is vacuously satisfied.
func (f *T) Matches(ev *event.T) bool {
	if ev == nil {
		return false
	}
	if f.IDs != nil && !f.IDs.Contains(ev.ID.String()) {
		return false
	}
	if f.Kinds != nil && !f.Kinds.Contains(ev.Kind) {
		return false
	}
	if f.Authors != nil && !f.Authors.Contains(ev.PubKey) {
		return false
	}
	for name, v := range f.Tags {
		if v != nil && !ev.Tags.ContainsAny(name, v...) {
			return false
		}
	}
	if f.Since != nil && ev.CreatedAt < f.Since.T() {
		return false
	}
	if f.Until != nil && ev.CreatedAt > f.Until.T() {
		return false
	}
	return true
}

func arePointerValuesEqual[V comparable](a *V, b *V) bool {
	if a == nil && b == nil {
		return true
	}
	if a != nil && b != nil {
		return *a == *b
	}
	return false
}

func Equal(a, b *T) bool {
	// switch is a convenient way to bundle a long list of tests like this:
	switch {
	case !a.Kinds.Equals(b.Kinds),
		!a.IDs.Equals(b.IDs),
		!a.Authors.Equals(b.Authors),
		len(a.Tags) != len(b.Tags),
		!arePointerValuesEqual(a.Since, b.Since),
		!arePointerValuesEqual(a.Until, b.Until),
		a.Limit != b.Limit:

		return false
	}
	for name, av := range a.Tags {
		if bv, ok := b.Tags[name]; !ok {
			return false
		} else if !av.Equals(bv) {
			return false
		}
	}
	return true
}

func (f *T) Clone() (clone *T) {
	clone = &T{
		IDs:     f.IDs.Clone(),
		Authors: f.Authors.Clone(),
		Kinds:   f.Kinds.Clone(),
		Limit:   f.Limit,
		Tags:    f.Tags.Clone(),
		Since:   f.Since.Clone(),
		Until:   f.Until.Clone(),
	}
	return
}

// Sorted keys make the marshaled form deterministic despite map iteration.
func (f *T) sortedTagNames() (names []string) {
	for name := range f.Tags {
		names = append(names, name)
	}
	slices.Sort(names)
	return
}
