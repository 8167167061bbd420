package tag

import (
	"strings"

	"golang.org/x/exp/slices"
)

// The tag position meanings so they are clear when reading.
const (
	Key = iota
	Value
)

// T is a list of strings with a literal ordering. Not a set, there can be
// repeating elements.
type T []string

// StartsWith checks a tag has the same initial set of elements.
//
// The last element is treated specially in that it is considered to match if
// the candidate has the same initial substring as its corresponding element.
func (t T) StartsWith(prefix []string) bool {
	prefixLen := len(prefix)
	if prefixLen > len(t) {
		return false
	}
	// check initial elements for equality
	for i := 0; i < prefixLen-1; i++ {
		if prefix[i] != t[i] {
			return false
		}
	}
	// check last element just for a prefix
	return strings.HasPrefix(t[prefixLen-1], prefix[prefixLen-1])
}

// Key returns the first element of the tag.
func (t T) Key() string {
	if len(t) > Key {
		return t[Key]
	}
	return ""
}

// Value returns the second element of the tag.
func (t T) Value() string {
	if len(t) > Value {
		return t[Value]
	}
	return ""
}

// Contains reports whether s appears among the tag elements.
func (t T) Contains(s string) bool {
	return slices.Contains(t, s)
}

func (t T) Equals(t1 T) bool {
	return slices.Equal(t, t1)
}

// Clone preserves nil-ness, since a nil field on a filter means
// unconstrained while an empty one means matches-nothing.
func (t T) Clone() (c T) {
	if t == nil {
		return
	}
	c = make(T, len(t))
	copy(c, t)
	return
}
