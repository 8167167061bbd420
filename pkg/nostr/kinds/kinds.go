package kinds

import (
	"github.com/nostrtools/simulatr/pkg/nostr/kind"
	"golang.org/x/exp/slices"
)

// T is a list of kind.T, as found in the kinds field of a filter.
type T []kind.T

func FromIntSlice(is []int) (k T) {
	for i := range is {
		k = append(k, kind.T(is[i]))
	}
	return
}

func (ar T) ToInts() (is []int) {
	for i := range ar {
		is = append(is, ar[i].ToInt())
	}
	return
}

func (ar T) Clone() (c T) {
	if ar == nil {
		return
	}
	c = make(T, len(ar))
	copy(c, ar)
	return
}

func (ar T) Contains(s kind.T) bool {
	return slices.Contains(ar, s)
}

func (ar T) Equals(t1 T) bool {
	return slices.Equal(ar, t1)
}
