package filters

import (
	"encoding/json"

	"github.com/nostrtools/simulatr/pkg/nostr/event"
	"github.com/nostrtools/simulatr/pkg/nostr/filter"
)

// T is the ordered list of filters attached to one subscription or query.
type T []*filter.T

func (eff T) String() string {
	j, _ := json.Marshal(eff)
	return string(j)
}

// Match reports whether any filter in the list matches the event. An empty
// list matches nothing; this is a deliberate convention, a subscription with
// no filters receives no events.
func (eff T) Match(ev *event.T) bool {
	for _, f := range eff {
		if f.Matches(ev) {
			return true
		}
	}
	return false
}

// MaxLimit returns the largest limit declared across the list, and false when
// none declares one (meaning unbounded).
func (eff T) MaxLimit() (limit int, bounded bool) {
	for _, f := range eff {
		if f.Limit > 0 {
			bounded = true
			if f.Limit > limit {
				limit = f.Limit
			}
		}
	}
	return
}

func (eff T) Clone() (c T) {
	if eff == nil {
		return
	}
	c = make(T, len(eff))
	for i := range eff {
		c[i] = eff[i].Clone()
	}
	return
}
