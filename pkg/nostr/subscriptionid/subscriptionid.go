package subscriptionid

import "errors"

// T is an arbitrary string of 1-64 characters in length generated as a
// request or session identifier.
type T string

func (si T) String() string { return string(si) }

// IsValid returns true if the subscription id is between 1 and 64 characters
// in length.
func (si T) IsValid() bool { return len(si) >= 1 && len(si) <= 64 }

// New inspects a string and converts it to T if it is valid.
func New(s string) (T, error) {
	si := T(s)
	if !si.IsValid() {
		return "", errors.New("invalid subscription ID, must be between 1 and 64 characters")
	}
	return si, nil
}
