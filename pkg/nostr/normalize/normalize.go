// Package normalize has helpers for the machine-readable prefixes the
// protocol requires on OK and CLOSED reason strings.
package normalize

import (
	"fmt"
	"strings"
)

var prefixes = []string{
	"duplicate",
	"pow",
	"blocked",
	"rate-limited",
	"invalid",
	"error",
}

// Reason takes a message and a prefix and ensures the result carries exactly
// one machine-readable prefix, so "msg" becomes "prefix: msg" but a message
// already carrying a known prefix is left alone.
func Reason(reason, prefix string) string {
	if idx := strings.Index(reason, ": "); idx > 0 {
		for _, p := range prefixes {
			if reason[:idx] == p {
				return reason
			}
		}
	}
	return fmt.Sprintf("%s: %s", prefix, reason)
}
