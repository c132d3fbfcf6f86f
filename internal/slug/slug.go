// Package slug derives URL-safe identifiers from display names.
package slug

import "strings"

// Make lowercases the name, collapses every run of non-alphanumeric
// characters into a single hyphen and strips leading/trailing hyphens.
// "L.A. Woman" becomes "l-a-woman". The derivation is deterministic;
// collisions are left to the store's unique constraints.
func Make(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(name))
	pendingHyphen := false
	for _, r := range name {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
