package pick

import "strings"

// Identity is the natural key used to decide whether an incoming pick
// corresponds to an already-stored one. It is a heuristic: two distinct
// real-world picks that collide on all four fields will incorrectly
// match. That fragility is documented behavior, not something the
// reconciler papers over.
type Identity struct {
	Date       string
	LegCount   int
	FirstEvent string
	Source     string
}

// Matcher computes the identity of a pick from its reconciliation
// fields. It is a pluggable strategy so a stronger key (say, a hash of
// every leg) can replace the default without touching reconciliation.
type Matcher func(date string, legs []Leg, source string) Identity

// DefaultIdentity keys on (date, leg count, first event text, source).
// The event text is whitespace-collapsed and lowercased before
// comparison.
func DefaultIdentity(date string, legs []Leg, source string) Identity {
	first := ""
	if len(legs) > 0 {
		first = NormalizeEvent(legs[0].Event)
	}
	return Identity{
		Date:       date,
		LegCount:   len(legs),
		FirstEvent: first,
		Source:     source,
	}
}

// NormalizeEvent collapses runs of whitespace, trims, and lowercases an
// event name so cosmetic page differences don't defeat matching.
func NormalizeEvent(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
