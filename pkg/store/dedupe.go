package store

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pickscope/pickscope/pkg/pick"
)

// Dedupe collapses picks sharing the full-legs key: date, uppercased
// source, the sorted "event-bet" list of every leg, and odds rounded to
// two decimals. This key is stronger than the reconciler's first-leg
// heuristic, which is exactly the kind of collision it cleans up after.
// When two copies collide, a settled one beats a PENDING one. Returns
// the number of picks removed; the survivors end up sorted.
func (s *Store) Dedupe() int {
	seen := make(map[string]int, len(s.Picks))
	kept := make([]pick.Stored, 0, len(s.Picks))

	for _, p := range s.Picks {
		k := fullKey(p)
		if i, ok := seen[k]; ok {
			if kept[i].Result == pick.ResultPending && p.Result != pick.ResultPending {
				kept[i] = p
			}
			continue
		}
		seen[k] = len(kept)
		kept = append(kept, p)
	}

	removed := len(s.Picks) - len(kept)
	s.Picks = kept
	s.Sort()
	return removed
}

func fullKey(p pick.Stored) string {
	legs := make([]string, 0, len(p.Matches))
	for _, m := range p.Matches {
		legs = append(legs, strings.ToLower(strings.TrimSpace(m.Event))+"-"+strings.ToLower(strings.TrimSpace(m.Bet)))
	}
	sort.Strings(legs)

	source := p.Source
	if source == "" {
		source = "ALL"
	}

	return p.Date + "-" + strings.ToUpper(source) + "-" + strings.Join(legs, "|") + "-" + strconv.FormatFloat(p.Odds, 'f', 2, 64)
}
