package store

import (
	"strings"
	"time"

	"github.com/pickscope/pickscope/pkg/pick"
	"github.com/pickscope/pickscope/pkg/runlog"
)

// Stats counts what a reconcile pass did with its batch.
type Stats struct {
	Added   int
	Updated int
	Skipped int
}

// Reconciler merges validated picks into a store. Identity, clock, and
// id generation are injectable so the upsert logic tests without wall
// clocks or randomness.
type Reconciler struct {
	Match pick.Matcher
	Now   func() time.Time
	NewID func() string
	Log   *runlog.Logger
}

// NewReconciler builds a reconciler with the default identity strategy.
func NewReconciler(log *runlog.Logger) *Reconciler {
	return &Reconciler{
		Match: pick.DefaultIdentity,
		Now:   time.Now,
		NewID: pick.NewID,
		Log:   log,
	}
}

// Apply upserts each validated pick into s:
//
//   - no stored pick shares the identity: insert with a fresh id and
//     timestamp, result uppercased, odds coerced to a number
//   - identity match and the stored result is still PENDING while the
//     incoming one is settled: update the result field in place, nothing
//     else — not odds, not legs, not metadata
//   - anything else (already settled, or the re-scrape is still
//     PENDING): skip
//
// The caller persists only when Added+Updated > 0.
func (r *Reconciler) Apply(s *Store, batch []pick.Validated) Stats {
	var st Stats
	for _, np := range batch {
		key := r.Match(np.FDate, np.Matches, np.Source)

		idx := -1
		for i := range s.Picks {
			if r.Match(s.Picks[i].Date, s.Picks[i].Matches, s.Picks[i].Source) == key {
				idx = i
				break
			}
		}

		if idx == -1 {
			s.Picks = append(s.Picks, pick.Stored{
				ID:       r.NewID(),
				Date:     np.FDate,
				Type:     np.Type,
				Matches:  np.Matches,
				Odds:     pick.ParseOdds(np.Odds),
				Result:   strings.ToUpper(np.Result),
				Source:   np.Source,
				TS:       r.Now().UnixMilli(),
				Metadata: pick.Metadata{Unit: np.Unit, Rate: np.Rate},
			})
			st.Added++
			continue
		}

		existing := &s.Picks[idx]
		newResult := strings.ToUpper(np.Result)
		if existing.Result == pick.ResultPending && newResult != pick.ResultPending {
			existing.Result = newResult
			r.Log.Updatef("Result updated: %s -> %s", key.FirstEvent, newResult)
			st.Updated++
		} else {
			st.Skipped++
		}
	}
	return st
}
