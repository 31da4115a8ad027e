// Package validate turns raw scraped picks into validated ones: it
// normalizes dates, drops malformed records, and applies the caller's
// time window. The stage is pure apart from logging on rejects.
package validate

import (
	"strings"
	"time"

	"github.com/pickscope/pickscope/pkg/pick"
	"github.com/pickscope/pickscope/pkg/runlog"
)

// Duration selects the time window applied after structural validation.
type Duration string

const (
	// Yesterday is historical naming: the window is actually the
	// trailing 7 calendar days including today, wide enough to catch
	// late-settling results.
	Yesterday Duration = "YESTERDAY"
	Week      Duration = "WEEK"
	Month     Duration = "MONTH"
	All       Duration = "ALL"
)

// ParseDuration maps a --duration flag value onto a window. Anything
// unrecognized behaves as ALL.
func ParseDuration(s string) Duration {
	switch Duration(strings.ToUpper(strings.TrimSpace(s))) {
	case Yesterday:
		return Yesterday
	case Week:
		return Week
	case Month:
		return Month
	default:
		return All
	}
}

const isoDate = "2006-01-02"

// NormalizeDate rearranges a day-first DD.MM.YY or DD.MM.YYYY page date
// into YYYY-MM-DD. Two-digit years are expanded with a 20 prefix. Returns
// false when the value does not split into exactly three parts.
func NormalizeDate(s string) (string, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return "", false
	}
	year := parts[2]
	if len(year) == 2 {
		year = "20" + year
	}
	return year + "-" + parts[1] + "-" + parts[0], true
}

// InWindow reports whether a normalized date passes the window relative
// to now. Comparisons are on the ISO strings, which order
// chronologically.
func InWindow(fdate string, d Duration, now time.Time) bool {
	switch d {
	case Yesterday:
		for i := 0; i < 7; i++ {
			if fdate == now.AddDate(0, 0, -i).Format(isoDate) {
				return true
			}
		}
		return false
	case Week:
		return fdate >= mondayOf(now).Format(isoDate)
	case Month:
		return fdate >= now.Format("2006-01")+"-01"
	default:
		return true
	}
}

// mondayOf returns the Monday of t's ISO week.
func mondayOf(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return t.AddDate(0, 0, 1-wd)
}

// Batch validates one plan's raw picks and tags the survivors with the
// plan name. Records missing a date, legs, or odds are dropped with a
// WARN line; records whose date doesn't split cleanly are dropped
// silently.
func Batch(raws []pick.Raw, planName string, d Duration, now time.Time, log *runlog.Logger) []pick.Validated {
	out := make([]pick.Validated, 0, len(raws))
	for _, r := range raws {
		if r.Date == "" || len(r.Matches) == 0 || r.Odds == "" {
			log.Warnf("Incomplete pick on %s at position %d, skipping", planName, r.OriginalIndex)
			continue
		}
		fdate, ok := NormalizeDate(r.Date)
		if !ok {
			continue
		}
		if !InWindow(fdate, d, now) {
			continue
		}
		out = append(out, pick.Validated{Raw: r, FDate: fdate, Source: planName})
	}
	return out
}
