package pick

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ResultPending is the settlement state of a pick whose underlying
// events have not concluded yet.
const ResultPending = "PENDING"

// Leg is a single (event, bet) pair within a pick. A SINGLE pick has
// exactly one leg, a COMBO has several.
type Leg struct {
	Event string `json:"event"`
	Bet   string `json:"bet"`
}

// Raw is one listing-page entry as extracted from the rendered DOM,
// before any validation. All fields are free text from page widgets.
type Raw struct {
	Date          string // DD.MM.YY or DD.MM.YYYY
	Type          string // SINGLE or COMBO
	Matches       []Leg
	Odds          string
	Unit          string
	Rate          string
	Result        string
	OriginalIndex int // position on page, diagnostics only
}

// Validated is a Raw that survived structural checks and the caller's
// time window.
type Validated struct {
	Raw
	FDate  string // normalized YYYY-MM-DD
	Source string // plan name
}

// Stored is the reconciled, durable form of a pick.
type Stored struct {
	ID       string   `json:"id"`
	Date     string   `json:"date"`
	Type     string   `json:"type"`
	Matches  []Leg    `json:"matches"`
	Odds     float64  `json:"odds"`
	Result   string   `json:"result"`
	Source   string   `json:"source"`
	TS       int64    `json:"ts"` // insertion timestamp, epoch ms
	Metadata Metadata `json:"metadata"`
}

// Metadata carries the page widgets that are stored verbatim and never
// interpreted by the pipeline.
type Metadata struct {
	Unit string `json:"unit"`
	Rate string `json:"rate"`
}

// NewID returns an opaque identifier for a newly inserted pick. It is
// generated once at insert time and never recomputed.
func NewID() string {
	return uuid.NewString()
}

// ParseOdds coerces a free-text odds widget into a number. The longest
// leading numeric prefix wins; anything unparsable is 0.
func ParseOdds(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDot := false
scan:
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			end = i + 1
		case c == '.' && !seenDot:
			seenDot = true
		case (c == '+' || c == '-') && i == 0:
		default:
			break scan
		}
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}
