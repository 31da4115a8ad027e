package fetch

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pickscope/pickscope/pkg/pick"
)

// PageParser extracts raw picks from one rendered listing page. The
// fetcher depends on this abstraction so adding a source site means
// adding a parser, not touching navigation or reconciliation.
type PageParser interface {
	Parse(html string) ([]pick.Raw, error)
}

// TipsterParser parses the tipster archive pages. Exact class names vary
// between site builds, so tip containers are matched on a class-name
// substring.
type TipsterParser struct{}

var betPrefix = regexp.MustCompile(`(?i)^Bet:\s*`)

// resultSelectors in priority order: outcome classes first, then the
// generic last-child fallback. "losser" is how the site spells it.
var resultSelectors = []string{".winner", ".losser", ".draw", ".mixedw", ".void", ".tipResult div:last-child"}

func (TipsterParser) Parse(html string) ([]pick.Raw, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var picks []pick.Raw
	doc.Find(`[class*="tipsContainer"]`).Each(func(i int, c *goquery.Selection) {
		typ := nodeText(c.Find(".singleDoubleDisplay").First())
		if typ == "" {
			typ = "SINGLE"
		}

		// Events and bets are independent node lists zipped by index: the
		// bet at index j is assumed to belong to the event at index j. If
		// the page ever omits one bet label, later legs shift.
		bets := c.Find(".predictionType")
		var legs []pick.Leg
		c.Find(".prediction").Each(func(j int, ev *goquery.Selection) {
			eventText := nodeText(ev)
			if eventText == "" {
				return
			}
			betText := ""
			if j < bets.Length() {
				betText = betPrefix.ReplaceAllString(nodeText(bets.Eq(j)), "")
			}
			legs = append(legs, pick.Leg{Event: eventText, Bet: betText})
		})

		result := pick.ResultPending
		for _, sel := range resultSelectors {
			if el := c.Find(sel).First(); el.Length() > 0 {
				result = nodeText(el)
				break
			}
		}

		picks = append(picks, pick.Raw{
			Date:          nodeText(c.Find(".dateDisplay").First()),
			Type:          typ,
			Matches:       legs,
			Odds:          nodeText(c.Find(".oddsDisplay").First()),
			Unit:          nodeText(c.Find(".unitDisplay").First()),
			Rate:          nodeText(c.Find(".chanceDisplay").First()),
			Result:        result,
			OriginalIndex: i,
		})
	})
	return picks, nil
}

// nodeText renders a selection the way a browser's innerText roughly
// would: text content with whitespace runs collapsed to single spaces.
func nodeText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
