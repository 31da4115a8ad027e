package fetch

import (
	"testing"

	"github.com/pickscope/pickscope/pkg/pick"
)

const fixturePage = `<html><body>
<div class="archive">
  <div class="tipsContainer_elite_x91">
    <span class="dateDisplay">15.03.24</span>
    <span class="singleDoubleDisplay">SINGLE</span>
    <div class="prediction">Real Madrid - Barcelona</div>
    <div class="predictionType">Bet: Over 2.5</div>
    <span class="oddsDisplay">1.85</span>
    <span class="unitDisplay">2</span>
    <span class="chanceDisplay">78%</span>
    <div class="tipResult"><div class="winner">Win</div></div>
  </div>
  <div class="tipsContainer">
    <span class="dateDisplay">16.03.24</span>
    <span class="singleDoubleDisplay">COMBO</span>
    <div class="prediction">Arsenal - Chelsea</div>
    <div class="prediction">Liverpool - Everton</div>
    <div class="predictionType">1X</div>
    <div class="predictionType">Bet: BTTS</div>
    <span class="oddsDisplay">3.40</span>
    <div class="tipResult"><div>scheduled</div><div class="losser">Loss</div></div>
  </div>
  <div class="tipsContainer">
    <span class="dateDisplay">17.03.24</span>
    <div class="prediction">Milan - Inter</div>
    <span class="oddsDisplay">2.05</span>
  </div>
  <div class="sidebarWidget">
    <div class="prediction">not a tip, wrong container</div>
  </div>
</div>
</body></html>`

func TestParseExtractsContainers(t *testing.T) {
	picks, err := TipsterParser{}.Parse(fixturePage)
	if err != nil {
		t.Fatal(err)
	}
	if len(picks) != 3 {
		t.Fatalf("expected 3 picks, got %d", len(picks))
	}
}

func TestParseSinglePick(t *testing.T) {
	picks, err := TipsterParser{}.Parse(fixturePage)
	if err != nil {
		t.Fatal(err)
	}

	p := picks[0]
	if p.Date != "15.03.24" || p.Type != "SINGLE" || p.Odds != "1.85" || p.Unit != "2" || p.Rate != "78%" {
		t.Fatalf("unexpected fields: %+v", p)
	}
	if len(p.Matches) != 1 {
		t.Fatalf("expected 1 leg, got %d", len(p.Matches))
	}
	if p.Matches[0] != (pick.Leg{Event: "Real Madrid - Barcelona", Bet: "Over 2.5"}) {
		t.Fatalf("bad leg: %+v, the Bet: prefix must be stripped", p.Matches[0])
	}
	if p.Result != "Win" {
		t.Fatalf("expected winner-class result, got %q", p.Result)
	}
	if p.OriginalIndex != 0 {
		t.Fatalf("bad original index: %d", p.OriginalIndex)
	}
}

// Events and bets come from parallel node lists zipped by index.
func TestParseComboLegsZipByIndex(t *testing.T) {
	picks, err := TipsterParser{}.Parse(fixturePage)
	if err != nil {
		t.Fatal(err)
	}

	p := picks[1]
	if p.Type != "COMBO" || len(p.Matches) != 2 {
		t.Fatalf("unexpected combo pick: %+v", p)
	}
	if p.Matches[0] != (pick.Leg{Event: "Arsenal - Chelsea", Bet: "1X"}) {
		t.Fatalf("bad first leg: %+v", p.Matches[0])
	}
	if p.Matches[1] != (pick.Leg{Event: "Liverpool - Everton", Bet: "BTTS"}) {
		t.Fatalf("bad second leg: %+v", p.Matches[1])
	}
	// The outcome class beats the generic last-child fallback.
	if p.Result != "Loss" {
		t.Fatalf("expected losser-class result, got %q", p.Result)
	}
}

func TestParseDefaults(t *testing.T) {
	picks, err := TipsterParser{}.Parse(fixturePage)
	if err != nil {
		t.Fatal(err)
	}

	p := picks[2]
	if p.Type != "SINGLE" {
		t.Fatalf("missing type must default to SINGLE, got %q", p.Type)
	}
	if p.Result != pick.ResultPending {
		t.Fatalf("missing result element must default to PENDING, got %q", p.Result)
	}
	if len(p.Matches) != 1 || p.Matches[0].Bet != "" {
		t.Fatalf("leg without a bet label should keep an empty bet: %+v", p.Matches)
	}
}

func TestParseResultFallback(t *testing.T) {
	page := `<div class="tipsContainer">
	  <span class="dateDisplay">15.03.24</span>
	  <div class="prediction">A - B</div>
	  <span class="oddsDisplay">1.5</span>
	  <div class="tipResult"><div>label</div><div>Void</div></div>
	</div>`

	picks, err := TipsterParser{}.Parse(page)
	if err != nil {
		t.Fatal(err)
	}
	if picks[0].Result != "Void" {
		t.Fatalf("expected last-child fallback result, got %q", picks[0].Result)
	}
}

func TestParseSkipsEmptyEvents(t *testing.T) {
	page := `<div class="tipsContainer">
	  <span class="dateDisplay">15.03.24</span>
	  <div class="prediction">  </div>
	  <div class="prediction">C - D</div>
	  <div class="predictionType">1</div>
	  <div class="predictionType">2</div>
	  <span class="oddsDisplay">1.5</span>
	</div>`

	picks, err := TipsterParser{}.Parse(page)
	if err != nil {
		t.Fatal(err)
	}
	if len(picks[0].Matches) != 1 {
		t.Fatalf("empty event must be skipped, got %+v", picks[0].Matches)
	}
	// The bet keeps its positional index even when an earlier event is
	// blank, so leg two pairs with bet two.
	if picks[0].Matches[0] != (pick.Leg{Event: "C - D", Bet: "2"}) {
		t.Fatalf("bad zip alignment: %+v", picks[0].Matches[0])
	}
}

func TestParseEmptyPage(t *testing.T) {
	picks, err := TipsterParser{}.Parse("<html><body><p>nothing here</p></body></html>")
	if err != nil {
		t.Fatal(err)
	}
	if len(picks) != 0 {
		t.Fatalf("expected no picks, got %d", len(picks))
	}
}
