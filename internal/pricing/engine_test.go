package pricing

import (
	"math"
	"testing"

	"sku-pricing-lab/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func TestPrice_AnchorUndercutsCompetitor(t *testing.T) {
	// cost=9.0, Consumables min_margin=0.05 -> floor=9.45
	// suggested = max(9.45, min(12.0, 11.0-0.01)) = 10.99
	m := &domain.AggregatedMetrics{
		SKUID:           "SKU-1001",
		Category:        "Consumables",
		AvgPrice:        fptr(12.0),
		CostPrice:       fptr(9.0),
		CompetitorPrice: fptr(11.0),
		ConvRate:        fptr(0.05),
		IsAnchor:        true,
	}

	d := NewEngine().Price(m)

	if d.Reason != domain.ReasonAnchorCompetitive {
		t.Errorf("Reason: got %s, want anchor_competitive", d.Reason)
	}
	if d.SuggestedPrice == nil || *d.SuggestedPrice != 10.99 {
		t.Errorf("SuggestedPrice: got %v, want 10.99", d.SuggestedPrice)
	}
}

func TestPrice_AnchorFloorWinsOverUndercut(t *testing.T) {
	// Undercut price 8.99 violates floor 9.45; the floor wins.
	m := &domain.AggregatedMetrics{
		SKUID:           "SKU-1001",
		Category:        "Consumables",
		AvgPrice:        fptr(12.0),
		CostPrice:       fptr(9.0),
		CompetitorPrice: fptr(9.0),
		IsAnchor:        true,
	}

	d := NewEngine().Price(m)

	if d.SuggestedPrice == nil || *d.SuggestedPrice != 9.45 {
		t.Errorf("SuggestedPrice: got %v, want floor 9.45", d.SuggestedPrice)
	}
}

func TestPrice_AnchorNeverBelowFloorNeverAboveUndercut(t *testing.T) {
	cases := []struct {
		name      string
		avg, comp float64
	}{
		{"avg below undercut", 10.50, 11.0},
		{"avg above undercut", 14.0, 11.0},
		{"competitor far above", 12.0, 30.0},
	}
	e := NewEngine()
	for _, tc := range cases {
		m := &domain.AggregatedMetrics{
			SKUID:           "s",
			Category:        "Consumables",
			AvgPrice:        fptr(tc.avg),
			CostPrice:       fptr(9.0),
			CompetitorPrice: fptr(tc.comp),
			IsAnchor:        true,
		}
		d := e.Price(m)
		if d.SuggestedPrice == nil {
			t.Fatalf("%s: nil suggested price", tc.name)
		}
		floor := 9.0 * 1.05
		if *d.SuggestedPrice < floor-1e-9 {
			t.Errorf("%s: %f below floor %f", tc.name, *d.SuggestedPrice, floor)
		}
		if *d.SuggestedPrice > tc.comp-0.01+1e-9 && *d.SuggestedPrice > floor+1e-9 {
			t.Errorf("%s: %f exceeds undercut %f without floor forcing it", tc.name, *d.SuggestedPrice, tc.comp-0.01)
		}
	}
}

// End-to-end reference case: SKU-3001, Reagents, cost=45 -> floor=49.5,
// avg=60, conv=20/300. Candidate 48 is discarded; 72 maximizes
// (candidate-45) * conv * (1-change_pct): 27 * 0.0533... = 1.44.
func TestPrice_ProfitSearchSelectsArgmax(t *testing.T) {
	m := &domain.AggregatedMetrics{
		SKUID:           "SKU-3001",
		Category:        "Reagents",
		AvgPrice:        fptr(60.0),
		CostPrice:       fptr(45.0),
		CompetitorPrice: fptr(58.0),
		ConvRate:        fptr(20.0 / 300.0),
		IsAnchor:        false,
	}

	d := NewEngine().Price(m)

	if d.Reason != domain.ReasonProfitOptimized {
		t.Errorf("Reason: got %s, want profit_optimized", d.Reason)
	}
	if d.SuggestedPrice == nil || *d.SuggestedPrice != 72.0 {
		t.Errorf("SuggestedPrice: got %v, want 72.0", d.SuggestedPrice)
	}
}

func TestPrice_ProfitSearchRespectsFloor(t *testing.T) {
	// cost=250, Instruments min_margin=0.20 -> floor=300. avg=280: the 308
	// and 336 candidates survive; nothing below 300 may be chosen.
	m := &domain.AggregatedMetrics{
		SKUID:     "SKU-2001",
		Category:  "Instruments",
		AvgPrice:  fptr(280.0),
		CostPrice: fptr(250.0),
		ConvRate:  fptr(0.025),
	}

	d := NewEngine().Price(m)

	if d.SuggestedPrice == nil || *d.SuggestedPrice < 300.0 {
		t.Errorf("SuggestedPrice: got %v, want >= floor 300", d.SuggestedPrice)
	}
}

func TestPrice_FallbackWhenNoCandidateClearsFloor(t *testing.T) {
	// floor=300, avg=240: every candidate (192..288) violates the floor, so
	// the price stays at avg_price.
	m := &domain.AggregatedMetrics{
		SKUID:     "SKU-2001",
		Category:  "Instruments",
		AvgPrice:  fptr(240.0),
		CostPrice: fptr(250.0),
		ConvRate:  fptr(0.025),
	}

	d := NewEngine().Price(m)

	if d.Reason != domain.ReasonProfitOptimized {
		t.Errorf("Reason: got %s, want profit_optimized", d.Reason)
	}
	if d.SuggestedPrice == nil || *d.SuggestedPrice != 240.0 {
		t.Errorf("SuggestedPrice: got %v, want fallback avg 240.0", d.SuggestedPrice)
	}
}

// With conv_rate 0 every surviving candidate has expected profit 0; the
// strict > update keeps the first candidate in delta order, i.e. -20%.
func TestPrice_TieBreakFavorsEarliestDelta(t *testing.T) {
	m := &domain.AggregatedMetrics{
		SKUID:     "s",
		Category:  "Consumables",
		AvgPrice:  fptr(20.0),
		CostPrice: fptr(10.0),
		ConvRate:  fptr(0.0),
	}

	d := NewEngine().Price(m)

	if d.SuggestedPrice == nil || *d.SuggestedPrice != 16.0 {
		t.Errorf("SuggestedPrice: got %v, want 16.0 (earliest delta on tie)", d.SuggestedPrice)
	}
}

func TestPrice_UnknownCategoryUsesDefaultMargin(t *testing.T) {
	if got := MinMarginFor("Glassware"); got != DefaultMinMargin {
		t.Errorf("MinMarginFor(Glassware): got %f, want %f", got, DefaultMinMargin)
	}
	if got := MinMarginFor(""); got != DefaultMinMargin {
		t.Errorf("MinMarginFor(empty): got %f, want %f", got, DefaultMinMargin)
	}
	if got := MinMarginFor("Instruments"); got != 0.20 {
		t.Errorf("MinMarginFor(Instruments): got %f, want 0.20", got)
	}
}

func TestPrice_MissingInputsYieldSentinel(t *testing.T) {
	e := NewEngine()
	cases := []struct {
		name string
		m    *domain.AggregatedMetrics
	}{
		{"nil cost", &domain.AggregatedMetrics{SKUID: "s", AvgPrice: fptr(10.0), ConvRate: fptr(0.1)}},
		{"nil avg", &domain.AggregatedMetrics{SKUID: "s", CostPrice: fptr(5.0), ConvRate: fptr(0.1)}},
		{"anchor nil competitor", &domain.AggregatedMetrics{SKUID: "s", AvgPrice: fptr(10.0), CostPrice: fptr(5.0), IsAnchor: true}},
		{"non-anchor nil conv_rate", &domain.AggregatedMetrics{SKUID: "s", AvgPrice: fptr(10.0), CostPrice: fptr(5.0)}},
	}
	for _, tc := range cases {
		d := e.Price(tc.m)
		if d.Reason != domain.ReasonMissingInputs {
			t.Errorf("%s: reason %s, want missing_inputs", tc.name, d.Reason)
		}
		if d.SuggestedPrice != nil {
			t.Errorf("%s: expected nil suggested price", tc.name)
		}
	}
}

func TestRoundPrice_HalfAwayFromZero(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{10.005, 10.01},
		{10.004, 10.0},
		{10.994999, 10.99},
		{72.0, 72.0},
	}
	for _, tc := range cases {
		if got := roundPrice(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("roundPrice(%f): got %f, want %f", tc.in, got, tc.want)
		}
	}
}
