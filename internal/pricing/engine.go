// Package pricing maps one aggregated metrics record to a price suggestion.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"sku-pricing-lab/internal/domain"
)

// Category minimum margins. Unmapped categories use DefaultMinMargin.
var minMargins = map[string]float64{
	"Consumables": 0.05,
	"Instruments": 0.20,
	"Reagents":    0.10,
}

// DefaultMinMargin applies to categories without an entry in the margin table.
const DefaultMinMargin = 0.10

// priceDeltas is the candidate grid for the profit search, evaluated in this
// order. The strict > on profit updates means the earliest candidate wins
// ties, so the order itself is part of the contract.
var priceDeltas = [...]float64{-0.20, -0.10, 0.00, 0.10, 0.20}

const (
	// competitorUndercut is subtracted from the competitor price on the
	// anchor branch.
	competitorUndercut = 0.01

	// elasticityCoeff scales the conversion decay per unit of relative price
	// change (unit elasticity assumption).
	elasticityCoeff = 1.0
)

// Engine computes pricing decisions. It is stateless; decisions are pure
// functions of a single record.
type Engine struct{}

// NewEngine creates a new pricing engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Price maps one aggregated record to its decision. Every record yields
// exactly one decision: records with null required inputs get a
// missing_inputs sentinel instead of being dropped.
func (e *Engine) Price(m *domain.AggregatedMetrics) *domain.PricingDecision {
	if m.CostPrice == nil || m.AvgPrice == nil {
		return missingInputs(m.SKUID)
	}
	cost := *m.CostPrice
	avg := *m.AvgPrice

	floor := cost * (1 + MinMarginFor(m.Category))

	if m.IsAnchor {
		if m.CompetitorPrice == nil {
			return missingInputs(m.SKUID)
		}
		suggested := math.Max(floor, math.Min(avg, *m.CompetitorPrice-competitorUndercut))
		return decision(m.SKUID, suggested, domain.ReasonAnchorCompetitive)
	}

	// A null conv_rate cannot drive the profit search; flag rather than
	// treat it as zero.
	if m.ConvRate == nil {
		return missingInputs(m.SKUID)
	}
	convRate := *m.ConvRate

	// Fallback: keep the current price if no candidate clears the floor.
	best := avg
	bestProfit := math.Inf(-1)
	for _, delta := range priceDeltas {
		candidate := avg * (1 + delta)
		if candidate < floor {
			continue
		}
		changePct := (candidate - avg) / avg
		estConv := math.Max(0, convRate*(1-elasticityCoeff*changePct))
		profit := (candidate - cost) * estConv
		if profit > bestProfit {
			best = candidate
			bestProfit = profit
		}
	}

	return decision(m.SKUID, best, domain.ReasonProfitOptimized)
}

// PriceAll applies Price to each record in order.
func (e *Engine) PriceAll(metrics []*domain.AggregatedMetrics) []*domain.PricingDecision {
	decisions := make([]*domain.PricingDecision, len(metrics))
	for i, m := range metrics {
		decisions[i] = e.Price(m)
	}
	return decisions
}

// MinMarginFor returns the minimum margin for a category, falling back to
// DefaultMinMargin for unmapped (or missing) categories.
func MinMarginFor(category string) float64 {
	if m, ok := minMargins[category]; ok {
		return m
	}
	return DefaultMinMargin
}

func decision(skuID string, suggested float64, reason string) *domain.PricingDecision {
	rounded := roundPrice(suggested)
	return &domain.PricingDecision{SKUID: skuID, SuggestedPrice: &rounded, Reason: reason}
}

func missingInputs(skuID string) *domain.PricingDecision {
	return &domain.PricingDecision{SKUID: skuID, Reason: domain.ReasonMissingInputs}
}

// roundPrice rounds to 2 decimal places, half away from zero. Midpoints round
// up: 10.005 -> 10.01.
func roundPrice(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
