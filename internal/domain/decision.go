package domain

// Reason codes for pricing decisions.
const (
	// ReasonAnchorCompetitive marks an anchor SKU priced to undercut the
	// competitor while holding the margin floor.
	ReasonAnchorCompetitive = "anchor_competitive"

	// ReasonProfitOptimized marks a non-anchor SKU priced by the discrete
	// profit search (or its keep-current-price fallback).
	ReasonProfitOptimized = "profit_optimized"

	// ReasonMissingInputs marks a SKU whose decision is undefined because a
	// required input (cost_price, avg_price, conv_rate) was null. The record
	// is flagged rather than dropped; SuggestedPrice is nil.
	ReasonMissingInputs = "missing_inputs"
)

// PricingDecision is the final output, one per SKU per run.
type PricingDecision struct {
	SKUID          string
	SuggestedPrice *float64 // rounded to 2 decimals, nil for missing_inputs
	Reason         string
}
