package reporting

import "time"

// Report represents one pricing run report.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string

	// Data Summary
	DataSummary DataSummary

	// Data Quality (join coverage)
	DataQuality DataQualitySection

	// Decision rows sorted by sku_id
	Decisions []DecisionRow

	// Reproducibility
	Reproducibility Reproducibility
}

// DataSummary describes the run's aggregated input.
type DataSummary struct {
	TotalSKUs       int
	TotalCategories int
	AnchorSKUs      int
	TotalUnitsSold  int64

	// Decision counts by reason code
	AnchorCompetitive int
	ProfitOptimized   int
	MissingInputs     int
}

// DataQualitySection lists join coverage problems. A transaction row that
// found no match in an attribute stream is reported, never dropped.
type DataQualitySection struct {
	MissingJoins []string
	Clean        bool
}

// DecisionRow is one line of the decision table, metrics and decision merged
// per SKU.
type DecisionRow struct {
	SKUID          string
	Category       string
	IsAnchor       bool
	AvgPrice       *float64
	CostPrice      *float64
	SuggestedPrice *float64
	Reason         string
}

// Reproducibility identifies the exact data a run priced.
type Reproducibility struct {
	RunID       string
	DataVersion string // short content hash of the run's aggregated metrics
}
