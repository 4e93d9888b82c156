package reporting

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"time"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// Generator produces reports from stored run data.
type Generator struct {
	metricsStore  storage.MetricsStore
	decisionStore storage.DecisionStore
	now           func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(metricsStore storage.MetricsStore, decisionStore storage.DecisionStore) *Generator {
	return &Generator{
		metricsStore:  metricsStore,
		decisionStore: decisionStore,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces the report for one pricing run. qualityErrors carries
// the aggregator's join coverage messages.
func (g *Generator) Generate(ctx context.Context, runID string, qualityErrors []string) (*Report, error) {
	metrics, err := g.metricsStore.GetByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load metrics for run %s: %w", runID, err)
	}

	decisions, err := g.decisionStore.GetByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load decisions for run %s: %w", runID, err)
	}

	return &Report{
		GeneratedAt: g.now(),
		RunID:       runID,
		DataSummary: generateDataSummary(metrics, decisions),
		DataQuality: DataQualitySection{
			MissingJoins: qualityErrors,
			Clean:        len(qualityErrors) == 0,
		},
		Decisions: generateDecisionRows(metrics, decisions),
		Reproducibility: Reproducibility{
			RunID:       runID,
			DataVersion: DataVersion(metrics),
		},
	}, nil
}

func generateDataSummary(metrics []*domain.AggregatedMetrics, decisions []*domain.PricingDecision) DataSummary {
	s := DataSummary{TotalSKUs: len(metrics)}

	categories := make(map[string]struct{})
	for _, m := range metrics {
		categories[m.Category] = struct{}{}
		s.TotalUnitsSold += m.UnitsSold
		if m.IsAnchor {
			s.AnchorSKUs++
		}
	}
	s.TotalCategories = len(categories)

	for _, d := range decisions {
		switch d.Reason {
		case domain.ReasonAnchorCompetitive:
			s.AnchorCompetitive++
		case domain.ReasonProfitOptimized:
			s.ProfitOptimized++
		case domain.ReasonMissingInputs:
			s.MissingInputs++
		}
	}

	return s
}

// generateDecisionRows merges metrics and decisions per SKU, sorted by sku_id.
func generateDecisionRows(metrics []*domain.AggregatedMetrics, decisions []*domain.PricingDecision) []DecisionRow {
	bySKU := make(map[string]*domain.AggregatedMetrics, len(metrics))
	for _, m := range metrics {
		bySKU[m.SKUID] = m
	}

	rows := make([]DecisionRow, 0, len(decisions))
	for _, d := range decisions {
		row := DecisionRow{
			SKUID:          d.SKUID,
			SuggestedPrice: d.SuggestedPrice,
			Reason:         d.Reason,
		}
		if m, ok := bySKU[d.SKUID]; ok {
			row.Category = m.Category
			row.IsAnchor = m.IsAnchor
			row.AvgPrice = m.AvgPrice
			row.CostPrice = m.CostPrice
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].SKUID < rows[j].SKUID })
	return rows
}

// DataVersion computes a short content hash of the run's aggregated metrics.
// Two runs over identical input data produce the same version string.
func DataVersion(metrics []*domain.AggregatedMetrics) string {
	sum := sha256.Sum256([]byte(RenderMetricsCSV(metrics)))
	return fmt.Sprintf("%x", sum[:6])
}
