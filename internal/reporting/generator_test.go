package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage/memory"
)

func fptr(v float64) *float64 { return &v }

func setupTestRun(t *testing.T) (*memory.MetricsStore, *memory.DecisionStore) {
	ctx := context.Background()

	metricsStore := memory.NewMetricsStore()
	decisionStore := memory.NewDecisionStore()

	metrics := []*domain.AggregatedMetrics{
		{
			SKUID: "SKU-1001", Category: "Consumables", Manufacturer: "LabCo",
			AvgPrice: fptr(12.0), UnitsSold: 15, CostPrice: fptr(9.0),
			CompetitorPrice: fptr(11.0), ConvRate: fptr(0.05),
			SalesRank: 1, CategoryCount: 1, IsAnchor: true,
		},
		{
			SKUID: "SKU-2001", Category: "Instruments", Manufacturer: "OptiMed",
			AvgPrice: fptr(310.0), UnitsSold: 1,
			SalesRank: 1, CategoryCount: 1,
		},
	}
	if err := metricsStore.InsertBulk(ctx, "run-1", metrics); err != nil {
		t.Fatalf("InsertBulk metrics failed: %v", err)
	}

	decisions := []*domain.PricingDecision{
		{SKUID: "SKU-2001", SuggestedPrice: nil, Reason: domain.ReasonMissingInputs},
		{SKUID: "SKU-1001", SuggestedPrice: fptr(10.99), Reason: domain.ReasonAnchorCompetitive},
	}
	if err := decisionStore.InsertBulk(ctx, "run-1", decisions); err != nil {
		t.Fatalf("InsertBulk decisions failed: %v", err)
	}

	return metricsStore, decisionStore
}

func TestGenerator_Generate(t *testing.T) {
	metricsStore, decisionStore := setupTestRun(t)

	fixed := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)
	gen := NewGenerator(metricsStore, decisionStore).WithClock(func() time.Time { return fixed })

	report, err := gen.Generate(context.Background(), "run-1", []string{"no supplier_records match for SKU-2001 (1 transaction row(s))"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if report.GeneratedAt != fixed {
		t.Errorf("GeneratedAt: got %v, want %v", report.GeneratedAt, fixed)
	}
	if report.DataSummary.TotalSKUs != 2 {
		t.Errorf("TotalSKUs: got %d, want 2", report.DataSummary.TotalSKUs)
	}
	if report.DataSummary.TotalCategories != 2 {
		t.Errorf("TotalCategories: got %d, want 2", report.DataSummary.TotalCategories)
	}
	if report.DataSummary.AnchorSKUs != 1 {
		t.Errorf("AnchorSKUs: got %d, want 1", report.DataSummary.AnchorSKUs)
	}
	if report.DataSummary.AnchorCompetitive != 1 || report.DataSummary.MissingInputs != 1 {
		t.Errorf("reason counts: got %+v", report.DataSummary)
	}
	if report.DataQuality.Clean {
		t.Error("expected DataQuality.Clean to be false")
	}

	// Decision rows sorted by sku_id with metrics merged in
	if len(report.Decisions) != 2 {
		t.Fatalf("Decisions: got %d rows, want 2", len(report.Decisions))
	}
	first := report.Decisions[0]
	if first.SKUID != "SKU-1001" || !first.IsAnchor || first.Category != "Consumables" {
		t.Errorf("first decision row: %+v", first)
	}
	if first.SuggestedPrice == nil || *first.SuggestedPrice != 10.99 {
		t.Errorf("first suggested price: %v", first.SuggestedPrice)
	}
	if report.Decisions[1].SuggestedPrice != nil {
		t.Error("missing_inputs row should carry nil suggested price")
	}
}

func TestGenerator_DataVersionStable(t *testing.T) {
	metricsStore, decisionStore := setupTestRun(t)
	gen := NewGenerator(metricsStore, decisionStore)

	r1, err := gen.Generate(context.Background(), "run-1", nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	r2, err := gen.Generate(context.Background(), "run-1", nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if r1.Reproducibility.DataVersion == "" {
		t.Fatal("empty data version")
	}
	if r1.Reproducibility.DataVersion != r2.Reproducibility.DataVersion {
		t.Errorf("data version changed between identical runs: %s vs %s",
			r1.Reproducibility.DataVersion, r2.Reproducibility.DataVersion)
	}
}

func TestRenderMarkdown(t *testing.T) {
	metricsStore, decisionStore := setupTestRun(t)
	gen := NewGenerator(metricsStore, decisionStore)

	report, err := gen.Generate(context.Background(), "run-1", nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	md := RenderMarkdown(report)

	for _, want := range []string{
		"# Pricing Run Report",
		"| SKU-1001 | Consumables | true | 12.00 | 9.00 | 10.99 | anchor_competitive |",
		"missing_inputs",
		"All transaction rows matched every attribute stream.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderDecisionsCSV_NullPrice(t *testing.T) {
	rows := []DecisionRow{
		{SKUID: "SKU-2001", Category: "Instruments", Reason: domain.ReasonMissingInputs},
	}

	csv := RenderDecisionsCSV(rows)

	if !strings.Contains(csv, "SKU-2001,Instruments,false,,,,missing_inputs") {
		t.Errorf("unexpected csv:\n%s", csv)
	}
}
