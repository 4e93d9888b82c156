package aggregation

import (
	"math"
	"testing"

	"sku-pricing-lab/internal/domain"
)

func TestBuildRows_FullMatch(t *testing.T) {
	transactions := []*domain.TransactionRecord{
		{SKUID: "SKU-1001", PricePaid: 12.0, Quantity: 2, TimestampMs: 1756684800000, CustomerLocation: "New York"},
	}
	products := []*domain.ProductAttributes{
		{SKUID: "SKU-1001", Category: "Consumables", Packaging: "Box of 100", Manufacturer: "Medico", FulfillmentMethod: domain.FulfillmentDirect},
	}
	suppliers := []*domain.SupplierRecord{
		{SKUID: "SKU-1001", CostPrice: 9.0, Availability: domain.AvailabilityAvailable, LeadTimeDays: 3},
	}
	engagement := []*domain.EngagementRecord{
		{SKUID: "SKU-1001", Impressions: 500, AddToCart: 50, Conversions: 25},
	}
	market := []*domain.MarketRecord{
		{SKUID: "SKU-1001", CompetitorPrice: 11.0},
	}

	rows := BuildRows(transactions, products, suppliers, engagement, market)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.Category != "Consumables" {
		t.Errorf("Category mismatch: got %q", row.Category)
	}
	if row.CostPrice == nil || *row.CostPrice != 9.0 {
		t.Errorf("CostPrice mismatch: got %v", row.CostPrice)
	}
	if row.ConvRate == nil || *row.ConvRate != 25.0/500.0 {
		t.Errorf("ConvRate mismatch: got %v", row.ConvRate)
	}
	wantMargin := (12.0 - 9.0) / 9.0
	if row.Margin == nil || math.Abs(*row.Margin-wantMargin) > 1e-12 {
		t.Errorf("Margin mismatch: got %v, want %f", row.Margin, wantMargin)
	}
	if row.PriceDeltaVsCompetitor == nil || *row.PriceDeltaVsCompetitor != 1.0 {
		t.Errorf("PriceDeltaVsCompetitor mismatch: got %v", row.PriceDeltaVsCompetitor)
	}
}

func TestBuildRows_MissingMatchesYieldNilNotError(t *testing.T) {
	transactions := []*domain.TransactionRecord{
		{SKUID: "SKU-9999", PricePaid: 20.0, Quantity: 1, TimestampMs: 1756684800000},
	}

	rows := BuildRows(transactions, nil, nil, nil, nil)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.Category != "" || row.Manufacturer != "" {
		t.Errorf("Expected empty product attributes, got %q/%q", row.Category, row.Manufacturer)
	}
	if row.CostPrice != nil || row.Impressions != nil || row.CompetitorPrice != nil {
		t.Errorf("Expected nil joined fields for missing matches")
	}
	if row.ConvRate != nil || row.Margin != nil || row.PriceDeltaVsCompetitor != nil {
		t.Errorf("Expected nil derived ratios when operands missing")
	}
}

func TestBuildRows_ZeroDivisorsYieldNil(t *testing.T) {
	transactions := []*domain.TransactionRecord{
		{SKUID: "SKU-1", PricePaid: 5.0, Quantity: 1, TimestampMs: 1},
	}
	suppliers := []*domain.SupplierRecord{
		{SKUID: "SKU-1", CostPrice: 0.0, Availability: domain.AvailabilityLimited, LeadTimeDays: 1},
	}
	engagement := []*domain.EngagementRecord{
		{SKUID: "SKU-1", Impressions: 0, AddToCart: 0, Conversions: 0},
	}

	rows := BuildRows(transactions, nil, suppliers, engagement, nil)
	row := rows[0]

	if row.ConvRate != nil {
		t.Errorf("Expected nil ConvRate on zero impressions, got %v", *row.ConvRate)
	}
	if row.Margin != nil {
		t.Errorf("Expected nil Margin on zero cost_price, got %v", *row.Margin)
	}
}

func TestBuildRows_PreservesTransactionOrder(t *testing.T) {
	transactions := []*domain.TransactionRecord{
		{SKUID: "SKU-B", PricePaid: 1.0, Quantity: 1, TimestampMs: 3},
		{SKUID: "SKU-A", PricePaid: 2.0, Quantity: 1, TimestampMs: 1},
		{SKUID: "SKU-B", PricePaid: 3.0, Quantity: 1, TimestampMs: 2},
	}

	rows := BuildRows(transactions, nil, nil, nil, nil)
	want := []string{"SKU-B", "SKU-A", "SKU-B"}
	for i, sku := range want {
		if rows[i].SKUID != sku {
			t.Errorf("Row %d: got %s, want %s", i, rows[i].SKUID, sku)
		}
	}
}
