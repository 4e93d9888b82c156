package aggregation

import (
	"sku-pricing-lab/internal/domain"
)

// BuildRows left-joins each transaction to its 1:1 attribute records by
// sku_id, preserving the transaction set and its order. A SKU without a
// product/supplier/engagement/market match yields nil fields for that match,
// never an error.
//
// Row-level derived ratios:
//   - conv_rate = conversions / impressions, nil when impressions missing or zero
//   - margin = (price_paid - cost_price) / cost_price, nil when cost missing or zero
//   - price_delta_vs_competitor = price_paid - competitor_price, nil when competitor missing
func BuildRows(
	transactions []*domain.TransactionRecord,
	products []*domain.ProductAttributes,
	suppliers []*domain.SupplierRecord,
	engagement []*domain.EngagementRecord,
	market []*domain.MarketRecord,
) []*domain.JoinedRow {
	productBySKU := make(map[string]*domain.ProductAttributes, len(products))
	for _, p := range products {
		productBySKU[p.SKUID] = p
	}
	supplierBySKU := make(map[string]*domain.SupplierRecord, len(suppliers))
	for _, s := range suppliers {
		supplierBySKU[s.SKUID] = s
	}
	engagementBySKU := make(map[string]*domain.EngagementRecord, len(engagement))
	for _, e := range engagement {
		engagementBySKU[e.SKUID] = e
	}
	marketBySKU := make(map[string]*domain.MarketRecord, len(market))
	for _, m := range market {
		marketBySKU[m.SKUID] = m
	}

	rows := make([]*domain.JoinedRow, 0, len(transactions))
	for _, t := range transactions {
		row := &domain.JoinedRow{
			SKUID:            t.SKUID,
			PricePaid:        t.PricePaid,
			Quantity:         t.Quantity,
			TimestampMs:      t.TimestampMs,
			CustomerLocation: t.CustomerLocation,
		}

		if p, ok := productBySKU[t.SKUID]; ok {
			row.Category = p.Category
			row.Packaging = p.Packaging
			row.Manufacturer = p.Manufacturer
			row.FulfillmentMethod = p.FulfillmentMethod
		}
		if s, ok := supplierBySKU[t.SKUID]; ok {
			cost := s.CostPrice
			lead := s.LeadTimeDays
			row.CostPrice = &cost
			row.Availability = s.Availability
			row.LeadTimeDays = &lead
		}
		if e, ok := engagementBySKU[t.SKUID]; ok {
			imp, atc, conv := e.Impressions, e.AddToCart, e.Conversions
			row.Impressions = &imp
			row.AddToCart = &atc
			row.Conversions = &conv
		}
		if m, ok := marketBySKU[t.SKUID]; ok {
			cp := m.CompetitorPrice
			row.CompetitorPrice = &cp
		}

		row.ConvRate = safeRatio(row.Conversions, row.Impressions)
		row.Margin = safeMargin(t.PricePaid, row.CostPrice)
		if row.CompetitorPrice != nil {
			delta := t.PricePaid - *row.CompetitorPrice
			row.PriceDeltaVsCompetitor = &delta
		}

		rows = append(rows, row)
	}
	return rows
}

// safeRatio divides two nullable counters, returning nil on a missing operand
// or zero divisor.
func safeRatio(num, den *int64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	r := float64(*num) / float64(*den)
	return &r
}

// safeMargin computes (price - cost) / cost, nil on missing or zero cost.
func safeMargin(price float64, cost *float64) *float64 {
	if cost == nil || *cost == 0 {
		return nil
	}
	m := (price - *cost) / *cost
	return &m
}
