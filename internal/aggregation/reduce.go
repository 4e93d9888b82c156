package aggregation

import (
	"sku-pricing-lab/internal/domain"
)

type groupKey struct {
	skuID        string
	category     string
	manufacturer string
}

// Reduce groups joined rows by (sku_id, category, manufacturer) and produces
// one AggregatedMetrics per group, in first-appearance order of the group key.
// That order is what downstream rank tie-breaks see, so it must be stable.
//
// Engagement counters are broadcast onto every transaction row of a SKU
// before summing, so a SKU with N transactions counts its impressions and
// conversions N times. Deliberate; see DESIGN.md for the policy decision.
func Reduce(rows []*domain.JoinedRow) []*domain.AggregatedMetrics {
	type accumulator struct {
		metrics   *domain.AggregatedMetrics
		priceSum  float64
		rowCount  int64
		purchases int64
		imprs     int64
		anyPurch  bool
		anyImprs  bool
	}

	var order []groupKey
	groups := make(map[groupKey]*accumulator)

	for _, row := range rows {
		key := groupKey{skuID: row.SKUID, category: row.Category, manufacturer: row.Manufacturer}
		acc, ok := groups[key]
		if !ok {
			// 1:1 attributes are identical on every row of the group, so the
			// first contributing row is a stable pick, not an aggregate.
			acc = &accumulator{
				metrics: &domain.AggregatedMetrics{
					SKUID:             row.SKUID,
					Category:          row.Category,
					Manufacturer:      row.Manufacturer,
					CostPrice:         row.CostPrice,
					CompetitorPrice:   row.CompetitorPrice,
					FulfillmentMethod: row.FulfillmentMethod,
				},
			}
			groups[key] = acc
			order = append(order, key)
		}

		acc.priceSum += row.PricePaid
		acc.rowCount++
		acc.metrics.UnitsSold += row.Quantity
		if row.Conversions != nil {
			acc.purchases += *row.Conversions
			acc.anyPurch = true
		}
		if row.Impressions != nil {
			acc.imprs += *row.Impressions
			acc.anyImprs = true
		}
	}

	result := make([]*domain.AggregatedMetrics, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		m := acc.metrics

		avg := acc.priceSum / float64(acc.rowCount)
		m.AvgPrice = &avg

		// Sums over an all-null column stay null.
		if acc.anyPurch {
			p := acc.purchases
			m.TotalPurchases = &p
		}
		if acc.anyImprs {
			i := acc.imprs
			m.TotalImpressions = &i
		}

		m.ConvRate = safeRatio(m.TotalPurchases, m.TotalImpressions)
		m.Margin = safeMargin(avg, m.CostPrice)

		result = append(result, m)
	}
	return result
}
