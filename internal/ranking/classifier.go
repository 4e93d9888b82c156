// Package ranking assigns within-category sales ranks and flags anchor SKUs.
package ranking

import (
	"sort"

	"sku-pricing-lab/internal/domain"
)

// AnchorFraction is the top share of each category flagged as anchors.
const AnchorFraction = 0.10

// Classify assigns sales_rank, category_count and is_anchor to each record,
// mutating and returning the input slice.
//
// Ranks are assigned per category by descending units_sold; ties keep their
// original relative order. The anchor threshold is a real-valued comparison
// (rank <= count * 0.10) with no rounding, so a category with fewer than 10
// SKUs has no anchors at all.
func Classify(metrics []*domain.AggregatedMetrics) []*domain.AggregatedMetrics {
	byCategory := make(map[string][]*domain.AggregatedMetrics)
	var categories []string
	for _, m := range metrics {
		if _, seen := byCategory[m.Category]; !seen {
			categories = append(categories, m.Category)
		}
		byCategory[m.Category] = append(byCategory[m.Category], m)
	}

	for _, category := range categories {
		partition := byCategory[category]

		sort.SliceStable(partition, func(i, j int) bool {
			return partition[i].UnitsSold > partition[j].UnitsSold
		})

		count := len(partition)
		threshold := float64(count) * AnchorFraction
		for i, m := range partition {
			m.SalesRank = i + 1
			m.CategoryCount = count
			m.IsAnchor = float64(m.SalesRank) <= threshold
		}
	}

	return metrics
}
