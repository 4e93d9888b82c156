package reporting

import (
	"fmt"
	"strings"

	"sku-pricing-lab/internal/domain"
)

// RenderDecisionsCSV renders decision rows as CSV string.
func RenderDecisionsCSV(rows []DecisionRow) string {
	var sb strings.Builder

	sb.WriteString("sku_id,category,is_anchor,avg_price,cost_price,suggested_price,reason\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%t,%s,%s,%s,%s\n",
			r.SKUID,
			r.Category,
			r.IsAnchor,
			formatNullable(r.AvgPrice),
			formatNullable(r.CostPrice),
			formatNullable(r.SuggestedPrice),
			r.Reason,
		))
	}

	return sb.String()
}

// RenderMetricsCSV renders aggregated metrics as CSV string. The row order is
// the store's (category, sales_rank) order, which makes the output stable
// across identical runs.
func RenderMetricsCSV(metrics []*domain.AggregatedMetrics) string {
	var sb strings.Builder

	sb.WriteString("sku_id,category,manufacturer,avg_price,units_sold,total_purchases,total_impressions,")
	sb.WriteString("cost_price,competitor_price,fulfillment_method,conv_rate,margin,")
	sb.WriteString("sales_rank,category_count,is_anchor\n")

	for _, m := range metrics {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%s,%s,%s,%s,%s,%s,%s,%d,%d,%t\n",
			m.SKUID,
			m.Category,
			m.Manufacturer,
			formatNullable(m.AvgPrice),
			m.UnitsSold,
			formatNullableInt(m.TotalPurchases),
			formatNullableInt(m.TotalImpressions),
			formatNullable(m.CostPrice),
			formatNullable(m.CompetitorPrice),
			m.FulfillmentMethod,
			formatNullable(m.ConvRate),
			formatNullable(m.Margin),
			m.SalesRank,
			m.CategoryCount,
			m.IsAnchor,
		))
	}

	return sb.String()
}

func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *v)
}

func formatNullableInt(v *int64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}
