package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Pricing Run Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s | Data Version: %s\n\n", r.Reproducibility.RunID, r.Reproducibility.DataVersion))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total SKUs | %d |\n", r.DataSummary.TotalSKUs))
	sb.WriteString(fmt.Sprintf("| Categories | %d |\n", r.DataSummary.TotalCategories))
	sb.WriteString(fmt.Sprintf("| Anchor SKUs | %d |\n", r.DataSummary.AnchorSKUs))
	sb.WriteString(fmt.Sprintf("| Units Sold | %d |\n", r.DataSummary.TotalUnitsSold))
	sb.WriteString(fmt.Sprintf("| anchor_competitive decisions | %d |\n", r.DataSummary.AnchorCompetitive))
	sb.WriteString(fmt.Sprintf("| profit_optimized decisions | %d |\n", r.DataSummary.ProfitOptimized))
	sb.WriteString(fmt.Sprintf("| missing_inputs decisions | %d |\n", r.DataSummary.MissingInputs))
	sb.WriteString("\n")

	// Data Quality
	sb.WriteString("## Data Quality\n\n")
	if r.DataQuality.Clean {
		sb.WriteString("All transaction rows matched every attribute stream.\n\n")
	} else {
		for _, msg := range r.DataQuality.MissingJoins {
			sb.WriteString(fmt.Sprintf("- %s\n", msg))
		}
		sb.WriteString("\n")
	}

	// Decisions
	sb.WriteString("## Pricing Decisions\n\n")
	if len(r.Decisions) > 0 {
		sb.WriteString("| SKU | Category | Anchor | Avg Price | Cost | Suggested | Reason |\n")
		sb.WriteString("|-----|----------|--------|-----------|------|-----------|--------|\n")
		for _, d := range r.Decisions {
			sb.WriteString(fmt.Sprintf("| %s | %s | %t | %s | %s | %s | %s |\n",
				d.SKUID, d.Category, d.IsAnchor,
				markdownPrice(d.AvgPrice), markdownPrice(d.CostPrice), markdownPrice(d.SuggestedPrice),
				d.Reason))
		}
	} else {
		sb.WriteString("No decisions recorded for this run.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func markdownPrice(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
