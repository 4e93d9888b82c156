package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sku-pricing-lab/internal/reporting"
	"sku-pricing-lab/internal/storage"
)

// ReportPipeline renders a stored pricing run into output files:
//   - PRICING_REPORT.md
//   - pricing_decisions.csv
//   - aggregated_metrics.csv
type ReportPipeline struct {
	reportGen     *reporting.Generator
	metricsStore  storage.MetricsStore
	outputDir     string
	qualityErrors []string
	clock         func() time.Time
}

// NewReportPipeline creates a new report pipeline.
func NewReportPipeline(metricsStore storage.MetricsStore, decisionStore storage.DecisionStore, outputDir string) *ReportPipeline {
	return &ReportPipeline{
		reportGen:    reporting.NewGenerator(metricsStore, decisionStore),
		metricsStore: metricsStore,
		outputDir:    outputDir,
		clock:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (p *ReportPipeline) WithClock(clock func() time.Time) *ReportPipeline {
	p.clock = clock
	p.reportGen = p.reportGen.WithClock(clock)
	return p
}

// WithQualityErrors adds join coverage messages to the report's data
// quality section.
func (p *ReportPipeline) WithQualityErrors(errs []string) *ReportPipeline {
	p.qualityErrors = append(p.qualityErrors, errs...)
	return p
}

// Run generates and writes all report artifacts for one run.
func (p *ReportPipeline) Run(ctx context.Context, runID string) error {
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return err
	}

	report, err := p.reportGen.Generate(ctx, runID, p.qualityErrors)
	if err != nil {
		return err
	}

	reportMD := reporting.RenderMarkdown(report)
	reportPath := filepath.Join(p.outputDir, "PRICING_REPORT.md")
	if err := os.WriteFile(reportPath, []byte(reportMD), 0644); err != nil {
		return err
	}

	decisionsCSV := reporting.RenderDecisionsCSV(report.Decisions)
	decisionsPath := filepath.Join(p.outputDir, "pricing_decisions.csv")
	if err := os.WriteFile(decisionsPath, []byte(decisionsCSV), 0644); err != nil {
		return err
	}

	metrics, err := p.metricsStore.GetByRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("load metrics for csv export: %w", err)
	}
	metricsCSV := reporting.RenderMetricsCSV(metrics)
	metricsPath := filepath.Join(p.outputDir, "aggregated_metrics.csv")
	return os.WriteFile(metricsPath, []byte(metricsCSV), 0644)
}
