// Package pipeline coordinates one pricing run end to end:
// aggregation → anchor classification → pricing → persistence.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"sku-pricing-lab/internal/aggregation"
	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/observability"
	"sku-pricing-lab/internal/pricing"
	"sku-pricing-lab/internal/ranking"
	"sku-pricing-lab/internal/storage"
)

// Orchestrator coordinates the pricing run execution.
type Orchestrator struct {
	// Input stores
	transactionStore storage.TransactionStore
	productStore     storage.ProductStore
	supplierStore    storage.SupplierStore
	engagementStore  storage.EngagementStore
	marketStore      storage.MarketStore

	// Output stores
	metricsStore  storage.MetricsStore
	decisionStore storage.DecisionStore

	aggregator *aggregation.Aggregator
	engine     *pricing.Engine

	runID   string
	verbose bool
	clock   func() time.Time
}

// Options for creating Orchestrator.
type Options struct {
	// Required input stores
	TransactionStore storage.TransactionStore
	ProductStore     storage.ProductStore
	SupplierStore    storage.SupplierStore
	EngagementStore  storage.EngagementStore
	MarketStore      storage.MarketStore

	// Required output stores
	MetricsStore  storage.MetricsStore
	DecisionStore storage.DecisionStore

	// RunID tags this run's metrics and decisions. Generated from the clock
	// when empty.
	RunID string

	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		transactionStore: opts.TransactionStore,
		productStore:     opts.ProductStore,
		supplierStore:    opts.SupplierStore,
		engagementStore:  opts.EngagementStore,
		marketStore:      opts.MarketStore,
		metricsStore:     opts.MetricsStore,
		decisionStore:    opts.DecisionStore,
		aggregator: aggregation.NewAggregator(
			opts.TransactionStore,
			opts.ProductStore,
			opts.SupplierStore,
			opts.EngagementStore,
			opts.MarketStore,
		),
		engine:  pricing.NewEngine(),
		runID:   opts.RunID,
		verbose: opts.Verbose,
		clock:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic run ids.
func (o *Orchestrator) WithClock(clock func() time.Time) *Orchestrator {
	o.clock = clock
	return o
}

// RunResult contains results from one pricing run.
type RunResult struct {
	RunID            string
	SKUsAggregated   int
	AnchorsFlagged   int
	DecisionsCreated int
	Errors           []string
}

// Run executes the full pricing run.
// Phases:
//  1. Aggregate the five record streams into per-SKU metrics
//  2. Classify category anchors
//  3. Compute one pricing decision per SKU
//  4. Persist metrics and decisions under the run id
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	runID := o.runID
	if runID == "" {
		runID = fmt.Sprintf("run-%s", o.clock().Format("20060102-150405"))
	}
	result := &RunResult{RunID: runID}

	// Phase 1: Aggregation
	o.log("Phase 1: Aggregating record streams...")
	started := o.clock()
	metrics, err := o.aggregator.ComputeMetrics(ctx)
	if err != nil {
		observability.RecordPipelinePhase("aggregate", "error", o.clock().Sub(started).Seconds())
		return nil, fmt.Errorf("phase 1 (aggregation) failed: %w", err)
	}
	observability.RecordPipelinePhase("aggregate", "ok", o.clock().Sub(started).Seconds())
	observability.DefaultMetrics.SKUsAggregated.Add(float64(len(metrics)))
	result.SKUsAggregated = len(metrics)
	result.Errors = append(result.Errors, o.aggregator.DataQualityErrors()...)
	for stream, skus := range o.aggregator.MissingJoins {
		rows := 0
		for _, n := range skus {
			rows += n
		}
		observability.RecordMissingJoin(stream, rows)
	}
	o.log("  Aggregated %d SKUs (%d join gaps)", len(metrics), len(result.Errors))

	if len(metrics) == 0 {
		return result, nil
	}

	// Phase 2: Anchor classification
	o.log("Phase 2: Classifying anchors...")
	metrics = ranking.Classify(metrics)
	for _, m := range metrics {
		if m.IsAnchor {
			result.AnchorsFlagged++
		}
	}
	observability.DefaultMetrics.AnchorsFlagged.Add(float64(result.AnchorsFlagged))
	o.log("  Flagged %d anchors", result.AnchorsFlagged)

	// Phase 3: Pricing
	o.log("Phase 3: Computing pricing decisions...")
	decisions := o.engine.PriceAll(metrics)
	for _, d := range decisions {
		observability.RecordDecision(d.Reason)
	}
	result.DecisionsCreated = len(decisions)
	o.log("  Computed %d decisions", len(decisions))

	// Phase 4: Persistence
	o.log("Phase 4: Persisting run %s...", runID)
	started = o.clock()
	if err := o.persist(ctx, runID, metrics, decisions); err != nil {
		observability.RecordPipelinePhase("persist", "error", o.clock().Sub(started).Seconds())
		return nil, fmt.Errorf("phase 4 (persistence) failed: %w", err)
	}
	observability.RecordPipelinePhase("persist", "ok", o.clock().Sub(started).Seconds())
	observability.DefaultMetrics.LastSuccessfulRun.Set(float64(o.clock().Unix()))

	o.log("Run %s completed: %d SKUs, %d anchors, %d decisions",
		runID, result.SKUsAggregated, result.AnchorsFlagged, result.DecisionsCreated)

	return result, nil
}

// DataQualityErrors exposes the aggregator's join coverage messages for
// report generation.
func (o *Orchestrator) DataQualityErrors() []string {
	return o.aggregator.DataQualityErrors()
}

func (o *Orchestrator) persist(ctx context.Context, runID string, metrics []*domain.AggregatedMetrics, decisions []*domain.PricingDecision) error {
	if err := o.metricsStore.InsertBulk(ctx, runID, metrics); err != nil {
		return fmt.Errorf("store metrics: %w", err)
	}
	if err := o.decisionStore.InsertBulk(ctx, runID, decisions); err != nil {
		return fmt.Errorf("store decisions: %w", err)
	}
	return nil
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[pipeline] "+format, args...)
	}
}
