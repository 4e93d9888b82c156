// Package main runs the full pricing pipeline:
// aggregation → anchor ranking → pricing → persistence → reporting
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"sku-pricing-lab/internal/observability"
	"sku-pricing-lab/internal/pipeline"
	"sku-pricing-lab/internal/storage"
	chstore "sku-pricing-lab/internal/storage/clickhouse"
	"sku-pricing-lab/internal/storage/memory"
	"sku-pricing-lab/internal/storage/migrations"
	pgstore "sku-pricing-lab/internal/storage/postgres"
)

func main() {
	// .env is optional; flags and real env vars win.
	_ = godotenv.Load()

	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	runID := flag.String("run-id", "", "Run identifier (default: derived from current time)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useFixtures := flag.Bool("use-fixtures", false, "Use in-memory fixtures instead of database")
	verbose := flag.Bool("verbose", false, "Verbose output")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	if !*useFixtures && (*postgresDSN == "" || *clickhouseDSN == "") {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn and --clickhouse-dsn are required when not using fixtures")
		fmt.Fprintln(os.Stderr, "Use --use-fixtures to run with demo data instead")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling run...\n", sig)
		cancel()
	}()

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "Metrics server error: %v\n", err)
			}
		}()
	}

	stores, cleanup, err := createStores(ctx, *useFixtures, *postgresDSN, *clickhouseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating stores: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if *useFixtures {
		if err := pipeline.LoadFixtures(ctx,
			stores.transactions, stores.products, stores.suppliers,
			stores.engagement, stores.market); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("=== Pricing Pipeline ===")
	orch := pipeline.New(pipeline.Options{
		TransactionStore: stores.transactions,
		ProductStore:     stores.products,
		SupplierStore:    stores.suppliers,
		EngagementStore:  stores.engagement,
		MarketStore:      stores.market,
		MetricsStore:     stores.metrics,
		DecisionStore:    stores.decisions,
		RunID:            *runID,
		Verbose:          *verbose,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pipeline completed:\n")
	fmt.Printf("  Run:       %s\n", result.RunID)
	fmt.Printf("  SKUs:      %d\n", result.SKUsAggregated)
	fmt.Printf("  Anchors:   %d\n", result.AnchorsFlagged)
	fmt.Printf("  Decisions: %d\n", result.DecisionsCreated)
	if len(result.Errors) > 0 {
		fmt.Printf("  Data quality errors: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}

	fmt.Println("\n=== Reporting ===")
	rp := pipeline.NewReportPipeline(stores.metrics, stores.decisions, *outputDir).
		WithQualityErrors(orch.DataQualityErrors())
	if err := rp.Run(ctx, result.RunID); err != nil {
		fmt.Fprintf(os.Stderr, "Report error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nRun completed successfully:")
	fmt.Printf("  - %s/PRICING_REPORT.md\n", *outputDir)
	fmt.Printf("  - %s/pricing_decisions.csv\n", *outputDir)
	fmt.Printf("  - %s/aggregated_metrics.csv\n", *outputDir)
}

// allStores holds one store per record stream plus the two output stores.
type allStores struct {
	transactions storage.TransactionStore
	products     storage.ProductStore
	suppliers    storage.SupplierStore
	engagement   storage.EngagementStore
	market       storage.MarketStore
	metrics      storage.MetricsStore
	decisions    storage.DecisionStore
}

// createStores builds either in-memory stores or database-backed stores.
// The returned cleanup closes any opened connections.
func createStores(ctx context.Context, useFixtures bool, postgresDSN, clickhouseDSN string) (*allStores, func(), error) {
	if useFixtures {
		return &allStores{
			transactions: memory.NewTransactionStore(),
			products:     memory.NewProductStore(),
			suppliers:    memory.NewSupplierStore(),
			engagement:   memory.NewEngagementStore(),
			market:       memory.NewMarketStore(),
			metrics:      memory.NewMetricsStore(),
			decisions:    memory.NewDecisionStore(),
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &allStores{
		transactions: pgstore.NewTransactionStore(pool),
		products:     pgstore.NewProductStore(pool),
		suppliers:    pgstore.NewSupplierStore(pool),
		engagement:   pgstore.NewEngagementStore(pool),
		market:       pgstore.NewMarketStore(pool),
		metrics:      chstore.NewMetricsStore(conn),
		decisions:    pgstore.NewDecisionStore(pool),
	}
	cleanup := func() {
		pool.Close()
		conn.Close()
	}
	return stores, cleanup, nil
}
