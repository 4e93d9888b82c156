// Package main regenerates report artifacts for a stored pricing run.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"sku-pricing-lab/internal/pipeline"
	chstore "sku-pricing-lab/internal/storage/clickhouse"
	pgstore "sku-pricing-lab/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	runID := flag.String("run-id", "", "Run identifier to report on")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	flag.Parse()

	if *runID == "" {
		fmt.Fprintln(os.Stderr, "Error: --run-id is required")
		os.Exit(1)
	}
	if *postgresDSN == "" || *clickhouseDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn and --clickhouse-dsn are required")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	conn, err := chstore.NewConn(ctx, *clickhouseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to clickhouse: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	metricsStore := chstore.NewMetricsStore(conn)
	decisionStore := pgstore.NewDecisionStore(pool)

	p := pipeline.NewReportPipeline(metricsStore, decisionStore, *outputDir)
	if err := p.Run(ctx, *runID); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Report generated successfully:")
	fmt.Printf("  - %s/PRICING_REPORT.md\n", *outputDir)
	fmt.Printf("  - %s/pricing_decisions.csv\n", *outputDir)
	fmt.Printf("  - %s/aggregated_metrics.csv\n", *outputDir)
}
