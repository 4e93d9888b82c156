// Package main loads record streams into storage. Two modes:
//   - csv: one-shot batch load from headered CSV files
//   - live: stream competitor quotes from a WebSocket market feed
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sku-pricing-lab/internal/ingestion"
	"sku-pricing-lab/internal/observability"
	"sku-pricing-lab/internal/storage"
	"sku-pricing-lab/internal/storage/memory"
	"sku-pricing-lab/internal/storage/migrations"
	pgstore "sku-pricing-lab/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	mode := flag.String("mode", "csv", "Ingestion mode: csv or live")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	transactionsPath := flag.String("transactions", "", "Transactions CSV path")
	productsPath := flag.String("products", "", "Product attributes CSV path")
	suppliersPath := flag.String("suppliers", "", "Supplier records CSV path")
	engagementPath := flag.String("engagement", "", "Engagement records CSV path")
	marketPath := flag.String("market", "", "Market records CSV path")
	feedEndpoint := flag.String("feed-endpoint", os.Getenv("MARKET_FEED_ENDPOINT"), "WebSocket market feed endpoint")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags)

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	var err error
	switch *mode {
	case "csv":
		err = runCSV(ctx, logger, *postgresDSN, *useMemory,
			*transactionsPath, *productsPath, *suppliersPath, *engagementPath, *marketPath)
	case "live":
		err = runLive(ctx, logger, *postgresDSN, *useMemory, *feedEndpoint)
	default:
		logger.Fatalf("Unknown mode: %s", *mode)
	}

	done <- err
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// ingestStores holds one store per input stream.
type ingestStores struct {
	transactions storage.TransactionStore
	products     storage.ProductStore
	suppliers    storage.SupplierStore
	engagement   storage.EngagementStore
	market       storage.MarketStore
}

func createStores(ctx context.Context, postgresDSN string, useMemory bool) (*ingestStores, func(), error) {
	if useMemory {
		return &ingestStores{
			transactions: memory.NewTransactionStore(),
			products:     memory.NewProductStore(),
			suppliers:    memory.NewSupplierStore(),
			engagement:   memory.NewEngagementStore(),
			market:       memory.NewMarketStore(),
		}, func() {}, nil
	}

	if postgresDSN == "" {
		return nil, nil, fmt.Errorf("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	return &ingestStores{
		transactions: pgstore.NewTransactionStore(pool),
		products:     pgstore.NewProductStore(pool),
		suppliers:    pgstore.NewSupplierStore(pool),
		engagement:   pgstore.NewEngagementStore(pool),
		market:       pgstore.NewMarketStore(pool),
	}, pool.Close, nil
}

// runCSV performs a one-shot batch load of every provided CSV file.
func runCSV(ctx context.Context, logger *log.Logger, postgresDSN string, useMemory bool,
	transactionsPath, productsPath, suppliersPath, engagementPath, marketPath string) error {
	if transactionsPath == "" && productsPath == "" && suppliersPath == "" &&
		engagementPath == "" && marketPath == "" {
		return fmt.Errorf("csv mode needs at least one of --transactions, --products, --suppliers, --engagement, --market")
	}

	stores, cleanup, err := createStores(ctx, postgresDSN, useMemory)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := ingestion.RunnerOptions{
		TransactionStore: stores.transactions,
		ProductStore:     stores.products,
		SupplierStore:    stores.suppliers,
		EngagementStore:  stores.engagement,
		MarketStore:      stores.market,
		Logger:           logger,
	}
	if transactionsPath != "" {
		opts.TransactionSource = ingestion.NewCSVTransactionSource(transactionsPath)
	}
	if productsPath != "" {
		opts.ProductSource = ingestion.NewCSVProductSource(productsPath)
	}
	if suppliersPath != "" {
		opts.SupplierSource = ingestion.NewCSVSupplierSource(suppliersPath)
	}
	if engagementPath != "" {
		opts.EngagementSource = ingestion.NewCSVEngagementSource(engagementPath)
	}
	if marketPath != "" {
		opts.MarketSource = ingestion.NewCSVMarketSource(marketPath)
	}

	result, err := ingestion.NewRunner(opts).LoadBatch(ctx)
	if err != nil {
		return err
	}

	logger.Printf("Batch load complete: %d transactions, %d products, %d suppliers, %d engagement, %d market (%d duplicates skipped)",
		result.Transactions, result.Products, result.Suppliers, result.Engagement, result.Market, result.Skipped)
	return nil
}

// runLive streams quotes from the market feed until interrupted.
func runLive(ctx context.Context, logger *log.Logger, postgresDSN string, useMemory bool, feedEndpoint string) error {
	if feedEndpoint == "" {
		return fmt.Errorf("--feed-endpoint is required for live mode")
	}

	stores, cleanup, err := createStores(ctx, postgresDSN, useMemory)
	if err != nil {
		return err
	}
	defer cleanup()

	runner := ingestion.NewRunner(ingestion.RunnerOptions{
		MarketStore: stores.market,
		MarketFeed:  ingestion.NewWSMarketFeed(feedEndpoint, nil),
		Logger:      logger,
	})

	logger.Printf("Streaming market feed from %s", feedEndpoint)
	return runner.RunMarketFeed(ctx)
}
