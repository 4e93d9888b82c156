package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/observability"
	"sku-pricing-lab/internal/storage"
)

// Runner loads batch sources into stores and, optionally, keeps competitor
// quotes fresh from a live feed.
type Runner struct {
	transactionSource TransactionSource
	productSource     ProductSource
	supplierSource    SupplierSource
	engagementSource  EngagementSource
	marketSource      MarketSource

	transactionStore storage.TransactionStore
	productStore     storage.ProductStore
	supplierStore    storage.SupplierStore
	engagementStore  storage.EngagementStore
	marketStore      storage.MarketStore

	marketFeed *WSMarketFeed
	logger     *log.Logger
}

// RunnerOptions contains configuration for creating a Runner. Sources left
// nil are skipped.
type RunnerOptions struct {
	TransactionSource TransactionSource
	ProductSource     ProductSource
	SupplierSource    SupplierSource
	EngagementSource  EngagementSource
	MarketSource      MarketSource

	TransactionStore storage.TransactionStore
	ProductStore     storage.ProductStore
	SupplierStore    storage.SupplierStore
	EngagementStore  storage.EngagementStore
	MarketStore      storage.MarketStore

	MarketFeed *WSMarketFeed
	Logger     *log.Logger
}

// NewRunner creates a new ingestion runner.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Runner{
		transactionSource: opts.TransactionSource,
		productSource:     opts.ProductSource,
		supplierSource:    opts.SupplierSource,
		engagementSource:  opts.EngagementSource,
		marketSource:      opts.MarketSource,
		transactionStore:  opts.TransactionStore,
		productStore:      opts.ProductStore,
		supplierStore:     opts.SupplierStore,
		engagementStore:   opts.EngagementStore,
		marketStore:       opts.MarketStore,
		marketFeed:        opts.MarketFeed,
		logger:            logger,
	}
}

// LoadResult counts records loaded per stream.
type LoadResult struct {
	Transactions int
	Products     int
	Suppliers    int
	Engagement   int
	Market       int
	Skipped      int // duplicates already present in a 1:1 stream
}

// LoadBatch fetches every configured source and writes its records to the
// matching store. Records already present in a 1:1 stream are skipped, not
// treated as errors, so reloading a file is safe.
func (r *Runner) LoadBatch(ctx context.Context) (*LoadResult, error) {
	result := &LoadResult{}

	if r.transactionSource != nil {
		txns, err := r.transactionSource.Fetch(ctx)
		if err != nil {
			observability.RecordIngestError("transactions")
			return nil, fmt.Errorf("fetch transactions: %w", err)
		}
		if err := r.transactionStore.InsertBulk(ctx, txns); err != nil {
			return nil, fmt.Errorf("store transactions: %w", err)
		}
		result.Transactions = len(txns)
		observability.RecordIngested("transactions", len(txns))
		r.logger.Printf("[ingest] loaded %d transactions", len(txns))
	}

	if r.productSource != nil {
		products, err := r.productSource.Fetch(ctx)
		if err != nil {
			observability.RecordIngestError("products")
			return nil, fmt.Errorf("fetch products: %w", err)
		}
		for _, p := range products {
			if err := r.productStore.Insert(ctx, p); err != nil {
				if errors.Is(err, storage.ErrDuplicateKey) {
					result.Skipped++
					continue
				}
				return nil, fmt.Errorf("store product %s: %w", p.SKUID, err)
			}
			result.Products++
		}
		observability.RecordIngested("products", result.Products)
		r.logger.Printf("[ingest] loaded %d products", result.Products)
	}

	if r.supplierSource != nil {
		suppliers, err := r.supplierSource.Fetch(ctx)
		if err != nil {
			observability.RecordIngestError("suppliers")
			return nil, fmt.Errorf("fetch suppliers: %w", err)
		}
		for _, s := range suppliers {
			if err := r.supplierStore.Insert(ctx, s); err != nil {
				if errors.Is(err, storage.ErrDuplicateKey) {
					result.Skipped++
					continue
				}
				return nil, fmt.Errorf("store supplier %s: %w", s.SKUID, err)
			}
			result.Suppliers++
		}
		observability.RecordIngested("suppliers", result.Suppliers)
		r.logger.Printf("[ingest] loaded %d suppliers", result.Suppliers)
	}

	if r.engagementSource != nil {
		engagement, err := r.engagementSource.Fetch(ctx)
		if err != nil {
			observability.RecordIngestError("engagement")
			return nil, fmt.Errorf("fetch engagement: %w", err)
		}
		for _, e := range engagement {
			if err := r.engagementStore.Insert(ctx, e); err != nil {
				if errors.Is(err, storage.ErrDuplicateKey) {
					result.Skipped++
					continue
				}
				return nil, fmt.Errorf("store engagement %s: %w", e.SKUID, err)
			}
			result.Engagement++
		}
		observability.RecordIngested("engagement", result.Engagement)
		r.logger.Printf("[ingest] loaded %d engagement records", result.Engagement)
	}

	if r.marketSource != nil {
		market, err := r.marketSource.Fetch(ctx)
		if err != nil {
			observability.RecordIngestError("market")
			return nil, fmt.Errorf("fetch market: %w", err)
		}
		// Batch market loads upsert: a newer file wins over stale quotes.
		for _, m := range market {
			if err := r.marketStore.Upsert(ctx, m); err != nil {
				return nil, fmt.Errorf("store market %s: %w", m.SKUID, err)
			}
			result.Market++
		}
		observability.RecordIngested("market", result.Market)
		r.logger.Printf("[ingest] loaded %d market records", result.Market)
	}

	return result, nil
}

// RunMarketFeed streams live competitor quotes into the market store until
// the context is cancelled. Requires a configured MarketFeed.
func (r *Runner) RunMarketFeed(ctx context.Context) error {
	if r.marketFeed == nil {
		return errors.New("no market feed configured")
	}

	r.logger.Printf("[ingest] starting live market feed")
	return r.marketFeed.Run(ctx, func(rec *domain.MarketRecord) error {
		if err := r.marketStore.Upsert(ctx, rec); err != nil {
			observability.RecordIngestError("market_feed")
			return fmt.Errorf("upsert quote for %s: %w", rec.SKUID, err)
		}
		observability.RecordMarketFeedUpdate()
		return nil
	})
}
