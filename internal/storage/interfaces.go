package storage

import (
	"context"

	"sku-pricing-lab/internal/domain"
)

// TransactionStore provides access to transaction storage. Transactions have
// no natural unique key; inserts always append.
type TransactionStore interface {
	// Insert adds a new transaction.
	Insert(ctx context.Context, t *domain.TransactionRecord) error

	// InsertBulk adds multiple transactions atomically.
	InsertBulk(ctx context.Context, ts []*domain.TransactionRecord) error

	// GetBySKU retrieves all transactions for a SKU in insertion order.
	GetBySKU(ctx context.Context, skuID string) ([]*domain.TransactionRecord, error)

	// GetAll retrieves all transactions in insertion order.
	GetAll(ctx context.Context) ([]*domain.TransactionRecord, error)
}

// ProductStore provides access to product attribute storage (1:1 per sku_id).
type ProductStore interface {
	// Insert adds attributes for a SKU. Returns ErrDuplicateKey if sku_id exists.
	Insert(ctx context.Context, p *domain.ProductAttributes) error

	// GetBySKU retrieves attributes for a SKU. Returns ErrNotFound if not exists.
	GetBySKU(ctx context.Context, skuID string) (*domain.ProductAttributes, error)

	// GetAll retrieves all product attributes.
	GetAll(ctx context.Context) ([]*domain.ProductAttributes, error)
}

// SupplierStore provides access to supplier record storage (1:1 per sku_id).
type SupplierStore interface {
	// Insert adds a supplier record. Returns ErrDuplicateKey if sku_id exists.
	Insert(ctx context.Context, s *domain.SupplierRecord) error

	// GetBySKU retrieves the supplier record for a SKU. Returns ErrNotFound if not exists.
	GetBySKU(ctx context.Context, skuID string) (*domain.SupplierRecord, error)

	// GetAll retrieves all supplier records.
	GetAll(ctx context.Context) ([]*domain.SupplierRecord, error)
}

// EngagementStore provides access to engagement counter storage (1:1 per sku_id).
type EngagementStore interface {
	// Insert adds an engagement record. Returns ErrDuplicateKey if sku_id exists.
	Insert(ctx context.Context, e *domain.EngagementRecord) error

	// GetBySKU retrieves the engagement record for a SKU. Returns ErrNotFound if not exists.
	GetBySKU(ctx context.Context, skuID string) (*domain.EngagementRecord, error)

	// GetAll retrieves all engagement records.
	GetAll(ctx context.Context) ([]*domain.EngagementRecord, error)
}

// MarketStore provides access to competitor price storage (1:1 per sku_id).
// This is the one mutable stream: live feeds overwrite quotes via Upsert.
type MarketStore interface {
	// Insert adds a market record. Returns ErrDuplicateKey if sku_id exists.
	Insert(ctx context.Context, m *domain.MarketRecord) error

	// Upsert inserts or replaces the market record for a SKU.
	Upsert(ctx context.Context, m *domain.MarketRecord) error

	// GetBySKU retrieves the market record for a SKU. Returns ErrNotFound if not exists.
	GetBySKU(ctx context.Context, skuID string) (*domain.MarketRecord, error)

	// GetAll retrieves all market records.
	GetAll(ctx context.Context) ([]*domain.MarketRecord, error)
}

// MetricsStore provides access to per-run aggregated metrics audit storage.
type MetricsStore interface {
	// InsertBulk stores the metrics of one pricing run.
	// Returns ErrDuplicateKey if the run already has metrics stored.
	InsertBulk(ctx context.Context, runID string, metrics []*domain.AggregatedMetrics) error

	// GetByRun retrieves all metrics for a run ordered by (category, sales_rank).
	GetByRun(ctx context.Context, runID string) ([]*domain.AggregatedMetrics, error)
}

// DecisionStore provides access to pricing decision storage.
type DecisionStore interface {
	// Insert adds one decision. Returns ErrDuplicateKey if (run_id, sku_id) exists.
	Insert(ctx context.Context, runID string, d *domain.PricingDecision) error

	// InsertBulk adds multiple decisions atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, runID string, ds []*domain.PricingDecision) error

	// GetByRun retrieves all decisions for a run ordered by sku_id.
	GetByRun(ctx context.Context, runID string) ([]*domain.PricingDecision, error)
}
