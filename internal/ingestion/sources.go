// Package ingestion loads the five raw record streams from external sources
// into storage.
package ingestion

import (
	"context"

	"sku-pricing-lab/internal/domain"
)

// TransactionSource provides raw transaction records from an external source.
type TransactionSource interface {
	// Fetch returns all transactions in source order.
	Fetch(ctx context.Context) ([]*domain.TransactionRecord, error)
}

// ProductSource provides product attribute records.
type ProductSource interface {
	Fetch(ctx context.Context) ([]*domain.ProductAttributes, error)
}

// SupplierSource provides supplier records.
type SupplierSource interface {
	Fetch(ctx context.Context) ([]*domain.SupplierRecord, error)
}

// EngagementSource provides engagement counter records.
type EngagementSource interface {
	Fetch(ctx context.Context) ([]*domain.EngagementRecord, error)
}

// MarketSource provides competitor price records.
type MarketSource interface {
	Fetch(ctx context.Context) ([]*domain.MarketRecord, error)
}
