package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
// Rows carry a serial id so insertion order survives round trips.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// Insert appends a new transaction.
func (s *TransactionStore) Insert(ctx context.Context, t *domain.TransactionRecord) error {
	query := `
		INSERT INTO transactions (
			sku_id, price_paid, quantity, timestamp_ms, customer_location
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		t.SKUID, t.PricePaid, t.Quantity, t.TimestampMs, t.CustomerLocation,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// InsertBulk appends multiple transactions atomically.
func (s *TransactionStore) InsertBulk(ctx context.Context, ts []*domain.TransactionRecord) error {
	if len(ts) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO transactions (
			sku_id, price_paid, quantity, timestamp_ms, customer_location
		) VALUES ($1, $2, $3, $4, $5)
	`

	for _, t := range ts {
		_, err := tx.Exec(ctx, query,
			t.SKUID, t.PricePaid, t.Quantity, t.TimestampMs, t.CustomerLocation,
		)
		if err != nil {
			return fmt.Errorf("insert transaction in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetBySKU retrieves all transactions for a SKU in insertion order.
func (s *TransactionStore) GetBySKU(ctx context.Context, skuID string) ([]*domain.TransactionRecord, error) {
	query := `
		SELECT sku_id, price_paid, quantity, timestamp_ms, customer_location
		FROM transactions
		WHERE sku_id = $1
		ORDER BY id ASC
	`

	rows, err := s.pool.Query(ctx, query, skuID)
	if err != nil {
		return nil, fmt.Errorf("get transactions by sku: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetAll retrieves all transactions in insertion order.
func (s *TransactionStore) GetAll(ctx context.Context) ([]*domain.TransactionRecord, error) {
	query := `
		SELECT sku_id, price_paid, quantity, timestamp_ms, customer_location
		FROM transactions
		ORDER BY id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]*domain.TransactionRecord, error) {
	var txns []*domain.TransactionRecord

	for rows.Next() {
		var t domain.TransactionRecord

		err := rows.Scan(&t.SKUID, &t.PricePaid, &t.Quantity, &t.TimestampMs, &t.CustomerLocation)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}

		txns = append(txns, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return txns, nil
}
