package postgres

import (
	"context"
	"fmt"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// EngagementStore implements storage.EngagementStore using PostgreSQL.
type EngagementStore struct {
	pool *Pool
}

// NewEngagementStore creates a new EngagementStore.
func NewEngagementStore(pool *Pool) *EngagementStore {
	return &EngagementStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EngagementStore = (*EngagementStore)(nil)

// Insert adds an engagement record. Returns ErrDuplicateKey if sku_id exists.
func (s *EngagementStore) Insert(ctx context.Context, e *domain.EngagementRecord) error {
	query := `
		INSERT INTO engagement_records (
			sku_id, impressions, add_to_cart, conversions
		) VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, e.SKUID, e.Impressions, e.AddToCart, e.Conversions)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert engagement record: %w", err)
	}
	return nil
}

// GetBySKU retrieves the engagement record for a SKU. Returns ErrNotFound if not exists.
func (s *EngagementStore) GetBySKU(ctx context.Context, skuID string) (*domain.EngagementRecord, error) {
	query := `
		SELECT sku_id, impressions, add_to_cart, conversions
		FROM engagement_records
		WHERE sku_id = $1
	`

	row := s.pool.QueryRow(ctx, query, skuID)

	var e domain.EngagementRecord
	err := row.Scan(&e.SKUID, &e.Impressions, &e.AddToCart, &e.Conversions)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get engagement record by sku: %w", err)
	}
	return &e, nil
}

// GetAll retrieves all engagement records ordered by sku_id.
func (s *EngagementStore) GetAll(ctx context.Context) ([]*domain.EngagementRecord, error) {
	query := `
		SELECT sku_id, impressions, add_to_cart, conversions
		FROM engagement_records
		ORDER BY sku_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all engagement records: %w", err)
	}
	defer rows.Close()

	var records []*domain.EngagementRecord
	for rows.Next() {
		var e domain.EngagementRecord
		if err := rows.Scan(&e.SKUID, &e.Impressions, &e.AddToCart, &e.Conversions); err != nil {
			return nil, fmt.Errorf("scan engagement record row: %w", err)
		}
		records = append(records, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate engagement record rows: %w", err)
	}

	return records, nil
}
