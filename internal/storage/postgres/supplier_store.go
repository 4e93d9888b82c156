package postgres

import (
	"context"
	"fmt"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// SupplierStore implements storage.SupplierStore using PostgreSQL.
type SupplierStore struct {
	pool *Pool
}

// NewSupplierStore creates a new SupplierStore.
func NewSupplierStore(pool *Pool) *SupplierStore {
	return &SupplierStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SupplierStore = (*SupplierStore)(nil)

// Insert adds a supplier record. Returns ErrDuplicateKey if sku_id exists.
func (s *SupplierStore) Insert(ctx context.Context, r *domain.SupplierRecord) error {
	query := `
		INSERT INTO supplier_records (
			sku_id, cost_price, availability, lead_time_days
		) VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, r.SKUID, r.CostPrice, r.Availability, r.LeadTimeDays)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert supplier record: %w", err)
	}
	return nil
}

// GetBySKU retrieves the supplier record for a SKU. Returns ErrNotFound if not exists.
func (s *SupplierStore) GetBySKU(ctx context.Context, skuID string) (*domain.SupplierRecord, error) {
	query := `
		SELECT sku_id, cost_price, availability, lead_time_days
		FROM supplier_records
		WHERE sku_id = $1
	`

	row := s.pool.QueryRow(ctx, query, skuID)

	var r domain.SupplierRecord
	err := row.Scan(&r.SKUID, &r.CostPrice, &r.Availability, &r.LeadTimeDays)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get supplier record by sku: %w", err)
	}
	return &r, nil
}

// GetAll retrieves all supplier records ordered by sku_id.
func (s *SupplierStore) GetAll(ctx context.Context) ([]*domain.SupplierRecord, error) {
	query := `
		SELECT sku_id, cost_price, availability, lead_time_days
		FROM supplier_records
		ORDER BY sku_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all supplier records: %w", err)
	}
	defer rows.Close()

	var records []*domain.SupplierRecord
	for rows.Next() {
		var r domain.SupplierRecord
		if err := rows.Scan(&r.SKUID, &r.CostPrice, &r.Availability, &r.LeadTimeDays); err != nil {
			return nil, fmt.Errorf("scan supplier record row: %w", err)
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate supplier record rows: %w", err)
	}

	return records, nil
}
