package postgres

import (
	"context"
	"fmt"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// MarketStore implements storage.MarketStore using PostgreSQL. Live feeds
// refresh quotes through Upsert; Insert stays strict for batch loads.
type MarketStore struct {
	pool *Pool
}

// NewMarketStore creates a new MarketStore.
func NewMarketStore(pool *Pool) *MarketStore {
	return &MarketStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MarketStore = (*MarketStore)(nil)

// Insert adds a market record. Returns ErrDuplicateKey if sku_id exists.
func (s *MarketStore) Insert(ctx context.Context, m *domain.MarketRecord) error {
	query := `
		INSERT INTO market_records (sku_id, competitor_price)
		VALUES ($1, $2)
	`

	_, err := s.pool.Exec(ctx, query, m.SKUID, m.CompetitorPrice)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert market record: %w", err)
	}
	return nil
}

// Upsert inserts or replaces the market record for a SKU.
func (s *MarketStore) Upsert(ctx context.Context, m *domain.MarketRecord) error {
	query := `
		INSERT INTO market_records (sku_id, competitor_price)
		VALUES ($1, $2)
		ON CONFLICT (sku_id) DO UPDATE SET competitor_price = EXCLUDED.competitor_price
	`

	_, err := s.pool.Exec(ctx, query, m.SKUID, m.CompetitorPrice)
	if err != nil {
		return fmt.Errorf("upsert market record: %w", err)
	}
	return nil
}

// GetBySKU retrieves the market record for a SKU. Returns ErrNotFound if not exists.
func (s *MarketStore) GetBySKU(ctx context.Context, skuID string) (*domain.MarketRecord, error) {
	query := `
		SELECT sku_id, competitor_price
		FROM market_records
		WHERE sku_id = $1
	`

	row := s.pool.QueryRow(ctx, query, skuID)

	var m domain.MarketRecord
	err := row.Scan(&m.SKUID, &m.CompetitorPrice)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get market record by sku: %w", err)
	}
	return &m, nil
}

// GetAll retrieves all market records ordered by sku_id.
func (s *MarketStore) GetAll(ctx context.Context) ([]*domain.MarketRecord, error) {
	query := `
		SELECT sku_id, competitor_price
		FROM market_records
		ORDER BY sku_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all market records: %w", err)
	}
	defer rows.Close()

	var records []*domain.MarketRecord
	for rows.Next() {
		var m domain.MarketRecord
		if err := rows.Scan(&m.SKUID, &m.CompetitorPrice); err != nil {
			return nil, fmt.Errorf("scan market record row: %w", err)
		}
		records = append(records, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate market record rows: %w", err)
	}

	return records, nil
}
