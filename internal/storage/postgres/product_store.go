package postgres

import (
	"context"
	"fmt"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// ProductStore implements storage.ProductStore using PostgreSQL.
type ProductStore struct {
	pool *Pool
}

// NewProductStore creates a new ProductStore.
func NewProductStore(pool *Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProductStore = (*ProductStore)(nil)

// Insert adds attributes for a SKU. Returns ErrDuplicateKey if sku_id exists.
func (s *ProductStore) Insert(ctx context.Context, p *domain.ProductAttributes) error {
	query := `
		INSERT INTO product_attributes (
			sku_id, category, packaging, manufacturer, fulfillment_method
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		p.SKUID, p.Category, p.Packaging, p.Manufacturer, p.FulfillmentMethod,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert product attributes: %w", err)
	}
	return nil
}

// GetBySKU retrieves attributes for a SKU. Returns ErrNotFound if not exists.
func (s *ProductStore) GetBySKU(ctx context.Context, skuID string) (*domain.ProductAttributes, error) {
	query := `
		SELECT sku_id, category, packaging, manufacturer, fulfillment_method
		FROM product_attributes
		WHERE sku_id = $1
	`

	row := s.pool.QueryRow(ctx, query, skuID)

	var p domain.ProductAttributes
	err := row.Scan(&p.SKUID, &p.Category, &p.Packaging, &p.Manufacturer, &p.FulfillmentMethod)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get product attributes by sku: %w", err)
	}
	return &p, nil
}

// GetAll retrieves all product attributes ordered by sku_id.
func (s *ProductStore) GetAll(ctx context.Context) ([]*domain.ProductAttributes, error) {
	query := `
		SELECT sku_id, category, packaging, manufacturer, fulfillment_method
		FROM product_attributes
		ORDER BY sku_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all product attributes: %w", err)
	}
	defer rows.Close()

	var products []*domain.ProductAttributes
	for rows.Next() {
		var p domain.ProductAttributes
		if err := rows.Scan(&p.SKUID, &p.Category, &p.Packaging, &p.Manufacturer, &p.FulfillmentMethod); err != nil {
			return nil, fmt.Errorf("scan product attributes row: %w", err)
		}
		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product attributes rows: %w", err)
	}

	return products, nil
}
