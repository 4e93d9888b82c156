package memory

import (
	"context"
	"sort"
	"sync"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// ProductStore is an in-memory implementation of storage.ProductStore.
type ProductStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ProductAttributes
}

// NewProductStore creates a new in-memory product attribute store.
func NewProductStore() *ProductStore {
	return &ProductStore{
		data: make(map[string]*domain.ProductAttributes),
	}
}

// Insert adds attributes for a SKU. Returns ErrDuplicateKey if sku_id exists.
func (s *ProductStore) Insert(_ context.Context, p *domain.ProductAttributes) error {
	if p == nil || p.SKUID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.SKUID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *p
	s.data[p.SKUID] = &copy
	return nil
}

// GetBySKU retrieves attributes for a SKU. Returns ErrNotFound if not exists.
func (s *ProductStore) GetBySKU(_ context.Context, skuID string) (*domain.ProductAttributes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[skuID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *p
	return &copy, nil
}

// GetAll retrieves all product attributes sorted by sku_id.
func (s *ProductStore) GetAll(_ context.Context) ([]*domain.ProductAttributes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ProductAttributes, 0, len(s.data))
	for _, p := range s.data {
		copy := *p
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SKUID < result[j].SKUID })
	return result, nil
}

var _ storage.ProductStore = (*ProductStore)(nil)
