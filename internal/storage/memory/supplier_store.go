package memory

import (
	"context"
	"sort"
	"sync"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// SupplierStore is an in-memory implementation of storage.SupplierStore.
type SupplierStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SupplierRecord
}

// NewSupplierStore creates a new in-memory supplier record store.
func NewSupplierStore() *SupplierStore {
	return &SupplierStore{
		data: make(map[string]*domain.SupplierRecord),
	}
}

// Insert adds a supplier record. Returns ErrDuplicateKey if sku_id exists.
func (s *SupplierStore) Insert(_ context.Context, r *domain.SupplierRecord) error {
	if r == nil || r.SKUID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.SKUID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[r.SKUID] = &copy
	return nil
}

// GetBySKU retrieves the supplier record for a SKU. Returns ErrNotFound if not exists.
func (s *SupplierStore) GetBySKU(_ context.Context, skuID string) (*domain.SupplierRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[skuID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *r
	return &copy, nil
}

// GetAll retrieves all supplier records sorted by sku_id.
func (s *SupplierStore) GetAll(_ context.Context) ([]*domain.SupplierRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.SupplierRecord, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SKUID < result[j].SKUID })
	return result, nil
}

var _ storage.SupplierStore = (*SupplierStore)(nil)
