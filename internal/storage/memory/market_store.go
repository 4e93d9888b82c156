package memory

import (
	"context"
	"sort"
	"sync"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// MarketStore is an in-memory implementation of storage.MarketStore.
type MarketStore struct {
	mu   sync.RWMutex
	data map[string]*domain.MarketRecord
}

// NewMarketStore creates a new in-memory market record store.
func NewMarketStore() *MarketStore {
	return &MarketStore{
		data: make(map[string]*domain.MarketRecord),
	}
}

// Insert adds a market record. Returns ErrDuplicateKey if sku_id exists.
func (s *MarketStore) Insert(_ context.Context, m *domain.MarketRecord) error {
	if m == nil || m.SKUID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[m.SKUID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *m
	s.data[m.SKUID] = &copy
	return nil
}

// Upsert inserts or replaces the market record for a SKU.
func (s *MarketStore) Upsert(_ context.Context, m *domain.MarketRecord) error {
	if m == nil || m.SKUID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *m
	s.data[m.SKUID] = &copy
	return nil
}

// GetBySKU retrieves the market record for a SKU. Returns ErrNotFound if not exists.
func (s *MarketStore) GetBySKU(_ context.Context, skuID string) (*domain.MarketRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.data[skuID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *m
	return &copy, nil
}

// GetAll retrieves all market records sorted by sku_id.
func (s *MarketStore) GetAll(_ context.Context) ([]*domain.MarketRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.MarketRecord, 0, len(s.data))
	for _, m := range s.data {
		copy := *m
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SKUID < result[j].SKUID })
	return result, nil
}

var _ storage.MarketStore = (*MarketStore)(nil)
