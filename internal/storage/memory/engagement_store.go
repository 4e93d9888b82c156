package memory

import (
	"context"
	"sort"
	"sync"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// EngagementStore is an in-memory implementation of storage.EngagementStore.
type EngagementStore struct {
	mu   sync.RWMutex
	data map[string]*domain.EngagementRecord
}

// NewEngagementStore creates a new in-memory engagement store.
func NewEngagementStore() *EngagementStore {
	return &EngagementStore{
		data: make(map[string]*domain.EngagementRecord),
	}
}

// Insert adds an engagement record. Returns ErrDuplicateKey if sku_id exists.
func (s *EngagementStore) Insert(_ context.Context, e *domain.EngagementRecord) error {
	if e == nil || e.SKUID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[e.SKUID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *e
	s.data[e.SKUID] = &copy
	return nil
}

// GetBySKU retrieves the engagement record for a SKU. Returns ErrNotFound if not exists.
func (s *EngagementStore) GetBySKU(_ context.Context, skuID string) (*domain.EngagementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.data[skuID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *e
	return &copy, nil
}

// GetAll retrieves all engagement records sorted by sku_id.
func (s *EngagementStore) GetAll(_ context.Context) ([]*domain.EngagementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.EngagementRecord, 0, len(s.data))
	for _, e := range s.data {
		copy := *e
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SKUID < result[j].SKUID })
	return result, nil
}

var _ storage.EngagementStore = (*EngagementStore)(nil)
