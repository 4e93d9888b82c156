package memory

import (
	"context"
	"sync"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
// Insertion order is preserved; downstream tie-breaks depend on it.
type TransactionStore struct {
	mu   sync.RWMutex
	data []*domain.TransactionRecord
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{}
}

// Insert adds a new transaction.
func (s *TransactionStore) Insert(_ context.Context, t *domain.TransactionRecord) error {
	if t == nil || t.SKUID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *t
	s.data = append(s.data, &copy)
	return nil
}

// InsertBulk adds multiple transactions atomically.
func (s *TransactionStore) InsertBulk(_ context.Context, ts []*domain.TransactionRecord) error {
	if len(ts) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range ts {
		if t == nil || t.SKUID == "" {
			return storage.ErrInvalidInput
		}
	}
	for _, t := range ts {
		copy := *t
		s.data = append(s.data, &copy)
	}
	return nil
}

// GetBySKU retrieves all transactions for a SKU in insertion order.
func (s *TransactionStore) GetBySKU(_ context.Context, skuID string) ([]*domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TransactionRecord
	for _, t := range s.data {
		if t.SKUID == skuID {
			copy := *t
			result = append(result, &copy)
		}
	}
	return result, nil
}

// GetAll retrieves all transactions in insertion order.
func (s *TransactionStore) GetAll(_ context.Context) ([]*domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TransactionRecord, len(s.data))
	for i, t := range s.data {
		copy := *t
		result[i] = &copy
	}
	return result, nil
}

var _ storage.TransactionStore = (*TransactionStore)(nil)
