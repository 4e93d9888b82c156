package memory

import (
	"context"
	"sort"
	"sync"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

type decisionKey struct {
	runID string
	skuID string
}

// DecisionStore is an in-memory implementation of storage.DecisionStore.
type DecisionStore struct {
	mu   sync.RWMutex
	data map[decisionKey]*domain.PricingDecision
}

// NewDecisionStore creates a new in-memory pricing decision store.
func NewDecisionStore() *DecisionStore {
	return &DecisionStore{
		data: make(map[decisionKey]*domain.PricingDecision),
	}
}

// Insert adds one decision. Returns ErrDuplicateKey if (run_id, sku_id) exists.
func (s *DecisionStore) Insert(_ context.Context, runID string, d *domain.PricingDecision) error {
	if runID == "" || d == nil || d.SKUID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := decisionKey{runID: runID, skuID: d.SKUID}
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *d
	s.data[key] = &copy
	return nil
}

// InsertBulk adds multiple decisions atomically. Fails entire batch on any duplicate.
func (s *DecisionStore) InsertBulk(_ context.Context, runID string, ds []*domain.PricingDecision) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(ds) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[decisionKey]struct{}, len(ds))
	for _, d := range ds {
		if d == nil || d.SKUID == "" {
			return storage.ErrInvalidInput
		}
		key := decisionKey{runID: runID, skuID: d.SKUID}
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, d := range ds {
		copy := *d
		s.data[decisionKey{runID: runID, skuID: d.SKUID}] = &copy
	}
	return nil
}

// GetByRun retrieves all decisions for a run ordered by sku_id.
func (s *DecisionStore) GetByRun(_ context.Context, runID string) ([]*domain.PricingDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PricingDecision
	for key, d := range s.data {
		if key.runID == runID {
			copy := *d
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SKUID < result[j].SKUID })
	return result, nil
}

var _ storage.DecisionStore = (*DecisionStore)(nil)
