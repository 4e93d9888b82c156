package memory

import (
	"context"
	"sort"
	"sync"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// MetricsStore is an in-memory implementation of storage.MetricsStore.
type MetricsStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.AggregatedMetrics // keyed by run_id
}

// NewMetricsStore creates a new in-memory aggregated metrics store.
func NewMetricsStore() *MetricsStore {
	return &MetricsStore{
		data: make(map[string][]*domain.AggregatedMetrics),
	}
}

// InsertBulk stores the metrics of one pricing run.
// Returns ErrDuplicateKey if the run already has metrics stored.
func (s *MetricsStore) InsertBulk(_ context.Context, runID string, metrics []*domain.AggregatedMetrics) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[runID]; exists {
		return storage.ErrDuplicateKey
	}

	stored := make([]*domain.AggregatedMetrics, len(metrics))
	for i, m := range metrics {
		if m == nil || m.SKUID == "" {
			return storage.ErrInvalidInput
		}
		copy := *m
		stored[i] = &copy
	}
	s.data[runID] = stored
	return nil
}

// GetByRun retrieves all metrics for a run ordered by (category, sales_rank).
func (s *MetricsStore) GetByRun(_ context.Context, runID string) ([]*domain.AggregatedMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	result := make([]*domain.AggregatedMetrics, len(stored))
	for i, m := range stored {
		copy := *m
		result[i] = &copy
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].SalesRank < result[j].SalesRank
	})
	return result, nil
}

var _ storage.MetricsStore = (*MetricsStore)(nil)
