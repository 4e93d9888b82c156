package clickhouse

import (
	"context"
	"fmt"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// MetricsStore implements storage.MetricsStore using ClickHouse. Each run's
// aggregated metrics land as one immutable batch keyed by run_id.
type MetricsStore struct {
	conn *Conn
}

// NewMetricsStore creates a new MetricsStore.
func NewMetricsStore(conn *Conn) *MetricsStore {
	return &MetricsStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MetricsStore = (*MetricsStore)(nil)

// InsertBulk stores the metrics of one pricing run.
// Returns ErrDuplicateKey if the run already has metrics stored.
func (s *MetricsStore) InsertBulk(ctx context.Context, runID string, metrics []*domain.AggregatedMetrics) error {
	if len(metrics) == 0 {
		return nil
	}

	// MergeTree doesn't enforce uniqueness, so runs are guarded explicitly.
	exists, err := s.runExists(ctx, runID)
	if err != nil {
		return fmt.Errorf("check run exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO aggregated_metrics (
			run_id, sku_id, category, manufacturer,
			avg_price, units_sold, total_purchases, total_impressions,
			cost_price, competitor_price, fulfillment_method,
			conv_rate, margin,
			sales_rank, category_count, is_anchor
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, m := range metrics {
		err = batch.Append(
			runID, m.SKUID, m.Category, m.Manufacturer,
			m.AvgPrice, m.UnitsSold, m.TotalPurchases, m.TotalImpressions,
			m.CostPrice, m.CompetitorPrice, m.FulfillmentMethod,
			m.ConvRate, m.Margin,
			int32(m.SalesRank), int32(m.CategoryCount), m.IsAnchor,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRun retrieves all metrics for a run ordered by (category, sales_rank).
func (s *MetricsStore) GetByRun(ctx context.Context, runID string) ([]*domain.AggregatedMetrics, error) {
	query := `
		SELECT
			sku_id, category, manufacturer,
			avg_price, units_sold, total_purchases, total_impressions,
			cost_price, competitor_price, fulfillment_method,
			conv_rate, margin,
			sales_rank, category_count, is_anchor
		FROM aggregated_metrics
		WHERE run_id = ?
		ORDER BY category ASC, sales_rank ASC, sku_id ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query metrics by run: %w", err)
	}
	defer rows.Close()

	var metrics []*domain.AggregatedMetrics
	for rows.Next() {
		var (
			m                   domain.AggregatedMetrics
			salesRank, catCount int32
		)
		err := rows.Scan(
			&m.SKUID, &m.Category, &m.Manufacturer,
			&m.AvgPrice, &m.UnitsSold, &m.TotalPurchases, &m.TotalImpressions,
			&m.CostPrice, &m.CompetitorPrice, &m.FulfillmentMethod,
			&m.ConvRate, &m.Margin,
			&salesRank, &catCount, &m.IsAnchor,
		)
		if err != nil {
			return nil, fmt.Errorf("scan metrics row: %w", err)
		}
		m.SalesRank = int(salesRank)
		m.CategoryCount = int(catCount)
		metrics = append(metrics, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metrics rows: %w", err)
	}

	return metrics, nil
}

// runExists checks whether any metrics rows exist for the run.
func (s *MetricsStore) runExists(ctx context.Context, runID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM aggregated_metrics WHERE run_id = ?`, runID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
