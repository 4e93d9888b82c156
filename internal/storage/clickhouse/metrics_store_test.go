package clickhouse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
	chstore "sku-pricing-lab/internal/storage/clickhouse"
)

func testMetrics() []*domain.AggregatedMetrics {
	return []*domain.AggregatedMetrics{
		{
			SKUID:             "SKU-1001",
			Category:          "Consumables",
			Manufacturer:      "LabCo",
			AvgPrice:          ptr(12.0),
			UnitsSold:         15,
			TotalPurchases:    ptr(int64(50)),
			TotalImpressions:  ptr(int64(1000)),
			CostPrice:         ptr(9.0),
			CompetitorPrice:   ptr(11.0),
			FulfillmentMethod: domain.FulfillmentDirect,
			ConvRate:          ptr(0.05),
			Margin:            ptr(0.3333),
			SalesRank:         1,
			CategoryCount:     1,
			IsAnchor:          false,
		},
		{
			SKUID:         "SKU-2001",
			Category:      "Instruments",
			Manufacturer:  "OptiMed",
			AvgPrice:      ptr(310.0),
			UnitsSold:     1,
			SalesRank:     1,
			CategoryCount: 1,
		},
	}
}

func TestMetricsStore_InsertBulkAndGetByRun(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := chstore.NewMetricsStore(conn)

	require.NoError(t, store.InsertBulk(ctx, "run-1", testMetrics()))

	got, err := store.GetByRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by (category, sales_rank)
	assert.Equal(t, "SKU-1001", got[0].SKUID)
	assert.Equal(t, "SKU-2001", got[1].SKUID)

	first := got[0]
	require.NotNil(t, first.AvgPrice)
	assert.InDelta(t, 12.0, *first.AvgPrice, 0.0001)
	assert.Equal(t, int64(15), first.UnitsSold)
	require.NotNil(t, first.TotalImpressions)
	assert.Equal(t, int64(1000), *first.TotalImpressions)
	assert.Equal(t, domain.FulfillmentDirect, first.FulfillmentMethod)
	assert.Equal(t, 1, first.SalesRank)
	assert.Equal(t, 1, first.CategoryCount)

	// Null metrics round-trip as nil pointers
	second := got[1]
	assert.Nil(t, second.TotalPurchases)
	assert.Nil(t, second.CostPrice)
	assert.Nil(t, second.ConvRate)
}

func TestMetricsStore_DuplicateRunRejected(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := chstore.NewMetricsStore(conn)

	require.NoError(t, store.InsertBulk(ctx, "run-1", testMetrics()))

	err := store.InsertBulk(ctx, "run-1", testMetrics())
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// A fresh run id still works
	require.NoError(t, store.InsertBulk(ctx, "run-2", testMetrics()))
}

func TestMetricsStore_EmptyRun(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := chstore.NewMetricsStore(conn)

	require.NoError(t, store.InsertBulk(ctx, "run-empty", nil))

	got, err := store.GetByRun(ctx, "run-empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}
