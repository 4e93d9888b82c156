package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
	"sku-pricing-lab/internal/storage/postgres"
)

func TestMarketStore_InsertAndGetBySKU(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewMarketStore(pool)

	err := store.Insert(ctx, &domain.MarketRecord{SKUID: "SKU-1001", CompetitorPrice: 11.0})
	require.NoError(t, err)

	got, err := store.GetBySKU(ctx, "SKU-1001")
	require.NoError(t, err)
	assert.InDelta(t, 11.0, got.CompetitorPrice, 0.0001)

	err = store.Insert(ctx, &domain.MarketRecord{SKUID: "SKU-1001", CompetitorPrice: 12.0})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	_, err = store.GetBySKU(ctx, "SKU-9999")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMarketStore_UpsertReplacesQuote(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewMarketStore(pool)

	require.NoError(t, store.Upsert(ctx, &domain.MarketRecord{SKUID: "SKU-1001", CompetitorPrice: 11.0}))
	require.NoError(t, store.Upsert(ctx, &domain.MarketRecord{SKUID: "SKU-1001", CompetitorPrice: 10.50}))

	got, err := store.GetBySKU(ctx, "SKU-1001")
	require.NoError(t, err)
	assert.InDelta(t, 10.50, got.CompetitorPrice, 0.0001)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTransactionStore_PreservesInsertionOrder(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewTransactionStore(pool)

	txns := []*domain.TransactionRecord{
		{SKUID: "SKU-1001", PricePaid: 12.50, Quantity: 10, TimestampMs: 1736899200000, CustomerLocation: "Berlin"},
		{SKUID: "SKU-2001", PricePaid: 310.00, Quantity: 1, TimestampMs: 1736985600000, CustomerLocation: "Madrid"},
		{SKUID: "SKU-1001", PricePaid: 11.50, Quantity: 5, TimestampMs: 1737072000000, CustomerLocation: "Lyon"},
	}
	require.NoError(t, store.InsertBulk(ctx, txns))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "SKU-1001", all[0].SKUID)
	assert.Equal(t, "SKU-2001", all[1].SKUID)
	assert.InDelta(t, 11.50, all[2].PricePaid, 0.0001)

	bySKU, err := store.GetBySKU(ctx, "SKU-1001")
	require.NoError(t, err)
	require.Len(t, bySKU, 2)
	assert.InDelta(t, 12.50, bySKU[0].PricePaid, 0.0001)
	assert.InDelta(t, 11.50, bySKU[1].PricePaid, 0.0001)
}
