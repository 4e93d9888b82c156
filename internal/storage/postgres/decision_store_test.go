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

func TestDecisionStore_InsertAndGetByRun(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewDecisionStore(pool)

	decisions := []*domain.PricingDecision{
		{SKUID: "SKU-3001", SuggestedPrice: ptr(72.0), Reason: domain.ReasonProfitOptimized},
		{SKUID: "SKU-1001", SuggestedPrice: ptr(10.99), Reason: domain.ReasonAnchorCompetitive},
		{SKUID: "SKU-2001", SuggestedPrice: nil, Reason: domain.ReasonMissingInputs},
	}

	err := store.InsertBulk(ctx, "run-1", decisions)
	require.NoError(t, err)

	got, err := store.GetByRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered by sku_id
	assert.Equal(t, "SKU-1001", got[0].SKUID)
	assert.Equal(t, "SKU-2001", got[1].SKUID)
	assert.Equal(t, "SKU-3001", got[2].SKUID)

	require.NotNil(t, got[0].SuggestedPrice)
	assert.InDelta(t, 10.99, *got[0].SuggestedPrice, 0.0001)
	assert.Equal(t, domain.ReasonAnchorCompetitive, got[0].Reason)

	// missing_inputs round-trips with a NULL price
	assert.Nil(t, got[1].SuggestedPrice)
	assert.Equal(t, domain.ReasonMissingInputs, got[1].Reason)
}

func TestDecisionStore_DuplicateWithinRun(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewDecisionStore(pool)

	d := &domain.PricingDecision{SKUID: "SKU-1001", SuggestedPrice: ptr(10.99), Reason: domain.ReasonAnchorCompetitive}

	require.NoError(t, store.Insert(ctx, "run-1", d))

	err := store.Insert(ctx, "run-1", d)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Same SKU under another run is fine
	require.NoError(t, store.Insert(ctx, "run-2", d))
}

func TestDecisionStore_InsertBulkRollsBackOnDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewDecisionStore(pool)

	batch := []*domain.PricingDecision{
		{SKUID: "SKU-1001", SuggestedPrice: ptr(10.99), Reason: domain.ReasonAnchorCompetitive},
		{SKUID: "SKU-1001", SuggestedPrice: ptr(11.50), Reason: domain.ReasonAnchorCompetitive},
	}

	err := store.InsertBulk(ctx, "run-1", batch)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	got, err := store.GetByRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
