package aggregation

import (
	"context"
	"fmt"
	"sort"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// Aggregator loads the five raw record streams from stores and reduces them
// to one AggregatedMetrics per SKU.
type Aggregator struct {
	transactionStore storage.TransactionStore
	productStore     storage.ProductStore
	supplierStore    storage.SupplierStore
	engagementStore  storage.EngagementStore
	marketStore      storage.MarketStore

	// MissingJoins tracks sku_ids that lacked a match in a 1:1 stream
	// (for data quality reporting). Key: stream name, value: sku_id -> count
	// of transaction rows affected.
	MissingJoins map[string]map[string]int
}

// NewAggregator creates a new feature aggregator backed by the given stores.
func NewAggregator(
	transactionStore storage.TransactionStore,
	productStore storage.ProductStore,
	supplierStore storage.SupplierStore,
	engagementStore storage.EngagementStore,
	marketStore storage.MarketStore,
) *Aggregator {
	return &Aggregator{
		transactionStore: transactionStore,
		productStore:     productStore,
		supplierStore:    supplierStore,
		engagementStore:  engagementStore,
		marketStore:      marketStore,
		MissingJoins:     make(map[string]map[string]int),
	}
}

// ComputeMetrics loads all raw records, joins and reduces them. Missing join
// matches are recorded in MissingJoins, never treated as errors.
func (a *Aggregator) ComputeMetrics(ctx context.Context) ([]*domain.AggregatedMetrics, error) {
	transactions, err := a.transactionStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	products, err := a.productStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load product attributes: %w", err)
	}
	suppliers, err := a.supplierStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load supplier records: %w", err)
	}
	engagement, err := a.engagementStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load engagement records: %w", err)
	}
	market, err := a.marketStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load market records: %w", err)
	}

	rows := BuildRows(transactions, products, suppliers, engagement, market)
	a.trackMissingJoins(rows)

	return Reduce(rows), nil
}

// trackMissingJoins records which streams failed to match each row's SKU.
func (a *Aggregator) trackMissingJoins(rows []*domain.JoinedRow) {
	for _, row := range rows {
		if row.Category == "" && row.Manufacturer == "" {
			a.recordMissing("products", row.SKUID)
		}
		if row.CostPrice == nil {
			a.recordMissing("suppliers", row.SKUID)
		}
		if row.Impressions == nil {
			a.recordMissing("engagement", row.SKUID)
		}
		if row.CompetitorPrice == nil {
			a.recordMissing("market", row.SKUID)
		}
	}
}

func (a *Aggregator) recordMissing(stream, skuID string) {
	if a.MissingJoins[stream] == nil {
		a.MissingJoins[stream] = make(map[string]int)
	}
	a.MissingJoins[stream][skuID]++
}

// DataQualityErrors returns missing-join messages sorted by stream and sku_id
// for deterministic output.
func (a *Aggregator) DataQualityErrors() []string {
	streams := make([]string, 0, len(a.MissingJoins))
	for stream := range a.MissingJoins {
		streams = append(streams, stream)
	}
	sort.Strings(streams)

	var errs []string
	for _, stream := range streams {
		skus := make([]string, 0, len(a.MissingJoins[stream]))
		for sku := range a.MissingJoins[stream] {
			skus = append(skus, sku)
		}
		sort.Strings(skus)
		for _, sku := range skus {
			errs = append(errs, fmt.Sprintf("no %s match for %s (%d transaction row(s))",
				stream, sku, a.MissingJoins[stream][sku]))
		}
	}
	return errs
}
