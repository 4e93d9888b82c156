package pipeline

import (
	"context"
	"fmt"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// LoadFixtures populates stores with a small catalog for demonstration runs.
// The Consumables category holds ten SKUs so its top seller clears the anchor
// threshold; SKU-2001 has no engagement record and prices as missing_inputs.
func LoadFixtures(
	ctx context.Context,
	transactionStore storage.TransactionStore,
	productStore storage.ProductStore,
	supplierStore storage.SupplierStore,
	engagementStore storage.EngagementStore,
	marketStore storage.MarketStore,
) error {
	if err := loadTransactions(ctx, transactionStore); err != nil {
		return err
	}
	if err := loadProducts(ctx, productStore); err != nil {
		return err
	}
	if err := loadSuppliers(ctx, supplierStore); err != nil {
		return err
	}
	if err := loadEngagement(ctx, engagementStore); err != nil {
		return err
	}
	return loadMarket(ctx, marketStore)
}

func loadTransactions(ctx context.Context, store storage.TransactionStore) error {
	txns := []*domain.TransactionRecord{
		// SKU-1001: category top seller, avg_price 12.0
		{SKUID: "SKU-1001", PricePaid: 12.50, Quantity: 25, TimestampMs: 1736899200000, CustomerLocation: "Berlin"},
		{SKUID: "SKU-1001", PricePaid: 11.50, Quantity: 15, TimestampMs: 1736985600000, CustomerLocation: "Lyon"},

		// SKU-2001: single high-ticket sale
		{SKUID: "SKU-2001", PricePaid: 310.00, Quantity: 1, TimestampMs: 1736899200000, CustomerLocation: "Madrid"},

		// SKU-3001: avg_price 60.0
		{SKUID: "SKU-3001", PricePaid: 60.00, Quantity: 4, TimestampMs: 1737072000000, CustomerLocation: "Warsaw"},
	}

	// Long tail of Consumables so the category has ten SKUs.
	for i := 2; i <= 10; i++ {
		txns = append(txns, &domain.TransactionRecord{
			SKUID:            fmt.Sprintf("SKU-10%02d", i),
			PricePaid:        8.00 + float64(i)*0.25,
			Quantity:         int64(11 - i), // all below SKU-1001's 40 units
			TimestampMs:      1737158400000,
			CustomerLocation: "Vienna",
		})
	}

	return store.InsertBulk(ctx, txns)
}

func loadProducts(ctx context.Context, store storage.ProductStore) error {
	products := []*domain.ProductAttributes{
		{SKUID: "SKU-1001", Category: "Consumables", Packaging: "Box of 100", Manufacturer: "LabCo", FulfillmentMethod: domain.FulfillmentDirect},
		{SKUID: "SKU-2001", Category: "Instruments", Packaging: "Case", Manufacturer: "OptiMed", FulfillmentMethod: domain.FulfillmentSupplier},
		{SKUID: "SKU-3001", Category: "Reagents", Packaging: "Bottle 500ml", Manufacturer: "ChemPure", FulfillmentMethod: domain.FulfillmentDirect},
	}
	for i := 2; i <= 10; i++ {
		products = append(products, &domain.ProductAttributes{
			SKUID:             fmt.Sprintf("SKU-10%02d", i),
			Category:          "Consumables",
			Packaging:         "Box of 50",
			Manufacturer:      "LabCo",
			FulfillmentMethod: domain.FulfillmentDirect,
		})
	}

	for _, p := range products {
		if err := store.Insert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func loadSuppliers(ctx context.Context, store storage.SupplierStore) error {
	suppliers := []*domain.SupplierRecord{
		{SKUID: "SKU-1001", CostPrice: 9.00, Availability: domain.AvailabilityAvailable, LeadTimeDays: 3},
		{SKUID: "SKU-2001", CostPrice: 250.00, Availability: domain.AvailabilityLimited, LeadTimeDays: 21},
		{SKUID: "SKU-3001", CostPrice: 45.00, Availability: domain.AvailabilityAvailable, LeadTimeDays: 7},
	}
	for i := 2; i <= 10; i++ {
		suppliers = append(suppliers, &domain.SupplierRecord{
			SKUID:        fmt.Sprintf("SKU-10%02d", i),
			CostPrice:    6.00,
			Availability: domain.AvailabilityAvailable,
			LeadTimeDays: 5,
		})
	}

	for _, s := range suppliers {
		if err := store.Insert(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func loadEngagement(ctx context.Context, store storage.EngagementStore) error {
	// SKU-2001 deliberately has no engagement record; its decision comes out
	// as missing_inputs.
	engagement := []*domain.EngagementRecord{
		{SKUID: "SKU-1001", Impressions: 500, AddToCart: 60, Conversions: 25},
		{SKUID: "SKU-3001", Impressions: 300, AddToCart: 35, Conversions: 20},
	}
	for i := 2; i <= 10; i++ {
		engagement = append(engagement, &domain.EngagementRecord{
			SKUID:       fmt.Sprintf("SKU-10%02d", i),
			Impressions: 200,
			AddToCart:   12,
			Conversions: 8,
		})
	}

	for _, e := range engagement {
		if err := store.Insert(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func loadMarket(ctx context.Context, store storage.MarketStore) error {
	market := []*domain.MarketRecord{
		{SKUID: "SKU-1001", CompetitorPrice: 11.00},
		{SKUID: "SKU-2001", CompetitorPrice: 305.00},
		{SKUID: "SKU-3001", CompetitorPrice: 58.00},
	}
	for i := 2; i <= 10; i++ {
		market = append(market, &domain.MarketRecord{
			SKUID:           fmt.Sprintf("SKU-10%02d", i),
			CompetitorPrice: 8.50,
		})
	}

	for _, m := range market {
		if err := store.Insert(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
