package domain

// TransactionRecord represents one sale event. Immutable input; the
// transaction set drives the left join in aggregation.
type TransactionRecord struct {
	SKUID            string
	PricePaid        float64
	Quantity         int64
	TimestampMs      int64 // sale time, Unix ms
	CustomerLocation string
}

// ProductAttributes holds catalog attributes, 1:1 per sku_id.
type ProductAttributes struct {
	SKUID             string
	Category          string
	Packaging         string
	Manufacturer      string
	FulfillmentMethod string
}

// Fulfillment method values
const (
	FulfillmentDirect   = "Direct"
	FulfillmentSupplier = "Supplier"
)

// SupplierRecord holds supplier cost and availability, 1:1 per sku_id.
type SupplierRecord struct {
	SKUID        string
	CostPrice    float64
	Availability string
	LeadTimeDays int64
}

// Availability values
const (
	AvailabilityAvailable = "Available"
	AvailabilityLimited   = "Limited"
)

// EngagementRecord holds aggregate engagement counters, 1:1 per sku_id.
type EngagementRecord struct {
	SKUID       string
	Impressions int64
	AddToCart   int64
	Conversions int64
}

// MarketRecord holds the latest observed competitor price, 1:1 per sku_id.
// Unlike the other streams it is upserted: competitor quotes change between
// pricing runs.
type MarketRecord struct {
	SKUID           string
	CompetitorPrice float64
}
