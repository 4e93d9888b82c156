package domain

// JoinedRow is one transaction with its 1:1 attribute records broadcast onto
// it. A missing join match leaves the corresponding pointer fields nil; no
// join failure is an error.
type JoinedRow struct {
	SKUID            string
	PricePaid        float64
	Quantity         int64
	TimestampMs      int64
	CustomerLocation string

	// From ProductAttributes. Empty strings when no match.
	Category          string
	Packaging         string
	Manufacturer      string
	FulfillmentMethod string

	// From SupplierRecord
	CostPrice    *float64
	Availability string
	LeadTimeDays *int64

	// From EngagementRecord
	Impressions *int64
	AddToCart   *int64
	Conversions *int64

	// From MarketRecord
	CompetitorPrice *float64

	// Row-level derived ratios. nil when an operand is missing or a divisor
	// is zero.
	ConvRate               *float64 // conversions / impressions
	Margin                 *float64 // (price_paid - cost_price) / cost_price
	PriceDeltaVsCompetitor *float64 // price_paid - competitor_price
}

// AggregatedMetrics is one record per SKU per pricing run, reduced from that
// SKU's joined transaction rows. Created fresh each run; never persisted by
// the core itself.
type AggregatedMetrics struct {
	SKUID        string
	Category     string // empty when product attributes are missing
	Manufacturer string

	AvgPrice          *float64 // mean price_paid over the SKU's transactions
	UnitsSold         int64    // sum of quantity
	TotalPurchases    *int64   // sum of conversions over joined rows, nil if never matched
	TotalImpressions  *int64   // sum of impressions over joined rows, nil if never matched
	CostPrice         *float64 // first contributing row
	CompetitorPrice   *float64 // first contributing row
	FulfillmentMethod string   // first contributing row

	ConvRate *float64 // total_purchases / total_impressions, nil on zero or missing impressions
	Margin   *float64 // (avg_price - cost_price) / cost_price, nil on zero or missing cost

	// Set by the anchor classifier.
	SalesRank     int  // 1-based rank within category by descending units_sold
	CategoryCount int  // distinct SKUs observed in the category this run
	IsAnchor      bool // sales_rank <= category_count * 0.10, real-valued comparison
}
