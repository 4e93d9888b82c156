package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"sku-pricing-lab/internal/domain"
)

// CSV sources read one record stream each from a headered CSV file. The
// header row is validated against the expected column list so a misplaced
// file fails loudly instead of loading garbage.

// CSVTransactionSource reads transactions from a CSV file with columns:
// sku_id,price_paid,quantity,sale_date,customer_location
type CSVTransactionSource struct {
	path string
}

// NewCSVTransactionSource creates a source reading from path.
func NewCSVTransactionSource(path string) *CSVTransactionSource {
	return &CSVTransactionSource{path: path}
}

var _ TransactionSource = (*CSVTransactionSource)(nil)

// Fetch reads and parses all transaction rows.
func (s *CSVTransactionSource) Fetch(ctx context.Context) ([]*domain.TransactionRecord, error) {
	var records []*domain.TransactionRecord
	err := readCSV(ctx, s.path, []string{"sku_id", "price_paid", "quantity", "sale_date", "customer_location"},
		func(row []string) error {
			price, err := strconv.ParseFloat(row[1], 64)
			if err != nil {
				return fmt.Errorf("price_paid %q: %w", row[1], err)
			}
			qty, err := strconv.ParseInt(row[2], 10, 64)
			if err != nil {
				return fmt.Errorf("quantity %q: %w", row[2], err)
			}
			ts, err := parseSaleDate(row[3])
			if err != nil {
				return err
			}
			records = append(records, &domain.TransactionRecord{
				SKUID:            row[0],
				PricePaid:        price,
				Quantity:         qty,
				TimestampMs:      ts,
				CustomerLocation: row[4],
			})
			return nil
		})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CSVProductSource reads product attributes from a CSV file with columns:
// sku_id,category,packaging,manufacturer,fulfillment_method
type CSVProductSource struct {
	path string
}

// NewCSVProductSource creates a source reading from path.
func NewCSVProductSource(path string) *CSVProductSource {
	return &CSVProductSource{path: path}
}

var _ ProductSource = (*CSVProductSource)(nil)

func (s *CSVProductSource) Fetch(ctx context.Context) ([]*domain.ProductAttributes, error) {
	var records []*domain.ProductAttributes
	err := readCSV(ctx, s.path, []string{"sku_id", "category", "packaging", "manufacturer", "fulfillment_method"},
		func(row []string) error {
			records = append(records, &domain.ProductAttributes{
				SKUID:             row[0],
				Category:          row[1],
				Packaging:         row[2],
				Manufacturer:      row[3],
				FulfillmentMethod: row[4],
			})
			return nil
		})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CSVSupplierSource reads supplier records from a CSV file with columns:
// sku_id,cost_price,availability,lead_time_days
type CSVSupplierSource struct {
	path string
}

// NewCSVSupplierSource creates a source reading from path.
func NewCSVSupplierSource(path string) *CSVSupplierSource {
	return &CSVSupplierSource{path: path}
}

var _ SupplierSource = (*CSVSupplierSource)(nil)

func (s *CSVSupplierSource) Fetch(ctx context.Context) ([]*domain.SupplierRecord, error) {
	var records []*domain.SupplierRecord
	err := readCSV(ctx, s.path, []string{"sku_id", "cost_price", "availability", "lead_time_days"},
		func(row []string) error {
			cost, err := strconv.ParseFloat(row[1], 64)
			if err != nil {
				return fmt.Errorf("cost_price %q: %w", row[1], err)
			}
			leadTime, err := strconv.ParseInt(row[3], 10, 64)
			if err != nil {
				return fmt.Errorf("lead_time_days %q: %w", row[3], err)
			}
			records = append(records, &domain.SupplierRecord{
				SKUID:        row[0],
				CostPrice:    cost,
				Availability: row[2],
				LeadTimeDays: leadTime,
			})
			return nil
		})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CSVEngagementSource reads engagement counters from a CSV file with columns:
// sku_id,impressions,add_to_cart,conversions
type CSVEngagementSource struct {
	path string
}

// NewCSVEngagementSource creates a source reading from path.
func NewCSVEngagementSource(path string) *CSVEngagementSource {
	return &CSVEngagementSource{path: path}
}

var _ EngagementSource = (*CSVEngagementSource)(nil)

func (s *CSVEngagementSource) Fetch(ctx context.Context) ([]*domain.EngagementRecord, error) {
	var records []*domain.EngagementRecord
	err := readCSV(ctx, s.path, []string{"sku_id", "impressions", "add_to_cart", "conversions"},
		func(row []string) error {
			counters := make([]int64, 3)
			for i, field := range row[1:] {
				n, err := strconv.ParseInt(field, 10, 64)
				if err != nil {
					return fmt.Errorf("counter %q: %w", field, err)
				}
				counters[i] = n
			}
			records = append(records, &domain.EngagementRecord{
				SKUID:       row[0],
				Impressions: counters[0],
				AddToCart:   counters[1],
				Conversions: counters[2],
			})
			return nil
		})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CSVMarketSource reads competitor prices from a CSV file with columns:
// sku_id,competitor_price
type CSVMarketSource struct {
	path string
}

// NewCSVMarketSource creates a source reading from path.
func NewCSVMarketSource(path string) *CSVMarketSource {
	return &CSVMarketSource{path: path}
}

var _ MarketSource = (*CSVMarketSource)(nil)

func (s *CSVMarketSource) Fetch(ctx context.Context) ([]*domain.MarketRecord, error) {
	var records []*domain.MarketRecord
	err := readCSV(ctx, s.path, []string{"sku_id", "competitor_price"},
		func(row []string) error {
			price, err := strconv.ParseFloat(row[1], 64)
			if err != nil {
				return fmt.Errorf("competitor_price %q: %w", row[1], err)
			}
			records = append(records, &domain.MarketRecord{
				SKUID:           row[0],
				CompetitorPrice: price,
			})
			return nil
		})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// readCSV opens path, validates the header and calls handle for each data
// row. Row handling errors carry the 1-based line number.
func readCSV(ctx context.Context, path string, header []string, handle func(row []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	first, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", path, err)
	}
	for i, want := range header {
		if first[i] != want {
			return fmt.Errorf("%s: header column %d is %q, want %q", path, i, first[i], want)
		}
	}

	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		line++
		if err := handle(row); err != nil {
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
	}
}

// parseSaleDate accepts either a date (2006-01-02) or RFC 3339 timestamp and
// returns Unix milliseconds.
func parseSaleDate(v string) (int64, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t.UnixMilli(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return 0, fmt.Errorf("sale_date %q: %w", v, err)
	}
	return t.UnixMilli(), nil
}
