package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"sku-pricing-lab/internal/domain"
)

// MarketFeedConfig configures the live market feed client.
type MarketFeedConfig struct {
	// HandshakeTimeout bounds the WebSocket dial.
	HandshakeTimeout time.Duration
	// ReadTimeout is the maximum silence between quotes before the
	// connection is considered dead.
	ReadTimeout time.Duration
}

// DefaultMarketFeedConfig returns default feed configuration.
func DefaultMarketFeedConfig() MarketFeedConfig {
	return MarketFeedConfig{
		HandshakeTimeout: 10 * time.Second,
		ReadTimeout:      60 * time.Second,
	}
}

// marketQuote is the wire format of one feed message.
type marketQuote struct {
	SKUID           string  `json:"sku_id"`
	CompetitorPrice float64 `json:"competitor_price"`
}

// WSMarketFeed streams competitor quotes from a WebSocket endpoint. Each
// message replaces the stored quote for its SKU.
type WSMarketFeed struct {
	endpoint string
	config   MarketFeedConfig
}

// NewWSMarketFeed creates a feed client for the endpoint.
func NewWSMarketFeed(endpoint string, config *MarketFeedConfig) *WSMarketFeed {
	cfg := DefaultMarketFeedConfig()
	if config != nil {
		cfg = *config
	}
	return &WSMarketFeed{endpoint: endpoint, config: cfg}
}

// Run connects and delivers each quote to handle until the context is
// cancelled or the connection fails. Malformed messages abort the stream;
// the caller decides whether to reconnect.
func (f *WSMarketFeed) Run(ctx context.Context, handle func(*domain.MarketRecord) error) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: f.config.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, f.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial %s: %w", f.endpoint, err)
	}
	defer conn.Close()

	// Unblock ReadMessage on cancellation.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout)); err != nil {
			return fmt.Errorf("set read deadline: %w", err)
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read market feed: %w", err)
		}

		var quote marketQuote
		if err := json.Unmarshal(message, &quote); err != nil {
			return fmt.Errorf("decode market quote: %w", err)
		}
		if quote.SKUID == "" {
			return fmt.Errorf("market quote missing sku_id: %s", message)
		}

		rec := &domain.MarketRecord{SKUID: quote.SKUID, CompetitorPrice: quote.CompetitorPrice}
		if err := handle(rec); err != nil {
			return err
		}
	}
}
