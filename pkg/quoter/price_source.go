package quoter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/outcome-gg/outcome-engine/pkg/api"
)

// BookMidSource derives the mid price from the engine's own book snapshot.
// With one side empty it quotes off the other side alone; with an empty book
// it falls back to the configured prior.
type BookMidSource struct {
	config *Config
	client *http.Client
	logger *slog.Logger
}

// NewBookMidSource creates a price source backed by the engine book endpoint
func NewBookMidSource(config *Config, logger *slog.Logger) *BookMidSource {
	return &BookMidSource{
		config: config,
		client: &http.Client{Timeout: config.HTTPTimeout},
		logger: logger,
	}
}

// FetchMid returns the current mid price of the served market
func (s *BookMidSource) FetchMid(ctx context.Context) (float64, error) {
	url := s.config.EngineHTTPAddr + "/v1/book"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build book request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch book snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("book snapshot returned status %d", resp.StatusCode)
	}

	var book api.BookView
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		return 0, fmt.Errorf("failed to decode book snapshot: %w", err)
	}

	bestBid, hasBid := bestLevelPrice(book.Bids)
	bestAsk, hasAsk := bestLevelPrice(book.Asks)

	switch {
	case hasBid && hasAsk:
		return (bestBid + bestAsk) / 2, nil
	case hasBid:
		return bestBid, nil
	case hasAsk:
		return bestAsk, nil
	default:
		s.logger.Debug("Empty book, using fallback mid", "fallback", s.config.FallbackMid)
		return s.config.FallbackMid, nil
	}
}

// Close releases the underlying HTTP connections
func (s *BookMidSource) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func bestLevelPrice(levels []api.LevelRecord) (float64, bool) {
	if len(levels) == 0 {
		return 0, false
	}
	price, err := strconv.ParseFloat(levels[0].Price, 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}
