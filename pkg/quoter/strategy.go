package quoter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/outcome-gg/outcome-engine/pkg/api"
)

// LayeredSymmetricQuoting places layered orders around a mid price with
// increasing spread per level. Prices are rounded to the engine's tick of
// one thousandth.
type LayeredSymmetricQuoting struct {
	config *Config
	logger *slog.Logger
}

// NewLayeredSymmetricQuoting creates a new layered quoting strategy
func NewLayeredSymmetricQuoting(config *Config, logger *slog.Logger) *LayeredSymmetricQuoting {
	return &LayeredSymmetricQuoting{
		config: config,
		logger: logger,
	}
}

// CalculateQuotes generates buy and sell orders around the mid price
func (s *LayeredSymmetricQuoting) CalculateQuotes(ctx context.Context, mid float64) ([]api.OrderPayload, error) {
	if mid <= 0 {
		return nil, fmt.Errorf("mid price must be positive, got %f", mid)
	}

	quotes := make([]api.OrderPayload, 0, 2*s.config.NumLevels)
	size := json.Number(strconv.FormatInt(s.config.OrderSize, 10))

	for level := 0; level < s.config.NumLevels; level++ {
		spreadPct := s.config.BaseSpreadPercent + float64(level)*s.config.PriceStepPercent
		offset := mid * spreadPct / 100.0

		bidPrice := roundToTick(mid - offset)
		askPrice := roundToTick(mid + offset)

		if bidPrice <= 0 {
			s.logger.Warn("Skipping non-positive bid level",
				"level", level, "mid", mid, "spread_pct", spreadPct)
			continue
		}

		quotes = append(quotes,
			api.OrderPayload{
				IsBid: true,
				Size:  size,
				Price: json.Number(formatTick(bidPrice)),
			},
			api.OrderPayload{
				IsBid: false,
				Size:  size,
				Price: json.Number(formatTick(askPrice)),
			},
		)
	}

	s.logger.Debug("Calculated quote ladder",
		"mid", mid, "levels", s.config.NumLevels, "quotes", len(quotes))

	return quotes, nil
}

// roundToTick snaps a price to the engine tick of 0.001
func roundToTick(price float64) float64 {
	return math.Round(price*1000) / 1000
}

func formatTick(price float64) string {
	return strconv.FormatFloat(price, 'f', 3, 64)
}
