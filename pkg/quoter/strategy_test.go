package quoter

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		EngineHTTPAddr:    "http://localhost:8080",
		HTTPTimeout:       time.Second,
		MarketSymbol:      "OUTCOME-YES",
		NumLevels:         3,
		BaseSpreadPercent: 1.0,
		PriceStepPercent:  0.5,
		OrderSize:         10,
		FallbackMid:       50.0,
		UpdateInterval:    time.Second,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCalculateQuotesLadder(t *testing.T) {
	strategy := NewLayeredSymmetricQuoting(testConfig(), testLogger())

	quotes, err := strategy.CalculateQuotes(context.Background(), 50.0)
	require.NoError(t, err)
	require.Len(t, quotes, 6, "bid and ask per level")

	// Level 0: 1.0% spread around 50 -> bid 49.500, ask 50.500.
	assert.True(t, quotes[0].IsBid)
	assert.Equal(t, "49.500", quotes[0].Price.String())
	assert.False(t, quotes[1].IsBid)
	assert.Equal(t, "50.500", quotes[1].Price.String())

	// Level 1: 1.5% -> bid 49.250, ask 50.750.
	assert.Equal(t, "49.250", quotes[2].Price.String())
	assert.Equal(t, "50.750", quotes[3].Price.String())

	// Level 2: 2.0% -> bid 49.000, ask 51.000.
	assert.Equal(t, "49.000", quotes[4].Price.String())
	assert.Equal(t, "51.000", quotes[5].Price.String())

	for _, q := range quotes {
		assert.Equal(t, "10", q.Size.String())
		assert.Empty(t, q.UID, "ladder quotes are always new orders")
	}
}

func TestCalculateQuotesRoundsToTick(t *testing.T) {
	cfg := testConfig()
	cfg.NumLevels = 1
	cfg.BaseSpreadPercent = 0.3
	strategy := NewLayeredSymmetricQuoting(cfg, testLogger())

	// 0.3% of 33.333 is 0.099999; both sides must land on a 0.001 tick.
	quotes, err := strategy.CalculateQuotes(context.Background(), 33.333)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "33.233", quotes[0].Price.String())
	assert.Equal(t, "33.433", quotes[1].Price.String())
}

func TestCalculateQuotesSkipsNonPositiveBids(t *testing.T) {
	cfg := testConfig()
	cfg.NumLevels = 2
	cfg.BaseSpreadPercent = 90.0
	cfg.PriceStepPercent = 30.0
	strategy := NewLayeredSymmetricQuoting(cfg, testLogger())

	// Level 1 spread is 120%, which would put the bid below zero.
	quotes, err := strategy.CalculateQuotes(context.Background(), 1.0)
	require.NoError(t, err)
	require.Len(t, quotes, 2, "only the level with a positive bid survives")
	assert.Equal(t, "0.100", quotes[0].Price.String())
}

func TestCalculateQuotesRejectsBadMid(t *testing.T) {
	strategy := NewLayeredSymmetricQuoting(testConfig(), testLogger())

	_, err := strategy.CalculateQuotes(context.Background(), 0)
	assert.Error(t, err)
	_, err = strategy.CalculateQuotes(context.Background(), -5)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, validateConfig(testConfig()))

	broken := func(mutate func(*Config)) *Config {
		cfg := testConfig()
		mutate(cfg)
		return cfg
	}

	cases := map[string]*Config{
		"empty addr":    broken(func(c *Config) { c.EngineHTTPAddr = "" }),
		"empty market":  broken(func(c *Config) { c.MarketSymbol = "" }),
		"zero levels":   broken(func(c *Config) { c.NumLevels = 0 }),
		"zero spread":   broken(func(c *Config) { c.BaseSpreadPercent = 0 }),
		"zero step":     broken(func(c *Config) { c.PriceStepPercent = 0 }),
		"zero size":     broken(func(c *Config) { c.OrderSize = 0 }),
		"zero fallback": broken(func(c *Config) { c.FallbackMid = 0 }),
		"zero interval": broken(func(c *Config) { c.UpdateInterval = 0 }),
	}

	for name, cfg := range cases {
		assert.Error(t, validateConfig(cfg), name)
	}
}
