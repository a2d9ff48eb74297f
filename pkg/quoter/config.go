package quoter

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the quoter service
type Config struct {
	// Engine connection settings
	EngineHTTPAddr string
	HTTPTimeout    time.Duration

	// Market settings
	MarketSymbol string

	// Quoting parameters
	NumLevels         int
	BaseSpreadPercent float64
	PriceStepPercent  float64
	OrderSize         int64
	FallbackMid       float64
	UpdateInterval    time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("ENGINE_HTTP_ADDR", "http://localhost:8080")
	v.SetDefault("MARKET_SYMBOL", "OUTCOME-YES")
	v.SetDefault("NUM_LEVELS", 3)
	v.SetDefault("BASE_SPREAD_PERCENT", 1.0)
	v.SetDefault("PRICE_STEP_PERCENT", 0.5)
	v.SetDefault("ORDER_SIZE", 10)
	v.SetDefault("FALLBACK_MID", 50.0)
	v.SetDefault("UPDATE_INTERVAL_SECONDS", 10)
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 5)

	v.AutomaticEnv()

	cfg := &Config{
		EngineHTTPAddr:    v.GetString("ENGINE_HTTP_ADDR"),
		MarketSymbol:      v.GetString("MARKET_SYMBOL"),
		NumLevels:         v.GetInt("NUM_LEVELS"),
		BaseSpreadPercent: v.GetFloat64("BASE_SPREAD_PERCENT"),
		PriceStepPercent:  v.GetFloat64("PRICE_STEP_PERCENT"),
		OrderSize:         v.GetInt64("ORDER_SIZE"),
		FallbackMid:       v.GetFloat64("FALLBACK_MID"),
		UpdateInterval:    time.Duration(v.GetInt("UPDATE_INTERVAL_SECONDS")) * time.Second,
		HTTPTimeout:       time.Duration(v.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.EngineHTTPAddr == "" {
		return fmt.Errorf("ENGINE_HTTP_ADDR must not be empty")
	}
	if cfg.MarketSymbol == "" {
		return fmt.Errorf("MARKET_SYMBOL must not be empty")
	}
	if cfg.NumLevels <= 0 {
		return fmt.Errorf("NUM_LEVELS must be positive")
	}
	if cfg.BaseSpreadPercent <= 0 {
		return fmt.Errorf("BASE_SPREAD_PERCENT must be positive")
	}
	if cfg.PriceStepPercent <= 0 {
		return fmt.Errorf("PRICE_STEP_PERCENT must be positive")
	}
	if cfg.OrderSize <= 0 {
		return fmt.Errorf("ORDER_SIZE must be positive")
	}
	if cfg.FallbackMid <= 0 {
		return fmt.Errorf("FALLBACK_MID must be positive")
	}
	if cfg.UpdateInterval <= 0 {
		return fmt.Errorf("UPDATE_INTERVAL_SECONDS must be positive")
	}
	return nil
}
