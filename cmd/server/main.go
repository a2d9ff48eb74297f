package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/outcome-gg/outcome-engine/config"
	"github.com/outcome-gg/outcome-engine/pkg/backend/memory"
	"github.com/outcome-gg/outcome-engine/pkg/core"
	"github.com/outcome-gg/outcome-engine/pkg/db/queue"
	"github.com/outcome-gg/outcome-engine/pkg/logging"
	"github.com/outcome-gg/outcome-engine/pkg/marketdata"
	kafkasender "github.com/outcome-gg/outcome-engine/pkg/messaging/kafka"
	"github.com/outcome-gg/outcome-engine/pkg/otel"
	"github.com/outcome-gg/outcome-engine/pkg/server"
	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup logging
	logging.Setup(logging.Config{
		Level:  cfg.Server.LogLevel,
		Pretty: cfg.Server.LogFormat == "pretty",
	})
	logger := zlog.Logger

	// Initialize OpenTelemetry
	cleanup, err := otel.Init(otel.Config{
		ServiceName:      "outcome-engine",
		ServiceVersion:   "1.0.0",
		Endpoint:         cfg.Otel.Endpoint,
		CollectorEnabled: cfg.Otel.Enabled,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize OpenTelemetry")
	}
	defer cleanup()

	// Assemble the engine for the configured market
	engine := core.NewMatchingEngine(memory.NewMemoryBackend())

	opts := []server.Option{
		server.WithSettlementSender(queue.PooledSender()),
	}

	marketData, err := kafkasender.NewKafkaMessageSender(cfg.Kafka.BrokerAddr, cfg.Kafka.MarketDataTopic)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create market-data sender")
	}
	defer marketData.Close()
	opts = append(opts, server.WithMarketDataSender(marketData))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	opts = append(opts, server.WithQuotePublisher(marketdata.NewPublisher(redisClient, "")))

	svc := server.NewEngineService(cfg.Market.Symbol, engine, opts...)

	// Serve HTTP
	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: server.NewRouter(svc, logger),
	}

	go func() {
		logger.Info().
			Str("addr", cfg.Server.HTTPAddr).
			Str("market", cfg.Market.Symbol).
			Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to serve HTTP")
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logger.Info().Msg("Server shutdown complete")
}
