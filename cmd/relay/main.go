package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/beacon-relay-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/beacon-relay-service/internal/adapter/kafka"
	"github.com/couchcryptid/beacon-relay-service/internal/adapter/openai"
	"github.com/couchcryptid/beacon-relay-service/internal/adapter/openweather"
	"github.com/couchcryptid/beacon-relay-service/internal/config"
	"github.com/couchcryptid/beacon-relay-service/internal/domain"
	"github.com/couchcryptid/beacon-relay-service/internal/observability"
	"github.com/couchcryptid/beacon-relay-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	responders := domain.Responders{DefaultLocation: cfg.DefaultLocation()}

	// Upstreams are feature-flagged; a disabled one answers with its fallback reply.
	if cfg.WeatherEnabled {
		client := openweather.NewClient(cfg.WeatherAPIKey, cfg.WeatherTimeout, metrics, logger)
		responders.Weather = openweather.NewCachedProvider(client, cfg.WeatherCacheSize, cfg.WeatherCacheTTL, metrics)
		logger.Info("weather enabled", "cache_size", cfg.WeatherCacheSize, "cache_ttl", cfg.WeatherCacheTTL, "timeout", cfg.WeatherTimeout)
	} else {
		logger.Info("weather disabled")
	}
	if cfg.AssistantEnabled {
		responders.Assistant = openai.NewClient(cfg.OpenAIAPIKey, cfg.AssistantModel, cfg.AssistantTimeout, metrics, logger)
		logger.Info("assistant enabled", "model", cfg.AssistantModel, "timeout", cfg.AssistantTimeout)
	} else {
		logger.Info("assistant disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	replies := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaOutboundTopic, logger)
	inbound := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaInboundTopic, logger)
	transformer := pipeline.NewTransformer(responders, domain.DefaultCompressor(), cfg.ReplyOptions(), metrics, logger)

	p := pipeline.New(reader, transformer, replies, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, httpadapter.Deps{
		ReplyOptions: cfg.ReplyOptions(),
		RelayNumber:  cfg.RelayNumber,
		Publisher:    inbound,
		Metrics:      metrics,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := replies.Close(); err != nil {
		logger.Error("kafka reply writer close error", "error", err)
	}
	if err := inbound.Close(); err != nil {
		logger.Error("kafka inbound writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
