package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ventureforge/planscope/internal/config"
	"github.com/ventureforge/planscope/internal/database"
	"github.com/ventureforge/planscope/internal/errors"
	"github.com/ventureforge/planscope/internal/export"
	"github.com/ventureforge/planscope/internal/generator"
	"github.com/ventureforge/planscope/internal/monitoring"
	"github.com/ventureforge/planscope/internal/ratelimit"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	gin.SetMode(cfg.GinMode)

	db, err := database.NewDB(cfg.DataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer errors.SafeClose(db, "database")

	writer, err := export.NewWriter(cfg.OutputDir)
	if err != nil {
		slog.Error("Failed to initialize artifact writer", "error", err)
		os.Exit(1)
	}

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	var llmClient generator.Client
	if cfg.AnthropicAPIKey != "" {
		client, err := generator.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		if err != nil {
			slog.Error("Failed to initialize Anthropic client", "error", err)
			os.Exit(1)
		}
		llmClient = generator.NewInstrumentedClient(client, "anthropic", appMetrics, appLogger)
		slog.Info("Plan generation backed by Anthropic API")
	} else {
		slog.Warn("ANTHROPIC_API_KEY not set, plan generation uses the deterministic fallback")
	}
	gen := generator.New(llmClient)

	redisClient, err := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slog.Warn("Redis unavailable, continuing with in-memory rate limiting", "error", err)
	}
	defer errors.SafeClose(redisClient, "redis")

	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.Config{
		IPLimitPerMin:       cfg.IPRateLimitPerMin,
		GenerateLimitPerMin: cfg.GenerateRateLimitPerMin,
		BurstMultiplier:     2,
	}, appMetrics)

	srv := newServer(cfg, db, gen, writer, limiter, appMetrics)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.setupRouter(),
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}
