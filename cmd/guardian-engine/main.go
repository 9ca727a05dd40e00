package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guardianstack/guardian-engine/internal/api"
	"github.com/guardianstack/guardian-engine/internal/cache"
	"github.com/guardianstack/guardian-engine/internal/config"
	"github.com/guardianstack/guardian-engine/internal/engine"
	"github.com/guardianstack/guardian-engine/internal/extractors"
	"github.com/guardianstack/guardian-engine/internal/metrics"
	"github.com/guardianstack/guardian-engine/internal/repo"
	"github.com/guardianstack/guardian-engine/internal/services"
	"github.com/guardianstack/guardian-engine/internal/utils"
)

const version = "1.0.0"

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting guardian-engine", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cacheProvider cache.Provider = cache.NoopProvider{}
	if cfg.Cache.Enabled && cfg.Cache.Addr != "" {
		provider, err := cache.NewRedisProvider(ctx, cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		if err != nil {
			logger.Warn("redis cache unavailable", slog.Any("error", err))
		} else {
			cacheProvider = provider
		}
	}
	defer cacheProvider.Close()

	var store repo.AnalysisStore = repo.NewMemoryStore(cfg.Storage.Capacity)
	if cfg.Storage.Enabled && cfg.Storage.Addr != "" {
		redisStore, err := repo.NewRedisStore(ctx, cfg.Storage.Addr, cfg.Storage.Password, cfg.Storage.DB, cfg.Storage.Capacity)
		if err != nil {
			logger.Warn("redis history unavailable, using in-memory store", slog.Any("error", err))
		} else {
			store = redisStore
		}
	}
	defer store.Close()

	var labelSource engine.LabelSource
	if cfg.Clients.Classifier.BaseURL != "" {
		labelSource = repo.NewClassifierClient(
			cfg.Clients.Classifier.BaseURL,
			cfg.Clients.Classifier.ClassifyPath,
			cfg.Clients.Classifier.Timeout,
		)
	} else {
		logger.Warn("no classifier configured, rule fallback only")
	}

	var explanationSource engine.ExplanationSource
	if cfg.Clients.Explainer.BaseURL != "" {
		explanationSource = repo.NewExplainerClient(
			cfg.Clients.Explainer.BaseURL,
			cfg.Clients.Explainer.ExplainPath,
			cfg.Clients.Explainer.APIKey,
			cfg.Clients.Explainer.Timeout,
		)
	}

	ruleEngine, err := engine.NewRuleEngine(cfg.Pipeline.RulesPath, logger)
	if err != nil {
		logger.Error("failed to load rule pack", slog.Any("error", err))
		os.Exit(1)
	}

	pipeline := engine.NewPipeline(
		logger,
		labelSource,
		ruleEngine,
		engine.NewExplainer(explanationSource, cfg.Clients.Explainer.Timeout, logger),
		extractors.NewExtractor(),
		cfg.Pipeline.FallbackEnabled,
	)

	analysisService := services.NewAnalysisService(logger, pipeline, store, cacheProvider, cfg.Cache.StatsTTL)
	handlers := api.NewHandlers(logger, analysisService, version)
	server := api.NewServer(logger, handlers, cfg.Server.Address)

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		if serveErr := server.Serve(); serveErr != nil {
			logger.Error("http server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown", slog.Any("error", err))
	}

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	// Give remaining goroutines time to finish logging
	time.Sleep(100 * time.Millisecond)
	logger.Info("guardian-engine stopped")
}
