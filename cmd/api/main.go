package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/engine"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/providers/analysis"
	"server/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Brief persistence is best-effort: without DATABASE_URL the store
	// degrades to the filesystem fallback.
	var sqlExec infra.SQLExecutor
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		sqlExec = infra.NewSQLRunner(pool, logger)
	} else {
		logger.Warn().Msg("DATABASE_URL not set, briefs persist to filesystem only")
	}

	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip resolver unavailable")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	analysisClient, err := analysis.NewClient(analysis.Options{
		BaseURL:    cfg.AnalysisBaseURL,
		APIKey:     cfg.AnalysisAPIKey,
		HTTPClient: &http.Client{Timeout: cfg.AnalysisTimeout},
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure analysis client")
	}

	eng := engine.New(engine.Options{
		Query:          analysisClient,
		Assets:         analysisClient,
		Synthesizer:    analysisClient,
		Summarizer:     analysisClient,
		Logger:         logger,
		MinConfidence:  cfg.MinConfidence,
		MinFeasibility: cfg.MinFeasibility,
	})

	briefs := repo.NewBriefRepository(sqlExec, fileStore, logger)
	app := handlers.NewApp(cfg, logger, eng, briefs)
	router := httpapi.NewRouter(app, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
