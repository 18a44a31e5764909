package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/wattadvisor/wattadvisor/internal/clients/explainer"
	"github.com/wattadvisor/wattadvisor/internal/config"
	"github.com/wattadvisor/wattadvisor/internal/database"
	"github.com/wattadvisor/wattadvisor/internal/events"
	"github.com/wattadvisor/wattadvisor/internal/modules/advisor"
	"github.com/wattadvisor/wattadvisor/internal/modules/catalog"
	"github.com/wattadvisor/wattadvisor/internal/modules/pricing"
	"github.com/wattadvisor/wattadvisor/internal/modules/recommendation"
	"github.com/wattadvisor/wattadvisor/internal/modules/risk"
	"github.com/wattadvisor/wattadvisor/internal/modules/savings"
	"github.com/wattadvisor/wattadvisor/internal/modules/scoring"
	"github.com/wattadvisor/wattadvisor/internal/modules/usage"
	"github.com/wattadvisor/wattadvisor/internal/scheduler"
	"github.com/wattadvisor/wattadvisor/internal/server"
	"github.com/wattadvisor/wattadvisor/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting WattAdvisor")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	eventManager := events.NewManager(log)

	// Catalog
	catalogRepo := catalog.NewRepository(db.Conn(), log)
	catalogSvc := catalog.NewService(catalogRepo, catalog.NewLoader(log), eventManager, log)
	if count, err := catalogSvc.RefreshFromSeed(cfg.PlanSeedPath); err != nil {
		log.Warn().Err(err).Str("path", cfg.PlanSeedPath).Msg("Plan seed not loaded; catalog may be empty")
	} else {
		log.Info().Int("plans", count).Msg("Plan catalog seeded")
	}

	// Usage
	usageRepo := usage.NewRepository(db.Conn(), log)
	profiler := usage.NewProfiler(usage.DefaultConfig(), log)

	// Risk thresholds, optionally overridden from TOML
	thresholds := risk.DefaultThresholds()
	if cfg.RiskThresholdsPath != "" {
		loaded, err := risk.NewLoader(log).LoadFromFile(cfg.RiskThresholdsPath)
		if err != nil {
			log.Warn().Err(err).Msg("Falling back to default risk thresholds")
		} else {
			thresholds = loaded
		}
	}

	// Explanation service is optional
	var explainerClient recommendation.Explainer
	if cfg.ExplainerServiceURL != "" {
		explainerClient = explainer.NewClient(cfg.ExplainerServiceURL, log)
	}

	// Recommendation pipeline
	recommendationCache := recommendation.NewCache(db.Conn(), log)
	recommendationSvc := recommendation.NewService(
		profiler,
		pricing.NewPricer(pricing.DefaultAssumptions(), log),
		scoring.NewScorer(log),
		scoring.NewRanker(log),
		savings.NewAnalyzer(log),
		risk.NewDetector(thresholds, log),
		advisor.NewAdvisor(advisor.DefaultThresholds(), log),
		catalogSvc,
		usageRepo,
		recommendation.NewRepository(db.Conn(), log),
		recommendationCache,
		explainerClient,
		eventManager,
		log,
	)

	// Initialize scheduler
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	// Register background jobs
	if err := registerJobs(sched, cfg, catalogSvc, recommendationCache, eventManager, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:           cfg.Port,
		Log:            log,
		DB:             db,
		Config:         cfg,
		DevMode:        cfg.DevMode,
		Catalog:        catalog.NewHandler(catalogSvc, log),
		Usage:          usage.NewHandler(usageRepo, profiler, eventManager, log),
		Recommendation: recommendation.NewHandler(recommendationSvc, cfg.RegionalAvgKWh, log),
		System:         server.NewSystemHandlers(catalogRepo, log),
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJobs(
	sched *scheduler.Scheduler,
	cfg *config.Config,
	catalogSvc *catalog.Service,
	cache *recommendation.Cache,
	eventManager *events.Manager,
	log zerolog.Logger,
) error {
	if err := sched.AddJob(cfg.CatalogRefreshCron,
		scheduler.NewCatalogRefreshJob(catalogSvc, eventManager, cfg.PlanSeedPath, log)); err != nil {
		return err
	}

	return sched.AddJob(cfg.CacheSweepCron,
		scheduler.NewCacheSweepJob(cache, eventManager, log))
}
