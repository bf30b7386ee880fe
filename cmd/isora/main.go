// cmd/isora/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cyberops/isora/internal/api"
	"github.com/cyberops/isora/internal/assessment"
	"github.com/cyberops/isora/internal/compliance"
	"github.com/cyberops/isora/internal/config"
	"github.com/cyberops/isora/internal/database"
	"github.com/cyberops/isora/internal/enrich"
	"github.com/cyberops/isora/internal/framework"
	"github.com/cyberops/isora/internal/integrations"
	"github.com/cyberops/isora/internal/metrics"
	"github.com/cyberops/isora/internal/nis2"
	"github.com/cyberops/isora/internal/ratelimit"
	"github.com/cyberops/isora/internal/repository"
	"github.com/cyberops/isora/internal/scheduler"
	"github.com/cyberops/isora/internal/tenant"
)

func main() {
	// A missing .env is fine in production.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		zap.NewExample().Fatal("configuration invalid", zap.Error(err))
	}

	logger := newLogger(cfg.Server.LogLevel)
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.Database.URL)
	if err != nil {
		logger.Fatal("opening database failed", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		logger.Fatal("schema migration failed", zap.Error(err))
	}
	cancelMigrate()

	m := metrics.New()

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		if cfg.Redis.URL == "" {
			logger.Fatal("RATE_LIMIT_ENABLED requires REDIS_URL")
		}
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		limiter = ratelimit.NewLimiter(
			ratelimit.NewRedisStore(redis.NewClient(redisOpts)),
			tenant.NewPostgresStore(db),
			logger,
			ratelimit.WithSuperAdminBypass(cfg.RateLimit.BypassSuperAdmin),
		)
	}

	iocRepo := repository.NewPostgresIOCRepository(db)
	feedRepo := repository.NewPostgresFeedRepository(db)
	catalog := framework.NewCatalog()

	server := api.NewServer(api.Deps{
		Config:       cfg,
		Logger:       logger,
		Metrics:      m,
		Limiter:      limiter,
		Assessments:  assessment.NewService(assessment.NewPostgresStore(db), logger),
		Catalog:      catalog,
		Evaluator:    compliance.NewEvaluator(catalog, logger),
		NIS2:         nis2.NewEngine(nis2.NewPostgresStore(db), logger),
		IOCs:         iocRepo,
		Feeds:        feedRepo,
		Enricher:     enrich.NewAggregator(enrich.DefaultCacheTTL, logger),
		Integrations: integrations.NewMemoryStore(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(feedRepo, iocRepo, logger,
		scheduler.WithInterval(cfg.Feeds.SyncInterval),
		scheduler.WithMetrics(m))
	go sched.Run(ctx)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")
		cancel()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancelShutdown()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(); err != nil {
		logger.Info("http server stopped", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
