package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/carebridge/eligibility-engine/internal/api/router"
	"github.com/carebridge/eligibility-engine/internal/cache"
	"github.com/carebridge/eligibility-engine/internal/clearinghouse"
	"github.com/carebridge/eligibility-engine/internal/compliance"
	appconfig "github.com/carebridge/eligibility-engine/internal/config"
	"github.com/carebridge/eligibility-engine/internal/directory"
	"github.com/carebridge/eligibility-engine/internal/eligibility"
	"github.com/carebridge/eligibility-engine/internal/observability/metrics"
	"github.com/carebridge/eligibility-engine/internal/payers"
	"github.com/carebridge/eligibility-engine/internal/provider"
	"github.com/carebridge/eligibility-engine/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting eligibility-engine API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"simulation_mode", cfg.SimulationMode,
	)
	if cfg.SimulationMode && cfg.IsProduction() {
		logger.Error("SIMULATION_MODE must not be enabled in production")
		os.Exit(1)
	}

	ctx := context.Background()

	// Postgres is optional: without it the engine runs on the built-in
	// payer registry with no audit trail or contract lookups.
	var (
		pool    *pgxpool.Pool
		auditDB *sql.DB
	)
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create connection pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		auditDB, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open audit db", "error", err)
			os.Exit(1)
		}
		defer auditDB.Close()
	} else {
		logger.Warn("DATABASE_URL not set; running without audit trail or contract data")
	}

	registry := buildRegistry(cfg, pool, logger)

	var store directory.Store
	if pool != nil {
		store = directory.NewPGStore(pool)
	} else {
		store = &directory.MemoryStore{}
	}
	resolver := directory.NewResolver(store, logger)

	var resultCache *cache.ResultCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		resultCache = cache.NewResultCache(rdb, cfg.CacheTTL)
	}

	var auditService *compliance.AuditService
	if auditDB != nil {
		auditService = compliance.NewAuditService(auditDB)
	}

	reg := prometheus.NewRegistry()
	eligMetrics := metrics.NewEligibilityMetrics(reg)

	chCfg := clearinghouse.Config{
		Endpoint:   cfg.ClearinghouseEndpoint,
		Username:   cfg.ClearinghouseUsername,
		Password:   cfg.ClearinghousePassword,
		SenderID:   cfg.ClearinghouseSenderID,
		ReceiverID: cfg.ClearinghouseReceiverID,
		Timeout:    cfg.ClearinghouseTimeout,
	}
	var chClient clearinghouse.Client
	switch cfg.ClearinghouseProtocol {
	case "core":
		chClient = clearinghouse.NewCOREClient(chCfg, logger)
	default:
		chClient = clearinghouse.NewSOAPClient(chCfg, logger)
	}

	encoder := eligibility.NewEncoder(
		cfg.ClearinghouseSenderID,
		cfg.ClearinghouseReceiverID,
		cfg.ClearinghouseUsage,
		provider.Identity{
			Name:  cfg.ProviderName,
			NPI:   cfg.ProviderNPI,
			TaxID: cfg.ProviderTaxID,
		},
	)

	opts := eligibility.ServiceOptions{
		Registry:       registry,
		Encoder:        encoder,
		Client:         chClient,
		Resolver:       resolver,
		Cache:          resultCache,
		Metrics:        eligMetrics,
		Logger:         logger,
		SimulationMode: cfg.SimulationMode,
	}
	if auditService != nil {
		opts.Auditor = auditService
	}
	service := eligibility.NewService(opts)
	handler := eligibility.NewHandler(service, registry, logger)

	routerCfg := &router.Config{
		Logger:             logger,
		EligibilityHandler: handler,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminJWTSecret:     cfg.AdminJWTSecret,
		AuditService:       auditService,
		CheckRateLimit:     cfg.CheckRateLimit,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func buildRegistry(cfg *appconfig.Config, pool *pgxpool.Pool, logger *logging.Logger) payers.Registry {
	if cfg.PayerDialectFile != "" {
		reg, err := payers.NewStaticRegistryFromFile(cfg.PayerDialectFile)
		if err != nil {
			logger.Error("failed to load payer dialect file", "path", cfg.PayerDialectFile, "error", err)
			os.Exit(1)
		}
		return reg
	}
	if pool != nil {
		return payers.NewPGRegistry(pool)
	}
	return payers.NewStaticRegistry()
}
