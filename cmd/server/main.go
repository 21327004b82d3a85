// Package main is the entry point for the stockbook API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockbook/internal/domain/auth"
	"stockbook/internal/domain/catalog"
	"stockbook/internal/domain/movement"
	"stockbook/internal/domain/profit"
	"stockbook/internal/domain/reconcile"
	"stockbook/internal/infrastructure/cache"
	v1 "stockbook/internal/infrastructure/http/v1"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/pkg/config"
	"stockbook/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stockbook server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.DatabaseURL)
	poolCfg.MaxConns = cfg.DB.MaxConns
	poolCfg.MinConns = cfg.DB.MinConns
	poolCfg.MaxConnLifetime = cfg.DB.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.DB.MaxConnIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	variantRepo := postgres.NewVariantRepo(txManager)
	ledgerRepo := postgres.NewLedgerRepo(txManager)
	productRepo := postgres.NewProductRepo(txManager)
	collaboratorDir := cache.NewCachedDirectory(postgres.NewCollaboratorRepo(txManager), cache.DefaultDirectoryTTL)
	reportRepo := postgres.NewReportRepo(txManager)
	installmentRepo := postgres.NewInstallmentRepo(txManager)

	auditRepo, err := postgres.NewAuditRepo(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit repository", "error", err)
	}

	// --- Services ---
	stockService := movement.NewService(variantRepo, ledgerRepo, collaboratorDir, auditRepo, txManager)
	profitService := profit.NewService(reportRepo)
	catalogService := catalog.NewService(productRepo, variantRepo, auditRepo, txManager)

	installmentGuard, err := reconcile.NewInstallmentGuard(installmentRepo, "", auditRepo, txManager)
	if err != nil {
		log.Fatalw("failed to initialize installment guard", "error", err)
	}

	// --- Token validation ---
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(cfg.Auth.TokenSecret))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool.Unwrap(),
		Logger:           log,
		TokenValidator:   jwtService,
		StockService:     stockService,
		ProfitService:    profitService,
		CatalogService:   catalogService,
		InstallmentGuard: installmentGuard,
		AuditRecorder:    auditRepo,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("forced shutdown", "error", err)
	}

	log.Info("server stopped")
}
