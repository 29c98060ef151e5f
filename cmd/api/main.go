package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agentguard/config"
	httpHandler "agentguard/internal/adapter/http/handler"
	"agentguard/internal/adapter/storage/memory"
	pgStorage "agentguard/internal/adapter/storage/postgres"
	redisStorage "agentguard/internal/adapter/storage/redis"
	"agentguard/internal/core/domain"
	"agentguard/internal/core/ports"
	"agentguard/internal/service"
	"agentguard/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting AgentGuard authorization engine")

	ctx := context.Background()

	// Budget and policy configuration (validated at Load)
	ceiling, err := cfg.Budget.CeilingDecimal()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid budget ceiling")
	}
	spent, err := cfg.Budget.SpentDecimal()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid budget spent amount")
	}
	threshold, err := cfg.Policy.ApprovalThresholdDecimal()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid approval threshold")
	}
	policyCfg := domain.PolicyConfig{
		ApprovalThreshold:          threshold,
		BlockedMerchants:           cfg.Policy.BlockedMerchants,
		SuspiciousItemKeywords:     cfg.Policy.SuspiciousItemKeywords,
		SuspiciousMerchantKeywords: cfg.Policy.SuspiciousMerchantKeywords,
	}

	// Core state: in-memory transaction store and budget ledger
	store := memory.NewTransactionStore()
	ledger := memory.NewLedger(ceiling, spent)

	var healthCheckers []ports.HealthChecker

	// Optional PostgreSQL audit sink
	var auditRepo ports.AuditRepository
	if cfg.Database.Enabled {
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		auditRepo = pgStorage.NewAuditRepository(pool)
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))
	}

	// Optional Redis replay guard
	var replayGuard ports.ReplayGuard
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		replayGuard = redisStorage.NewReplayGuard(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	}

	// Business services
	auditSvc := service.NewAuditService(auditRepo, log)
	policyEval := service.NewPolicyEvaluator()
	authzSvc := service.NewAuthorizationService(store, ledger, policyEval, policyCfg, auditSvc, log)
	approvalSvc := service.NewApprovalService(store, auditSvc, log)
	settlementSvc := service.NewSettlementService(store, ledger, replayGuard, auditSvc, log)
	reportingSvc := service.NewReportingService(store, ledger)
	adminSvc := service.NewAdminService(store, ledger, auditSvc, log)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthzSvc:          authzSvc,
		ApprovalSvc:       approvalSvc,
		SettlementSvc:     settlementSvc,
		ReportingSvc:      reportingSvc,
		AdminSvc:          adminSvc,
		ApprovalThreshold: threshold,
		HealthCheckers:    healthCheckers,
		Logger:            log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
