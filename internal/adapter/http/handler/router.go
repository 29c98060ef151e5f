package handler

import (
	"agentguard/internal/adapter/http/middleware"
	"agentguard/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthzSvc          ports.AuthorizationService
	ApprovalSvc       ports.ApprovalService
	SettlementSvc     ports.SettlementService
	ReportingSvc      ports.ReportingService
	AdminSvc          ports.AdminService
	ApprovalThreshold decimal.Decimal
	HealthCheckers    []ports.HealthChecker
	Logger            zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	paymentHandler := NewPaymentHandler(deps.AuthzSvc, deps.SettlementSvc)
	approvalHandler := NewApprovalHandler(deps.ApprovalSvc, deps.ReportingSvc)
	adminHandler := NewAdminHandler(deps.ReportingSvc, deps.AdminSvc, deps.ApprovalThreshold)

	// Liveness + deep health
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "Agent Gateway is Active"})
	})
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Budget snapshot for dashboards
	r.GET("/config", adminHandler.GetBudget)

	// Administrative reset. Deliberately unauthenticated; gate before
	// exposing beyond test/demo environments.
	r.POST("/reset", adminHandler.Reset)

	v1 := r.Group("/v1")

	// Agent-facing endpoints
	agent := v1.Group("/agent")
	{
		agent.POST("/pay", paymentHandler.Pay)
		agent.POST("/complete_payment", paymentHandler.CompletePayment)
	}

	// Approval UI endpoints
	admin := v1.Group("/admin")
	{
		admin.GET("/transactions", adminHandler.ListTransactions)
		admin.GET("/pending", approvalHandler.ListPending)
		admin.POST("/approve", approvalHandler.Approve)
	}

	return r
}
