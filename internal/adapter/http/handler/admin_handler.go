package handler

import (
	"agentguard/internal/adapter/http/dto"
	"agentguard/internal/core/domain"
	"agentguard/internal/core/ports"
	"agentguard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminHandler handles the dashboard and administrative endpoints.
type AdminHandler struct {
	reportingSvc ports.ReportingService
	adminSvc     ports.AdminService
	threshold    decimal.Decimal
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(reportingSvc ports.ReportingService, adminSvc ports.AdminService, threshold decimal.Decimal) *AdminHandler {
	return &AdminHandler{reportingSvc: reportingSvc, adminSvc: adminSvc, threshold: threshold}
}

// ListTransactions handles GET /v1/admin/transactions.
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	txs, err := h.reportingSvc.ListTransactions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTransactionRecords(txs))
}

// GetBudget handles GET /config: the budget snapshot for dashboards.
func (h *AdminHandler) GetBudget(c *gin.Context) {
	snap, err := h.reportingSvc.BudgetSnapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.BudgetResponse{
		Ceiling:           snap.Ceiling.String(),
		Spent:             snap.Spent.String(),
		Remaining:         snap.Remaining.String(),
		ApprovalThreshold: h.threshold.String(),
	})
}

// Reset handles POST /reset. Unauthenticated; production deployments
// should gate it.
func (h *AdminHandler) Reset(c *gin.Context) {
	if err := h.adminSvc.Reset(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"status": "State reset successfully"})
}

// toTransactionRecords converts domain transactions to DTOs.
func toTransactionRecords(txs []domain.Transaction) []dto.TransactionRecord {
	records := make([]dto.TransactionRecord, 0, len(txs))
	for _, tx := range txs {
		rec := dto.TransactionRecord{
			TransactionID:     tx.ID.String(),
			Merchant:          tx.Merchant,
			ItemDescription:   tx.ItemDescription,
			Amount:            tx.Amount.String(),
			Status:            string(tx.Status),
			RiskReason:        tx.RiskReason,
			ExternalReference: tx.ExternalReference,
			CreatedAt:         tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if tx.SettledAt != nil {
			s := tx.SettledAt.Format("2006-01-02T15:04:05Z07:00")
			rec.SettledAt = &s
		}
		records = append(records, rec)
	}
	return records
}
