package handler

import (
	"agentguard/internal/adapter/http/dto"
	"agentguard/internal/core/domain"
	"agentguard/internal/core/ports"
	"agentguard/pkg/apperror"
	"agentguard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ApprovalHandler handles the human-in-the-loop endpoints used by the
// approval UI collaborator.
type ApprovalHandler struct {
	approvalSvc  ports.ApprovalService
	reportingSvc ports.ReportingService
}

// NewApprovalHandler creates a new ApprovalHandler.
func NewApprovalHandler(approvalSvc ports.ApprovalService, reportingSvc ports.ReportingService) *ApprovalHandler {
	return &ApprovalHandler{approvalSvc: approvalSvc, reportingSvc: reportingSvc}
}

// Approve handles POST /v1/admin/approve.
func (h *ApprovalHandler) Approve(c *gin.Context) {
	var req dto.ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	id, err := uuid.Parse(req.TransactionID)
	if err != nil {
		response.Error(c, apperror.Validation("transaction_id must be a valid UUID"))
		return
	}

	tx, err := h.approvalSvc.Decide(c.Request.Context(), id, domain.ApprovalDecision(req.Decision))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.DecisionResponse{
		TransactionID: tx.ID.String(),
		NewStatus:     string(tx.Status),
	})
}

// ListPending handles GET /v1/admin/pending.
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	txs, err := h.reportingSvc.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTransactionRecords(txs))
}
