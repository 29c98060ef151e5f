package handler

import (
	"agentguard/internal/adapter/http/dto"
	"agentguard/internal/core/ports"
	"agentguard/pkg/apperror"
	"agentguard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles the agent-facing payment endpoints.
type PaymentHandler struct {
	authzSvc      ports.AuthorizationService
	settlementSvc ports.SettlementService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(authzSvc ports.AuthorizationService, settlementSvc ports.SettlementService) *PaymentHandler {
	return &PaymentHandler{authzSvc: authzSvc, settlementSvc: settlementSvc}
}

// Pay handles POST /v1/agent/pay.
func (h *PaymentHandler) Pay(c *gin.Context) {
	var req dto.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.authzSvc.Authorize(c.Request.Context(), ports.AuthorizeRequest{
		AgentID:         req.AgentID,
		Merchant:        req.MerchantName,
		Amount:          req.Amount,
		ItemDescription: req.ItemDescription,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AuthorizeResponse{
		TransactionID: result.Transaction.ID.String(),
		Status:        string(result.Transaction.Status),
		Message:       result.Message,
		Amount:        result.Transaction.Amount.String(),
	})
}

// CompletePayment handles POST /v1/agent/complete_payment. It is called
// with the processor's capture confirmation; the engine never initiates
// the processor call itself.
func (h *PaymentHandler) CompletePayment(c *gin.Context) {
	var req dto.CompletePaymentRequest
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

	receipt, err := h.settlementSvc.Finalize(c.Request.Context(), id, req.OrderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ReceiptResponse{
		TransactionID:     receipt.TransactionID.String(),
		Merchant:          receipt.Merchant,
		Amount:            receipt.Amount.String(),
		ExternalReference: receipt.ExternalReference,
		SettledAt:         receipt.SettledAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}
