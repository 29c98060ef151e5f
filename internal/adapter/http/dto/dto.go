package dto

import (
	"github.com/shopspring/decimal"
)

// PayRequest is the request body for an agent payment authorization.
// Amount accepts a JSON number or decimal string; it is carried as a
// fixed-point decimal end to end, never a binary float.
type PayRequest struct {
	AgentID         string          `json:"agent_id" binding:"required,max=100"`
	MerchantName    string          `json:"merchant_name" binding:"required,max=200"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	ItemDescription string          `json:"item_description" binding:"required,max=500"`
}

// ApprovalRequest is the request body for the human-in-the-loop decision.
type ApprovalRequest struct {
	TransactionID string `json:"transaction_id" binding:"required,uuid"`
	Decision      string `json:"decision" binding:"required,oneof=APPROVE DENY"`
}

// CompletePaymentRequest is the capture confirmation from the payment
// processor collaborator.
type CompletePaymentRequest struct {
	TransactionID string `json:"transaction_id" binding:"required,uuid"`
	OrderID       string `json:"order_id" binding:"required,max=100"`
}

// AuthorizeResponse is the response body for an authorization result.
type AuthorizeResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	Amount        string `json:"amount"`
}

// DecisionResponse is the response body for an applied approval decision.
type DecisionResponse struct {
	TransactionID string `json:"transaction_id"`
	NewStatus     string `json:"new_status"`
}

// ReceiptResponse is the response body for a finalized settlement.
type ReceiptResponse struct {
	TransactionID     string `json:"transaction_id"`
	Merchant          string `json:"merchant"`
	Amount            string `json:"amount"`
	ExternalReference string `json:"external_reference"`
	SettledAt         string `json:"settled_at"`
}

// TransactionRecord is one entry in the transaction history.
type TransactionRecord struct {
	TransactionID     string  `json:"transaction_id"`
	Merchant          string  `json:"merchant"`
	ItemDescription   string  `json:"item_description"`
	Amount            string  `json:"amount"`
	Status            string  `json:"status"`
	RiskReason        string  `json:"risk_reason,omitempty"`
	ExternalReference string  `json:"external_reference,omitempty"`
	CreatedAt         string  `json:"created_at"`
	SettledAt         *string `json:"settled_at,omitempty"`
}

// BudgetResponse reports the ledger state for dashboards.
type BudgetResponse struct {
	Ceiling           string `json:"ceiling"`
	Spent             string `json:"spent"`
	Remaining         string `json:"remaining"`
	ApprovalThreshold string `json:"approval_threshold"`
}
