package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the lifecycle state of an agent transaction.
type TransactionStatus string

const (
	TransactionStatusApproved        TransactionStatus = "APPROVED"
	TransactionStatusDenied          TransactionStatus = "DENIED"
	TransactionStatusPendingApproval TransactionStatus = "PENDING_APPROVAL"
	TransactionStatusCompleted       TransactionStatus = "COMPLETED"
)

// transitions is the allowed state-machine edge set. A transaction is
// created directly in APPROVED, DENIED or PENDING_APPROVAL; only the
// edges below may be taken afterwards.
var transitions = map[TransactionStatus][]TransactionStatus{
	TransactionStatusPendingApproval: {TransactionStatusApproved, TransactionStatusDenied},
	TransactionStatusApproved:        {TransactionStatusCompleted},
}

// CanTransitionTo reports whether the state machine permits moving from s
// to target.
func (s TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no transition leads out of s.
func (s TransactionStatus) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// IsValid returns true if s is a known lifecycle state.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusApproved, TransactionStatusDenied,
		TransactionStatusPendingApproval, TransactionStatusCompleted:
		return true
	}
	return false
}

// Transaction represents one payment attempt by an agent on behalf of the
// principal. Records are append-only: amount is immutable after creation,
// the external settlement reference is set at most once, and status only
// moves forward through the state machine.
type Transaction struct {
	ID                uuid.UUID         `json:"id"`
	Merchant          string            `json:"merchant"`
	ItemDescription   string            `json:"item_description"`
	Amount            decimal.Decimal   `json:"amount"`
	Status            TransactionStatus `json:"status"`
	RiskReason        string            `json:"risk_reason,omitempty"`
	ExternalReference string            `json:"external_reference,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	SettledAt         *time.Time        `json:"settled_at,omitempty"`
}

// IsTerminal returns true if the transaction is in a final state.
func (t *Transaction) IsTerminal() bool {
	return t.Status.IsTerminal()
}

// IsSettled returns true once an external capture has been recorded.
func (t *Transaction) IsSettled() bool {
	return t.ExternalReference != ""
}

// Receipt is the settlement confirmation returned when a capture is
// reconciled against a transaction.
type Receipt struct {
	TransactionID     uuid.UUID       `json:"transaction_id"`
	Merchant          string          `json:"merchant"`
	Amount            decimal.Decimal `json:"amount"`
	ExternalReference string          `json:"external_reference"`
	SettledAt         time.Time       `json:"settled_at"`
}

// ApprovalDecision is the human reviewer's verdict on a pending transaction.
type ApprovalDecision string

const (
	DecisionApprove ApprovalDecision = "APPROVE"
	DecisionDeny    ApprovalDecision = "DENY"
)

// StatusFor maps the reviewer decision to the resulting transaction status.
func (d ApprovalDecision) StatusFor() (TransactionStatus, bool) {
	switch d {
	case DecisionApprove:
		return TransactionStatusApproved, true
	case DecisionDeny:
		return TransactionStatusDenied, true
	}
	return "", false
}
