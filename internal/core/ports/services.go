package ports

import (
	"context"

	"agentguard/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PolicyEvaluator classifies a payment request against the principal's
// rules and a budget snapshot. Pure: no side effects, identical inputs
// yield identical verdicts.
type PolicyEvaluator interface {
	Evaluate(req domain.PaymentRequest, budget domain.BudgetSnapshot, cfg domain.PolicyConfig) domain.Verdict
}

// AuthorizationService answers "can this payment proceed" for a new agent
// request. Every request produces a transaction record, including denied
// ones. It never commits ledger spend.
type AuthorizationService interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResult, error)
}

// AuthorizeRequest holds validated input for authorization.
type AuthorizeRequest struct {
	AgentID         string
	Merchant        string
	Amount          decimal.Decimal
	ItemDescription string
}

// AuthorizeResult is the authorization outcome returned to the agent.
type AuthorizeResult struct {
	Transaction *domain.Transaction
	Message     string
}

// ApprovalService applies a human decision to a transaction awaiting review.
type ApprovalService interface {
	Decide(ctx context.Context, id uuid.UUID, decision domain.ApprovalDecision) (*domain.Transaction, error)
}

// SettlementService reconciles an external capture confirmation with a
// transaction, committing the ledger debit exactly once.
type SettlementService interface {
	Finalize(ctx context.Context, id uuid.UUID, externalReference string) (*domain.Receipt, error)
}

// ReportingService exposes read-only views for the approval UI and
// dashboards.
type ReportingService interface {
	ListPending(ctx context.Context) ([]domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	BudgetSnapshot(ctx context.Context) (domain.BudgetSnapshot, error)
}

// AdminService performs administrative operations. Reset clears all
// transactions and zeroes spend in one call.
type AdminService interface {
	Reset(ctx context.Context) error
}

// AuditService records engine events on the audit trail.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
