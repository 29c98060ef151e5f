package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agentguard/internal/core/domain"
	"agentguard/internal/core/ports"
	"agentguard/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthorizationServiceImpl implements ports.AuthorizationService. It
// orchestrates the policy evaluator, budget ledger and transaction store
// to resolve a new agent payment request. Spend is never committed here.
//
// Authorize is not idempotent: two calls with the same logical request
// produce two distinct transactions.
type AuthorizationServiceImpl struct {
	store    ports.TransactionStore
	ledger   ports.BudgetLedger
	policy   ports.PolicyEvaluator
	cfg      domain.PolicyConfig
	auditSvc ports.AuditService
	log      zerolog.Logger
}

// NewAuthorizationService creates a new AuthorizationServiceImpl.
// auditSvc may be nil to disable audit logging.
func NewAuthorizationService(
	store ports.TransactionStore,
	ledger ports.BudgetLedger,
	policy ports.PolicyEvaluator,
	cfg domain.PolicyConfig,
	auditSvc ports.AuditService,
	log zerolog.Logger,
) *AuthorizationServiceImpl {
	return &AuthorizationServiceImpl{
		store:    store,
		ledger:   ledger,
		policy:   policy,
		cfg:      cfg,
		auditSvc: auditSvc,
		log:      log,
	}
}

// Authorize resolves a payment request to APPROVED, DENIED or
// PENDING_APPROVAL. Every request is recorded, including denied ones, so
// the store doubles as an audit trail.
func (s *AuthorizationServiceImpl) Authorize(ctx context.Context, req ports.AuthorizeRequest) (*ports.AuthorizeResult, error) {
	if err := validateAuthorizeRequest(req); err != nil {
		return nil, err
	}

	verdict := s.policy.Evaluate(domain.PaymentRequest{
		AgentID:         req.AgentID,
		Merchant:        req.Merchant,
		Amount:          req.Amount,
		ItemDescription: req.ItemDescription,
	}, s.ledger.Snapshot(), s.cfg)

	var status domain.TransactionStatus
	switch verdict.Kind {
	case domain.VerdictAllow:
		status = domain.TransactionStatusApproved
	case domain.VerdictRequireApproval:
		status = domain.TransactionStatusPendingApproval
	case domain.VerdictDeny:
		status = domain.TransactionStatusDenied
	default:
		return nil, apperror.InternalError(fmt.Errorf("unknown verdict kind %q", verdict.Kind))
	}

	txn := &domain.Transaction{
		ID:              uuid.New(),
		Merchant:        req.Merchant,
		ItemDescription: req.ItemDescription,
		Amount:          req.Amount,
		Status:          status,
		CreatedAt:       time.Now().UTC(),
	}
	if status == domain.TransactionStatusPendingApproval {
		txn.RiskReason = verdict.Reason
	}

	if err := s.store.Create(ctx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	s.audit(ctx, txn, verdict)

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("agent_id", req.AgentID).
		Str("merchant", req.Merchant).
		Str("amount", req.Amount.String()).
		Str("status", string(status)).
		Str("reason", verdict.Reason).
		Msg("payment request authorized")

	return &ports.AuthorizeResult{
		Transaction: txn,
		Message:     verdict.Message,
	}, nil
}

func (s *AuthorizationServiceImpl) audit(ctx context.Context, txn *domain.Transaction, verdict domain.Verdict) {
	if s.auditSvc == nil {
		return
	}
	details := fmt.Sprintf(`{"merchant":%q,"amount":%q,"status":%q,"reason":%q}`,
		txn.Merchant, txn.Amount.String(), txn.Status, verdict.Reason)
	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:            uuid.New(),
		Action:        domain.AuditActionAuthorize,
		TransactionID: txn.ID.String(),
		Details:       details,
		CreatedAt:     time.Now().UTC(),
	})
}

func validateAuthorizeRequest(req ports.AuthorizeRequest) error {
	if strings.TrimSpace(req.Merchant) == "" {
		return apperror.Validation("merchant name must not be empty")
	}
	if strings.TrimSpace(req.ItemDescription) == "" {
		return apperror.Validation("item description must not be empty")
	}
	if !req.Amount.IsPositive() {
		return apperror.Validation("amount must be positive")
	}
	return nil
}
