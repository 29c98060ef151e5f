package service

import (
	"context"
	"fmt"
	"time"

	"agentguard/internal/core/domain"
	"agentguard/internal/core/ports"
	"agentguard/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ApprovalServiceImpl implements ports.ApprovalService: it applies the
// human reviewer's decision to a transaction awaiting review. Approving
// does not commit ledger spend; the engine commits only at settlement.
type ApprovalServiceImpl struct {
	store    ports.TransactionStore
	auditSvc ports.AuditService
	log      zerolog.Logger
}

// NewApprovalService creates a new ApprovalServiceImpl.
// auditSvc may be nil to disable audit logging.
func NewApprovalService(store ports.TransactionStore, auditSvc ports.AuditService, log zerolog.Logger) *ApprovalServiceImpl {
	return &ApprovalServiceImpl{store: store, auditSvc: auditSvc, log: log}
}

// Decide moves a PENDING_APPROVAL transaction to APPROVED or DENIED.
func (s *ApprovalServiceImpl) Decide(ctx context.Context, id uuid.UUID, decision domain.ApprovalDecision) (*domain.Transaction, error) {
	target, ok := decision.StatusFor()
	if !ok {
		return nil, apperror.Validation(fmt.Sprintf("unknown decision %q, expected APPROVE or DENY", decision))
	}

	updated, err := s.store.Update(ctx, id, func(tx *domain.Transaction) error {
		if tx.Status != domain.TransactionStatusPendingApproval {
			return apperror.ErrInvalidStateTransition(string(tx.Status), string(target))
		}
		tx.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.ErrTransactionNotFound(id.String())
	}

	if s.auditSvc != nil {
		s.auditSvc.Log(ctx, &domain.AuditLog{
			ID:            uuid.New(),
			Action:        domain.AuditActionDecide,
			TransactionID: id.String(),
			Details:       fmt.Sprintf(`{"decision":%q,"new_status":%q}`, decision, target),
			CreatedAt:     time.Now().UTC(),
		})
	}

	s.log.Info().
		Str("tx_id", id.String()).
		Str("decision", string(decision)).
		Str("new_status", string(target)).
		Msg("approval decision applied")

	return updated, nil
}
