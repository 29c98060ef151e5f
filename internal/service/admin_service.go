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

// AdminServiceImpl implements ports.AdminService. Reset clears the
// transaction store and zeroes ledger spend together. It is exposed
// without authentication, which is a documented gap.
type AdminServiceImpl struct {
	store    ports.TransactionStore
	ledger   ports.BudgetLedger
	auditSvc ports.AuditService
	log      zerolog.Logger
}

// NewAdminService creates a new AdminServiceImpl.
// auditSvc may be nil to disable audit logging.
func NewAdminService(store ports.TransactionStore, ledger ports.BudgetLedger, auditSvc ports.AuditService, log zerolog.Logger) *AdminServiceImpl {
	return &AdminServiceImpl{store: store, ledger: ledger, auditSvc: auditSvc, log: log}
}

// Reset clears all transactions and zeroes spend. Intended for test and
// demo environments.
func (s *AdminServiceImpl) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("reset store: %w", err))
	}
	s.ledger.Reset()

	if s.auditSvc != nil {
		s.auditSvc.Log(ctx, &domain.AuditLog{
			ID:        uuid.New(),
			Action:    domain.AuditActionReset,
			CreatedAt: time.Now().UTC(),
		})
	}

	s.log.Warn().Msg("engine state reset: transactions cleared, spend zeroed")
	return nil
}
