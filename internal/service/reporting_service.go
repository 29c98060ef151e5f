package service

import (
	"context"
	"fmt"

	"agentguard/internal/core/domain"
	"agentguard/internal/core/ports"
	"agentguard/pkg/apperror"
)

// ReportingServiceImpl implements ports.ReportingService: read-only views
// over the store and ledger for the approval UI and dashboards.
type ReportingServiceImpl struct {
	store  ports.TransactionStore
	ledger ports.BudgetLedger
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(store ports.TransactionStore, ledger ports.BudgetLedger) *ReportingServiceImpl {
	return &ReportingServiceImpl{store: store, ledger: ledger}
}

// ListPending returns transactions awaiting human review, oldest first.
func (s *ReportingServiceImpl) ListPending(ctx context.Context) ([]domain.Transaction, error) {
	txs, err := s.store.ListByStatus(ctx, domain.TransactionStatusPendingApproval)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list pending: %w", err))
	}
	return txs, nil
}

// ListTransactions returns the full history in creation order.
func (s *ReportingServiceImpl) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txs, err := s.store.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txs, nil
}

// BudgetSnapshot returns the current ceiling, spent and remaining amounts.
func (s *ReportingServiceImpl) BudgetSnapshot(ctx context.Context) (domain.BudgetSnapshot, error) {
	return s.ledger.Snapshot(), nil
}
