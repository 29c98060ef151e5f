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

// replayGuardTTL bounds how long a settlement reference stays in the
// fast-path guard. The store's duplicate check has no expiry and remains
// authoritative.
const replayGuardTTL = 24 * time.Hour

// SettlementServiceImpl implements ports.SettlementService. Finalize is
// the single point in the engine where money is considered spent: the
// state check, ledger commit and state write all run inside the store's
// per-record critical section, so a concurrent reader never observes an
// intermediate state.
type SettlementServiceImpl struct {
	store       ports.TransactionStore
	ledger      ports.BudgetLedger
	replayGuard ports.ReplayGuard
	auditSvc    ports.AuditService
	log         zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl.
// replayGuard and auditSvc may be nil to disable those layers.
func NewSettlementService(
	store ports.TransactionStore,
	ledger ports.BudgetLedger,
	replayGuard ports.ReplayGuard,
	auditSvc ports.AuditService,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		store:       store,
		ledger:      ledger,
		replayGuard: replayGuard,
		auditSvc:    auditSvc,
		log:         log,
	}
}

// Finalize reconciles a capture confirmation from the payment processor
// with a transaction. Once Finalize succeeds for a transaction, every
// later call for it fails with DuplicateSettlement and the ledger is not
// debited again.
func (s *SettlementServiceImpl) Finalize(ctx context.Context, id uuid.UUID, externalReference string) (*domain.Receipt, error) {
	if strings.TrimSpace(externalReference) == "" {
		return nil, apperror.Validation("external reference must not be empty")
	}

	// Fast path: a reference seen before is a replayed callback. The guard
	// is best-effort; on error we fall through to the store's check.
	guardHeld := false
	if s.replayGuard != nil {
		fresh, err := s.replayGuard.CheckAndSet(ctx, externalReference, replayGuardTTL)
		if err != nil {
			s.log.Warn().Err(err).Str("reference", externalReference).
				Msg("replay guard unavailable, falling through to store check")
		} else if !fresh {
			return nil, apperror.ErrDuplicateSettlement(externalReference)
		} else {
			guardHeld = true
		}
	}

	var receipt *domain.Receipt
	updated, err := s.store.Update(ctx, id, func(tx *domain.Transaction) error {
		if tx.IsSettled() {
			return apperror.ErrDuplicateSettlement(tx.ExternalReference)
		}
		if tx.Status != domain.TransactionStatusApproved {
			return apperror.ErrInvalidStateTransition(string(tx.Status), string(domain.TransactionStatusCompleted))
		}
		if err := s.ledger.Commit(tx.Amount); err != nil {
			return err
		}
		now := time.Now().UTC()
		tx.Status = domain.TransactionStatusCompleted
		tx.ExternalReference = externalReference
		tx.SettledAt = &now
		receipt = &domain.Receipt{
			TransactionID:     tx.ID,
			Merchant:          tx.Merchant,
			Amount:            tx.Amount,
			ExternalReference: externalReference,
			SettledAt:         now,
		}
		return nil
	})
	if err != nil {
		s.releaseGuard(ctx, externalReference, guardHeld)
		return nil, err
	}
	if updated == nil {
		s.releaseGuard(ctx, externalReference, guardHeld)
		return nil, apperror.ErrTransactionNotFound(id.String())
	}

	if s.auditSvc != nil {
		s.auditSvc.Log(ctx, &domain.AuditLog{
			ID:            uuid.New(),
			Action:        domain.AuditActionFinalize,
			TransactionID: id.String(),
			Details:       fmt.Sprintf(`{"external_reference":%q,"amount":%q}`, externalReference, receipt.Amount.String()),
			CreatedAt:     time.Now().UTC(),
		})
	}

	s.log.Info().
		Str("tx_id", id.String()).
		Str("external_reference", externalReference).
		Str("amount", receipt.Amount.String()).
		Msg("settlement finalized")

	return receipt, nil
}

// releaseGuard forgets a reference the fast path recorded before the
// authoritative check rejected the call, so a corrected retry with the
// same reference can still succeed.
func (s *SettlementServiceImpl) releaseGuard(ctx context.Context, externalReference string, held bool) {
	if !held || s.replayGuard == nil {
		return
	}
	if err := s.replayGuard.Remove(ctx, externalReference); err != nil {
		s.log.Warn().Err(err).Str("reference", externalReference).
			Msg("failed to release replay guard entry")
	}
}
