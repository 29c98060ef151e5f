package ports

import (
	"context"
	"time"

	"agentguard/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStore owns transaction records and is the single source of
// truth for lifecycle status. Records are append-only; apart from Reset
// nothing is ever removed.
type TransactionStore interface {
	// Create appends a new transaction. Fails if the ID already exists.
	Create(ctx context.Context, tx *domain.Transaction) error

	// GetByID returns a copy of the transaction, or nil if unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)

	// Update runs fn on the stored record while holding the record's
	// critical section. If fn returns an error the record is left
	// unchanged; otherwise the mutated copy is written back and returned.
	// The ledger commit for a settlement runs inside fn so that state
	// check, ledger debit and state write are one atomic step.
	Update(ctx context.Context, id uuid.UUID, fn func(tx *domain.Transaction) error) (*domain.Transaction, error)

	// List returns all transactions in creation order.
	List(ctx context.Context) ([]domain.Transaction, error)

	// ListByStatus returns transactions with the given status in creation order.
	ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error)

	// Reset drops every record. Administrative use only.
	Reset(ctx context.Context) error
}

// BudgetLedger tracks cumulative spend against the period ceiling. It is
// the only component allowed to mutate the spent total. Spend is committed
// at settlement, never at authorization or approval.
type BudgetLedger interface {
	// Snapshot returns the current ceiling, spent and remaining amounts.
	// The budget rule checks the snapshot; nothing is held between the
	// check and the commit, so two in-flight authorizations can both pass.
	Snapshot() domain.BudgetSnapshot

	// Commit adds amount to spent. Fails if that would exceed the ceiling.
	Commit(amount decimal.Decimal) error

	// Reset zeroes the spent total.
	Reset()
}

// ReplayGuard is a fast-path uniqueness check on external settlement
// references, layered in front of the store's authoritative duplicate
// check. Implementations are best-effort; the engine must stay correct
// when the guard is unavailable.
type ReplayGuard interface {
	// CheckAndSet atomically records the reference if unseen. Returns true
	// if the reference is new, false if it was already recorded.
	CheckAndSet(ctx context.Context, externalReference string, ttl time.Duration) (bool, error)

	// Remove forgets a reference so a retried capture is not falsely
	// rejected after the authoritative check failed.
	Remove(ctx context.Context, externalReference string) error
}

// AuditRepository persists audit trail entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// HealthChecker reports the health of an infrastructure dependency.
type HealthChecker interface {
	Name() string
	Ping(ctx context.Context) error
}
