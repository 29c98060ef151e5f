package memory

import (
	"sync"

	"agentguard/internal/core/domain"
	"agentguard/pkg/apperror"

	"github.com/shopspring/decimal"
)

// Ledger is the in-memory budget ledger. It owns the spent total: every
// other component observes it through Snapshot/Commit, never by
// direct mutation. Spend is committed only at settlement, so a pending or
// approved-but-unpaid transaction never holds budget.
type Ledger struct {
	mu      sync.Mutex
	ceiling decimal.Decimal
	spent   decimal.Decimal
}

// NewLedger creates a ledger with the given period ceiling and an amount
// already spent in the current period.
func NewLedger(ceiling, spent decimal.Decimal) *Ledger {
	return &Ledger{ceiling: ceiling, spent: spent}
}

// Snapshot returns a point-in-time view of the budget.
func (l *Ledger) Snapshot() domain.BudgetSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.BudgetSnapshot{
		Ceiling:   l.ceiling,
		Spent:     l.spent,
		Remaining: l.ceiling.Sub(l.spent),
	}
}

// Commit adds amount to the spent total. Fails without mutating if the
// result would exceed the ceiling.
func (l *Ledger) Commit(amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := l.spent.Add(amount)
	if next.GreaterThan(l.ceiling) {
		return apperror.ErrLedgerCeiling()
	}
	l.spent = next
	return nil
}

// Reset zeroes the spent total.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.spent = decimal.Zero
}
