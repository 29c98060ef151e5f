package domain

import (
	"github.com/shopspring/decimal"
)

// BudgetSnapshot is a point-in-time, read-only view of the period budget.
// Remaining is derived as Ceiling - Spent and is never negative while the
// ledger's ceiling guard holds.
type BudgetSnapshot struct {
	Ceiling   decimal.Decimal `json:"ceiling"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}
