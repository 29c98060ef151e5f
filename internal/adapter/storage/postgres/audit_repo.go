package postgres

import (
	"context"
	"fmt"

	"agentguard/internal/core/domain"
	"agentguard/internal/core/ports"
)

type auditRepo struct {
	pool Pool
}

// NewAuditRepository creates a PostgreSQL-backed AuditRepository. The
// audit_logs table is an append-only mirror of engine events; the
// in-memory store stays the source of truth for transaction state.
func NewAuditRepository(pool Pool) ports.AuditRepository {
	return &auditRepo{pool: pool}
}

func (r *auditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, action, transaction_id, details, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, string(entry.Action), entry.TransactionID, entry.Details, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
