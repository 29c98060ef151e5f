package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited engine event.
type AuditAction string

const (
	AuditActionAuthorize AuditAction = "AUTHORIZE"
	AuditActionDecide    AuditAction = "DECIDE"
	AuditActionFinalize  AuditAction = "FINALIZE"
	AuditActionReset     AuditAction = "RESET"
)

// AuditLog records a single engine event in the append-only trail.
type AuditLog struct {
	ID            uuid.UUID   `json:"id"`
	Action        AuditAction `json:"action"`
	TransactionID string      `json:"transaction_id,omitempty"`
	Details       string      `json:"details,omitempty"` // JSON string
	CreatedAt     time.Time   `json:"created_at"`
}
