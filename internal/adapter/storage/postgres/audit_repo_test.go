package postgres

import (
	"context"
	"testing"
	"time"

	"agentguard/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepository(mock)
	entry := &domain.AuditLog{
		ID:            uuid.New(),
		Action:        domain.AuditActionFinalize,
		TransactionID: uuid.New().String(),
		Details:       `{"external_reference":"ORDER-001","amount":"1200"}`,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(entry.ID, string(entry.Action), entry.TransactionID, entry.Details, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), entry)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_Create_DBError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepository(mock)
	entry := &domain.AuditLog{
		ID:        uuid.New(),
		Action:    domain.AuditActionReset,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(entry.ID, string(entry.Action), entry.TransactionID, entry.Details, entry.CreatedAt).
		WillReturnError(assert.AnError)

	err = repo.Create(context.Background(), entry)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
