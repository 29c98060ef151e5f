package service

import (
	"context"
	"testing"

	"agentguard/internal/core/domain"
	"agentguard/internal/core/ports/mocks"
	"agentguard/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type approvalTestDeps struct {
	svc      *ApprovalServiceImpl
	store    *mocks.MockTransactionStore
	auditSvc *mocks.MockAuditService
	ctrl     *gomock.Controller
}

func setupApprovalService(t *testing.T) *approvalTestDeps {
	ctrl := gomock.NewController(t)
	d := &approvalTestDeps{
		store:    mocks.NewMockTransactionStore(ctrl),
		auditSvc: mocks.NewMockAuditService(ctrl),
		ctrl:     ctrl,
	}
	d.svc = NewApprovalService(d.store, d.auditSvc, zerolog.Nop())
	return d
}

// expectUpdate wires the store mock to run the service's mutation closure
// against the given record, mirroring the real store's copy semantics.
func expectUpdate(m *mocks.MockTransactionStore, ctx context.Context, record *domain.Transaction) {
	m.EXPECT().Update(ctx, record.ID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, fn func(*domain.Transaction) error) (*domain.Transaction, error) {
			cp := *record
			if err := fn(&cp); err != nil {
				return nil, err
			}
			return &cp, nil
		})
}

func pendingTransaction() *domain.Transaction {
	return &domain.Transaction{
		ID:              uuid.New(),
		Merchant:        "DarkWebStore",
		ItemDescription: "Mega Mystery Box",
		Amount:          decimal.NewFromInt(45),
		Status:          domain.TransactionStatusPendingApproval,
		RiskReason:      domain.ReasonHighRiskItem,
	}
}

// ==================== Decide Tests ====================

func TestApprovalService_Decide_Approve(t *testing.T) {
	d := setupApprovalService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	tx := pendingTransaction()

	expectUpdate(d.store, ctx, tx)
	d.auditSvc.EXPECT().Log(gomock.Any(), gomock.Any())

	updated, err := d.svc.Decide(ctx, tx.ID, domain.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusApproved, updated.Status)
}

func TestApprovalService_Decide_Deny(t *testing.T) {
	d := setupApprovalService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	tx := pendingTransaction()

	expectUpdate(d.store, ctx, tx)
	d.auditSvc.EXPECT().Log(gomock.Any(), gomock.Any())

	updated, err := d.svc.Decide(ctx, tx.ID, domain.DecisionDeny)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusDenied, updated.Status)
}

func TestApprovalService_Decide_UnknownDecision(t *testing.T) {
	d := setupApprovalService(t)
	defer d.ctrl.Finish()

	updated, err := d.svc.Decide(context.Background(), uuid.New(), domain.ApprovalDecision("MAYBE"))
	require.Error(t, err)
	assert.Nil(t, updated)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestApprovalService_Decide_NotFound(t *testing.T) {
	d := setupApprovalService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	id := uuid.New()

	d.store.EXPECT().Update(ctx, id, gomock.Any()).Return(nil, nil)

	updated, err := d.svc.Decide(ctx, id, domain.DecisionApprove)
	require.Error(t, err)
	assert.Nil(t, updated)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "TXN_001", appErr.Code)
}

func TestApprovalService_Decide_WrongState(t *testing.T) {
	d := setupApprovalService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	for _, status := range []domain.TransactionStatus{
		domain.TransactionStatusApproved,
		domain.TransactionStatusDenied,
		domain.TransactionStatusCompleted,
	} {
		tx := pendingTransaction()
		tx.Status = status
		expectUpdate(d.store, ctx, tx)

		updated, err := d.svc.Decide(ctx, tx.ID, domain.DecisionApprove)
		require.Error(t, err, string(status))
		assert.Nil(t, updated)
		appErr, ok := err.(*apperror.AppError)
		require.True(t, ok)
		assert.Equal(t, "TXN_002", appErr.Code)
		assert.Contains(t, appErr.Message, string(status))
	}
}

func TestApprovalService_Decide_DecisionIsFinal(t *testing.T) {
	d := setupApprovalService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	tx := pendingTransaction()

	expectUpdate(d.store, ctx, tx)
	d.auditSvc.EXPECT().Log(gomock.Any(), gomock.Any())

	updated, err := d.svc.Decide(ctx, tx.ID, domain.DecisionDeny)
	require.NoError(t, err)

	// A second decision on the now-denied record is rejected.
	expectUpdate(d.store, ctx, updated)

	_, err = d.svc.Decide(ctx, tx.ID, domain.DecisionApprove)
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "TXN_002", appErr.Code)
}
