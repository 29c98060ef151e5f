package memory

import (
	"context"
	"sync"
	"testing"

	"agentguard/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTx(status domain.TransactionStatus) *domain.Transaction {
	return &domain.Transaction{
		ID:              uuid.New(),
		Merchant:        "BestBuy",
		ItemDescription: "Gaming Laptop",
		Amount:          decimal.NewFromInt(1200),
		Status:          status,
	}
}

func TestTransactionStore_CreateAndGet(t *testing.T) {
	s := NewTransactionStore()
	ctx := context.Background()
	tx := newTx(domain.TransactionStatusApproved)

	require.NoError(t, s.Create(ctx, tx))

	got, err := s.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tx.ID, got.ID)
	assert.Equal(t, domain.TransactionStatusApproved, got.Status)
}

func TestTransactionStore_CreateRejectsDuplicateID(t *testing.T) {
	s := NewTransactionStore()
	ctx := context.Background()
	tx := newTx(domain.TransactionStatusApproved)

	require.NoError(t, s.Create(ctx, tx))
	require.Error(t, s.Create(ctx, tx))
}

func TestTransactionStore_GetUnknownReturnsNil(t *testing.T) {
	s := NewTransactionStore()

	got, err := s.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTransactionStore_GetReturnsCopy(t *testing.T) {
	s := NewTransactionStore()
	ctx := context.Background()
	tx := newTx(domain.TransactionStatusApproved)
	require.NoError(t, s.Create(ctx, tx))

	got, err := s.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	got.Status = domain.TransactionStatusDenied

	again, err := s.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusApproved, again.Status)
}

func TestTransactionStore_Update(t *testing.T) {
	s := NewTransactionStore()
	ctx := context.Background()
	tx := newTx(domain.TransactionStatusPendingApproval)
	require.NoError(t, s.Create(ctx, tx))

	updated, err := s.Update(ctx, tx.ID, func(tx *domain.Transaction) error {
		tx.Status = domain.TransactionStatusApproved
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, domain.TransactionStatusApproved, updated.Status)

	got, err := s.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusApproved, got.Status)
}

func TestTransactionStore_UpdateFailureLeavesRecordUnchanged(t *testing.T) {
	s := NewTransactionStore()
	ctx := context.Background()
	tx := newTx(domain.TransactionStatusPendingApproval)
	require.NoError(t, s.Create(ctx, tx))

	updated, err := s.Update(ctx, tx.ID, func(tx *domain.Transaction) error {
		tx.Status = domain.TransactionStatusApproved
		return assert.AnError
	})
	require.Error(t, err)
	assert.Nil(t, updated)

	got, err := s.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusPendingApproval, got.Status)
}

func TestTransactionStore_UpdateUnknownReturnsNilNil(t *testing.T) {
	s := NewTransactionStore()

	updated, err := s.Update(context.Background(), uuid.New(), func(tx *domain.Transaction) error {
		t.Fatal("closure must not run for an unknown transaction")
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestTransactionStore_ListPreservesCreationOrder(t *testing.T) {
	s := NewTransactionStore()
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		tx := newTx(domain.TransactionStatusApproved)
		require.NoError(t, s.Create(ctx, tx))
		ids = append(ids, tx.ID)
	}

	txs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 5)
	for i, tx := range txs {
		assert.Equal(t, ids[i], tx.ID)
	}
}

func TestTransactionStore_ListByStatus(t *testing.T) {
	s := NewTransactionStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newTx(domain.TransactionStatusApproved)))
	pending := newTx(domain.TransactionStatusPendingApproval)
	require.NoError(t, s.Create(ctx, pending))
	require.NoError(t, s.Create(ctx, newTx(domain.TransactionStatusDenied)))

	txs, err := s.ListByStatus(ctx, domain.TransactionStatusPendingApproval)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, pending.ID, txs[0].ID)
}

func TestTransactionStore_Reset(t *testing.T) {
	s := NewTransactionStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newTx(domain.TransactionStatusApproved)))

	require.NoError(t, s.Reset(ctx))

	txs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestTransactionStore_ConcurrentUpdatesAreSerialized(t *testing.T) {
	s := NewTransactionStore()
	ctx := context.Background()
	tx := newTx(domain.TransactionStatusApproved)
	require.NoError(t, s.Create(ctx, tx))

	// Many goroutines race to settle the same record; the guard inside the
	// closure must let exactly one through.
	var wg sync.WaitGroup
	successes := make(chan struct{}, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, tx.ID, func(tx *domain.Transaction) error {
				if tx.Status != domain.TransactionStatusApproved {
					return assert.AnError
				}
				tx.Status = domain.TransactionStatusCompleted
				return nil
			})
			if err == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	count := 0
	for range successes {
		count++
	}
	assert.Equal(t, 1, count)

	got, err := s.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, got.Status)
}
