package memory

import (
	"context"
	"fmt"
	"sync"

	"agentguard/internal/core/domain"

	"github.com/google/uuid"
)

// TransactionStore is the in-memory transaction store. It is the single
// source of truth for lifecycle status. Records are append-only; only
// Reset removes anything.
type TransactionStore struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*domain.Transaction
	order        []uuid.UUID
}

// NewTransactionStore creates an empty store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// Create appends a new transaction record.
func (s *TransactionStore) Create(ctx context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.transactions[tx.ID]; exists {
		return fmt.Errorf("transaction %s already exists", tx.ID)
	}
	cp := *tx
	s.transactions[tx.ID] = &cp
	s.order = append(s.order, tx.ID)
	return nil
}

// GetByID returns a copy of the transaction, or nil if unknown.
func (s *TransactionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.transactions[id]
	if !ok {
		return nil, nil
	}
	cp := *tx
	return &cp, nil
}

// Update runs fn on a copy of the record while holding the store's write
// lock and writes the copy back only if fn succeeds. Mutations to one
// record are therefore mutually exclusive across all components, and a
// failed guard leaves the record untouched. Returns nil, nil if the
// transaction is unknown.
func (s *TransactionStore) Update(ctx context.Context, id uuid.UUID, fn func(tx *domain.Transaction) error) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok {
		return nil, nil
	}
	cp := *tx
	if err := fn(&cp); err != nil {
		return nil, err
	}
	s.transactions[id] = &cp
	out := cp
	return &out, nil
}

// List returns all transactions in creation order.
func (s *TransactionStore) List(ctx context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Transaction, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, *s.transactions[id])
	}
	return result, nil
}

// ListByStatus returns transactions with the given status in creation order.
func (s *TransactionStore) ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Transaction
	for _, id := range s.order {
		if tx := s.transactions[id]; tx.Status == status {
			result = append(result, *tx)
		}
	}
	return result, nil
}

// Reset drops every record.
func (s *TransactionStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = make(map[uuid.UUID]*domain.Transaction)
	s.order = nil
	return nil
}
