package memory

import (
	"context" // request-scoped context, unused by the in-memory backend
	"sync"

	interfaces "github.com/sheikh-saqib/customer-ledger/internal/interfaces"
	"github.com/sheikh-saqib/customer-ledger/internal/models"
)

// MemoryAccountStore is an in-memory implementation of interfaces.AccountStore.
// Accounts live in a map keyed by holder id, so a second insert for the same
// holder fails instead of creating a duplicate.
type MemoryAccountStore struct {
	mu       sync.RWMutex               // protects the accounts map and the accounts in it
	accounts map[string]*models.Account // holder id -> account
}

// NewMemoryAccountStore creates an empty store
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		accounts: make(map[string]*models.Account),
	}
}

// InsertAccount stores a new account, or fails with ErrAccountExists
func (m *MemoryAccountStore) InsertAccount(ctx context.Context, account models.Account) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[account.HolderID]; exists {
		return interfaces.ErrAccountExists
	}
	m.accounts[account.HolderID] = account.Clone()
	return nil
}

// GetAccount returns a copy of the stored account
func (m *MemoryAccountStore) GetAccount(ctx context.Context, holderID string) (*models.Account, error) {

	m.mu.RLock()
	defer m.mu.RUnlock()

	account, exists := m.accounts[holderID]
	if !exists {
		return nil, interfaces.ErrAccountNotFound
	}
	return account.Clone(), nil
}

func (m *MemoryAccountStore) AppendTransaction(ctx context.Context, holderID string, tx models.Transaction) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	account, exists := m.accounts[holderID]
	if !exists {
		return interfaces.ErrAccountNotFound
	}
	account.Statement = append(account.Statement, tx)
	return nil
}

func (m *MemoryAccountStore) SetName(ctx context.Context, holderID string, name string) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	account, exists := m.accounts[holderID]
	if !exists {
		return interfaces.ErrAccountNotFound
	}
	account.Name = name
	return nil
}

// Compile-time check: ensure MemoryAccountStore implements AccountStore interface
var _ interfaces.AccountStore = (*MemoryAccountStore)(nil)
