package ledger

import (
	"context"
	"sync"

	"github.com/openauction/auctiond/internal/types"
)

// MemoryStore is an in-memory View for tests and ephemeral runs.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[types.Pubkey]*Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[types.Pubkey]*Account)}
}

func (m *MemoryStore) Get(ctx context.Context, key types.Pubkey) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acct, ok := m.accounts[key]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acct.Clone(), nil
}

func (m *MemoryStore) Exists(ctx context.Context, key types.Pubkey) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.accounts[key]
	return ok, nil
}

func (m *MemoryStore) Put(ctx context.Context, key types.Pubkey, acct *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[key] = acct.Clone()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key types.Pubkey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, key)
	return nil
}

func (m *MemoryStore) ApplyChanges(ctx context.Context, puts map[types.Pubkey]*Account, deletes map[types.Pubkey]struct{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, acct := range puts {
		m.accounts[key] = acct.Clone()
	}
	for key := range deletes {
		delete(m.accounts, key)
	}
	return nil
}
