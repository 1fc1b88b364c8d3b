package tx

import (
	"context"

	"github.com/openauction/auctiond/internal/ledger"
	"github.com/openauction/auctiond/internal/types"
)

// Action represents the kind of buffered modification to an account.
type Action int

const (
	// ActionCache means the account was read but not modified.
	ActionCache Action = iota
	// ActionInsert means a new account was created.
	ActionInsert
	// ActionModify means an existing account was modified.
	ActionModify
	// ActionErase means an account was closed.
	ActionErase
)

type trackedEntry struct {
	action  Action
	account *ledger.Account
}

// ApplyStateTable buffers every read, write, and erase an operation performs
// over the base ledger view. Nothing reaches the base until Commit; a failed
// operation simply abandons the table, which is how all-or-nothing semantics
// are enforced.
type ApplyStateTable struct {
	ctx   context.Context
	base  ledger.View
	items map[types.Pubkey]*trackedEntry
}

func NewApplyStateTable(ctx context.Context, base ledger.View) *ApplyStateTable {
	return &ApplyStateTable{
		ctx:   ctx,
		base:  base,
		items: make(map[types.Pubkey]*trackedEntry),
	}
}

// Get returns the account at key as seen through the buffer.
func (t *ApplyStateTable) Get(key types.Pubkey) (*ledger.Account, error) {
	if entry, ok := t.items[key]; ok {
		if entry.action == ActionErase {
			return nil, ledger.ErrAccountNotFound
		}
		return entry.account, nil
	}

	acct, err := t.base.Get(t.ctx, key)
	if err != nil {
		return nil, err
	}
	// Track a private copy so in-place mutation stays buffered.
	entry := &trackedEntry{action: ActionCache, account: acct.Clone()}
	t.items[key] = entry
	return entry.account, nil
}

func (t *ApplyStateTable) Exists(key types.Pubkey) (bool, error) {
	if entry, ok := t.items[key]; ok {
		return entry.action != ActionErase, nil
	}
	return t.base.Exists(t.ctx, key)
}

// Insert buffers creation of a new account at key.
func (t *ApplyStateTable) Insert(key types.Pubkey, acct *ledger.Account) {
	if entry, ok := t.items[key]; ok && entry.action == ActionErase {
		// Erase then insert within one operation is a modify.
		entry.action = ActionModify
		entry.account = acct
		return
	}
	t.items[key] = &trackedEntry{action: ActionInsert, account: acct}
}

// Update marks a previously read account as modified. The caller mutates the
// *ledger.Account returned by Get in place; Update records that the change
// must be flushed.
func (t *ApplyStateTable) Update(key types.Pubkey) {
	entry, ok := t.items[key]
	if !ok || entry.action == ActionErase {
		return
	}
	if entry.action == ActionCache {
		entry.action = ActionModify
	}
}

// Erase buffers deletion of the account at key.
func (t *ApplyStateTable) Erase(key types.Pubkey) {
	if entry, ok := t.items[key]; ok {
		if entry.action == ActionInsert {
			// Created and destroyed within one operation: nothing to flush.
			delete(t.items, key)
			return
		}
		entry.action = ActionErase
		entry.account = nil
		return
	}
	t.items[key] = &trackedEntry{action: ActionErase}
}

// Commit flushes all buffered changes to the base view in one atomic batch.
func (t *ApplyStateTable) Commit(applier ledger.BatchApplier) error {
	puts := make(map[types.Pubkey]*ledger.Account)
	deletes := make(map[types.Pubkey]struct{})

	for key, entry := range t.items {
		switch entry.action {
		case ActionInsert, ActionModify:
			puts[key] = entry.account
		case ActionErase:
			deletes[key] = struct{}{}
		}
	}

	if len(puts) == 0 && len(deletes) == 0 {
		return nil
	}
	return applier.ApplyChanges(t.ctx, puts, deletes)
}

// Touched returns the addresses of all buffered inserts, modifies, and
// erases. Used for cache invalidation after commit.
func (t *ApplyStateTable) Touched() []types.Pubkey {
	keys := make([]types.Pubkey, 0, len(t.items))
	for key, entry := range t.items {
		if entry.action == ActionCache {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
