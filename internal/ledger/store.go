package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/openauction/auctiond/internal/storage/keyValueDb"
	"github.com/openauction/auctiond/internal/types"
)

// Store persists accounts in a keyValueDb backend, keyed by the raw
// 32-byte address. It implements View and BatchApplier.
type Store struct {
	db keyValueDb.DB
}

func NewStore(db keyValueDb.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, key types.Pubkey) (*Account, error) {
	raw, err := s.db.Read(ctx, key[:])
	if err != nil {
		if errors.Is(err, keyValueDb.ErrKeyNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	acct, err := ParseAccount(raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt account %s: %w", key, err)
	}
	return acct, nil
}

func (s *Store) Exists(ctx context.Context, key types.Pubkey) (bool, error) {
	return s.db.Has(ctx, key[:])
}

func (s *Store) Put(ctx context.Context, key types.Pubkey, acct *Account) error {
	return s.db.Write(ctx, key[:], acct.Serialize())
}

func (s *Store) Delete(ctx context.Context, key types.Pubkey) error {
	return s.db.Delete(ctx, key[:])
}

// ApplyChanges flushes buffered account changes in a single atomic batch.
func (s *Store) ApplyChanges(ctx context.Context, puts map[types.Pubkey]*Account, deletes map[types.Pubkey]struct{}) error {
	ops := make([]keyValueDb.BatchOperation, 0, len(puts)+len(deletes))
	for key, acct := range puts {
		ops = append(ops, keyValueDb.BatchOperation{
			Type:  keyValueDb.BatchPut,
			Key:   append([]byte(nil), key[:]...),
			Value: acct.Serialize(),
		})
	}
	for key := range deletes {
		ops = append(ops, keyValueDb.BatchOperation{
			Type: keyValueDb.BatchDelete,
			Key:  append([]byte(nil), key[:]...),
		})
	}
	return s.db.Batch(ctx, ops)
}
