package ledger

import (
	"context"
	"errors"

	"github.com/openauction/auctiond/internal/types"
)

var ErrAccountNotFound = errors.New("account not found")

// View is the read/write surface the settlement engine works against. The
// engine never touches storage directly; it sees accounts through a View so
// transaction applies can be buffered and committed atomically.
type View interface {
	// Get returns the account at key, or ErrAccountNotFound.
	Get(ctx context.Context, key types.Pubkey) (*Account, error)
	Exists(ctx context.Context, key types.Pubkey) (bool, error)
	Put(ctx context.Context, key types.Pubkey, acct *Account) error
	Delete(ctx context.Context, key types.Pubkey) error
}

// BatchApplier commits a set of account changes atomically. Backing views
// implement it so a buffered overlay can flush in one shot.
type BatchApplier interface {
	ApplyChanges(ctx context.Context, puts map[types.Pubkey]*Account, deletes map[types.Pubkey]struct{}) error
}
