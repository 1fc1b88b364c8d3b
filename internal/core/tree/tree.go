// Package tree defines the settlement engine's boundary with the external
// compressed-asset tree program. The engine never re-implements proof math;
// it hands a supplied proof to a Verifier and trusts the answer atomically
// within the operation that asked.
package tree

import (
	"errors"

	"github.com/openauction/auctiond/internal/types"
)

var (
	// ErrUnknownTree is returned for a tree address with no registered tree.
	ErrUnknownTree = errors.New("unknown asset tree")

	// ErrStaleRoot is returned when the supplied root is not the tree's
	// current committed root. Callers must fetch a fresh proof and resubmit.
	ErrStaleRoot = errors.New("supplied root does not match current tree root")

	// ErrInvalidProof is returned when the proof path does not connect the
	// claimed leaf to the root.
	ErrInvalidProof = errors.New("proof does not verify against root")

	// ErrLeafMismatch is returned when the leaf recomputed from the claimed
	// owner, delegate, and hashes is not the leaf committed at that index.
	ErrLeafMismatch = errors.New("recomputed leaf does not match committed leaf")
)

// OwnershipArgs carries everything needed to locate and recompute one asset
// leaf: the claimed owner and delegate, the committed hashes, and the proof
// path truncated to (tree depth - canopy depth) entries. It is ephemeral
// input, never stored.
type OwnershipArgs struct {
	AssetID     types.Pubkey
	Owner       types.Pubkey
	Delegate    types.Pubkey
	Root        types.Hash
	DataHash    types.Hash
	CreatorHash types.Hash
	Nonce       uint64
	Index       uint32
	ProofPath   []types.Hash
}

// Verifier is the injected tree-program collaborator. Each call either
// succeeds synchronously or fails the enclosing operation; there is no
// partial effect.
type Verifier interface {
	// VerifyOwnership checks that args describes the current committed leaf.
	VerifyOwnership(treeID types.Pubkey, args OwnershipArgs) error

	// Delegate re-verifies ownership and replaces the leaf's delegate.
	Delegate(treeID types.Pubkey, args OwnershipArgs, newDelegate types.Pubkey) error

	// Transfer re-verifies ownership and moves the leaf to newOwner,
	// clearing any delegate.
	Transfer(treeID types.Pubkey, args OwnershipArgs, newOwner types.Pubkey) error
}
