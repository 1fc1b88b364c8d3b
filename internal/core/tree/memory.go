package tree

import (
	"fmt"
	"sync"

	"github.com/openauction/auctiond/internal/types"
)

// MaxDepth bounds tree sizes; 2^30 leaves is far beyond anything a single
// process needs to emulate.
const MaxDepth = 30

// MemoryTree is an append-only Merkle tree with a canopy: the top
// canopyDepth levels are held by the tree itself, so callers supply proof
// paths of only (depth - canopyDepth) sibling hashes. Nodes are stored
// sparsely; absent subtrees hash to the zero chain.
type MemoryTree struct {
	depth     int
	canopy    int
	nodes     []map[uint32]types.Hash
	zeros     []types.Hash
	nextIndex uint32
}

// NewMemoryTree creates an empty tree.
func NewMemoryTree(depth, canopy int) (*MemoryTree, error) {
	if depth < 1 || depth > MaxDepth {
		return nil, fmt.Errorf("tree depth %d out of range [1,%d]", depth, MaxDepth)
	}
	if canopy < 0 || canopy >= depth {
		return nil, fmt.Errorf("canopy depth %d out of range [0,%d)", canopy, depth)
	}

	zeros := make([]types.Hash, depth+1)
	for i := 1; i <= depth; i++ {
		zeros[i] = nodeHash(zeros[i-1], zeros[i-1])
	}

	nodes := make([]map[uint32]types.Hash, depth+1)
	for i := range nodes {
		nodes[i] = make(map[uint32]types.Hash)
	}

	return &MemoryTree{
		depth:  depth,
		canopy: canopy,
		nodes:  nodes,
		zeros:  zeros,
	}, nil
}

// Depth returns the tree depth.
func (t *MemoryTree) Depth() int { return t.depth }

// CanopyDepth returns the number of top levels the tree caches itself.
func (t *MemoryTree) CanopyDepth() int { return t.canopy }

// ProofLen returns the number of sibling hashes a caller must supply.
func (t *MemoryTree) ProofLen() int { return t.depth - t.canopy }

// node returns the hash at (level, index), defaulting to the zero chain.
func (t *MemoryTree) node(level int, index uint32) types.Hash {
	if h, ok := t.nodes[level][index]; ok {
		return h
	}
	return t.zeros[level]
}

// Root returns the current committed root.
func (t *MemoryTree) Root() types.Hash {
	return t.node(t.depth, 0)
}

// setLeaf writes a leaf and rehashes its path to the root.
func (t *MemoryTree) setLeaf(index uint32, leaf types.Hash) {
	t.nodes[0][index] = leaf
	cur := index
	for level := 0; level < t.depth; level++ {
		parent := cur >> 1
		left := t.node(level, parent<<1)
		right := t.node(level, parent<<1|1)
		t.nodes[level+1][parent] = nodeHash(left, right)
		cur = parent
	}
}

// Append mints a new leaf and returns its index.
func (t *MemoryTree) Append(leaf types.Hash) (uint32, error) {
	if uint64(t.nextIndex) >= uint64(1)<<t.depth {
		return 0, fmt.Errorf("tree is full at %d leaves", t.nextIndex)
	}
	index := t.nextIndex
	t.setLeaf(index, leaf)
	t.nextIndex++
	return index, nil
}

// ProofPath returns the (depth - canopy) sibling hashes for index, leaf
// level first. The top canopy siblings are not included; verification fills
// them from the tree's own nodes.
func (t *MemoryTree) ProofPath(index uint32) []types.Hash {
	path := make([]types.Hash, 0, t.ProofLen())
	cur := index
	for level := 0; level < t.ProofLen(); level++ {
		path = append(path, t.node(level, cur^1))
		cur >>= 1
	}
	return path
}

// computeRoot folds a leaf up through the supplied path and then the canopy.
func (t *MemoryTree) computeRoot(index uint32, leaf types.Hash, path []types.Hash) (types.Hash, error) {
	if len(path) != t.ProofLen() {
		return types.Hash{}, fmt.Errorf("proof path has %d entries, want %d", len(path), t.ProofLen())
	}
	cur := index
	hash := leaf
	for level := 0; level < t.depth; level++ {
		var sibling types.Hash
		if level < len(path) {
			sibling = path[level]
		} else {
			sibling = t.node(level, cur^1)
		}
		if cur&1 == 0 {
			hash = nodeHash(hash, sibling)
		} else {
			hash = nodeHash(sibling, hash)
		}
		cur >>= 1
	}
	return hash, nil
}

// verifyLeaf checks that leaf is committed at index under the current root.
func (t *MemoryTree) verifyLeaf(index uint32, leaf types.Hash, path []types.Hash) error {
	root, err := t.computeRoot(index, leaf, path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if root != t.Root() {
		if t.node(0, index) != leaf {
			return ErrLeafMismatch
		}
		return ErrInvalidProof
	}
	return nil
}

// Program is the in-process asset tree collaborator: a registry of memory
// trees implementing Verifier. It doubles as the controllable fake for
// settlement tests.
type Program struct {
	mu    sync.Mutex
	trees map[types.Pubkey]*MemoryTree
}

// NewProgram creates an empty tree registry.
func NewProgram() *Program {
	return &Program{trees: make(map[types.Pubkey]*MemoryTree)}
}

// CreateTree registers a new tree at the given address.
func (p *Program) CreateTree(id types.Pubkey, depth, canopy int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.trees[id]; exists {
		return fmt.Errorf("tree %s already exists", id)
	}
	t, err := NewMemoryTree(depth, canopy)
	if err != nil {
		return err
	}
	p.trees[id] = t
	return nil
}

// Mint appends a leaf for a new asset and returns its identity. The nonce of
// a minted asset is its leaf index at mint time.
func (p *Program) Mint(treeID, owner, delegate types.Pubkey, dataHash, creatorHash types.Hash) (assetID types.Pubkey, nonce uint64, index uint32, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.trees[treeID]
	if !ok {
		return types.ZeroPubkey, 0, 0, ErrUnknownTree
	}
	nonce = uint64(t.nextIndex)
	assetID = AssetID(treeID, nonce)
	leaf := LeafHash(assetID, owner, delegate, nonce, dataHash, creatorHash)
	index, err = t.Append(leaf)
	if err != nil {
		return types.ZeroPubkey, 0, 0, err
	}
	return assetID, nonce, index, nil
}

// Root returns a tree's current root.
func (p *Program) Root(treeID types.Pubkey) (types.Hash, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.trees[treeID]
	if !ok {
		return types.Hash{}, ErrUnknownTree
	}
	return t.Root(), nil
}

// ProofPath returns the truncated proof path for a leaf.
func (p *Program) ProofPath(treeID types.Pubkey, index uint32) ([]types.Hash, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.trees[treeID]
	if !ok {
		return nil, ErrUnknownTree
	}
	return t.ProofPath(index), nil
}

// verify locates the tree and checks args against its current state. The
// caller must hold p.mu.
func (p *Program) verify(treeID types.Pubkey, args OwnershipArgs) (*MemoryTree, error) {
	t, ok := p.trees[treeID]
	if !ok {
		return nil, ErrUnknownTree
	}
	if args.Root != t.Root() {
		return nil, ErrStaleRoot
	}
	leaf := LeafHash(args.AssetID, args.Owner, args.Delegate, args.Nonce, args.DataHash, args.CreatorHash)
	if err := t.verifyLeaf(args.Index, leaf, args.ProofPath); err != nil {
		return nil, err
	}
	return t, nil
}

// VerifyOwnership implements Verifier.
func (p *Program) VerifyOwnership(treeID types.Pubkey, args OwnershipArgs) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.verify(treeID, args)
	return err
}

// Delegate implements Verifier: after verification, the leaf is rewritten
// with the new delegate. Owner and hashes are unchanged.
func (p *Program) Delegate(treeID types.Pubkey, args OwnershipArgs, newDelegate types.Pubkey) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, err := p.verify(treeID, args)
	if err != nil {
		return err
	}
	leaf := LeafHash(args.AssetID, args.Owner, newDelegate, args.Nonce, args.DataHash, args.CreatorHash)
	t.setLeaf(args.Index, leaf)
	return nil
}

// Transfer implements Verifier: after verification, the leaf is rewritten
// with the new owner, who also becomes the delegate.
func (p *Program) Transfer(treeID types.Pubkey, args OwnershipArgs, newOwner types.Pubkey) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, err := p.verify(treeID, args)
	if err != nil {
		return err
	}
	leaf := LeafHash(args.AssetID, newOwner, newOwner, args.Nonce, args.DataHash, args.CreatorHash)
	t.setLeaf(args.Index, leaf)
	return nil
}
