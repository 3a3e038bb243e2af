package alloc

// FallbackAllocator tries a primary allocator first; on ErrOutOfCapacity
// only, it retries against a secondary. A non-capacity error from the
// primary is never caught. FallbackAllocator holds no state of its own
// beyond its two owned children — it does not take its own lock, per the
// toolkit's concurrency model.
type FallbackAllocator struct {
	primary   Allocator
	secondary Allocator
}

// NewFallback composes primary and secondary into a FallbackAllocator.
func NewFallback(primary, secondary Allocator) *FallbackAllocator {
	return &FallbackAllocator{primary: primary, secondary: secondary}
}

// Allocate implements Allocator.
func (f *FallbackAllocator) Allocate(size, alignment uintptr) (Block, error) {
	block, err := f.primary.Allocate(size, alignment)
	if err == nil {
		return block, nil
	}
	if err != ErrOutOfCapacity {
		return Block{}, err
	}
	return f.secondary.Allocate(size, alignment)
}

// Deallocate implements Allocator, dispatching to whichever child owns
// block.
func (f *FallbackAllocator) Deallocate(block Block) error {
	if f.primary.Owns(block) {
		return f.primary.Deallocate(block)
	}
	if f.secondary.Owns(block) {
		return f.secondary.Deallocate(block)
	}
	return ErrNotOwned
}

// Reallocate implements Allocator. It first asks the owning child to
// reallocate in place. If that fails with ErrOutOfCapacity, it migrates
// the block to the other child: allocate fresh there, copy the
// preserved bytes, and free the original from its owner. If the other
// child also cannot satisfy the request, block is left intact and
// ErrOutOfCapacity is reported.
func (f *FallbackAllocator) Reallocate(block Block, newSize, alignment uintptr) (Block, error) {
	owner, other := f.owner(block)
	if owner == nil {
		return Block{}, ErrNotOwned
	}

	if fresh, err := owner.Reallocate(block, newSize, alignment); err == nil {
		return fresh, nil
	} else if err != ErrOutOfCapacity {
		return Block{}, err
	}

	fresh, err := other.Allocate(newSize, alignment)
	if err != nil {
		return Block{}, ErrOutOfCapacity
	}

	n := block.Size
	if newSize < n {
		n = newSize
	}
	if err := copyBetween(other, fresh, owner, block, n); err != nil {
		_ = other.Deallocate(fresh)
		return Block{}, err
	}

	if err := owner.Deallocate(block); err != nil {
		return Block{}, err
	}
	return fresh, nil
}

func (f *FallbackAllocator) owner(block Block) (owner, other Allocator) {
	if f.primary.Owns(block) {
		return f.primary, f.secondary
	}
	if f.secondary.Owns(block) {
		return f.secondary, f.primary
	}
	return nil, nil
}

// DeallocateAll implements Allocator.
func (f *FallbackAllocator) DeallocateAll() {
	f.primary.DeallocateAll()
	f.secondary.DeallocateAll()
}

// MaxSize implements Allocator.
func (f *FallbackAllocator) MaxSize() uintptr {
	p, s := f.primary.MaxSize(), f.secondary.MaxSize()
	if p > s {
		return p
	}
	return s
}

// Owns implements Allocator.
func (f *FallbackAllocator) Owns(block Block) bool {
	return f.primary.Owns(block) || f.secondary.Owns(block)
}

// BytesOf implements ByteViewer by delegating to whichever child owns
// block.
func (f *FallbackAllocator) BytesOf(block Block) []byte {
	owner, _ := f.owner(block)
	if owner == nil {
		return nil
	}
	if bv, ok := owner.(ByteViewer); ok {
		return bv.BytesOf(block)
	}
	return nil
}
