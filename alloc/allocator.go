// Package alloc implements a small family of policy-based, composable
// memory allocators. Each allocator satisfies the Allocator interface;
// the five concrete backends (StackAllocator, GlobalAllocator,
// FallbackAllocator, PoolAllocator, SegregatingAllocator) can be nested
// arbitrarily to build custom allocation strategies for a client
// container.
//
// # Allocator
//
// Every allocator supports:
//
//   - Allocate(size, alignment): produce a Block of at least size bytes
//     aligned to alignment, or ErrOutOfCapacity.
//   - Reallocate(block, newSize, alignment): reshape a previously issued
//     block, preserving its bytes, or ErrOutOfCapacity / ErrNotOwned.
//   - Deallocate(block): release a previously issued block.
//   - DeallocateAll(): release every live block at once.
//   - MaxSize(): an advisory upper bound on the next satisfiable request.
//   - Owns(block): whether block was issued by this allocator and is
//     still live.
//
// # Backends
//
//   - StackAllocator: a monotonic bump arena over a fixed buffer with
//     LIFO-tip reclaim.
//   - GlobalAllocator: backed by real OS pages (see sysmem_*.go),
//     tracking every issued block in a set.
//   - FallbackAllocator: tries a primary allocator, falls back to a
//     secondary on ErrOutOfCapacity.
//   - PoolAllocator: a collection of StackAllocators kept as a max-heap
//     ordered by remaining capacity.
//   - SegregatingAllocator: routes requests to one of two backends by a
//     size threshold.
package alloc

// ByteViewer is satisfied by every backend in this package. It exposes
// the live bytes behind a Block so composites (FallbackAllocator,
// PoolAllocator, SegregatingAllocator) can copy bytes across children
// during a migrating Reallocate without knowing the concrete backend
// type on either side.
type ByteViewer interface {
	BytesOf(block Block) []byte
}

// copyBetween copies the first n bytes of src (from srcAlloc) into dst
// (from dstAlloc). Both allocators must implement ByteViewer, which
// every backend and composite defined in this package does.
func copyBetween(dstAlloc Allocator, dst Block, srcAlloc Allocator, src Block, n uintptr) error {
	dv, ok := dstAlloc.(ByteViewer)
	if !ok {
		return errNoByteView
	}
	sv, ok := srcAlloc.(ByteViewer)
	if !ok {
		return errNoByteView
	}
	copy(dv.BytesOf(dst)[:n], sv.BytesOf(src)[:n])
	return nil
}

// Allocator is the polymorphic contract every backend and composite in
// this package satisfies.
type Allocator interface {
	// Allocate produces a block of at least size bytes whose Memory is a
	// multiple of alignment. alignment must be a power of two. size may
	// be zero; implementations must not fault on it.
	Allocate(size, alignment uintptr) (Block, error)

	// Reallocate produces a block of at least newSize bytes containing
	// the first min(block.Size, newSize) bytes of block. On success
	// block is consumed. On ErrOutOfCapacity, block and the allocator's
	// state are unchanged. Reallocate reports ErrNotOwned if block was
	// not issued by this allocator.
	Reallocate(block Block, newSize, alignment uintptr) (Block, error)

	// Deallocate releases a previously issued block. It reports
	// ErrNotOwned if block was not issued by this allocator (or was
	// already released — double-free detection is best-effort).
	Deallocate(block Block) error

	// DeallocateAll releases every block currently live on this
	// allocator. It is idempotent.
	DeallocateAll()

	// MaxSize is an advisory upper bound on a single request this
	// allocator would presently satisfy. It is not a guarantee against
	// races with concurrent callers.
	MaxSize() uintptr

	// Owns reports whether block was issued by this allocator and has
	// not been released.
	Owns(block Block) bool
}
