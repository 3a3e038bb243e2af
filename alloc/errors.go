package alloc

import "errors"

var (
	// ErrOutOfCapacity indicates a backend has no room for a request.
	ErrOutOfCapacity = errors.New("alloc: out of capacity")

	// ErrNotOwned indicates a block was handed to an allocator that did
	// not issue it.
	ErrNotOwned = errors.New("alloc: block not owned by this allocator")

	// errNoByteView is an internal error signaling that a migrating
	// Reallocate cannot copy bytes because one side of the migration
	// does not implement ByteViewer. Every backend in this package does;
	// this only fires for a caller-supplied Allocator implementation.
	errNoByteView = errors.New("alloc: allocator does not expose its bytes for migration")
)
