// Package typed adapts an alloc.Allocator to the shape a standard typed
// container needs: allocate/deallocate a run of T values instead of a
// raw Block. It is a thin, non-owning shim over the alloc package's
// contract — the "external collaborator" spec.md's container adaptor
// section describes, not a core allocator.
package typed

import (
	"unsafe"

	"github.com/joshuapare/allockit/alloc"
)

// Allocator adapts a shared alloc.Allocator for a specific element type
// T. It holds a non-owning reference: the underlying allocator's
// lifetime is the caller's responsibility.
type Allocator[T any] struct {
	backing alloc.Allocator
}

// New wraps backing for element type T.
func New[T any](backing alloc.Allocator) Allocator[T] {
	return Allocator[T]{backing: backing}
}

// sizeAlign returns sizeof(T) and alignof(T) as uintptr, the way a
// runtime-polymorphic allocator's Block wants them.
func sizeAlign[T any]() (size, align uintptr) {
	var zero T
	return unsafe.Sizeof(zero), unsafe.Alignof(zero)
}

// Allocate requests room for n contiguous T values.
func (a Allocator[T]) Allocate(n int) ([]T, error) {
	size, align := sizeAlign[T]()
	block, err := a.backing.Allocate(uintptr(n)*size, align)
	if err != nil {
		return nil, err
	}
	return a.slice(block, n), nil
}

// Deallocate releases a slice previously returned by Allocate. len(s)
// must be the same n originally requested; a resliced s will not
// round-trip to the same Block.
func (a Allocator[T]) Deallocate(s []T) error {
	if len(s) == 0 {
		return nil
	}
	size, _ := sizeAlign[T]()
	block := alloc.Block{
		Memory: alloc.Addr(uintptr(unsafe.Pointer(&s[0]))),
		Size:   uintptr(len(s)) * size,
	}
	return a.backing.Deallocate(block)
}

// slice reconstructs a []T view over block's bytes.
func (a Allocator[T]) slice(block alloc.Block, n int) []T {
	if n == 0 {
		return nil
	}
	ptr := (*T)(unsafe.Pointer(uintptr(block.Memory)))
	return unsafe.Slice(ptr, n)
}

// Equal reports whether two typed adaptors reference the same
// underlying allocator instance, per spec.md's container adaptor
// contract.
func (a Allocator[T]) Equal(other Allocator[T]) bool {
	return a.backing == other.backing
}
