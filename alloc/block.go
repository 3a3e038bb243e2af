package alloc

// Addr is an opaque memory address. Backends derive it once from the
// backing []byte they own (see addr.go) and never dereference it
// directly; it exists only to give a Block a comparable, orderable
// identity.
type Addr uintptr

// Block is the universal currency between a caller and an allocator: the
// unit of raw memory handed out by allocate/reallocate and taken back by
// deallocate.
type Block struct {
	Memory    Addr
	Size      uintptr
	Alignment uintptr
}

// Equal reports whether two blocks share the same identity. Alignment is
// a request parameter, not part of a block's identity, so it is ignored
// here — a caller that reconstructs a descriptor as Block{p, n, 0} for a
// deallocate call still compares equal to the block that was issued.
func (b Block) Equal(other Block) bool {
	return b.Memory == other.Memory && b.Size == other.Size
}

// Less orders blocks lexicographically by (Memory, Size). GlobalAllocator's
// tracking set is a map keyed by blockKey and does not use this ordering.
func (b Block) Less(other Block) bool {
	if b.Memory != other.Memory {
		return b.Memory < other.Memory
	}
	return b.Size < other.Size
}

// blockKey is the map/set key for a Block: Go map keys already give us
// structural equality, so blockKey just drops Alignment to match the
// identity semantics of Block.Equal.
type blockKey struct {
	memory Addr
	size   uintptr
}

func (b Block) key() blockKey {
	return blockKey{memory: b.Memory, size: b.Size}
}

// hashBlock combines Memory and Size with an avalanche mixer (splitmix64's
// finalizer), excluding Alignment per spec. Nothing in this module keys a
// hash map on Block directly — Go maps do that structurally and faster —
// and hashBlock is unexported, so only code inside this package (today,
// its tests) calls it.
func hashBlock(b Block) uint64 {
	x := uint64(b.Memory)*0x9E3779B97F4A7C15 + uint64(b.Size)
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}
