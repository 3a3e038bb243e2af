package alloc

// globalEntry records the raw OS-backed buffer behind a live block, so
// Deallocate and Close know exactly what to hand back to sysFree even
// when the block itself is a sub-slice (over-allocated for an alignment
// stricter than the page size).
type globalEntry struct {
	raw   []byte
	block Block
}

// GlobalAllocator is backed by real OS pages (see sysmem_unix.go /
// sysmem_windows.go / sysmem_fallback.go) and tracks every block it has
// issued in a set, so Owns and Deallocate can validate ownership and
// DeallocateAll (or Close) can release everything at once.
//
// Go has no destructors: callers that want the toolkit's "destructor
// calls deallocate_all" guarantee should defer Close.
type GlobalAllocator struct {
	lock    Locker
	entries map[blockKey]globalEntry
}

// NewGlobal creates a GlobalAllocator. lock defaults to NullLock when
// nil; pass a *RealLock to make this instance safe for concurrent use.
func NewGlobal(lock Locker) *GlobalAllocator {
	if lock == nil {
		lock = NullLock{}
	}
	return &GlobalAllocator{
		lock:    lock,
		entries: make(map[blockKey]globalEntry),
	}
}

// Allocate implements Allocator.
func (g *GlobalAllocator) Allocate(size, alignment uintptr) (Block, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.allocateLocked(size, alignment)
}

func (g *GlobalAllocator) allocateLocked(size, alignment uintptr) (Block, error) {
	debugAssertAlignment(alignment)

	page := sysPageSize()

	reqSize := size
	if alignment > page {
		reqSize = size + alignment - 1
	}

	raw, err := sysAlloc(reqSize)
	if err != nil {
		return Block{}, ErrOutOfCapacity
	}

	base := addrOf(raw)
	offset := uintptr(0)
	if alignment > page {
		offset = alignUp(uintptr(base), alignment) - uintptr(base)
	}

	sub := raw[offset : offset+size]
	block := Block{Memory: addrOf(sub), Size: size, Alignment: alignment}

	g.entries[block.key()] = globalEntry{raw: raw, block: block}
	return block, nil
}

// Deallocate implements Allocator.
func (g *GlobalAllocator) Deallocate(block Block) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.deallocateLocked(block)
}

func (g *GlobalAllocator) deallocateLocked(block Block) error {
	entry, ok := g.entries[block.key()]
	if !ok {
		return ErrNotOwned
	}
	delete(g.entries, block.key())
	return sysFree(entry.raw)
}

// DeallocateAll implements Allocator.
func (g *GlobalAllocator) DeallocateAll() {
	g.lock.Lock()
	defer g.lock.Unlock()
	for key, entry := range g.entries {
		_ = sysFree(entry.raw)
		delete(g.entries, key)
	}
}

// Close is GlobalAllocator's destructor equivalent: it releases every
// live block back to the OS.
func (g *GlobalAllocator) Close() error {
	g.DeallocateAll()
	return nil
}

// MaxSize implements Allocator, reporting an advisory bound on the
// largest single request the OS could plausibly satisfy.
func (g *GlobalAllocator) MaxSize() uintptr {
	return ^uintptr(0) >> 1
}

// BytesOf implements ByteViewer.
func (g *GlobalAllocator) BytesOf(block Block) []byte {
	g.lock.Lock()
	defer g.lock.Unlock()
	entry := g.entries[block.key()]
	offset := uintptr(block.Memory - addrOf(entry.raw))
	return entry.raw[offset : offset+block.Size]
}

// Owns implements Allocator.
func (g *GlobalAllocator) Owns(block Block) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	_, ok := g.entries[block.key()]
	return ok
}

// Reallocate implements Allocator. mmap/VirtualAlloc have no portable
// in-place growth primitive, so this always allocates fresh, copies, and
// frees the original — the "system realloc" spec.md allows for, applied
// via the same allocate-copy-free path FallbackAllocator and
// SegregatingAllocator use for cross-backend migration.
func (g *GlobalAllocator) Reallocate(block Block, newSize, alignment uintptr) (Block, error) {
	g.lock.Lock()
	defer g.lock.Unlock()

	old, ok := g.entries[block.key()]
	if !ok {
		return Block{}, ErrNotOwned
	}

	fresh, err := g.allocateLocked(newSize, alignment)
	if err != nil {
		return Block{}, ErrOutOfCapacity
	}

	n := block.Size
	if newSize < n {
		n = newSize
	}
	oldOffset := uintptr(block.Memory - addrOf(old.raw))
	freshOffset := uintptr(fresh.Memory - addrOf(g.entries[fresh.key()].raw))
	freshRaw := g.entries[fresh.key()].raw
	copy(freshRaw[freshOffset:freshOffset+n], old.raw[oldOffset:oldOffset+n])

	delete(g.entries, block.key())
	_ = sysFree(old.raw)

	return fresh, nil
}
