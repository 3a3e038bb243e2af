package alloc

import "container/heap"

// poolArena is one arena owned by a PoolAllocator, plus the bookkeeping
// container/heap needs to keep it positioned by remaining capacity.
type poolArena struct {
	stack         *StackAllocator
	upstreamBlock Block // block this arena's buffer was carved from, for Close
	idx           int
}

// arenaHeap is a max-heap of *poolArena keyed by each arena's current
// MaxSize (remaining capacity), implementing container/heap.Interface.
// Using the standard library's heap.Fix to restore the property after a
// key change (rather than hand-rolling sift-down/sift-up) sidesteps the
// exact bug spec.md calls out in its source: a naive sift-down that
// swaps unconditionally when exactly one child exists. heap.Fix's
// down-then-up walk is unconditionally correct for either direction of
// key change.
type arenaHeap []*poolArena

func (h arenaHeap) Len() int { return len(h) }

func (h arenaHeap) Less(i, j int) bool {
	return h[i].stack.MaxSize() > h[j].stack.MaxSize()
}

func (h arenaHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].idx = i
	h[j].idx = j
}

func (h *arenaHeap) Push(x any) {
	arena := x.(*poolArena)
	arena.idx = len(*h)
	*h = append(*h, arena)
}

func (h *arenaHeap) Pop() any {
	old := *h
	n := len(old)
	arena := old[n-1]
	arena.idx = -1
	*h = old[:n-1]
	return arena
}

// PoolAllocator maintains a collection of StackAllocators, provisioned
// from an upstream allocator on demand, kept as a max-heap ordered by
// remaining capacity so the arena most likely to satisfy the next
// request is always tried first.
type PoolAllocator struct {
	lock      Locker
	arenaSize uintptr
	upstream  Allocator
	arenas    arenaHeap
}

// NewPool creates a PoolAllocator whose arenas are each arenaSize bytes,
// provisioned from upstream as needed. lock defaults to NullLock when
// nil.
func NewPool(arenaSize uintptr, upstream Allocator, lock Locker) *PoolAllocator {
	if lock == nil {
		lock = NullLock{}
	}
	return &PoolAllocator{
		lock:      lock,
		arenaSize: arenaSize,
		upstream:  upstream,
	}
}

// NumArenas reports how many arenas have been provisioned so far.
func (p *PoolAllocator) NumArenas() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.arenas)
}

// provisionLocked carves a fresh arenaSize-byte, cache-line aligned
// buffer out of upstream and wraps it in a new StackAllocator.
func (p *PoolAllocator) provisionLocked() (*poolArena, error) {
	block, err := p.upstream.Allocate(p.arenaSize, cacheLine)
	if err != nil {
		return nil, ErrOutOfCapacity
	}
	bv, ok := p.upstream.(ByteViewer)
	if !ok {
		_ = p.upstream.Deallocate(block)
		return nil, ErrOutOfCapacity
	}
	stack := newStackOverBuffer(bv.BytesOf(block), NullLock{})
	arena := &poolArena{stack: stack, upstreamBlock: block}
	debugLogf("pool: provisioned arena #%d (%d bytes)", len(p.arenas), p.arenaSize)
	return arena, nil
}

func (p *PoolAllocator) findLocked(block Block) (int, bool) {
	for i, arena := range p.arenas {
		if arena.stack.Owns(block) {
			return i, true
		}
	}
	return 0, false
}

// Allocate implements Allocator.
func (p *PoolAllocator) Allocate(size, alignment uintptr) (Block, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if size > p.arenaSize {
		return Block{}, ErrOutOfCapacity
	}

	if len(p.arenas) == 0 {
		arena, err := p.provisionLocked()
		if err != nil {
			return Block{}, err
		}
		block, err := arena.stack.Allocate(size, alignment)
		if err != nil {
			return Block{}, err
		}
		heap.Push(&p.arenas, arena)
		return block, nil
	}

	root := p.arenas[0]
	if block, err := root.stack.Allocate(size, alignment); err == nil {
		heap.Fix(&p.arenas, 0)
		return block, nil
	}

	arena, err := p.provisionLocked()
	if err != nil {
		return Block{}, err
	}
	block, err := arena.stack.Allocate(size, alignment)
	if err != nil {
		return Block{}, err
	}
	heap.Push(&p.arenas, arena)
	return block, nil
}

// Deallocate implements Allocator.
func (p *PoolAllocator) Deallocate(block Block) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	i, ok := p.findLocked(block)
	if !ok {
		return ErrNotOwned
	}
	if err := p.arenas[i].stack.Deallocate(block); err != nil {
		return err
	}
	heap.Fix(&p.arenas, p.arenas[i].idx)
	return nil
}

// Reallocate implements Allocator.
func (p *PoolAllocator) Reallocate(block Block, newSize, alignment uintptr) (Block, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	i, ok := p.findLocked(block)
	if !ok {
		return Block{}, ErrNotOwned
	}
	owner := p.arenas[i]

	if fresh, err := owner.stack.Reallocate(block, newSize, alignment); err == nil {
		heap.Fix(&p.arenas, owner.idx)
		return fresh, nil
	} else if err != ErrOutOfCapacity {
		return Block{}, err
	}

	// Pool-level migration: this may land in a different arena, or a
	// brand new one, per spec.md's PoolAllocator.reallocate.
	fresh, err := p.allocateForMigration(newSize, alignment)
	if err != nil {
		return Block{}, ErrOutOfCapacity
	}

	n := block.Size
	if newSize < n {
		n = newSize
	}
	destIdx, _ := p.findLocked(fresh)
	copy(p.arenas[destIdx].stack.BytesOf(fresh)[:n], owner.stack.BytesOf(block)[:n])

	if err := owner.stack.Deallocate(block); err != nil {
		return Block{}, err
	}
	heap.Fix(&p.arenas, owner.idx)

	return fresh, nil
}

// allocateForMigration is Allocate for a caller that already holds
// p.lock: it does not take the lock itself.
func (p *PoolAllocator) allocateForMigration(size, alignment uintptr) (Block, error) {
	if size > p.arenaSize {
		return Block{}, ErrOutOfCapacity
	}
	if len(p.arenas) > 0 {
		root := p.arenas[0]
		if block, err := root.stack.Allocate(size, alignment); err == nil {
			heap.Fix(&p.arenas, 0)
			return block, nil
		}
	}
	arena, err := p.provisionLocked()
	if err != nil {
		return Block{}, err
	}
	block, err := arena.stack.Allocate(size, alignment)
	if err != nil {
		return Block{}, err
	}
	heap.Push(&p.arenas, arena)
	return block, nil
}

// DeallocateAll implements Allocator. Every arena's key resets to
// arenaSize simultaneously, so the heap property holds without any
// re-heapify.
func (p *PoolAllocator) DeallocateAll() {
	p.lock.Lock()
	defer p.lock.Unlock()
	for _, arena := range p.arenas {
		arena.stack.DeallocateAll()
	}
}

// Close returns every provisioned arena's backing memory to upstream.
func (p *PoolAllocator) Close() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	for _, arena := range p.arenas {
		if err := p.upstream.Deallocate(arena.upstreamBlock); err != nil {
			return err
		}
	}
	p.arenas = nil
	return nil
}

// MaxSize implements Allocator: a request larger than a single arena can
// never be serviced by this pool, regardless of how many arenas exist.
func (p *PoolAllocator) MaxSize() uintptr {
	return p.arenaSize
}

// Owns implements Allocator.
func (p *PoolAllocator) Owns(block Block) bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	_, ok := p.findLocked(block)
	return ok
}

// BytesOf implements ByteViewer.
func (p *PoolAllocator) BytesOf(block Block) []byte {
	p.lock.Lock()
	defer p.lock.Unlock()
	i, ok := p.findLocked(block)
	if !ok {
		return nil
	}
	return p.arenas[i].stack.BytesOf(block)
}
