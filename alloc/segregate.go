package alloc

// SegregatingAllocator is a size-thresholded demultiplexer: requests of
// size <= threshold are routed to little, larger ones to big. Routing
// decisions for an existing block are always based on the size recorded
// in its descriptor, never on the size of the current request, so
// migration between shelves is deterministic.
type SegregatingAllocator struct {
	threshold uintptr
	little    Allocator
	big       Allocator
}

// NewSegregating composes little and big behind a size threshold.
func NewSegregating(threshold uintptr, little, big Allocator) *SegregatingAllocator {
	return &SegregatingAllocator{threshold: threshold, little: little, big: big}
}

func (s *SegregatingAllocator) shelfFor(size uintptr) Allocator {
	if size <= s.threshold {
		return s.little
	}
	return s.big
}

// Allocate implements Allocator.
func (s *SegregatingAllocator) Allocate(size, alignment uintptr) (Block, error) {
	return s.shelfFor(size).Allocate(size, alignment)
}

// Deallocate implements Allocator, routing by the size recorded on
// block.
func (s *SegregatingAllocator) Deallocate(block Block) error {
	return s.shelfFor(block.Size).Deallocate(block)
}

// DeallocateAll implements Allocator.
func (s *SegregatingAllocator) DeallocateAll() {
	s.little.DeallocateAll()
	s.big.DeallocateAll()
}

// MaxSize implements Allocator.
func (s *SegregatingAllocator) MaxSize() uintptr {
	big := s.big.MaxSize()
	if s.threshold > big {
		return s.threshold
	}
	return big
}

// Owns implements Allocator.
func (s *SegregatingAllocator) Owns(block Block) bool {
	return s.shelfFor(block.Size).Owns(block)
}

// BytesOf implements ByteViewer.
func (s *SegregatingAllocator) BytesOf(block Block) []byte {
	shelf := s.shelfFor(block.Size)
	if bv, ok := shelf.(ByteViewer); ok {
		return bv.BytesOf(block)
	}
	return nil
}

// Reallocate implements Allocator. block.Size and newSize independently
// decide little-vs-big, giving four cases: two are same-shelf
// delegations, two are cross-shelf migrations that allocate on the new
// shelf, copy the preserved bytes, and free from the old shelf.
func (s *SegregatingAllocator) Reallocate(block Block, newSize, alignment uintptr) (Block, error) {
	fromBig := block.Size > s.threshold
	toBig := newSize > s.threshold

	if fromBig == toBig {
		return s.shelfFor(block.Size).Reallocate(block, newSize, alignment)
	}

	oldShelf := s.little
	newShelf := s.big
	if fromBig {
		oldShelf, newShelf = s.big, s.little
	}

	if !oldShelf.Owns(block) {
		return Block{}, ErrNotOwned
	}

	fresh, err := newShelf.Allocate(newSize, alignment)
	if err != nil {
		return Block{}, ErrOutOfCapacity
	}

	n := block.Size
	if newSize < n {
		n = newSize
	}
	if err := copyBetween(newShelf, fresh, oldShelf, block, n); err != nil {
		_ = newShelf.Deallocate(fresh)
		return Block{}, err
	}

	if err := oldShelf.Deallocate(block); err != nil {
		return Block{}, err
	}

	return fresh, nil
}
