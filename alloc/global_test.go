package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GlobalAllocator_AllocateTracksAndOwns(t *testing.T) {
	g := NewGlobal(nil)
	defer g.Close()

	b, err := g.Allocate(128, 8)
	require.NoError(t, err)
	assert.True(t, g.Owns(b))
	assert.GreaterOrEqual(t, b.Size, uintptr(128))
	assert.Equal(t, uintptr(0), uintptr(b.Memory)%8)
}

func Test_GlobalAllocator_DeallocateRemovesFromSet(t *testing.T) {
	g := NewGlobal(nil)
	defer g.Close()

	b, err := g.Allocate(64, 8)
	require.NoError(t, err)

	require.NoError(t, g.Deallocate(b))
	assert.False(t, g.Owns(b))
	assert.ErrorIs(t, g.Deallocate(b), ErrNotOwned)
}

func Test_GlobalAllocator_DeallocateUnknownBlockIsNotOwned(t *testing.T) {
	g := NewGlobal(nil)
	defer g.Close()

	assert.ErrorIs(t, g.Deallocate(Block{Memory: 0xdead, Size: 8}), ErrNotOwned)
}

func Test_GlobalAllocator_ReallocatePreservesBytes(t *testing.T) {
	g := NewGlobal(nil)
	defer g.Close()

	b, err := g.Allocate(16, 8)
	require.NoError(t, err)
	copy(g.BytesOf(b), []byte("abcdefghijklmnop"))

	grown, err := g.Reallocate(b, 64, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdefghijklmnop"), g.BytesOf(grown)[:16])
	assert.False(t, g.Owns(b))
	assert.True(t, g.Owns(grown))
}

func Test_GlobalAllocator_DeallocateAllReleasesEverything(t *testing.T) {
	g := NewGlobal(nil)
	defer g.Close()

	blocks := make([]Block, 0, 4)
	for i := 0; i < 4; i++ {
		b, err := g.Allocate(32, 8)
		require.NoError(t, err)
		blocks = append(blocks, b)
	}

	g.DeallocateAll()
	for _, b := range blocks {
		assert.False(t, g.Owns(b))
	}

	// Idempotent.
	g.DeallocateAll()
}
