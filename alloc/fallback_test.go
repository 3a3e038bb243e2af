package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_FallbackAllocator_Cascade is scenario 3 from spec.md §8.
func Test_FallbackAllocator_Cascade(t *testing.T) {
	primary := NewStack(64, nil)
	secondary := NewGlobal(nil)
	defer secondary.Close()

	f := NewFallback(primary, secondary)

	b, err := f.Allocate(100, 8)
	require.NoError(t, err)
	assert.False(t, primary.Owns(b))
	assert.True(t, secondary.Owns(b))
}

func Test_FallbackAllocator_PrimarySucceedsWithoutTouchingSecondary(t *testing.T) {
	primary := NewStack(256, nil)
	secondary := NewGlobal(nil)
	defer secondary.Close()

	f := NewFallback(primary, secondary)

	b, err := f.Allocate(32, 8)
	require.NoError(t, err)
	assert.True(t, primary.Owns(b))
	assert.False(t, secondary.Owns(b))
}

func Test_FallbackAllocator_OwnsIsExclusiveOr(t *testing.T) {
	primary := NewStack(64, nil)
	secondary := NewGlobal(nil)
	defer secondary.Close()
	f := NewFallback(primary, secondary)

	b, err := f.Allocate(16, 8)
	require.NoError(t, err)

	assert.True(t, f.Owns(b))
	assert.True(t, primary.Owns(b) != secondary.Owns(b), "exactly one child owns a live block")
}

func Test_FallbackAllocator_DeallocateRoutesToOwner(t *testing.T) {
	primary := NewStack(256, nil)
	secondary := NewGlobal(nil)
	defer secondary.Close()
	f := NewFallback(primary, secondary)

	b, err := f.Allocate(16, 8)
	require.NoError(t, err)
	require.NoError(t, f.Deallocate(b))
	assert.False(t, f.Owns(b))
}

func Test_FallbackAllocator_DeallocateForeignBlockIsNotOwned(t *testing.T) {
	f := NewFallback(NewStack(64, nil), NewStack(64, nil))
	assert.ErrorIs(t, f.Deallocate(Block{Memory: 0x1, Size: 8}), ErrNotOwned)
}

func Test_FallbackAllocator_ReallocateMigratesOnOutOfCapacity(t *testing.T) {
	primary := NewStack(32, nil)
	secondary := NewGlobal(nil)
	defer secondary.Close()
	f := NewFallback(primary, secondary)

	b, err := f.Allocate(16, 8)
	require.NoError(t, err)
	require.True(t, primary.Owns(b))
	copy(primary.BytesOf(b), []byte("0123456789abcdef"))

	grown, err := f.Reallocate(b, 128, 8)
	require.NoError(t, err)
	assert.True(t, secondary.Owns(grown))
	assert.False(t, primary.Owns(b))
	assert.Equal(t, []byte("0123456789abcdef"), secondary.BytesOf(grown)[:16])
}

func Test_FallbackAllocator_MaxSizeIsMaxOfChildren(t *testing.T) {
	f := NewFallback(NewStack(64, nil), NewStack(4096, nil))
	assert.Equal(t, uintptr(4096), f.MaxSize())
}
