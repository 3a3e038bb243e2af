package typed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/allockit/alloc"
)

func Test_Allocator_AllocateAndDeallocateRoundTrips(t *testing.T) {
	backing := alloc.NewStack(1024, nil)
	ta := New[uint64](backing)

	s, err := ta.Allocate(4)
	require.NoError(t, err)
	require.Len(t, s, 4)

	s[0], s[1], s[2], s[3] = 1, 2, 3, 4
	require.NoError(t, ta.Deallocate(s))
}

func Test_Allocator_EqualComparesUnderlyingAllocator(t *testing.T) {
	backing := alloc.NewStack(64, nil)
	a := New[int32](backing)
	b := New[int32](backing)
	c := New[int32](alloc.NewStack(64, nil))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func Test_Allocator_AllocateZeroDoesNotFault(t *testing.T) {
	backing := alloc.NewGlobal(nil)
	defer backing.Close()
	ta := New[byte](backing)

	s, err := ta.Allocate(0)
	require.NoError(t, err)
	assert.Nil(t, s)
}
