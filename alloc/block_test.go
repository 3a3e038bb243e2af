package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Block_EqualIgnoresAlignment(t *testing.T) {
	a := Block{Memory: 0x1000, Size: 32, Alignment: 8}
	b := Block{Memory: 0x1000, Size: 32, Alignment: 0}
	assert.True(t, a.Equal(b))
}

func Test_Block_EqualRequiresMemoryAndSize(t *testing.T) {
	a := Block{Memory: 0x1000, Size: 32}
	assert.False(t, a.Equal(Block{Memory: 0x1000, Size: 16}))
	assert.False(t, a.Equal(Block{Memory: 0x2000, Size: 32}))
}

func Test_Block_LessOrdersByMemoryThenSize(t *testing.T) {
	a := Block{Memory: 0x1000, Size: 32}
	b := Block{Memory: 0x1000, Size: 64}
	c := Block{Memory: 0x2000, Size: 1}
	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
}

func Test_HashBlock_IgnoresAlignment(t *testing.T) {
	a := Block{Memory: 0x1000, Size: 32, Alignment: 8}
	b := Block{Memory: 0x1000, Size: 32, Alignment: 64}
	assert.Equal(t, hashBlock(a), hashBlock(b))
}

func Test_HashBlock_Avalanches(t *testing.T) {
	a := hashBlock(Block{Memory: 0x1000, Size: 32})
	b := hashBlock(Block{Memory: 0x1001, Size: 32})
	assert.NotEqual(t, a, b)
}
