package slab

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSpans returns n distinct word-sized, word-aligned spans.
func testSpans(n int) []unsafe.Pointer {
	backing := make([]uintptr, n)
	out := make([]unsafe.Pointer, n)
	for i := range backing {
		out[i] = unsafe.Pointer(&backing[i])
	}
	return out
}

func TestBucket_LIFO(t *testing.T) {
	var b bucket
	require.Nil(t, b.popFront(), "empty bucket pops nil")

	spans := testSpans(3)
	for _, p := range spans {
		b.pushFront(p)
	}
	require.Equal(t, 3, b.count())

	assert.Equal(t, spans[2], b.popFront())
	assert.Equal(t, spans[1], b.popFront())
	assert.Equal(t, spans[0], b.popFront())
	assert.Nil(t, b.popFront())
	assert.Zero(t, b.count())
}

// TestBucket_LinkOverwritesFirstWord verifies the link lives in the span's
// first word.
func TestBucket_LinkOverwritesFirstWord(t *testing.T) {
	var b bucket
	spans := testSpans(2)
	*(*uintptr)(spans[1]) = 0xdeadbeef

	b.pushFront(spans[0])
	b.pushFront(spans[1])

	assert.Equal(t, spans[0], *(*unsafe.Pointer)(spans[1]))
}

func TestBucket_FindOrCreate(t *testing.T) {
	root := bucket{length: 3}

	assert.Same(t, &root, root.findOrCreate(3))

	b259 := root.findOrCreate(3 + TableSize)
	require.NotNil(t, b259)
	assert.Equal(t, 3+TableSize, b259.length)
	assert.Same(t, b259, root.next)

	b515 := root.findOrCreate(3 + 2*TableSize)
	assert.Same(t, b515, b259.next, "new buckets go to the chain tail")

	assert.Same(t, b259, root.findOrCreate(3+TableSize), "existing bucket is found")
	assert.Nil(t, b515.next)
}

func TestBucket_Clear(t *testing.T) {
	root := bucket{length: 1}
	spans := testSpans(3)
	root.pushFront(spans[0])
	chained := root.findOrCreate(1 + TableSize)
	chained.pushFront(spans[1])
	chained.pushFront(spans[2])

	root.clear()

	assert.Equal(t, 1, root.length, "root keeps its length")
	assert.Nil(t, root.head)
	assert.Nil(t, root.next)
	assert.Nil(t, chained.head)
	assert.Zero(t, root.count())
}
