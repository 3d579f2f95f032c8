package mtest

import (
	"bytes"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/slabkit/slab"
)

const objSize = int(unsafe.Sizeof(Object{}))

func newTestHarness(t *testing.T, blockSize int) *Harness {
	t.Helper()
	h, err := New(&slab.Options{BlockSize: blockSize, StrictFree: true}, 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestHarness_AllocateAndVerify(t *testing.T) {
	h := newTestHarness(t, 1024)

	require.NoError(t, h.NewObjects(100))
	require.NoError(t, h.NewArrays(10, 5))
	assert.Equal(t, 100, h.Objects())
	assert.Equal(t, 10, h.Arrays())
	assert.Greater(t, h.Pool().Allocator().NumBlocks(), 1)

	require.NoError(t, h.Verify())
}

func TestHarness_IDsAreUnique(t *testing.T) {
	h := newTestHarness(t, 1024)
	require.NoError(t, h.NewObjects(20))

	seen := make(map[uint64]bool)
	for _, o := range h.objs {
		assert.False(t, seen[o.p.ID], "duplicate id %d", o.p.ID)
		seen[o.p.ID] = true
	}
}

func TestHarness_DeleteRecycles(t *testing.T) {
	h := newTestHarness(t, 1024)
	require.NoError(t, h.NewObjects(10))
	freed := h.objs[3].p

	require.NoError(t, h.DeleteObject(3))
	require.NoError(t, h.NewObjects(1))

	assert.Equal(t, 10, h.Objects())
	assert.Same(t, freed, h.objs[9].p)
	assert.EqualValues(t, 1, h.Pool().Stats().RecycleHits)
	require.NoError(t, h.Verify())
}

func TestHarness_DeleteOutOfRange(t *testing.T) {
	h := newTestHarness(t, 1024)
	require.NoError(t, h.NewObjects(2))

	assert.Error(t, h.DeleteObject(2))
	assert.Error(t, h.DeleteObject(-1))
	assert.Error(t, h.DeleteArray(0))
	assert.Equal(t, 2, h.Objects())
}

func TestHarness_DeleteRandom(t *testing.T) {
	h := newTestHarness(t, 1024)
	require.NoError(t, h.NewObjects(5))
	require.NoError(t, h.NewArrays(3, 2))

	n, err := h.DeleteRandom(2, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, h.Objects())

	n, err = h.DeleteRandom(10, true)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "stops when nothing is left")
	assert.Zero(t, h.Arrays())

	require.NoError(t, h.Verify())
}

func TestHarness_VerifyDetectsCorruption(t *testing.T) {
	h := newTestHarness(t, 1024)
	require.NoError(t, h.NewObjects(3))
	require.NoError(t, h.NewArrays(1, 4))

	h.objs[1].p.Data[7] ^= 0xff
	h.arrs[0].s.Elems()[2].ID++

	err := h.Verify()
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, err.Error(), "object 1")
	assert.Contains(t, err.Error(), "array 0")
}

func TestHarness_Reset(t *testing.T) {
	h := newTestHarness(t, 1024)
	require.NoError(t, h.NewObjects(40))
	require.NoError(t, h.NewArrays(2, 3))

	require.NoError(t, h.Reset(2048))
	assert.Zero(t, h.Objects())
	assert.Zero(t, h.Arrays())
	assert.Equal(t, 2048, h.Pool().Allocator().BlockSize())
	assert.Equal(t, 1, h.Pool().Allocator().NumBlocks())

	require.NoError(t, h.NewObjects(1))
	require.NoError(t, h.Verify())
}

func TestHarness_ResetRejectedKeepsEntries(t *testing.T) {
	h := newTestHarness(t, 1024)
	require.NoError(t, h.NewObjects(4))

	err := h.Reset(1001)
	require.ErrorIs(t, err, slab.ErrContractViolation)
	assert.Equal(t, 4, h.Objects())
	require.NoError(t, h.Verify())
}

func TestHarness_CapacityExceeded(t *testing.T) {
	h := newTestHarness(t, 1024)

	err := h.NewArrays(1, 1024/objSize+1)
	require.ErrorIs(t, err, slab.ErrCapacityExceeded)
	assert.Zero(t, h.Arrays())
}

func TestHarness_Print(t *testing.T) {
	h := newTestHarness(t, 1024)
	require.NoError(t, h.NewObjects(3))
	require.NoError(t, h.NewArrays(1, 2))

	var out bytes.Buffer
	require.NoError(t, h.Print(&out))
	assert.True(t, strings.HasPrefix(out.String(), "=========== Objects: 3, Arrays: 1 ==========="))
	assert.Contains(t, out.String(), "Memory Manager")
}
