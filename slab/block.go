package slab

import (
	"unsafe"

	"github.com/joshuapare/slabkit/internal/align"
)

// block is one reserved region with a bump cursor. Blocks chain through next,
// newest first; the chain exclusively owns every non-active block.
type block struct {
	buf    []byte
	base   unsafe.Pointer // &buf[0]
	cursor int            // offset of the first unallocated byte
	next   *block
}

func newBlock(buf []byte, next *block) *block {
	return &block{
		buf:  buf,
		base: unsafe.Pointer(unsafe.SliceData(buf)),
		next: next,
	}
}

// bump allocates n bytes rounded up to a word multiple. When the block is too
// small it returns the current cursor address and false without moving the
// cursor, so the caller can salvage the remaining span. The address is nil
// when nothing remains.
func (b *block) bump(n int) (unsafe.Pointer, bool) {
	n = align.Up(n)
	if n > b.remaining() {
		if b.remaining() == 0 {
			return nil, false
		}
		return unsafe.Add(b.base, b.cursor), false
	}
	p := unsafe.Add(b.base, b.cursor)
	b.cursor += n
	return p, true
}

func (b *block) remaining() int {
	return len(b.buf) - b.cursor
}

func (b *block) reset() {
	b.cursor = 0
}

// contains reports whether the n bytes at p lie in the allocated prefix of b.
func (b *block) contains(p unsafe.Pointer, n int) bool {
	start := uintptr(b.base)
	addr := uintptr(p)
	if addr < start {
		return false
	}
	off := addr - start
	return off < uintptr(b.cursor) && uintptr(n) <= uintptr(b.cursor)-off
}
