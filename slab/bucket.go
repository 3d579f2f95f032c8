package slab

import "unsafe"

// bucket is an intrusive LIFO of freed spans that all serve one element
// count. Buckets for counts that alias the same table slot are chained
// through next, one bucket per exact length.
type bucket struct {
	length int            // element count served; 0 = scalar
	head   unsafe.Pointer // borrowed caller memory, nil when empty
	next   *bucket
}

// popFront detaches the front span, or returns nil when the list is empty.
// Only the link word is read; the rest of the span is left as is.
func (b *bucket) popFront() unsafe.Pointer {
	p := b.head
	if p == nil {
		return nil
	}
	b.head = loadLink(p)
	return p
}

// pushFront parks p at the front of the list. p must span at least one word
// and must not be referenced anywhere else.
func (b *bucket) pushFront(p unsafe.Pointer) {
	storeLink(p, b.head)
	b.head = p
}

// findOrCreate returns the bucket for length in the chain rooted at b,
// appending a new one at the tail when none exists. It never returns nil.
func (b *bucket) findOrCreate(length int) *bucket {
	cur := b
	for {
		if cur.length == length {
			return cur
		}
		if cur.next == nil {
			cur.next = &bucket{length: length}
			return cur.next
		}
		cur = cur.next
	}
}

// clear unlinks the rest of the chain and empties the list. The root keeps
// its length.
func (b *bucket) clear() {
	for l := b.next; l != nil; {
		next := l.next
		l.head, l.next = nil, nil
		l = next
	}
	b.next = nil
	b.head = nil
}

// count walks the list and returns its population.
func (b *bucket) count() int {
	n := 0
	for p := b.head; p != nil; p = loadLink(p) {
		n++
	}
	return n
}
