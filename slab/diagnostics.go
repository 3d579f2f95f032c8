package slab

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats holds allocator counters since construction. Reset does not clear them.
type Stats struct {
	AllocCalls    int   `json:"allocCalls"`    // successful scalar and array requests
	RecycleHits   int   `json:"recycleHits"`   // requests served from a recycle list
	BumpAllocs    int   `json:"bumpAllocs"`    // requests served from the active block
	BlocksCreated int   `json:"blocksCreated"` // blocks added after construction
	Salvages      int   `json:"salvages"`      // block tails parked in a recycle list
	SalvagedBytes int64 `json:"salvagedBytes"` // bytes recovered by salvage
	FreeCalls     int   `json:"freeCalls"`     // scalar and array frees
	Resets        int   `json:"resets"`        // Reset calls
}

// BucketPopulation is the number of spans parked for one element count.
type BucketPopulation struct {
	Length int `json:"length"`
	Count  int `json:"count"`
}

// Report is a read-only snapshot of the allocator. Its layout carries no
// stability guarantee.
type Report struct {
	ElemSize   int                `json:"elemSize"`
	BlockSize  int                `json:"blockSize"`
	Blocks     int                `json:"blocks"`
	ActiveFree int                `json:"activeFree"`
	Recycled   []BucketPopulation `json:"recycled"`
	Stats      Stats              `json:"stats"`
}

// Stats returns a copy of the allocator counters.
func (a *Allocator) Stats() Stats { return a.stats }

// Diagnostics snapshots block usage and every non-empty recycle list, in
// table-slot order and chain order within a slot.
func (a *Allocator) Diagnostics() Report {
	r := Report{
		ElemSize:   a.elemSize,
		BlockSize:  a.blockSize,
		Blocks:     a.NumBlocks(),
		ActiveFree: a.ActiveFree(),
		Stats:      a.stats,
	}
	for i := range a.table {
		for b := &a.table[i]; b != nil; b = b.next {
			if n := b.count(); n > 0 {
				r.Recycled = append(r.Recycled, BucketPopulation{Length: b.length, Count: n})
			}
		}
	}
	return r
}

// Recycle returns the population of the list for length, 0 when absent.
func (r Report) Recycle(length int) int {
	for _, bp := range r.Recycled {
		if bp.Length == length {
			return bp.Count
		}
	}
	return 0
}

// WriteText renders the report for humans.
func (r Report) WriteText(w io.Writer) error {
	p := message.NewPrinter(language.English)
	var sb strings.Builder
	sb.WriteString("=========================================\n")
	sb.WriteString("=              Memory Manager           =\n")
	sb.WriteString("=========================================\n")
	p.Fprintf(&sb, "* Element size          : %d Bytes\n", r.ElemSize)
	p.Fprintf(&sb, "* Block size            : %d Bytes\n", r.BlockSize)
	p.Fprintf(&sb, "* Number of blocks      : %d\n", r.Blocks)
	p.Fprintf(&sb, "* Free mem in last block: %d\n", r.ActiveFree)
	sb.WriteString("* Recycle list          : \n")
	for i, bp := range r.Recycled {
		fmt.Fprintf(&sb, "[%3d] = %-10d", bp.Length, bp.Count)
		if (i+1)%4 == 0 {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// String implements fmt.Stringer.
func (r Report) String() string {
	var sb strings.Builder
	_ = r.WriteText(&sb)
	return sb.String()
}
