package main

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slabkit/slab"
)

const (
	scenarioBlockSize = 64
	scenarioElemSize  = 8
)

func init() {
	rootCmd.AddCommand(newScenarioCmd())
}

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario",
		Short: "Walk through the 64-byte block, 8-byte element scenario",
		Long: `The scenario command fills one block with scalars, allocates one more
to force a second block, frees the third scalar and allocates again to show it
is recycled. Each step prints the block count, free bytes in the active block
and whether the address came from a recycle list.

Example:
  slabctl scenario
  slabctl scenario --block-size 128 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario()
		},
	}
}

type scenarioStep struct {
	Action     string `json:"action"`
	Offset     int64  `json:"offset"`
	Blocks     int    `json:"blocks"`
	ActiveFree int    `json:"activeFree"`
	Recycled   bool   `json:"recycled"`
}

type scenarioResult struct {
	Steps  []scenarioStep `json:"steps"`
	Report slab.Report    `json:"report"`
}

func runScenario() error {
	a, err := slab.New(scenarioElemSize, poolOptions(scenarioBlockSize))
	if err != nil {
		return fmt.Errorf("failed to create allocator: %w", err)
	}
	defer a.Close()

	res, err := playScenario(a)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(res)
	}
	for i, s := range res.Steps {
		src := "bump"
		if s.Recycled {
			src = "recycled"
		}
		printInfo("%2d. %-14s offset %+6d  blocks %d  free %4d  (%s)\n",
			i+1, s.Action, s.Offset, s.Blocks, s.ActiveFree, src)
	}
	printInfo("\n")
	return res.Report.WriteText(os.Stdout)
}

// playScenario allocates until one block is full, one more, frees the third
// scalar and allocates again. Offsets are relative to the first scalar.
func playScenario(a *slab.Allocator) (scenarioResult, error) {
	var (
		res   scenarioResult
		ptrs  []unsafe.Pointer
		first uintptr
	)
	alloc := func(action string) error {
		hits := a.Stats().RecycleHits
		p, err := a.AllocScalar(a.ElemSize())
		if err != nil {
			return fmt.Errorf("%s: %w", action, err)
		}
		if first == 0 {
			first = uintptr(p)
		}
		ptrs = append(ptrs, p)
		res.Steps = append(res.Steps, scenarioStep{
			Action:     action,
			Offset:     int64(uintptr(p)) - int64(first),
			Blocks:     a.NumBlocks(),
			ActiveFree: a.ActiveFree(),
			Recycled:   a.Stats().RecycleHits > hits,
		})
		return nil
	}

	perBlock := a.BlockSize() / a.ElemSize()
	for i := range perBlock + 1 {
		if err := alloc(fmt.Sprintf("alloc #%d", i+1)); err != nil {
			return res, err
		}
	}
	printVerbose("Freeing scalar #3\n")
	if len(ptrs) < 3 {
		return res, fmt.Errorf("block of %d bytes holds fewer than 3 scalars", a.BlockSize())
	}
	if err := a.FreeScalar(ptrs[2]); err != nil {
		return res, err
	}
	if err := alloc(fmt.Sprintf("alloc #%d", perBlock+2)); err != nil {
		return res, err
	}

	res.Report = a.Diagnostics()
	return res, nil
}
