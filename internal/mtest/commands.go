package mtest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slabkit/slab"
)

// ErrCommandFailed is returned by RunScript when at least one line failed.
var ErrCommandFailed = errors.New("mtest: command failed")

// RunScript executes every line of r. Text after // is ignored. A failing
// line is reported to w and the script continues.
func (h *Harness) RunScript(r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	lineNo, failed := 0, 0
	for sc.Scan() {
		lineNo++
		if err := h.Exec(sc.Text(), w); err != nil {
			failed++
			fmt.Fprintf(w, "Error: line %d: %v\n", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d lines", ErrCommandFailed, failed, lineNo)
	}
	return nil
}

// Exec runs a single command line.
func (h *Harness) Exec(line string, w io.Writer) error {
	args := splitLine(line)
	if len(args) == 0 {
		return nil
	}
	root := h.commandTree()
	root.SetArgs(args)
	root.SetOut(w)
	root.SetErr(w)
	return root.Execute()
}

func splitLine(line string) []string {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	return args
}

// commandTree is rebuilt per line so flag values never leak between lines.
func (h *Harness) commandTree() *cobra.Command {
	root := &cobra.Command{
		Use:           "mtest",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(
		h.newCmd(),
		h.deleteCmd(),
		h.resetCmd(),
		h.printCmd(),
		h.verifyCmd(),
	)
	return root
}

func (h *Harness) newCmd() *cobra.Command {
	var length int
	cmd := &cobra.Command{
		Use:   "new <count>",
		Short: "Allocate objects, or arrays with -a",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := parseCount(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("array") {
				if length < 0 {
					return fmt.Errorf("negative array length %d", length)
				}
				err = h.NewArrays(count, length)
			} else {
				err = h.NewObjects(count)
			}
			if errors.Is(err, slab.ErrCapacityExceeded) {
				fmt.Fprintln(cmd.OutOrStdout(), err)
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&length, "array", "a", 0, "allocate arrays of this length")
	return cmd
}

func (h *Harness) deleteCmd() *cobra.Command {
	var (
		index  int
		random int
		arrays bool
	)
	cmd := &cobra.Command{
		Use:   "delete (-i <index> | -r <count>) [-a]",
		Short: "Free objects or arrays by index or at random",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("index") {
				if arrays {
					return h.DeleteArray(index)
				}
				return h.DeleteObject(index)
			}
			if random < 0 {
				return fmt.Errorf("negative count %d", random)
			}
			_, err := h.DeleteRandom(random, arrays)
			return err
		},
	}
	cmd.Flags().IntVarP(&index, "index", "i", 0, "delete the entry at this index")
	cmd.Flags().IntVarP(&random, "random", "r", 0, "delete this many random entries")
	cmd.Flags().BoolVarP(&arrays, "array", "a", false, "operate on arrays instead of objects")
	cmd.MarkFlagsMutuallyExclusive("index", "random")
	cmd.MarkFlagsOneRequired("index", "random")
	return cmd
}

func (h *Harness) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset [blockSize]",
		Short: "Drop all entries and reset the pool",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size := 0
			if len(args) == 1 {
				n, err := parseCount(args[0])
				if err != nil {
					return err
				}
				size = n
			}
			return h.Reset(size)
		},
	}
}

func (h *Harness) printCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print live counts and the pool report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return h.Print(cmd.OutOrStdout())
		},
	}
}

func (h *Harness) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check every live payload against its digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := h.Verify(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "verified %d objects, %d arrays\n", len(h.objs), len(h.arrs))
			return nil
		},
	}
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative number %d", n)
	}
	return n, nil
}
