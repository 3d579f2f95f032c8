package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slabkit/internal/logger"
	"github.com/joshuapare/slabkit/internal/mtest"
)

var mtestSeed uint64

func init() {
	cmd := newMtestCmd()
	cmd.Flags().Uint64Var(&mtestSeed, "seed", 1, "Seed for payloads and random deletes")
	rootCmd.AddCommand(cmd)
}

func newMtestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mtest [script...]",
		Short: "Run memory-test scripts against a pool",
		Long: `The mtest command replays memory-test scripts against a fresh pool of
56-byte objects. Scripts are read from the named files in order, or from stdin
when none are given. Each line is one command:

  new <count> [-a <len>]          allocate objects, or arrays of len objects
  delete -i <index> [-a]          free the object (or array) at index
  delete -r <count> [-a]          free count random objects (or arrays)
  reset [blockSize]               drop everything and reset the pool
  print                           show live counts and the pool report
  verify                          check no live payload was overwritten

Text after // is a comment.

Example:
  slabctl mtest script.txt
  echo "new 100" | slabctl mtest --block-size 4096`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMtest(args, os.Stdin)
		},
	}
	return cmd
}

func runMtest(args []string, stdin io.Reader) error {
	h, err := mtest.New(poolOptions(0), mtestSeed)
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	defer h.Close()

	logger.Info("mtest start", "scripts", len(args), "blockSize", h.Pool().Allocator().BlockSize())

	if len(args) == 0 {
		return h.RunScript(stdin, os.Stdout)
	}

	var errs []error
	for _, path := range args {
		printVerbose("Running script: %s\n", path)
		if err := runScriptFile(h, path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		logger.Warn("mtest finished with errors", "err", err)
		return err
	}
	return nil
}

func runScriptFile(h *mtest.Harness, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()
	return h.RunScript(f, os.Stdout)
}
