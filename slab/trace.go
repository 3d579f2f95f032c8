package slab

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Debug flag - set to true to dump allocator state to stderr after every block
// creation (compile-time toggle).
const debugAlloc = false

// Runtime trace flag for allocation logging - controlled by SLAB_LOG_ALLOC env var.
var logAlloc = os.Getenv("SLAB_LOG_ALLOC") != ""

func defaultLogger() *slog.Logger {
	if logAlloc {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func traceEnabled(l *slog.Logger) bool {
	return l.Enabled(context.Background(), slog.LevelDebug)
}

// trace emits one Debug event when tracing is on. The enabled check is taken
// once at construction.
func (a *Allocator) trace(msg string, args ...any) {
	if !a.tracing {
		return
	}
	a.log.Debug(msg, args...)
}

// dumpState prints the full recycle table when debugAlloc is enabled.
func (a *Allocator) dumpState(reason string) {
	if !debugAlloc {
		return
	}
	fmt.Fprintf(os.Stderr, "\n=== SLAB STATE DUMP (%s) ===\n", reason)
	if err := a.Diagnostics().WriteText(os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "dump failed: %v\n", err)
	}
}
