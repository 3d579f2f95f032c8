package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/slabkit/internal/logger"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.txt")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestMtestCommand_Stdin(t *testing.T) {
	resetFlags()
	blockSize = 1024

	output, err := captureOutput(t, func() error {
		return runMtest(nil, strings.NewReader("new 20\nnew 2 -a 3\nverify\nprint\n"))
	})
	require.NoError(t, err)
	assertContains(t, output, []string{
		"verified 20 objects, 2 arrays",
		"Objects: 20, Arrays: 2",
		"Block size            : 1,024 Bytes",
	})
}

func TestMtestCommand_Files(t *testing.T) {
	resetFlags()
	strict = true
	first := writeScript(t, "new 5 // five objects\ndelete -r 2\n")
	second := writeScript(t, "verify\nprint\n")

	output, err := captureOutput(t, func() error {
		return runMtest([]string{first, second}, nil)
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"verified 3 objects, 0 arrays", "65,536 Bytes"})
}

func TestMtestCommand_Errors(t *testing.T) {
	resetFlags()
	bad := writeScript(t, "new 1\nbogus\n")

	output, err := captureOutput(t, func() error {
		return runMtest([]string{bad, filepath.Join(t.TempDir(), "missing.txt")}, nil)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command failed")
	assert.Contains(t, err.Error(), "failed to open script")
	assertContains(t, output, []string{"Error: line 2:"})
}

func TestMtestCommand_InvalidBlockSize(t *testing.T) {
	resetFlags()
	blockSize = 12

	_, err := captureOutput(t, func() error {
		return runMtest(nil, strings.NewReader("new 1\n"))
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create pool")
}

func TestMtestCommand_Logging(t *testing.T) {
	resetFlags()
	logDir = t.TempDir()
	verbose = true
	require.NoError(t, initLogging())

	_, err := captureOutput(t, func() error {
		return runMtest(nil, strings.NewReader("new 3\ndelete -i 0\n"))
	})
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(logDir, entries[0].Name()))
	require.NoError(t, err)
	assertContains(t, string(data), []string{`"msg":"mtest start"`, `"msg":"alloc"`, `"msg":"free"`})
}
