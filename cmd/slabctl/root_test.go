package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joshuapare/slabkit/internal/logger"
	"github.com/joshuapare/slabkit/internal/mmblock"
)

func TestPoolOptions(t *testing.T) {
	resetFlags()
	opts := poolOptions(64)
	assert.Equal(t, 64, opts.BlockSize)
	assert.Nil(t, opts.Source)
	assert.Nil(t, opts.Logger)
	assert.False(t, opts.StrictFree)

	blockSize = 4096
	mapped = true
	strict = true
	opts = poolOptions(64)
	assert.Equal(t, 4096, opts.BlockSize, "flag overrides the command default")
	assert.Equal(t, mmblock.Mapped().Name(), opts.Source.Name())
	assert.True(t, opts.StrictFree)
}

func TestPoolOptions_Logger(t *testing.T) {
	resetFlags()
	logDir = t.TempDir()
	assert.NoError(t, initLogging())
	t.Cleanup(func() { _ = logger.Close() })

	assert.Same(t, logger.L, poolOptions(0).Logger)
}

func TestVersionCommand(t *testing.T) {
	output, err := captureOutput(t, func() error {
		versionCmd.Run(versionCmd, nil)
		return nil
	})
	assert.NoError(t, err)
	assertContains(t, output, []string{"slabctl dev", "commit: none"})
}
