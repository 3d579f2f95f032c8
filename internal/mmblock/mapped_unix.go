//go:build unix

package mmblock

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Mapped returns a Source backed by anonymous private memory mappings.
func Mapped() Source { return mappedSource{} }

type mappedSource struct{}

func (mappedSource) Reserve(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrReserve, size)
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes: %w", ErrReserve, size, err)
	}
	return data, nil
}

func (mappedSource) Release(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	err := unix.Munmap(region)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}

func (mappedSource) Name() string { return "mmap" }
