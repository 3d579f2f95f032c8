//go:build windows

package mmblock

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Mapped returns a Source backed by committed VirtualAlloc regions.
func Mapped() Source { return virtualSource{} }

type virtualSource struct{}

func (virtualSource) Reserve(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrReserve, size)
	}
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, fmt.Errorf("%w: VirtualAlloc %d bytes: %w", ErrReserve, size, err)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

func (virtualSource) Release(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	return windows.VirtualFree(uintptr(unsafe.Pointer(&region[0])), 0, windows.MEM_RELEASE)
}

func (virtualSource) Name() string { return "virtualalloc" }
