//go:build windows

package mmfile

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Map returns the file's bytes through a read-only view of a file mapping
// object, and a function that releases both.
func Map(path string) ([]byte, func() error, error) {
	f, size, err := source(path)
	if err != nil {
		return nil, nil, err
	}
	if f == nil {
		return []byte{}, noop, nil
	}
	defer f.Close()

	n := uint64(size)
	h, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, windows.PAGE_READONLY, uint32(n>>32), uint32(n), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("mmfile: create mapping for %s: %w", path, err)
	}
	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		_ = windows.CloseHandle(h)
		return nil, nil, fmt.Errorf("mmfile: map view of %s: %w", path, err)
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	return data, once(func() error {
		return errors.Join(windows.UnmapViewOfFile(addr), windows.CloseHandle(h))
	}), nil
}
