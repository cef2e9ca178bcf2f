//go:build unix

package mmfile

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Map returns the file's bytes and a function that unmaps them. Calling
// the function more than once is harmless.
func Map(path string) ([]byte, func() error, error) {
	f, size, err := source(path)
	if err != nil {
		return nil, nil, err
	}
	if f == nil {
		return []byte{}, noop, nil
	}
	defer f.Close()

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("mmfile: mmap %s: %w", path, err)
	}
	return data, once(func() error {
		if err := unix.Munmap(data); !errors.Is(err, unix.EINVAL) {
			return err
		}
		return nil
	}), nil
}
