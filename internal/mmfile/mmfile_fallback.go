//go:build !unix && !windows

package mmfile

import (
	"fmt"
	"io"
)

// Map reads the whole file on platforms without mmap.
func Map(path string) ([]byte, func() error, error) {
	f, size, err := source(path)
	if err != nil {
		return nil, nil, err
	}
	if f == nil {
		return []byte{}, noop, nil
	}
	defer f.Close()

	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, nil, fmt.Errorf("mmfile: read %s: %w", path, err)
	}
	return data, noop, nil
}
