// Package mmfile maps input files read-only so every node can be addressed
// by absolute offset without copying.
package mmfile

import (
	"fmt"
	"math"
	"os"
	"sync"
)

// source opens path and checks that it is a regular file whose size fits
// in an int. A nil file with a nil error means the file is empty.
func source(path string) (*os.File, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	switch {
	case err != nil:
	case info.IsDir():
		err = fmt.Errorf("mmfile: %s is a directory", path)
	case info.Size() > math.MaxInt:
		err = fmt.Errorf("mmfile: %s too large to map (%d bytes)", path, info.Size())
	case info.Size() == 0:
		f.Close()
		return nil, 0, nil
	default:
		return f, int(info.Size()), nil
	}
	f.Close()
	return nil, 0, err
}

func noop() error { return nil }

// once wraps release so only the first call does anything.
func once(release func() error) func() error {
	var (
		o   sync.Once
		err error
	)
	return func() error {
		o.Do(func() { err = release() })
		return err
	}
}
