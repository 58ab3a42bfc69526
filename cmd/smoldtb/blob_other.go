//go:build !linux && !darwin

package main

import (
	"fmt"
	"io"
	"os"
)

// loadBlob reads path into memory in full, for platforms without the
// mmap-based fast path.
func loadBlob(path string) ([]byte, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("statting %s: %w", path, err)
	}

	data := make([]byte, info.Size())
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, func() {}, nil
}
