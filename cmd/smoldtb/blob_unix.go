//go:build linux || darwin

package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// loadBlob memory-maps path read-only and returns the mapped bytes along
// with a function that unmaps them.
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
	if info.Size() == 0 {
		return nil, nil, fmt.Errorf("opening %s: empty file", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	unmap := func() {
		_ = unix.Munmap(data)
	}
	return data, unmap, nil
}
