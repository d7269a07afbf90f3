//go:build unix

package discovery

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mmapReadFile reads path through a read-only memory mapping and returns a
// copy of the mapped bytes; the mapping is released before it returns, so
// the caller decodes from the copy rather than from the mapping itself.
// Zero-length files return nil without mapping, since mmap of an empty
// region is not portable.
func mmapReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}

	out := make([]byte, len(data))
	copy(out, data)

	if err := unix.Munmap(data); err != nil {
		return nil, fmt.Errorf("munmap: %w", err)
	}

	return out, nil
}
