//go:build !unix

package discovery

import "os"

// mmapReadFile falls back to a plain read on platforms without the unix
// mmap syscalls; the on-disk format is identical either way.
func mmapReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
