//go:build linux

package store

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// preallocate reserves the bucket region so chain-head writes never race
// file growth. Filesystems without fallocate fall back to a sparse
// truncate.
func preallocate(f *os.File, size int64) error {
	err := unix.Fallocate(int(f.Fd()), 0, 0, size)
	if errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, unix.ENOSYS) {
		return f.Truncate(size)
	}
	return err
}
