//go:build !linux

package store

import "os"

// preallocate extends the file over the bucket region. Sparse on most
// filesystems, which is fine: slots read back as zero, meaning empty.
func preallocate(f *os.File, size int64) error {
	return f.Truncate(size)
}
