//go:build !windows

package fsutil

import "os"

// replaceFile moves src over dst.
func replaceFile(src, dst string) error {
	return os.Rename(src, dst)
}
