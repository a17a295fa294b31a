package fsutil

import (
	"errors"
	"fmt"
	"os"
)

// EnsureBasedir creates dir and all missing parents with a permissive mode,
// clearing the process umask for the duration so the mode actually sticks.
// If dir already exists but isn't writable, it returns an error without
// attempting creation.
func EnsureBasedir(dir string) error {
	info, statErr := os.Stat(dir)
	if statErr == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", dir)
		}
		if !isWritable(info) {
			return fmt.Errorf("%s is not writable", dir)
		}
		return nil
	}
	if !errors.Is(statErr, os.ErrNotExist) {
		return statErr
	}

	return WithClearedUmask(func() error {
		return os.MkdirAll(dir, 0o777)
	})
}

func isWritable(info os.FileInfo) bool {
	return info.Mode().Perm()&0o200 != 0
}
