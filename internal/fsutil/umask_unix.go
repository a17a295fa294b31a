//go:build !windows

package fsutil

import "golang.org/x/sys/unix"

// WithClearedUmask clears the process umask for the duration of fn and
// restores it afterward on every exit path, including a panic. The umask is
// a process-global mutation, so this must be the only place that touches
// it.
func WithClearedUmask(fn func() error) error {
	old := unix.Umask(0o000)
	defer unix.Umask(old)
	return fn()
}
