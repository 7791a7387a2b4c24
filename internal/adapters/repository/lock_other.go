//go:build !unix

package repository

import (
	"errors"
	"io/fs"
	"os"
)

// tryLock falls back to exclusive creation of the lock file where flock is
// not available. A crashed holder leaves the file behind and must be
// cleaned up by hand.
func tryLock(path string) (release func(), ok bool, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	_ = f.Close()
	return func() { _ = os.Remove(path) }, true, nil
}
