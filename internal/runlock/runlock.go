// Package runlock keeps two sort runs from placing into the same target root
// at once. The lock is an advisory flock on <target>/.picsort.lock; the file is
// left in place after release.
package runlock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"picsort/internal/errs"
)

// FileName is the lock file created inside the target root.
const FileName = ".picsort.lock"

// ErrLocked reports that another run holds the lock.
var ErrLocked = errors.New("another picsort run is using this target directory")

// Lock is a held run lock.
type Lock struct {
	lock *flock.Flock
}

// Acquire takes the lock for targetRoot without blocking.
func Acquire(targetRoot string) (*Lock, error) {
	info, err := os.Stat(targetRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Path(errs.ErrNotFound, "lock target", targetRoot, "", err)
		}
		return nil, errs.Path(errs.ErrFilesystem, "lock target", targetRoot, "", err)
	}
	if !info.IsDir() {
		return nil, errs.Path(errs.ErrNotFound, "lock target", targetRoot, "", errors.New("not a directory"))
	}

	path := filepath.Join(targetRoot, FileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, errs.Path(errs.ErrFilesystem, "acquire lock", path, "", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, path)
	}
	return &Lock{lock: fl}, nil
}

// Path is the lock file location.
func (l *Lock) Path() string {
	return l.lock.Path()
}

// Release drops the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
