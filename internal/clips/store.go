package clips

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gofrs/flock"

	"clipsync/internal/fileutil"
)

// ErrDatasetLocked reports that another process holds the dataset lock.
var ErrDatasetLocked = errors.New("dataset is locked by another process")

// SaveOptions controls how Save replaces the dataset file.
type SaveOptions struct {
	// Backup copies the current file to <path>.bak before replacing it.
	Backup bool
}

// LockPath returns the lock file guarding path.
func LockPath(path string) string {
	return path + ".lock"
}

// BackupPath returns where Save keeps the previous dataset.
func BackupPath(path string) string {
	return path + ".bak"
}

// Load reads the dataset at path.
func Load(path string) (*Dataset, error) {
	enc, err := EncodingFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	ds, err := Decode(enc, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Handle is an exclusive hold on a dataset file. Loading and saving through
// one handle keeps other writers out of the whole read-modify-write cycle.
type Handle struct {
	path string
	lock *flock.Flock
}

// Lock takes the dataset lock without waiting. It fails with
// ErrDatasetLocked when another process holds it.
func Lock(path string) (*Handle, error) {
	if _, err := EncodingFor(path); err != nil {
		return nil, err
	}
	lock := flock.New(LockPath(path))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire dataset lock: %w", err)
	}
	if !ok {
		return nil, ErrDatasetLocked
	}
	return &Handle{path: path, lock: lock}, nil
}

// Path returns the locked dataset path.
func (h *Handle) Path() string {
	return h.path
}

// Load reads the locked dataset.
func (h *Handle) Load() (*Dataset, error) {
	return Load(h.path)
}

// Save replaces the locked dataset in one atomic write.
func (h *Handle) Save(ds *Dataset, opts SaveOptions) error {
	enc, err := EncodingFor(h.path)
	if err != nil {
		return err
	}
	data, err := Encode(enc, ds)
	if err != nil {
		return err
	}

	perm := fs.FileMode(0o644)
	info, err := os.Stat(h.path)
	switch {
	case err == nil:
		perm = info.Mode().Perm()
		if opts.Backup {
			if err := fileutil.CopyFileVerified(h.path, BackupPath(h.path)); err != nil {
				return fmt.Errorf("backup dataset: %w", err)
			}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat dataset: %w", err)
	}

	if err := fileutil.WriteFileAtomic(h.path, data, perm); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

// Unlock releases the dataset lock.
func (h *Handle) Unlock() error {
	return h.lock.Unlock()
}

// Save locks path, writes ds in one atomic replace and unlocks. It fails with
// ErrDatasetLocked instead of waiting on a concurrent writer.
func Save(path string, ds *Dataset, opts SaveOptions) error {
	h, err := Lock(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = h.Unlock()
	}()
	return h.Save(ds, opts)
}
