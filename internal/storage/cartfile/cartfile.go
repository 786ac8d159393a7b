// Package cartfile stores the cart snapshot in a single slot on the local
// filesystem. Writes are atomic (temp file + rename) so a crash mid-write
// never leaves a half-written snapshot behind.
package cartfile

import (
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"github.com/bondx/storefront/internal/domain/cart"
)

var _ cart.Storage = (*Storage)(nil)

// Storage implements cart.Storage backed by one file.
type Storage struct {
	path string
}

// New returns a Storage persisting to path. The parent directory is created
// on the first write.
func New(path string) *Storage {
	return &Storage{path: path}
}

// Path returns the snapshot file location.
func (s *Storage) Path() string {
	return s.path
}

// Load reads the snapshot slot. A missing file reports found = false; a file
// that cannot be read or decoded returns an error and the caller decides how
// to degrade.
func (s *Storage) Load() (cart.State, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return cart.State{}, false, nil
		}
		return cart.State{}, false, errors.Wrap(err, "read cart snapshot")
	}

	state, err := decodeState(data)
	if err != nil {
		return cart.State{}, false, errors.Wrap(err, "decode cart snapshot")
	}
	return state, true, nil
}

// Save replaces the snapshot slot with the given state. The write is synced
// before the rename so the slot is durable once Save returns.
func (s *Storage) Save(state cart.State) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create snapshot dir")
	}

	tmp, err := os.CreateTemp(dir, ".cart-*")
	if err != nil {
		return errors.Wrap(err, "create temp snapshot")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(encodeState(state)); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write snapshot")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "sync snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close snapshot")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "replace snapshot")
	}
	return nil
}

// Reset wipes the snapshot slot. Wiping an empty slot is a no-op.
func (s *Storage) Reset() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove cart snapshot")
	}
	return nil
}
