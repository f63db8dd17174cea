// Package storage persists attachment bytes under system-generated names.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store is the byte store behind the attachment service. Names are generated
// by the caller and are never derived from client input.
type Store interface {
	Save(name string, content []byte) (string, error)
	Remove(name string) error
	Exists(name string) bool
	Path(name string) string
}

// Disk stores attachment bytes in a directory on the local filesystem.
type Disk struct {
	root string
}

// NewDisk creates the root directory if needed and returns a disk store.
func NewDisk(root string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", root, err)
	}
	return &Disk{root: root}, nil
}

// Save writes content under name and returns the absolute path.
func (d *Disk) Save(name string, content []byte) (string, error) {
	path := d.Path(name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Remove deletes the named file. Removing a missing file is an error so the
// caller can distinguish a failed physical delete from a successful one.
func (d *Disk) Remove(name string) error {
	return os.Remove(d.Path(name))
}

// Exists reports whether the named file is present on disk.
func (d *Disk) Exists(name string) bool {
	_, err := os.Stat(d.Path(name))
	return err == nil
}

// Path returns the absolute path for the stored name.
func (d *Disk) Path(name string) string {
	return filepath.Join(d.root, filepath.Base(name))
}
