package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Local writes bundle files under a directory root.
type Local struct {
	root string
}

// NewLocal returns a local backend rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{root: dir}
}

func (l *Local) Root() string { return l.root }

func (l *Local) Put(ctx context.Context, relpath string, data []byte, mode fs.FileMode, force bool) error {
	path := filepath.Join(l.root, filepath.FromSlash(relpath))

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", relpath, fs.ErrExist)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", relpath, err)
	}
	// WriteFile only applies the mode on creation; force-overwrites of a
	// script still need the executable bit.
	if force {
		if err := os.Chmod(path, mode); err != nil {
			return fmt.Errorf("failed to chmod %s: %w", relpath, err)
		}
	}
	return nil
}

func (l *Local) Exists(ctx context.Context, relpath string) (bool, error) {
	_, err := os.Stat(filepath.Join(l.root, filepath.FromSlash(relpath)))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
