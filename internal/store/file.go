// Package store persists reports and settings as JSON documents in the data directory.
//
// Every write loads the whole document, modifies it in memory and replaces the file.
// Two processes writing at the same time race and the later write wins in full.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/naka-gawa/myimpact/internal/apperrors"
)

const (
	settingsFile = "settings.json"
	reportsFile  = "reports.json"
)

// document is one JSON file owned by a store.
type document struct {
	dir  string
	name string
}

func (d document) path() string {
	return filepath.Join(d.dir, d.name)
}

// ensureDir creates the data directory on first access.
func (d document) ensureDir() error {
	if err := os.MkdirAll(d.dir, 0o700); err != nil {
		return fmt.Errorf("%w: create data directory %s: %v", apperrors.ErrFileWrite, d.dir, err)
	}
	return nil
}

// read returns the file content and whether the file exists.
func (d document) read() ([]byte, bool, error) {
	if err := d.ensureDir(); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(d.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	return data, true, nil
}

// write serializes v and atomically replaces the file.
func (d document) write(v any, what string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w %s: %v", apperrors.ErrSerialization, what, err)
	}
	if err := d.ensureDir(); err != nil {
		return err
	}
	if err := atomic.WriteFile(d.path(), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: save %s: %v", apperrors.ErrFileWrite, what, err)
	}
	return nil
}
