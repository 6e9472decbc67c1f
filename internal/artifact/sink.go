// Package artifact persists derived documents for the dashboard. Artifact
// names are part of the contract the static dashboard consumes.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Sink writes one named artifact. Writes are idempotent: a second write with
// the same name replaces the first.
type Sink interface {
	Write(name string, v any) error
}

// DirSink writes artifacts as JSON files under one directory.
type DirSink struct {
	dir string
}

// NewDirSink creates the directory if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure output directory: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

// Dir returns the sink's directory.
func (s *DirSink) Dir() string { return s.dir }

// Write encodes v as JSON to <dir>/<name>. The write goes through a temp
// file and rename so a crash never leaves a half-written artifact behind.
func (s *DirSink) Write(name string, v any) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
