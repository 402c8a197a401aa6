// Package source loads CPL programs from disk.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extension is the file extension CPL programs must carry.
const Extension = ".cpl"

var (
	// ErrNotFound means the path does not exist.
	ErrNotFound = errors.New("source file not found")

	// ErrNotFile means the path exists but is not a regular file.
	ErrNotFile = errors.New("not a regular file")

	// ErrExtension means the file does not end in .cpl.
	ErrExtension = errors.New("source file must have a " + Extension + " extension")
)

// Source is a named piece of program text.
type Source struct {
	// Name is used in diagnostics and logs. It is the path for files and a
	// label such as "<repl>" otherwise.
	Name string
	Text string
}

// FromString wraps text that did not come from a file.
func FromString(name, text string) Source {
	return Source{Name: name, Text: text}
}

// Load reads the program at path.
func Load(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Source{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Source{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return Source{}, fmt.Errorf("%w: %s", ErrNotFile, path)
	}
	if !strings.EqualFold(filepath.Ext(path), Extension) {
		return Source{}, fmt.Errorf("%w: %s", ErrExtension, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Source{Name: path, Text: string(data)}, nil
}

// LoadAll loads every path, stopping at the first failure.
func LoadAll(paths []string) ([]Source, error) {
	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		src, err := Load(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}
