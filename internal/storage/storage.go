// Package storage persists uploaded recordings and transcripts on the local
// filesystem. Files are stored flat under a single directory using their
// upload names; a second upload with the same name overwrites the first.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// TranscriptExt is the extension of transcript files written next to audio uploads.
const TranscriptExt = ".txt"

// File and directory permissions for persisted uploads.
const (
	dirPerm  = 0750
	filePerm = 0644
)

// Store reads and writes uploads under a root directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is not touched until
// EnsureDir or Persist is called.
func New(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

// Dir returns the root directory.
func (s *Store) Dir() string {
	return s.dir
}

// EnsureDir creates the root directory if it doesn't exist.
// Calling it on an existing directory is a no-op.
func (s *Store) EnsureDir() error {
	info, err := os.Stat(s.dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s: %w", s.dir, ErrNotDirectory)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cannot access uploads directory: %w", err)
	}
	if err := os.MkdirAll(s.dir, dirPerm); err != nil { // #nosec G301 -- uploads dir
		return fmt.Errorf("cannot create uploads directory: %w", err)
	}
	return nil
}

// Persist writes the content of r to <dir>/<filename>, replacing any file of
// the same name, and returns the resulting path.
// Only the base name of filename is used.
func (s *Store) Persist(r io.Reader, filename string) (string, error) {
	name, err := cleanName(filename)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, name)
	// #nosec G304 -- name is reduced to a base name inside the uploads dir
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePerm)
	if err != nil {
		return "", fmt.Errorf("cannot create %s: %w", path, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WriteText writes text to path, replacing any existing file.
func (s *Store) WriteText(path, text string) error {
	if err := os.WriteFile(path, []byte(text), filePerm); err != nil { // #nosec G306 -- transcript
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadText returns the full content of the file at path.
// Returns ErrNotFound if the file is missing and ErrDecode if it is not UTF-8.
func (s *Store) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from Persist
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", path, ErrDecode)
	}
	return string(data), nil
}

// Open opens a persisted file by base name for reading.
func (s *Store) Open(name string) (*os.File, error) {
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if clean != name {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	f, err := os.Open(filepath.Join(s.dir, clean)) // #nosec G304 -- base name only
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("cannot open %s: %w", name, err)
	}
	return f, nil
}

// TranscriptPath derives the transcript path for an upload.
// Example: "uploads/call.mp3" -> "uploads/call.txt"
func TranscriptPath(uploadPath string) string {
	ext := filepath.Ext(uploadPath)
	return strings.TrimSuffix(uploadPath, ext) + TranscriptExt
}

// cleanName reduces filename to its base name and rejects names that
// would not produce a regular file inside the directory.
func cleanName(filename string) (string, error) {
	// Browsers on Windows may send full paths with backslashes.
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return name, nil
}
