package storage

import "errors"

// Sentinel errors for upload storage.
var (
	// ErrNotDirectory indicates the uploads path exists but is not a directory.
	ErrNotDirectory = errors.New("path is not a directory")

	// ErrNotFound indicates a persisted file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrDecode indicates a file expected to hold text is not valid UTF-8.
	ErrDecode = errors.New("file is not valid UTF-8 text")

	// ErrInvalidFilename indicates an upload name that cannot be stored.
	ErrInvalidFilename = errors.New("invalid filename")
)
