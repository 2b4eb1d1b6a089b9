package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ErrUnsupportedFormat indicates an upload whose extension does not match
// the selected input kind.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrInvalidKind indicates an unknown input kind name.
var ErrInvalidKind = errors.New("invalid input kind")

// Kind is the declared type of an upload.
type Kind int

// Input kinds.
const (
	Audio Kind = iota + 1
	Text
)

// Accepted extensions per kind, in display order.
var (
	audioExtensions = []string{".mp3", ".wav", ".m4a", ".flac", ".webm"}
	textExtensions  = []string{".txt"}
)

// ParseKind parses "audio" or "text".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "audio":
		return Audio, nil
	case "text":
		return Text, nil
	}
	return 0, fmt.Errorf("%w: %q (use 'audio' or 'text')", ErrInvalidKind, s)
}

// KindForFile routes a filename to its kind by extension.
func KindForFile(name string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case slices.Contains(audioExtensions, ext):
		return Audio, nil
	case slices.Contains(textExtensions, ext):
		return Text, nil
	}
	return 0, fmt.Errorf("%w %q (supported: %s, %s)", ErrUnsupportedFormat, ext,
		strings.Join(audioExtensions, " "), strings.Join(textExtensions, " "))
}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Audio:
		return "audio"
	case Text:
		return "text"
	}
	return "unknown"
}

// Label returns the human-readable name used by the upload form.
func (k Kind) Label() string {
	switch k {
	case Audio:
		return "Audio File"
	case Text:
		return "Text File"
	}
	return ""
}

// Extensions returns the extensions accepted for k.
func (k Kind) Extensions() []string {
	switch k {
	case Audio:
		return slices.Clone(audioExtensions)
	case Text:
		return slices.Clone(textExtensions)
	}
	return nil
}

// Accepts checks that name has an extension allowed for k.
func (k Kind) Accepts(name string) error {
	got, err := KindForFile(name)
	if err != nil {
		return err
	}
	if got != k {
		return fmt.Errorf("%w: %s is not accepted in %s mode (expected %s)", ErrUnsupportedFormat,
			filepath.Base(name), k, strings.Join(k.Extensions(), " "))
	}
	return nil
}
