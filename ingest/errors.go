package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a Document that failed construction-time
// validation, typically empty content when emptiness is disallowed.
type ValidationError struct {
	Source string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("invalid document %s: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("invalid document: %s", e.Reason)
}

// FileError reports a path that does not exist or is not a regular file.
// It is raised before any content extraction, so a failed read never
// produces a partially processed document.
type FileError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Unwrap exposes the underlying filesystem error so callers can match it
// with errors.Is(err, fs.ErrNotExist).
func (e *FileError) Unwrap() error { return e.Err }

// EncodingError reports a text file that none of the candidate encodings
// could decode. Attempted lists the candidates in the order they were tried.
type EncodingError struct {
	Path      string
	Attempted []string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to decode %s with any candidate encoding (tried: %s)",
		e.Path, strings.Join(e.Attempted, ", "))
}

// UnsupportedFormatError reports a file extension with no registered reader.
type UnsupportedFormatError struct {
	Extension string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	if len(e.Supported) > 0 {
		return fmt.Sprintf("no reader registered for extension %q (supported: %s)",
			e.Extension, strings.Join(e.Supported, ", "))
	}
	return fmt.Sprintf("no reader registered for extension %q", e.Extension)
}

// IsUnsupportedFormat reports whether err is an UnsupportedFormatError.
func IsUnsupportedFormat(err error) bool {
	var ufe *UnsupportedFormatError
	return errors.As(err, &ufe)
}

// IsEncodingError reports whether err is an EncodingError.
func IsEncodingError(err error) bool {
	var ee *EncodingError
	return errors.As(err, &ee)
}
