package ingest

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================
// Error Type Tests
// ============================================================

func TestValidationError_Message(t *testing.T) {
	t.Parallel()

	withSource := &ValidationError{Source: "/tmp/a.txt", Reason: "document content cannot be empty"}
	assert.Contains(t, withSource.Error(), "/tmp/a.txt")
	assert.Contains(t, withSource.Error(), "empty")

	withoutSource := &ValidationError{Reason: "document source cannot be empty"}
	assert.Contains(t, withoutSource.Error(), "source")
}

func TestFileError_UnwrapsFilesystemError(t *testing.T) {
	t.Parallel()

	err := &FileError{Path: "/missing.txt", Reason: "file not found", Err: fs.ErrNotExist}

	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "/missing.txt")
	assert.Contains(t, err.Error(), "file not found")
}

func TestEncodingError_ListsAttempted(t *testing.T) {
	t.Parallel()

	err := &EncodingError{Path: "/tmp/a.txt", Attempted: []string{"utf-8", "latin-1"}}

	assert.Contains(t, err.Error(), "utf-8")
	assert.Contains(t, err.Error(), "latin-1")
	assert.True(t, IsEncodingError(err))
	assert.True(t, IsEncodingError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsEncodingError(fs.ErrNotExist))
}

func TestUnsupportedFormatError_ListsSupported(t *testing.T) {
	t.Parallel()

	err := &UnsupportedFormatError{Extension: ".xyz", Supported: []string{".txt", ".pdf"}}

	assert.Contains(t, err.Error(), ".xyz")
	assert.Contains(t, err.Error(), ".txt")
	assert.True(t, IsUnsupportedFormat(err))
	assert.True(t, IsUnsupportedFormat(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsUnsupportedFormat(fs.ErrNotExist))
}
