package reader

import (
	"context"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/raffll28/RAG-criator/ingest"
)

// Reader is the capability contract every format-specific reader satisfies.
// Implementations hold only static configuration, so a single instance is
// safe to reuse across concurrent Read calls.
type Reader interface {
	// Read extracts the file at path into a Document. It fails with
	// *ingest.FileError when the path does not exist or is not a regular
	// file; extraction errors propagate unwrapped in kind.
	Read(ctx context.Context, path string) (*ingest.Document, error)

	// Supports reports whether the path's lower-cased extension is handled
	// by this reader.
	Supports(path string) bool

	// Name returns the reader's name, recorded as reader_type metadata.
	Name() string

	// SupportedExtensions returns the extensions this reader handles,
	// lower-case and including the leading dot (e.g. ".txt").
	SupportedExtensions() []string
}

// base carries the state and helpers shared by all concrete readers:
// file validation, the common metadata block, and document finalization.
type base struct {
	name       string
	extensions []string
	allowEmpty bool
}

func (b *base) Name() string { return b.name }

func (b *base) SupportedExtensions() []string {
	out := make([]string, len(b.extensions))
	copy(out, b.extensions)
	return out
}

func (b *base) Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range b.extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// validateFile resolves path to an absolute path and checks that it refers
// to an existing regular file. It must run before any content extraction.
func (b *base) validateFile(path string) (string, os.FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, &ingest.FileError{Path: path, Reason: "cannot resolve path", Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		reason := "cannot stat file"
		if os.IsNotExist(err) {
			reason = "file not found"
		}
		return "", nil, &ingest.FileError{Path: abs, Reason: reason, Err: err}
	}
	if !info.Mode().IsRegular() {
		return "", nil, &ingest.FileError{Path: abs, Reason: "path is not a regular file", Err: fs.ErrInvalid}
	}
	return abs, info, nil
}

// basicMetadata derives the filesystem-level fields shared by every reader.
// Computed once per Read call.
func (b *base) basicMetadata(absPath string, info os.FileInfo) ingest.Metadata {
	modified := info.ModTime().UTC().Format(time.RFC3339)
	return ingest.Metadata{
		"file_name":       filepath.Base(absPath),
		"file_path":       absPath,
		"file_extension":  strings.ToLower(filepath.Ext(absPath)),
		"file_size_bytes": info.Size(),
		"file_size_kb":    math.Round(float64(info.Size())/1024*100) / 100,
		// Birth time is not portably exposed by the filesystem; the
		// modification time stands in for both fields.
		"created_at":  modified,
		"modified_at": modified,
		"reader_type": b.name,
	}
}

// finish completes the fixed read sequence: content-derived metadata,
// processed_at stamp, document construction. Metadata must be final before
// this call — the returned Document is never mutated afterwards.
func (b *base) finish(content string, metadata ingest.Metadata, absPath string) (*ingest.Document, error) {
	addContentMetadata(metadata, content)
	metadata["processed_at"] = time.Now().UTC().Format(time.RFC3339)

	var opts []ingest.Option
	if b.allowEmpty {
		opts = append(opts, ingest.AllowEmpty())
	}
	return ingest.New(content, metadata, absPath, opts...)
}

// addContentMetadata fills the content-derived fields common to all readers.
func addContentMetadata(metadata ingest.Metadata, content string) {
	metadata["content_length"] = len(content)
	metadata["char_count"] = len([]rune(content))
	metadata["lines_count"] = countLines(content)
	metadata["word_count"] = len(strings.Fields(content))
	metadata["content_hash"] = ingest.HashContent(content)
	metadata["is_empty"] = content == ""
}

// countLines returns the number of newline-delimited lines in content.
// Empty content yields 0, not 1: the naive count('\n')+1 formula over-counts
// both empty files and single-line files without a trailing newline.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

// checkContext aborts a read early when the caller's context is already
// cancelled. Readers have no other suspension point than the blocking
// filesystem read itself.
func checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
