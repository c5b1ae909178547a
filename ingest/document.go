package ingest

import (
	"crypto/sha256"
	"encoding/hex"
)

// Metadata is the open-ended key/value set attached to every Document.
// Values are scalars or strings; the required keys are listed in the
// reader package's basic metadata block.
type Metadata = map[string]any

// Document represents a processed file: extracted content plus metadata.
// Immutable by convention — readers build the full metadata map before
// construction and callers must not modify it afterwards.
type Document struct {
	// Content is the full extracted textual content. May be empty when the
	// document was constructed with AllowEmpty.
	Content string `json:"content"`
	// Metadata holds the descriptive fields for this document.
	Metadata Metadata `json:"metadata"`
	// Source is the absolute path of the originating file.
	Source string `json:"source"`
}

// Option configures Document construction.
type Option func(*options)

type options struct {
	allowEmpty bool
}

// AllowEmpty permits construction from empty content. When the content is
// empty and AllowEmpty was given, the document is valid and
// metadata["is_empty"] is true.
func AllowEmpty() Option {
	return func(o *options) { o.allowEmpty = true }
}

// New constructs a Document. Empty content fails with *ValidationError
// unless the AllowEmpty option is given. A nil metadata map is replaced
// with an empty one so lookups never panic.
func New(content string, metadata Metadata, source string, opts ...Option) (*Document, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if content == "" && !o.allowEmpty {
		return nil, &ValidationError{Source: source, Reason: "document content cannot be empty"}
	}
	if source == "" {
		return nil, &ValidationError{Reason: "document source cannot be empty"}
	}
	if metadata == nil {
		metadata = make(Metadata)
	}

	return &Document{
		Content:  content,
		Metadata: metadata,
		Source:   source,
	}, nil
}

// ContentHash returns the SHA-256 hex digest of the content. The result is
// deterministic: two documents with identical content always produce the
// same hash.
func (d *Document) ContentHash() string {
	return HashContent(d.Content)
}

// HashContent returns the SHA-256 hex digest of content. Readers use it to
// fill the content_hash metadata field before the Document exists.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Preview returns the first max characters of the content. Content shorter
// than the limit is returned unchanged; max <= 0 returns the empty string.
func (d *Document) Preview(max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(d.Content)
	if len(runes) <= max {
		return d.Content
	}
	return string(runes[:max])
}

// IsEmpty reports whether the document holds no content.
func (d *Document) IsEmpty() bool {
	return d.Content == ""
}
