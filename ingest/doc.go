// Package ingest defines the Document model produced by the file readers.
//
// A Document is the normalized unit of ingested content: the extracted text,
// an open-ended metadata mapping, and the absolute path of the source file.
// Documents are constructed exactly once by a reader, after every metadata
// field has been finalized, and are never mutated afterwards. Downstream
// consumers (chunkers, indexers) must treat both content and metadata as
// read-only.
//
// The package also defines the error taxonomy shared by all readers:
// FileError, EncodingError, UnsupportedFormatError and ValidationError.
package ingest
