// Package reader implements the format-specific file readers and the
// factory that dispatches files to them by extension.
//
// Every reader follows the same fixed sequence: validate that the path is a
// regular file, extract the format-specific content, derive the common
// metadata block, merge format-specific metadata, and construct the final
// ingest.Document. Only the extraction step differs between formats.
//
// Typical usage goes through the factory:
//
//	doc, err := reader.ReadFile(ctx, "notes/meeting.txt")
//
// or, with an explicit factory instance:
//
//	f := reader.NewFactory(reader.WithLogger(logger))
//	doc, err := f.Read(ctx, "report.pdf")
package reader
