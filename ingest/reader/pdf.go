package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/raffll28/RAG-criator/ingest"
)

// PDFConfig configures the PDFReader.
type PDFConfig struct {
	// Logger receives debug/warn signals. Defaults to a no-op logger.
	Logger *zap.Logger
}

// PDFReader extracts plain text from PDF files, page by page. Pages whose
// text cannot be extracted are skipped rather than failing the document;
// a PDF with no extractable text at all (scanned images, for example)
// yields an empty Document with is_empty metadata set.
type PDFReader struct {
	base
	logger *zap.Logger
}

// NewPDFReader creates a PDFReader with the given config.
func NewPDFReader(config PDFConfig) *PDFReader {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &PDFReader{
		base: base{
			name:       "PDFReader",
			extensions: []string{".pdf"},
			allowEmpty: true,
		},
		logger: config.Logger,
	}
}

// Read extracts a PDF file into a Document.
func (r *PDFReader) Read(ctx context.Context, path string) (*ingest.Document, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	abs, info, err := r.validateFile(path)
	if err != nil {
		return nil, err
	}

	f, doc, err := pdf.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", abs, err)
	}
	defer f.Close()

	pageCount := doc.NumPage()
	var parts []string
	for pageIndex := 1; pageIndex <= pageCount; pageIndex++ {
		page := doc.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			r.logger.Debug("skipping unextractable pdf page",
				zap.String("file", abs),
				zap.Int("page", pageIndex),
				zap.Error(err))
			continue
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}

	content := strings.Join(parts, "\n\n")
	if content == "" {
		r.logger.Warn("pdf has no extractable text, might contain only images",
			zap.String("file", abs),
			zap.Int("pages", pageCount))
	}

	metadata := r.basicMetadata(abs, info)
	metadata["pages"] = pageCount

	r.logger.Debug("pdf file read",
		zap.String("file", abs),
		zap.Int("pages", pageCount))

	return r.finish(content, metadata, abs)
}
