package reader

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/raffll28/RAG-criator/ingest"
)

// DOCXConfig configures the DOCXReader.
type DOCXConfig struct {
	// ExcludeTables skips table text extraction.
	ExcludeTables bool
	// Logger receives debug/warn signals. Defaults to a no-op logger.
	Logger *zap.Logger
}

// DOCXReader extracts text from Microsoft Word documents. A .docx file is
// an OOXML ZIP container; paragraph and table text live in
// word/document.xml and the author/title properties in docProps/core.xml.
type DOCXReader struct {
	base
	includeTables bool
	logger        *zap.Logger
}

// NewDOCXReader creates a DOCXReader with the given config.
func NewDOCXReader(config DOCXConfig) *DOCXReader {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &DOCXReader{
		base: base{
			name:       "DOCXReader",
			extensions: []string{".docx"},
			allowEmpty: true,
		},
		includeTables: !config.ExcludeTables,
		logger:        config.Logger,
	}
}

// Read extracts a DOCX file into a Document.
func (r *DOCXReader) Read(ctx context.Context, path string) (*ingest.Document, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	abs, info, err := r.validateFile(path)
	if err != nil {
		return nil, err
	}

	archive, err := zip.OpenReader(abs)
	if err != nil {
		return nil, fmt.Errorf("open docx %s: %w", abs, err)
	}
	defer archive.Close()

	body, err := extractDocumentXML(&archive.Reader, r.includeTables)
	if err != nil {
		return nil, fmt.Errorf("extract docx %s: %w", abs, err)
	}

	props := readCoreProperties(&archive.Reader)

	content := body.render()
	if content == "" {
		r.logger.Warn("docx has no extractable text", zap.String("file", abs))
	}

	metadata := r.basicMetadata(abs, info)
	metadata["docx_title"] = props.Title
	metadata["docx_author"] = props.Creator
	metadata["docx_subject"] = props.Subject
	metadata["docx_keywords"] = props.Keywords
	metadata["paragraphs_count"] = body.paragraphCount
	metadata["tables_count"] = body.tableCount

	r.logger.Debug("docx file read",
		zap.String("file", abs),
		zap.Int("paragraphs", body.paragraphCount),
		zap.Int("tables", body.tableCount))

	return r.finish(content, metadata, abs)
}

// docxBody accumulates the extracted blocks of a word/document.xml walk.
type docxBody struct {
	blocks         []string
	paragraphCount int
	tableCount     int
}

func (b *docxBody) render() string {
	return strings.Join(b.blocks, "\n")
}

// extractDocumentXML streams word/document.xml and collects paragraph text
// (w:p / w:t elements) and, optionally, table text (w:tbl / w:tr / w:tc)
// with cells joined by " | " per row.
func extractDocumentXML(archive *zip.Reader, includeTables bool) (*docxBody, error) {
	rc, err := openArchiveFile(archive, "word/document.xml")
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	body := &docxBody{}
	decoder := xml.NewDecoder(rc)

	var (
		tableDepth int
		inText     bool
		paragraph  strings.Builder
		cell       strings.Builder
		rowCells   []string
		tableRows  []string
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					body.tableCount++
					tableRows = tableRows[:0]
				}
			case "tr":
				rowCells = rowCells[:0]
			case "tc":
				cell.Reset()
			case "p":
				if tableDepth == 0 {
					paragraph.Reset()
					body.paragraphCount++
				}
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth--
				if tableDepth == 0 && includeTables && len(tableRows) > 0 {
					block := fmt.Sprintf("[Table %d]\n%s", body.tableCount, strings.Join(tableRows, "\n"))
					body.blocks = append(body.blocks, block)
				}
			case "tr":
				if row := strings.TrimSpace(strings.Join(rowCells, " | ")); row != "" {
					tableRows = append(tableRows, row)
				}
			case "tc":
				rowCells = append(rowCells, strings.TrimSpace(cell.String()))
			case "p":
				if tableDepth == 0 {
					if text := strings.TrimSpace(paragraph.String()); text != "" {
						body.blocks = append(body.blocks, text)
					}
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if !inText {
				continue
			}
			if tableDepth > 0 {
				cell.Write(t)
			} else {
				paragraph.Write(t)
			}
		}
	}

	return body, nil
}

// docxCoreProperties holds the subset of docProps/core.xml fields surfaced
// as metadata. Field names match the Dublin Core local names.
type docxCoreProperties struct {
	Title    string `xml:"title"`
	Subject  string `xml:"subject"`
	Creator  string `xml:"creator"`
	Keywords string `xml:"keywords"`
}

// readCoreProperties parses docProps/core.xml. The part is optional, so
// any failure just yields empty properties.
func readCoreProperties(archive *zip.Reader) docxCoreProperties {
	var props docxCoreProperties

	rc, err := openArchiveFile(archive, "docProps/core.xml")
	if err != nil {
		return props
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return props
	}
	_ = xml.Unmarshal(data, &props)
	return props
}

func openArchiveFile(archive *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range archive.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}
