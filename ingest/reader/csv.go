package reader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/raffll28/RAG-criator/ingest"
)

const (
	defaultCSVMaxRows   = 1000
	delimiterSampleSize = 4096
	defaultCSVDelimiter = ','
	defaultTSVDelimiter = '\t'
)

// delimiterCandidates are scored during auto-detection, most common first.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// CSVConfig configures the CSVReader.
type CSVConfig struct {
	// Delimiter is the field separator used when detection is disabled or
	// inconclusive. Defaults to ',' (or '\t' for .tsv files).
	Delimiter rune
	// DisableDelimiterDetection turns off delimiter sniffing.
	DisableDelimiterDetection bool
	// MaxRows caps how many rows are read, bounding very large files.
	// Defaults to 1000.
	MaxRows int
	// Logger receives debug/warn signals. Defaults to a no-op logger.
	Logger *zap.Logger
}

// CSVReader extracts CSV/TSV files into a readable text rendering with
// tabular metadata (row/column counts, headers). It registers after the
// TextReader in the default factory, so it owns the .csv and .tsv keys.
type CSVReader struct {
	base
	delimiter       rune
	detectDelimiter bool
	maxRows         int
	logger          *zap.Logger
}

// NewCSVReader creates a CSVReader with the given config.
func NewCSVReader(config CSVConfig) *CSVReader {
	if config.Delimiter == 0 {
		config.Delimiter = defaultCSVDelimiter
	}
	if config.MaxRows <= 0 {
		config.MaxRows = defaultCSVMaxRows
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &CSVReader{
		base: base{
			name:       "CSVReader",
			extensions: []string{".csv", ".tsv"},
			allowEmpty: true,
		},
		delimiter:       config.Delimiter,
		detectDelimiter: !config.DisableDelimiterDetection,
		maxRows:         config.MaxRows,
		logger:          config.Logger,
	}
}

// Read extracts a CSV/TSV file into a Document.
func (r *CSVReader) Read(ctx context.Context, path string) (*ingest.Document, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	abs, info, err := r.validateFile(path)
	if err != nil {
		return nil, err
	}

	isTSV := strings.ToLower(filepath.Ext(abs)) == ".tsv"
	delimiter := r.resolveDelimiter(abs, isTSV)

	rows, err := r.readRows(abs, delimiter)
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", abs, err)
	}

	var (
		content     string
		headers     []string
		columnCount int
	)
	if len(rows) > 0 {
		headers = rows[0]
		columnCount = len(headers)
		content = renderRows(rows)
	}

	metadata := r.basicMetadata(abs, info)
	metadata["delimiter"] = string(delimiter)
	metadata["encoding"] = defaultPreferredEncoding
	metadata["rows_count"] = len(rows)
	metadata["columns_count"] = columnCount
	metadata["headers"] = headers
	metadata["is_tsv"] = isTSV

	r.logger.Debug("csv file read",
		zap.String("file", abs),
		zap.Int("rows", len(rows)),
		zap.Int("columns", columnCount))

	return r.finish(content, metadata, abs)
}

// resolveDelimiter sniffs the delimiter from a leading sample, falling back
// to the configured default when detection is off or inconclusive.
func (r *CSVReader) resolveDelimiter(path string, isTSV bool) rune {
	fallback := r.delimiter
	if isTSV && fallback == defaultCSVDelimiter {
		fallback = defaultTSVDelimiter
	}
	if !r.detectDelimiter {
		return fallback
	}

	f, err := os.Open(path)
	if err != nil {
		return fallback
	}
	defer f.Close()

	sample := make([]byte, delimiterSampleSize)
	n, _ := f.Read(sample)
	detected := sniffDelimiter(string(sample[:n]))
	if detected == 0 {
		r.logger.Debug("delimiter detection inconclusive, using default",
			zap.String("file", path),
			zap.String("delimiter", string(fallback)))
		return fallback
	}
	return detected
}

// sniffDelimiter picks the candidate that appears a consistent, non-zero
// number of times on each sampled line. Returns 0 when nothing matches.
func sniffDelimiter(sample string) rune {
	lines := strings.Split(sample, "\n")
	if len(lines) > 1 {
		// The last line of the sample is likely truncated mid-row.
		lines = lines[:len(lines)-1]
	}

	for _, candidate := range delimiterCandidates {
		count := -1
		consistent := true
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			n := strings.Count(line, string(candidate))
			if n == 0 {
				consistent = false
				break
			}
			if count == -1 {
				count = n
			} else if n != count {
				consistent = false
				break
			}
		}
		if consistent && count > 0 {
			return candidate
		}
	}
	return 0
}

// readRows reads up to maxRows records from the file.
func (r *CSVReader) readRows(path string, delimiter rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	var rows [][]string
	for len(rows) < r.maxRows {
		record, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// renderRows formats the parsed rows as readable text: the header line,
// a separator, then one pipe-joined line per data row.
func renderRows(rows [][]string) string {
	var b strings.Builder
	for i, row := range rows {
		b.WriteString(strings.Join(row, " | "))
		b.WriteString("\n")
		if i == 0 {
			b.WriteString(strings.Repeat("-", len(strings.Join(row, " | "))))
			b.WriteString("\n")
		}
	}
	return b.String()
}
