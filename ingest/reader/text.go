package reader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/raffll28/RAG-criator/ingest"
	"github.com/raffll28/RAG-criator/internal/metrics"
)

const (
	defaultPreferredEncoding   = "utf-8"
	defaultDetectionSampleSize = 10000

	// Detection results below this confidence (0-100) are logged as a
	// warning but still tried as the first candidate.
	detectionConfidenceThreshold = 70
)

// textFallbackEncodings is the ordered fallback list tried after the
// detected and preferred encodings.
var textFallbackEncodings = []string{"latin-1", "cp1252", "iso-8859-1", "utf-16"}

// TextConfig configures the TextReader.
type TextConfig struct {
	// PreferredEncoding is tried right after any detected encoding.
	// Defaults to "utf-8".
	PreferredEncoding string
	// DisableDetection turns off statistical encoding detection; the
	// preferred encoding then heads the candidate list.
	DisableDetection bool
	// DetectionSampleSize is the number of bytes fed to the detector.
	// Defaults to 10000.
	DetectionSampleSize int
	// DisallowEmpty makes reads of zero-length files fail with a
	// *ingest.ValidationError instead of producing an empty Document.
	DisallowEmpty bool
	// Metrics counts encoding fallbacks. Optional.
	Metrics *metrics.Collector
	// Logger receives debug/warn signals. Defaults to a no-op logger;
	// its absence never changes reader behavior.
	Logger *zap.Logger
}

// TextReader extracts content from line-oriented text formats, robust to
// unknown or misdeclared character encodings. CSV/TSV files are treated as
// raw text at this layer; the structured CSVReader overrides those
// extensions in the default factory.
type TextReader struct {
	base
	preferredEncoding string
	autoDetect        bool
	sampleSize        int
	detector          *chardet.Detector
	metrics           *metrics.Collector
	logger            *zap.Logger
}

// NewTextReader creates a TextReader with the given config.
func NewTextReader(config TextConfig) *TextReader {
	if config.PreferredEncoding == "" {
		config.PreferredEncoding = defaultPreferredEncoding
	}
	if config.DetectionSampleSize <= 0 {
		config.DetectionSampleSize = defaultDetectionSampleSize
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &TextReader{
		base: base{
			name:       "TextReader",
			extensions: []string{".txt", ".md", ".log", ".text", ".csv", ".tsv"},
			allowEmpty: !config.DisallowEmpty,
		},
		preferredEncoding: normalizeEncoding(config.PreferredEncoding),
		autoDetect:        !config.DisableDetection,
		sampleSize:        config.DetectionSampleSize,
		detector:          chardet.NewTextDetector(),
		metrics:           config.Metrics,
		logger:            config.Logger,
	}
}

// Read extracts a text file into a Document, resolving the encoding via
// detection and the fallback chain.
func (r *TextReader) Read(ctx context.Context, path string) (*ingest.Document, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	abs, info, err := r.validateFile(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", abs, err)
	}

	content, encodingName, err := r.decode(abs, data)
	if err != nil {
		return nil, err
	}

	metadata := r.basicMetadata(abs, info)
	metadata["encoding"] = encodingName

	r.logger.Debug("text file read",
		zap.String("file", abs),
		zap.String("encoding", encodingName),
		zap.Int("bytes", len(data)))

	return r.finish(content, metadata, abs)
}

// decode attempts the candidate encodings in order and returns the decoded
// content together with the name of the first encoding that succeeded.
// Individual decode failures are silent; only exhaustion of the candidate
// list surfaces as an error.
func (r *TextReader) decode(path string, data []byte) (string, string, error) {
	candidates := r.candidateEncodings(path, data)

	for i, name := range candidates {
		content, ok := decodeAs(name, data)
		if !ok {
			continue
		}
		if i > 0 {
			if r.metrics != nil {
				r.metrics.RecordEncodingFallback(name)
			}
			r.logger.Debug("encoding fallback triggered",
				zap.String("file", path),
				zap.Strings("failed", candidates[:i]),
				zap.String("encoding", name))
		}
		return content, name, nil
	}

	return "", "", &ingest.EncodingError{Path: path, Attempted: candidates}
}

// candidateEncodings builds the ordered candidate list:
// detected (if any) -> preferred -> fallback encodings, de-duplicated while
// preserving first occurrence.
func (r *TextReader) candidateEncodings(path string, data []byte) []string {
	var names []string

	if detected, ok := r.detectEncoding(path, data); ok {
		names = append(names, detected)
	}
	names = append(names, r.preferredEncoding)
	names = append(names, textFallbackEncodings...)

	return dedupeStrings(names)
}

// detectEncoding runs statistical detection over the leading sample of the
// file. Pure-ASCII samples are skipped: every candidate decodes them
// identically, so detection would only add noise.
func (r *TextReader) detectEncoding(path string, data []byte) (string, bool) {
	if !r.autoDetect || len(data) == 0 {
		return "", false
	}

	sample := data
	if len(sample) > r.sampleSize {
		sample = sample[:r.sampleSize]
	}
	if isASCII(sample) {
		return "", false
	}

	result, err := r.detector.DetectBest(sample)
	if err != nil || result == nil || result.Charset == "" {
		r.logger.Debug("encoding detection inconclusive", zap.String("file", path))
		return "", false
	}

	name := normalizeEncoding(result.Charset)
	if result.Confidence < detectionConfidenceThreshold {
		// Low-confidence guesses are kept as the first candidate anyway;
		// the fallback chain catches the ones that turn out wrong.
		r.logger.Warn("low-confidence encoding detection",
			zap.String("file", path),
			zap.String("encoding", name),
			zap.Int("confidence", result.Confidence))
	} else {
		r.logger.Debug("encoding detected",
			zap.String("file", path),
			zap.String("encoding", name),
			zap.Int("confidence", result.Confidence))
	}
	return name, true
}

// decodeAs decodes data with the named encoding. Reports false when the
// byte sequence is invalid for that encoding.
func decodeAs(name string, data []byte) (string, bool) {
	switch name {
	case "utf-8", "ascii", "us-ascii":
		if !utf8.Valid(data) {
			return "", false
		}
		return string(data), true
	case "utf-16":
		// BOM is mandatory here; it also selects the endianness.
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", false
		}
		return string(out), true
	case "utf-16le":
		return decodeUTF16(data, unicode.LittleEndian)
	case "utf-16be":
		return decodeUTF16(data, unicode.BigEndian)
	default:
		enc := lookupEncoding(name)
		if enc == nil {
			return "", false
		}
		out, err := enc.NewDecoder().Bytes(data)
		// Charmap decoders replace undefined bytes instead of failing;
		// treat a replacement rune in the output as a decode failure.
		if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
			return "", false
		}
		return string(out), true
	}
}

func decodeUTF16(data []byte, endianness unicode.Endianness) (string, bool) {
	out, err := unicode.UTF16(endianness, unicode.UseBOM).NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// lookupEncoding resolves an encoding name to a decoder, preferring the
// explicit aliases used in the fallback list and falling back to the IANA
// index for anything the detector may report.
func lookupEncoding(name string) encoding.Encoding {
	switch name {
	case "latin-1", "iso-8859-1":
		return charmap.ISO8859_1
	case "cp1252", "windows-1252":
		return charmap.Windows1252
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc
	}
	return nil
}

// normalizeEncoding lower-cases an encoding name and maps the aliases the
// detector reports onto the names used in the fallback list.
func normalizeEncoding(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "windows-1252":
		return "cp1252"
	case "utf8":
		return "utf-8"
	default:
		return name
	}
}

func dedupeStrings(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
