package reader

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/raffll28/RAG-criator/ingest"
)

// Builder creates a new Reader instance. The factory registers builders
// rather than fixed instances so readers stay free to be stateless values
// or per-call instances.
type Builder func() Reader

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithLogger sets the logger handed to the factory and its built-in
// readers. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) { f.logger = logger }
}

// Factory routes files to the matching Reader based on file extension.
// Registration is expected at setup time; reads may run concurrently, so
// the registry is guarded by a read-write lock.
type Factory struct {
	mu       sync.RWMutex
	registry map[string]Builder // extension (lower-case, with dot) -> builder
	names    map[string]string  // extension -> reader name, for List
	logger   *zap.Logger
}

// NewFactory creates a factory pre-populated with the built-in readers.
// Registration order matters for overlapping extensions: the CSVReader
// registers after the TextReader and therefore owns .csv and .tsv.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		registry: make(map[string]Builder),
		names:    make(map[string]string),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	logger := f.logger
	builtins := []Builder{
		func() Reader { return NewTextReader(TextConfig{Logger: logger}) },
		func() Reader { return NewPDFReader(PDFConfig{Logger: logger}) },
		func() Reader { return NewDOCXReader(DOCXConfig{Logger: logger}) },
		func() Reader { return NewCSVReader(CSVConfig{Logger: logger}) },
	}
	for _, b := range builtins {
		f.Register(b)
	}
	return f
}

// Register adds a reader builder, one registry entry per supported
// extension. Re-registering an already-held extension silently overwrites:
// the last registration wins.
func (f *Factory) Register(builder Builder) {
	instance := builder()
	name := instance.Name()

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ext := range instance.SupportedExtensions() {
		key := normalizeExtension(ext)
		if prev, held := f.names[key]; held && prev != name {
			f.logger.Debug("reader registration overrides previous",
				zap.String("extension", key),
				zap.String("previous", prev),
				zap.String("reader", name))
		}
		f.registry[key] = builder
		f.names[key] = name
	}
}

// CanRead reports whether a reader is registered for the path's extension.
func (f *Factory) CanRead(path string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.registry[extensionOf(path)]
	return ok
}

// Get resolves the reader for the path's extension. Fails with
// *ingest.UnsupportedFormatError when no reader is registered for it.
func (f *Factory) Get(path string) (Reader, error) {
	ext := extensionOf(path)

	f.mu.RLock()
	builder, ok := f.registry[ext]
	f.mu.RUnlock()

	if !ok {
		return nil, &ingest.UnsupportedFormatError{
			Extension: ext,
			Supported: f.SupportedExtensions(),
		}
	}
	return builder(), nil
}

// Read resolves the reader for path and delegates to it. Reader errors
// propagate unchanged.
func (f *Factory) Read(ctx context.Context, path string) (*ingest.Document, error) {
	r, err := f.Get(path)
	if err != nil {
		return nil, err
	}
	return r.Read(ctx, path)
}

// SupportedExtensions returns all registered extensions, sorted.
func (f *Factory) SupportedExtensions() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	exts := make([]string, 0, len(f.registry))
	for ext := range f.registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// List groups the registered extensions by reader name for display.
func (f *Factory) List() map[string][]string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make(map[string][]string)
	for ext, name := range f.names {
		out[name] = append(out[name], ext)
	}
	for name := range out {
		sort.Strings(out[name])
	}
	return out
}

func extensionOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

var (
	defaultFactory     *Factory
	defaultFactoryOnce sync.Once
)

// Default returns the process-wide factory, lazily constructed on first
// access with all built-in readers and never reset for the lifetime of the
// process.
func Default() *Factory {
	defaultFactoryOnce.Do(func() {
		defaultFactory = NewFactory()
	})
	return defaultFactory
}

// ReadFile reads a file through the process-wide default factory.
func ReadFile(ctx context.Context, path string) (*ingest.Document, error) {
	return Default().Read(ctx, path)
}
