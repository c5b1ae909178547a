// Package scan implements batch ingestion of a directory tree: every file
// the reader factory can handle is read concurrently and collected into a
// single result, with per-file failures reported rather than aborting the
// whole run.
package scan

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/raffll28/RAG-criator/ingest"
	"github.com/raffll28/RAG-criator/ingest/reader"
	"github.com/raffll28/RAG-criator/internal/metrics"
)

const defaultConcurrency = 4

// Config configures a Scanner.
type Config struct {
	// Concurrency bounds how many files are read in parallel. Defaults to 4.
	Concurrency int
	// Factory resolves files to readers. Defaults to the process-wide
	// default factory.
	Factory *reader.Factory
	// Metrics records per-reader outcomes. Optional.
	Metrics *metrics.Collector
	// Logger receives progress signals. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Failure records a file that could not be ingested during a scan.
type Failure struct {
	Path string
	Err  error
}

// Result is the outcome of one scan run. Documents are ordered by source
// path for deterministic output.
type Result struct {
	// RunID tags every log line and metric of this run.
	RunID     string
	Documents []*ingest.Document
	Failures  []Failure
	// Skipped counts files with no registered reader.
	Skipped int
}

// Scanner walks a directory tree and ingests every supported file.
type Scanner struct {
	concurrency int
	factory     *reader.Factory
	metrics     *metrics.Collector
	logger      *zap.Logger
}

// New creates a Scanner with the given config.
func New(config Config) *Scanner {
	if config.Concurrency <= 0 {
		config.Concurrency = defaultConcurrency
	}
	if config.Factory == nil {
		config.Factory = reader.Default()
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &Scanner{
		concurrency: config.Concurrency,
		factory:     config.Factory,
		metrics:     config.Metrics,
		logger:      config.Logger,
	}
}

// Scan walks root and reads every supported file concurrently. A file that
// fails to read lands in Result.Failures; only walk errors and context
// cancellation abort the run.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))
	start := time.Now()

	result := &Result{RunID: runID}

	var candidates []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !s.factory.CanRead(path) {
			result.Skipped++
			return nil
		}
		candidates = append(candidates, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("scan started",
		zap.String("root", root),
		zap.Int("files", len(candidates)),
		zap.Int("skipped", result.Skipped))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, path := range candidates {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, readErr := s.readOne(gctx, path)

			mu.Lock()
			defer mu.Unlock()
			if readErr != nil {
				result.Failures = append(result.Failures, Failure{Path: path, Err: readErr})
				return nil
			}
			result.Documents = append(result.Documents, doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.Documents, func(i, j int) bool {
		return result.Documents[i].Source < result.Documents[j].Source
	})
	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].Path < result.Failures[j].Path
	})

	logger.Info("scan complete",
		zap.String("root", root),
		zap.Int("documents", len(result.Documents)),
		zap.Int("failures", len(result.Failures)),
		zap.Int("skipped", result.Skipped),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

// readOne reads a single file and records its outcome.
func (s *Scanner) readOne(ctx context.Context, path string) (*ingest.Document, error) {
	r, err := s.factory.Get(path)
	if err != nil {
		// CanRead filtered the walk, but a concurrent re-registration may
		// have removed the extension in the meantime.
		return nil, err
	}

	start := time.Now()
	doc, err := r.Read(ctx, path)
	elapsed := time.Since(start)

	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordRead(r.Name(), "error", 0, elapsed)
		}
		s.logger.Warn("file ingestion failed",
			zap.String("file", path),
			zap.String("reader", r.Name()),
			zap.Error(err))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordRead(r.Name(), "ok", int64(len(doc.Content)), elapsed)
	}
	return doc, nil
}
