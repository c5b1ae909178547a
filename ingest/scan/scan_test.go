package scan

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raffll28/RAG-criator/internal/metrics"
)

// writeTree lays out the given files under a fresh temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// ============================================================
// Scanner Tests
// ============================================================

func TestScanner_Scan_CollectsSupportedFiles(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"a.txt":        "alpha",
		"sub/b.md":     "# beta",
		"sub/c.csv":    "col\nval\n",
		"ignored.png":  "binarydata",
		"sub/skip.bin": "binarydata",
	})

	s := New(Config{})
	result, err := s.Scan(context.Background(), root)

	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Len(t, result.Documents, 3)
	assert.Empty(t, result.Failures)
	assert.Equal(t, 2, result.Skipped)
}

func TestScanner_Scan_DocumentsSortedBySource(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"z.txt": "last",
		"a.txt": "first",
		"m.txt": "middle",
	})

	s := New(Config{Concurrency: 3})
	result, err := s.Scan(context.Background(), root)

	require.NoError(t, err)
	require.Len(t, result.Documents, 3)

	sources := make([]string, len(result.Documents))
	for i, doc := range result.Documents {
		sources[i] = doc.Source
	}
	assert.True(t, sort.StringsAreSorted(sources))
	assert.Equal(t, "first", result.Documents[0].Content)
	assert.Equal(t, "last", result.Documents[2].Content)
}

func TestScanner_Scan_FailuresDoNotAbort(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"good.txt":    "fine",
		"corrupt.pdf": "%PDF-1.4 not really a pdf",
	})

	s := New(Config{})
	result, err := s.Scan(context.Background(), root)

	require.NoError(t, err)
	assert.Len(t, result.Documents, 1)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0].Path, "corrupt.pdf")
	assert.Error(t, result.Failures[0].Err)
}

func TestScanner_Scan_EmptyDirectory(t *testing.T) {
	t.Parallel()

	s := New(Config{})
	result, err := s.Scan(context.Background(), t.TempDir())

	require.NoError(t, err)
	assert.Empty(t, result.Documents)
	assert.Empty(t, result.Failures)
	assert.Zero(t, result.Skipped)
}

func TestScanner_Scan_MissingRoot(t *testing.T) {
	t.Parallel()

	s := New(Config{})
	_, err := s.Scan(context.Background(), "/nonexistent/root")

	assert.Error(t, err)
}

func TestScanner_Scan_CancelledContext(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"a.txt": "alpha", "b.txt": "beta"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(Config{})
	_, err := s.Scan(ctx, root)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanner_Scan_WithMetrics(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"a.txt":       "alpha",
		"corrupt.pdf": "broken",
	})

	collector := metrics.NewCollector("test_scan", prometheus.NewRegistry(), nil)
	s := New(Config{Metrics: collector})

	result, err := s.Scan(context.Background(), root)

	require.NoError(t, err)
	assert.Len(t, result.Documents, 1)
	assert.Len(t, result.Failures, 1)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	s := New(Config{})

	assert.Equal(t, defaultConcurrency, s.concurrency)
	assert.NotNil(t, s.factory)
	assert.NotNil(t, s.logger)
}
