// Command ragcriator ingests documents from the command line.
//
// Usage:
//
//	ragcriator read <file>                # read one file, print the document as JSON
//	ragcriator scan <dir>                 # ingest a directory tree
//	ragcriator readers                    # list registered readers and extensions
//	ragcriator version                    # show version information
//
// Both read and scan accept --config pointing at a YAML file; every
// setting can also come from RAGCRIATOR_* environment variables.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/raffll28/RAG-criator/config"
	"github.com/raffll28/RAG-criator/ingest/reader"
	"github.com/raffll28/RAG-criator/ingest/scan"
	"github.com/raffll28/RAG-criator/internal/metrics"
)

// Version information, injected at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "read":
		runRead(os.Args[2:])
	case "scan":
		runScan(os.Args[2:])
	case "readers":
		runReaders(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runRead(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	contentOnly := fs.Bool("content", false, "Print the raw content instead of JSON")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: ragcriator read [options] <file>")
		os.Exit(1)
	}

	cfg := loadConfig(*configPath)
	logger := initLogger(cfg.Log)
	defer logger.Sync()

	factory := newFactory(cfg, logger, nil)

	ctx, stop := signalContext()
	defer stop()

	doc, err := factory.Read(ctx, fs.Arg(0))
	if err != nil {
		logger.Fatal("read failed", zap.String("file", fs.Arg(0)), zap.Error(err))
	}

	if *contentOnly {
		fmt.Println(doc.Content)
		return
	}
	printJSON(doc)
}

func runScan(args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	summaryOnly := fs.Bool("summary", false, "Print counts only, not the documents")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: ragcriator scan [options] <dir>")
		os.Exit(1)
	}

	cfg := loadConfig(*configPath)
	logger := initLogger(cfg.Log)
	defer logger.Sync()

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace, prometheus.NewRegistry(), logger)
	}

	scanner := scan.New(scan.Config{
		Concurrency: cfg.Scan.Concurrency,
		Factory:     newFactory(cfg, logger, collector),
		Metrics:     collector,
		Logger:      logger,
	})

	ctx, stop := signalContext()
	defer stop()

	result, err := scanner.Scan(ctx, fs.Arg(0))
	if err != nil {
		logger.Fatal("scan failed", zap.String("dir", fs.Arg(0)), zap.Error(err))
	}

	for _, failure := range result.Failures {
		fmt.Fprintf(os.Stderr, "failed: %s: %v\n", failure.Path, failure.Err)
	}

	if *summaryOnly {
		fmt.Printf("run %s: %d documents, %d failures, %d skipped\n",
			result.RunID, len(result.Documents), len(result.Failures), result.Skipped)
		return
	}
	printJSON(result.Documents)
}

func runReaders(args []string) {
	fs := flag.NewFlagSet("readers", flag.ExitOnError)
	fs.Parse(args)

	listing := reader.Default().List()

	names := make([]string, 0, len(listing))
	for name := range listing {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%-12s", name)
		for _, ext := range listing[name] {
			fmt.Printf(" %s", ext)
		}
		fmt.Println()
	}
}

func loadConfig(path string) *config.Config {
	loader := config.NewLoader()
	if path != "" {
		loader = loader.WithConfigPath(path)
	}

	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newFactory builds a reader factory honoring the configured encoding and
// per-format settings.
func newFactory(cfg *config.Config, logger *zap.Logger, collector *metrics.Collector) *reader.Factory {
	factory := reader.NewFactory(reader.WithLogger(logger))

	var csvDelimiter rune
	if cfg.Ingest.CSV.Delimiter != "" {
		csvDelimiter = rune(cfg.Ingest.CSV.Delimiter[0])
	}

	factory.Register(func() reader.Reader {
		return reader.NewTextReader(reader.TextConfig{
			PreferredEncoding:   cfg.Ingest.PreferredEncoding,
			DisableDetection:    cfg.Ingest.DisableDetection,
			DetectionSampleSize: cfg.Ingest.DetectionSampleSize,
			DisallowEmpty:       cfg.Ingest.DisallowEmpty,
			Metrics:             collector,
			Logger:              logger,
		})
	})
	factory.Register(func() reader.Reader {
		return reader.NewPDFReader(reader.PDFConfig{Logger: logger})
	})
	factory.Register(func() reader.Reader {
		return reader.NewDOCXReader(reader.DOCXConfig{
			ExcludeTables: cfg.Ingest.DOCX.ExcludeTables,
			Logger:        logger,
		})
	})
	factory.Register(func() reader.Reader {
		return reader.NewCSVReader(reader.CSVConfig{
			Delimiter:                 csvDelimiter,
			DisableDelimiterDetection: cfg.Ingest.CSV.DisableDelimiterDetection,
			MaxRows:                   cfg.Ingest.CSV.MaxRows,
			Logger:                    logger,
		})
	})

	return factory
}

func initLogger(cfg config.LogConfig) *zap.Logger {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Format == "console",
		Encoding:         cfg.Format,
		EncoderConfig:    encoderConfig,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	var opts []zap.Option
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}

	logger, err := zapConfig.Build(opts...)
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("ragcriator %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`ragcriator - document ingestion for RAG pipelines

Usage:
  ragcriator <command> [options]

Commands:
  read      Read a single file into a document
  scan      Ingest every supported file under a directory
  readers   List registered readers and their extensions
  version   Show version information
  help      Show this help message

Options for 'read':
  --config <path>   Path to configuration file (YAML)
  --content         Print the raw content instead of JSON

Options for 'scan':
  --config <path>   Path to configuration file (YAML)
  --summary         Print counts only, not the documents

Examples:
  ragcriator read notes.txt
  ragcriator read --content report.pdf
  ragcriator scan --summary ./corpus
  ragcriator readers`)
}
