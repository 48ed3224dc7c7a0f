package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/nguyentantai21042004/meeting-digest/internal/config"
	"github.com/nguyentantai21042004/meeting-digest/internal/llm"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/internal/processor"
	"github.com/nguyentantai21042004/meeting-digest/internal/store/sqlite"
	"github.com/nguyentantai21042004/meeting-digest/internal/transcript"
	"github.com/nguyentantai21042004/meeting-digest/internal/watcher"
	"github.com/nguyentantai21042004/meeting-digest/pkg/executor"
)

// Run modes.
const (
	modeWatch  = "watch"
	modeFile   = "file"
	modeLocal  = "local"
	modeAPI    = "api"
	modeSQLite = "sqlite"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	mode := flag.String("mode", modeWatch, "run mode: watch, file, local, api or sqlite")
	input := flag.String("input", "", "transcript file to digest in file mode")
	importDir := flag.String("import", "", "directory of .txt transcripts to import before an sqlite sweep")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Digest")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Mode: %s", *mode)
	log.Info(ctx, "Model backend: %s", cfg.Model.Backend)
	log.Info(ctx, "Part lengths: %v, modes: %v", cfg.Summary.PartLengths, cfg.Summary.Modes)
	log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	exec := executor.New()
	if cfg.Model.Command.Dir != "" {
		exec = executor.NewInDir(cfg.Model.Command.Dir)
	}

	model, err := llm.New(cfg.Model, exec, log)
	if err != nil {
		log.Error(ctx, "Failed to create model: %v", err)
		os.Exit(1)
	}
	proc := processor.New(cfg, model, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info(ctx, "Shutdown signal received")
		cancel()
	}()

	switch *mode {
	case modeWatch:
		err = runWatch(ctx, cfg, proc, log)
	case modeFile:
		if *input == "" {
			err = errors.New("-input is required in file mode")
			break
		}
		err = proc.Process(ctx, *input)
	case modeLocal:
		err = runSweep(ctx, proc, transcript.NewLocal(cfg.Paths.Input, cfg.Paths.Output, cfg.Output.Format), log)
	case modeAPI:
		err = runAPI(ctx, cfg, proc, log)
	case modeSQLite:
		err = runSQLite(ctx, cfg, proc, *importDir, log)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "Meeting Digest failed: %v", err)
		os.Exit(1)
	}
	log.Info(ctx, "Meeting Digest stopped")
}

func runWatch(ctx context.Context, cfg *config.Config, proc processor.Processor, log logger.Logger) error {
	w, err := watcher.New(cfg.Paths.Input, proc.Process, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Digest is ready!")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	return w.Start(ctx)
}

func runAPI(ctx context.Context, cfg *config.Config, proc processor.Processor, log logger.Logger) error {
	if cfg.Source.API.BaseURL == "" {
		return errors.New("source.api.base_url is required in api mode")
	}
	token := os.Getenv(cfg.Source.API.TokenEnv)
	if token == "" {
		return fmt.Errorf("%s is not set", cfg.Source.API.TokenEnv)
	}

	client := transcript.NewAPIClient(cfg.Source.API, token, log)
	return runSweep(ctx, proc, client, log)
}

func runSQLite(ctx context.Context, cfg *config.Config, proc processor.Processor, importDir string, log logger.Logger) error {
	store, err := sqlite.Open(cfg.Source.SQLite.Path, cfg.Source.API.RawKey)
	if err != nil {
		return err
	}
	defer store.Close()

	if importDir != "" {
		records, err := transcript.NewLocal(importDir, "", cfg.Output.Format).List(ctx, "")
		if err != nil {
			return err
		}
		for _, r := range records {
			if err := store.Import(ctx, r); err != nil {
				return fmt.Errorf("import %s: %w", r.TranscriptID, err)
			}
		}
		log.Info(ctx, "Imported %d transcript(s) from %s", len(records), importDir)
	}

	return runSweep(ctx, proc, store, log)
}

type sourceSink interface {
	transcript.Source
	transcript.Sink
}

func runSweep(ctx context.Context, proc processor.Processor, store sourceSink, log logger.Logger) error {
	stats, err := proc.Sweep(ctx, store, store)
	if err != nil {
		return err
	}
	for _, f := range stats.Failures {
		log.Warn(ctx, "Not summarized: %s (%s): %v", f.TranscriptID, f.SummaryKey, f.Err)
	}
	return nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		filepath.Dir(cfg.Source.SQLite.Path),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
