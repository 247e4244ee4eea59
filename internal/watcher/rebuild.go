package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/conneroisu/tackweld/internal/build"
	"github.com/conneroisu/tackweld/internal/logging"
	"github.com/conneroisu/tackweld/internal/scanner"
)

// Rebuilder runs a full extraction for every batch of changes. Runs never
// overlap.
type Rebuilder struct {
	opts   build.Options
	logger logging.Logger
	mutex  sync.Mutex
	runs   int
}

// NewRebuilder creates a rebuilder for opts. A nil logger discards output.
func NewRebuilder(opts build.Options, logger logging.Logger) *Rebuilder {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Rebuilder{opts: opts, logger: logger}
}

// Rebuild runs one extraction.
func (r *Rebuilder) Rebuild(ctx context.Context) (*build.Result, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.runs++
	return build.Extract(ctx, r.opts, r.logger)
}

// Handle is a Handler that rebuilds once per batch.
func (r *Rebuilder) Handle(ctx context.Context, changes []Change) error {
	r.logger.Info(ctx, "Sources changed, re-extracting", "changes", len(changes))
	_, err := r.Rebuild(ctx)
	return err
}

// Runs returns how many extractions have started.
func (r *Rebuilder) Runs() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.runs
}

// Config drives Watch.
type Config struct {
	Options  build.Options
	Debounce time.Duration
	// Ignore lists directory or file names never watched, such as ".git".
	Ignore []string
}

// Watch extracts once, then re-extracts on every relevant change below the
// root until ctx is done. Failed extractions are logged and watching
// continues; only setup failures are returned.
func Watch(ctx context.Context, cfg Config, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if err := cfg.Options.Validate(); err != nil {
		return err
	}

	matcher, err := scanner.CompileMatcher(cfg.Options.Patterns)
	if err != nil {
		return err
	}

	rebuilder := NewRebuilder(cfg.Options, logger)
	if _, err := rebuilder.Rebuild(ctx); err != nil {
		logger.Error(ctx, err, "Initial extraction failed")
	}

	w, err := New(cfg.Debounce, logger)
	if err != nil {
		return err
	}
	defer w.Stop()

	keepDir := All(IgnoreFilter(cfg.Ignore), ExcludeDirFilter(cfg.Options.OutDir))
	w.SetDirFilter(keepDir)
	w.AddFilter(keepDir)
	w.AddFilter(PatternFilter(cfg.Options.Root, matcher))
	w.AddHandler(rebuilder.Handle)

	if err := w.AddRecursive(cfg.Options.Root); err != nil {
		return err
	}

	if err := w.Start(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "Watching for changes", "root", cfg.Options.Root, "patterns", cfg.Options.Patterns)
	<-ctx.Done()
	logger.Info(ctx, "Stopped watching")

	return nil
}
