// Package build runs the component extraction pipeline: scan the root for
// template sources, parse each one into a shared registry, apply the
// redefinition policy, and write one artifact per component.
//
// The pipeline is sequential. Files are parsed in the scanner's sorted order,
// so resolving a redefinition by keeping the last body is reproducible
// across platforms.
package build

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/conneroisu/tackweld/internal/errors"
	"github.com/conneroisu/tackweld/internal/logging"
	"github.com/conneroisu/tackweld/internal/parser"
	"github.com/conneroisu/tackweld/internal/registry"
	"github.com/conneroisu/tackweld/internal/scanner"
)

// Options is the explicit configuration for one extraction run.
type Options struct {
	// Root is the directory scanned for template sources.
	Root string
	// Patterns select sources by their path relative to Root.
	Patterns []string
	// OutDir receives the artifacts.
	OutDir string
	// AllowRedefinition keeps the last parsed body of a component defined
	// more than once instead of failing.
	AllowRedefinition bool
	// Prefix names artifacts as Prefix+id. Empty means DefaultPrefix.
	Prefix string
	// PreserveNewlines keeps a "\n" after every body line.
	PreserveNewlines bool
}

// Validate checks that the options can drive an extraction.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Root) == "" {
		return errors.ErrConfigInvalid("root directory is required")
	}
	if strings.TrimSpace(o.OutDir) == "" {
		return errors.ErrConfigInvalid("output directory is required")
	}
	if len(o.Patterns) == 0 {
		return errors.ErrConfigInvalid("at least one glob pattern is required")
	}
	if strings.ContainsAny(o.Prefix, `/\`) || o.Prefix == "." || o.Prefix == ".." {
		return errors.ErrConfigInvalid("artifact prefix must be a plain file name prefix: " + o.Prefix)
	}
	return nil
}

// Result summarizes an extraction run.
type Result struct {
	// Sources are the parsed template paths in scan order.
	Sources []string
	// Components are the final definitions sorted by id.
	Components []*registry.Definition
	// Conflicts lists ids defined more than once. It is only non-empty
	// when redefinition is allowed.
	Conflicts []registry.Conflict
	// Artifacts are the written files sorted by id.
	Artifacts []Artifact
}

// Extractor runs the pipeline for one set of options.
type Extractor struct {
	opts   Options
	logger logging.Logger
}

// NewExtractor creates an extractor. A nil logger discards output.
func NewExtractor(opts Options, logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Extractor{opts: opts, logger: logger.WithComponent("extract")}
}

// Collect scans and parses every source without applying the redefinition
// policy or writing anything. Read and parse failures stop at the first
// occurrence.
func (e *Extractor) Collect(ctx context.Context) (*registry.Registry, []string, error) {
	if err := e.opts.Validate(); err != nil {
		return nil, nil, err
	}

	s, err := scanner.NewScanner(e.opts.Root, e.opts.Patterns,
		scanner.WithSkipDir(e.opts.OutDir),
		scanner.WithLogger(e.logger),
	)
	if err != nil {
		return nil, nil, err
	}

	paths, err := s.Scan(ctx)
	if err != nil {
		return nil, nil, err
	}

	defs := registry.NewRegistry()
	parseOpts := parser.Options{PreserveNewlines: e.opts.PreserveNewlines}

	for _, rel := range paths {
		src, err := s.ReadSource(rel)
		if err != nil {
			return nil, nil, err
		}
		if err := parser.Parse(src, defs, parseOpts); err != nil {
			return nil, nil, err
		}
	}

	e.logger.Debug(ctx, "Parsed template sources", "sources", len(paths), "components", defs.Len())

	return defs, paths, nil
}

// Run executes the full pipeline. When redefinitions are disallowed and any
// exist, it fails with one report covering every conflict and writes nothing.
func (e *Extractor) Run(ctx context.Context) (*Result, error) {
	defs, paths, err := e.Collect(ctx)
	if err != nil {
		return nil, err
	}

	if err := defs.Check(e.opts.AllowRedefinition); err != nil {
		return nil, err
	}

	conflicts := defs.Conflicts()
	for _, c := range conflicts {
		e.logger.Warn(ctx, nil, "Component redefined, keeping last definition",
			"id", c.ID, "defined_in", strings.Join(c.DefinedIn, ","))
	}

	writer := NewWriter(e.opts.OutDir, e.opts.Prefix, e.logger)
	artifacts, err := writer.Write(ctx, defs.All())
	if err != nil {
		return nil, err
	}

	e.logger.Info(ctx, "Extracted components",
		"sources", len(paths),
		"components", len(artifacts),
		"out_dir", filepath.Clean(e.opts.OutDir))

	return &Result{
		Sources:    paths,
		Components: defs.All(),
		Conflicts:  conflicts,
		Artifacts:  artifacts,
	}, nil
}

// Extract runs the pipeline once with opts.
func Extract(ctx context.Context, opts Options, logger logging.Logger) (*Result, error) {
	return NewExtractor(opts, logger).Run(ctx)
}
