package packlens

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"packlens/internal/cache"
	"packlens/internal/checker"
	"packlens/internal/config"
	"packlens/internal/parsing"
	"packlens/internal/parsing/erb"
	"packlens/internal/parsing/ruby"
	"packlens/internal/resolver"
)

// Engine orchestrates the packlens pipeline: per-file constant
// extraction (cached, parallel), resolver construction, and the
// dependency check.
type Engine struct {
	cfg    *config.Configuration
	cache  cache.Cache
	logger *slog.Logger
	walker ruby.Walker
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache supplies the per-file result cache. Defaults to the
// configuration's SQLite cache, or a no-op cache when caching is
// disabled.
func WithCache(c cache.Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithLogger attaches a logger. Skipped files and skipped syntax nodes
// are surfaced through it; without one they stay silent.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine for a loaded configuration.
func New(cfg *config.Configuration, opts ...Option) (*Engine, error) {
	e := &Engine{cfg: cfg, walker: ruby.Packwerk}
	if cfg.ExperimentalParser {
		e.walker = ruby.Experimental
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.cache == nil {
		if cfg.CacheEnabled {
			if err := os.MkdirAll(cfg.CacheDirectory, 0o755); err != nil {
				return nil, fmt.Errorf("create cache directory: %w", err)
			}
			c, err := cache.NewSQLite(filepath.Join(cfg.CacheDirectory, "packlens.db"))
			if err != nil {
				return nil, fmt.Errorf("open cache: %w", err)
			}
			e.cache = c
		} else {
			e.cache = cache.Noop{}
		}
	}
	return e, nil
}

// Close releases the Engine's cache resources.
func (e *Engine) Close() error {
	return e.cache.Close()
}

// ProcessFiles extracts constants from every given file, fanning out
// across one worker per CPU. Files are independent, so order of
// completion is irrelevant; results are keyed by path downstream. A
// file that cannot be read is reported through the logger and skipped,
// never fatal.
func (e *Engine) ProcessFiles(ctx context.Context, paths []string) ([]parsing.ProcessedFile, error) {
	var (
		mu        sync.Mutex
		processed []parsing.ProcessedFile
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pf, ok := e.processFile(ctx, path)
			if !ok {
				return nil
			}
			mu.Lock()
			processed = append(processed, pf)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return processed, nil
}

// processFile runs one file through the cache and the appropriate
// parser. Returns false when the file could not be read.
func (e *Engine) processFile(ctx context.Context, path string) (parsing.ProcessedFile, bool) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("skipping unreadable file", "path", path, "error", err)
		}
		return parsing.ProcessedFile{}, false
	}
	digest := fmt.Sprintf("%x", sha256.Sum256(contents))

	if pf, ok := e.cache.Get(path, digest); ok {
		return pf, true
	}

	var parseOpts []ruby.Option
	if e.logger != nil {
		parseOpts = append(parseOpts, ruby.WithLogger(e.logger))
	}

	var pf parsing.ProcessedFile
	if filepath.Ext(path) == ".erb" {
		pf = erb.ProcessFromContents(ctx, contents, path, e.walker, parseOpts...)
	} else {
		pf = ruby.ProcessFromContents(ctx, contents, path, e.walker, parseOpts...)
	}

	if err := e.cache.Put(path, digest, pf); err != nil && e.logger != nil {
		e.logger.Warn("cache write failed", "path", path, "error", err)
	}
	return pf, true
}

// ConstantResolver builds the resolver snapshot the configuration
// selects: the parsed-definitions resolver when the experimental
// parser is enabled, the zeitwerk path-convention resolver otherwise.
// processedFiles is only consulted by the definitions resolver.
func (e *Engine) ConstantResolver(processedFiles []parsing.ProcessedFile) resolver.ConstantResolver {
	if e.cfg.ExperimentalParser {
		return resolver.BuildDefinitionsResolver(processedFiles)
	}
	return resolver.BuildZeitwerkResolver(e.cfg.AutoloadRoots, e.cfg.IncludedFiles)
}

// Check runs the whole pipeline: process every included file, build
// the resolver, and report cross-pack dependency violations.
func (e *Engine) Check(ctx context.Context) ([]checker.Violation, error) {
	processed, err := e.ProcessFiles(ctx, e.cfg.IncludedFiles)
	if err != nil {
		return nil, err
	}
	res := e.ConstantResolver(processed)
	return checker.Check(e.cfg, processed, res), nil
}

// ListDefinitions returns every constant the active resolver knows,
// keyed by fully qualified name, with its defining file as the value.
func (e *Engine) ListDefinitions(ctx context.Context) (map[string]string, error) {
	processed, err := e.ProcessFiles(ctx, e.cfg.IncludedFiles)
	if err != nil {
		return nil, err
	}

	var constants map[string]resolver.ResolvedConstant
	switch r := e.ConstantResolver(processed).(type) {
	case *resolver.ZeitwerkResolver:
		constants = r.Constants()
	case *resolver.DefinitionsResolver:
		constants = r.Constants()
	}

	definitions := make(map[string]string, len(constants))
	for fqn, c := range constants {
		definitions[fqn] = c.AbsolutePathOfDefinition
	}
	return definitions, nil
}

// DeleteCache removes the configured cache directory entirely.
func DeleteCache(cfg *config.Configuration) error {
	if err := os.RemoveAll(cfg.CacheDirectory); err != nil {
		return fmt.Errorf("remove %s: %w", cfg.CacheDirectory, err)
	}
	return nil
}
