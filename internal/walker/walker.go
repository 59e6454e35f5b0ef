// Package walker enumerates a project tree and runs every recognized file
// through extraction, aggregating the results into one ProjectAnalysis.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"
	"github.com/schollz/progressbar/v3"

	"github.com/atlasview/codeatlas/internal/cache"
	"github.com/atlasview/codeatlas/internal/extract"
	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
	"github.com/atlasview/codeatlas/internal/reader"
)

// excludedDirs are directory names never descended into: VCS metadata,
// dependency trees, and build or cache output.
var excludedDirs = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	"node_modules": true, "vendor": true, "bower_components": true,
	"__pycache__": true, ".mypy_cache": true, ".pytest_cache": true,
	".tox": true, ".venv": true, "venv": true, "env": true,
	"build": true, "dist": true, "target": true, "out": true,
	".idea": true, ".vscode": true, ".cache": true, ".next": true,
}

// Options configures one analysis run.
type Options struct {
	Limits   guard.Limits
	Excludes []string // extra exclude patterns, matched against slash paths relative to root
	Progress bool
}

// Walker drives per-file analysis over a tree. The cache is optional; a
// nil store disables caching without changing any other behavior.
type Walker struct {
	opts       Options
	dispatcher *extract.Dispatcher
	recovery   *extract.Recovery
	reader     *reader.Reader
	store      *cache.Store
	excludes   []glob.Glob
	logger     *log.Logger
}

// New creates a Walker. Invalid exclude patterns are rejected up front so a
// typo never silently disables filtering mid-run.
func New(opts Options, store *cache.Store, logger *log.Logger) (*Walker, error) {
	globs := make([]glob.Glob, 0, len(opts.Excludes))
	for _, pattern := range opts.Excludes {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	dispatcher := extract.NewDispatcher(opts.Limits)
	return &Walker{
		opts:       opts,
		dispatcher: dispatcher,
		recovery:   extract.NewRecovery(dispatcher, logger),
		reader:     reader.New(opts.Limits, logger),
		store:      store,
		excludes:   globs,
		logger:     logger,
	}, nil
}

// Analyze walks root and returns the aggregate structural model. The run
// always completes: per-file failures land in the error list, and hitting
// the file ceiling stops enumeration gracefully. Only a bad root is fatal.
func (w *Walker) Analyze(ctx context.Context, root string) (*model.ProjectAnalysis, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("analysis root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("analysis root %s is not a directory", root)
	}

	paths, truncated := w.discover(root)

	var bar *progressbar.ProgressBar
	if w.opts.Progress {
		bar = progressbar.Default(int64(len(paths)), "analyzing")
	}

	pa := &model.ProjectAnalysis{
		Root:      root,
		Files:     make(map[string]*model.FileAnalysis, len(paths)),
		Languages: make(map[string]*model.LanguageStats),
		Errors:    []string{},
	}
	if truncated {
		pa.Errors = append(pa.Errors,
			fmt.Sprintf("file limit of %d reached; remaining files were not analyzed", w.opts.Limits.MaxFiles))
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			pa.Errors = append(pa.Errors, "run canceled: "+err.Error())
			break
		}
		w.analyzeFile(ctx, root, path, pa)
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}
	return pa, nil
}

// discover enumerates candidate files in filesystem order, stopping at the
// file ceiling. The returned bool reports whether enumeration was cut off.
func (w *Walker) discover(root string) ([]string, bool) {
	recognized := w.dispatcher.Extensions()
	var paths []string
	truncated := false

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Debug("walk error", "path", path, "err", err)
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root && (excludedDirs[d.Name()] || w.excluded(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !recognized[strings.ToLower(filepath.Ext(path))] || w.excluded(rel) {
			return nil
		}
		if len(paths) >= w.opts.Limits.MaxFiles {
			truncated = true
			return filepath.SkipAll
		}
		paths = append(paths, path)
		return nil
	})
	return paths, truncated
}

func (w *Walker) excluded(rel string) bool {
	for _, g := range w.excludes {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// analyzeFile runs one file through the per-file state machine: validate,
// check cache, read, dispatch with recovery, store, aggregate.
func (w *Walker) analyzeFile(ctx context.Context, root, path string, pa *model.ProjectAnalysis) {
	canonical, err := guard.ValidatePath(root, path)
	if err != nil {
		w.skip(pa, path, err)
		return
	}

	info, err := os.Stat(canonical)
	if err != nil {
		w.skip(pa, path, err)
		return
	}
	if maxBytes := int64(w.opts.Limits.MaxWalkFileSizeMB) * 1024 * 1024; info.Size() > maxBytes {
		w.skip(pa, path, fmt.Errorf("file exceeds %dMB size limit", w.opts.Limits.MaxWalkFileSizeMB))
		return
	}

	var key string
	if w.store != nil {
		key = cache.Key(canonical, info.ModTime(), info.Size())
		if fa := w.store.Get(key); fa != nil {
			pa.CacheHits++
			w.record(pa, path, fa)
			return
		}
	}

	ex := w.dispatcher.ForFile(canonical)
	if ex == nil {
		pa.Skipped++
		return
	}

	content, ok := w.reader.Read(canonical)
	if !ok {
		w.skip(pa, path, fmt.Errorf("unreadable source file"))
		return
	}

	fa := w.recovery.Run(ctx, ex, path, content)
	if w.store != nil && fa.Error == "" {
		w.store.Put(key, fa)
	}
	w.record(pa, path, fa)
}

func (w *Walker) skip(pa *model.ProjectAnalysis, path string, cause error) {
	pa.Skipped++
	pa.Errors = append(pa.Errors, fmt.Sprintf("%s: %v", path, cause))
	w.logger.Debug("skipping file", "path", path, "cause", cause)
}

// record folds one FileAnalysis into the aggregate counters.
func (w *Walker) record(pa *model.ProjectAnalysis, path string, fa *model.FileAnalysis) {
	pa.Paths = append(pa.Paths, path)
	pa.Files[path] = fa
	pa.TotalFiles++

	stats := pa.Languages[fa.Language]
	if stats == nil {
		stats = &model.LanguageStats{}
		pa.Languages[fa.Language] = stats
	}
	stats.Files++
	stats.Types += len(fa.Symbols.Types)
	stats.Callables += len(fa.Symbols.Callables)

	pa.TotalTypes += len(fa.Symbols.Types)
	pa.TotalCallables += len(fa.Symbols.Callables)
	if fa.Error == "" {
		pa.Successful++
	} else {
		pa.Failed++
		pa.Errors = append(pa.Errors, fmt.Sprintf("%s: %s", path, fa.Error))
	}
}
