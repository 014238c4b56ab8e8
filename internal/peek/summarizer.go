// Package peek wires the pipeline together: read a file, parse it, extract
// its structure, and render the report. It also runs batches of files and
// caches extraction results for repeated runs.
package peek

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gobwas/glob"
	"github.com/maypok86/otter"
	"golang.org/x/sync/errgroup"

	"pyglance/internal/extract"
	"pyglance/internal/report"
	"pyglance/internal/syntax"
)

// cacheCapacity bounds the number of extracted modules kept around for watch
// mode and repeated batch runs.
const cacheCapacity = 1024

// Options configures one summarizer.
type Options struct {
	// Verbose renders conditional statements under their owning function.
	Verbose bool

	// JSON renders the model as JSON instead of the text report.
	JSON bool

	// Color enables ANSI styling in the text report.
	Color bool

	// Exclude holds glob patterns; matching files are dropped from batch
	// and directory expansion.
	Exclude []string

	// Jobs bounds batch parallelism. Zero means GOMAXPROCS.
	Jobs int
}

// Summarizer produces structural reports for Python files. Each file is an
// independent unit of work; the only shared state is the extraction cache,
// which is safe for concurrent use.
type Summarizer struct {
	opts     Options
	renderer *report.Renderer
	exclude  []glob.Glob
	cache    otter.Cache[string, *extract.Module]
	log      *slog.Logger
}

// New creates a summarizer. Exclude patterns are compiled eagerly so a bad
// pattern fails the run up front instead of silently matching nothing.
func New(opts Options, logger *slog.Logger) (*Summarizer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var exclude []glob.Glob
	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", pattern, err)
		}
		exclude = append(exclude, g)
	}

	cache, err := otter.MustBuilder[string, *extract.Module](cacheCapacity).Build()
	if err != nil {
		return nil, fmt.Errorf("building extraction cache: %w", err)
	}

	return &Summarizer{
		opts:     opts,
		renderer: report.NewRenderer(report.Options{Verbose: opts.Verbose, Color: opts.Color}),
		exclude:  exclude,
		cache:    cache,
		log:      logger,
	}, nil
}

// Close releases the extraction cache.
func (s *Summarizer) Close() {
	s.cache.Close()
}

// File runs the whole pipeline for one file and returns the rendered report.
// Unreadable, non-Python, empty, and syntactically broken inputs all fail
// with syntax.ErrParseUnavailable so callers can skip them uniformly.
func (s *Summarizer) File(path string) (string, error) {
	mod, err := s.module(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if s.opts.JSON {
		if err := report.WriteJSON(&buf, mod); err != nil {
			return "", err
		}
	} else {
		s.renderer.Write(&buf, mod)
	}
	return buf.String(), nil
}

// module parses and extracts one file, going through the cache. The cache
// key includes size and mtime so edits invalidate naturally. Presentation
// options are not part of the key: the cached value is the model, and
// verbosity is applied at render time.
func (s *Summarizer) module(path string) (*extract.Module, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", syntax.ErrParseUnavailable, err)
	}

	key := fmt.Sprintf("%s|%d|%d", path, info.ModTime().UnixNano(), info.Size())
	if mod, ok := s.cache.Get(key); ok {
		return mod, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", syntax.ErrParseUnavailable, err)
	}

	tree, err := syntax.Parse(path, source)
	if err != nil {
		return nil, err
	}

	mod := extract.Extract(tree)
	s.cache.Set(key, mod)
	return mod, nil
}

// Run summarizes every file named by paths, expanding directories, in input
// order. Files are processed in parallel but reports are written in order,
// separated by a blank line. Files that cannot be parsed are logged and
// skipped. Run returns the number of files summarized.
func (s *Summarizer) Run(ctx context.Context, paths []string, w io.Writer) (int, error) {
	files, err := s.Expand(paths)
	if err != nil {
		return 0, err
	}

	jobs := s.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	type result struct {
		text string
		err  error
	}
	results := make([]result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := s.File(file)
			results[i] = result{text: text, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	count := 0
	for i, res := range results {
		if res.err != nil {
			if errors.Is(res.err, syntax.ErrParseUnavailable) {
				s.log.Warn("skipping file", "path", files[i], "reason", res.err)
				continue
			}
			return count, res.err
		}
		if count > 0 {
			fmt.Fprintln(w)
		}
		io.WriteString(w, res.text)
		count++
	}
	return count, nil
}

// Expand resolves the given paths into a flat, deduplicated file list in
// input order. Directories are walked for .py files; explicit file arguments
// are kept as-is and left for the parser's capability check. Excluded paths
// are dropped either way.
func (s *Summarizer) Expand(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if seen[path] || s.excluded(path) {
			return
		}
		seen[path] = true
		files = append(files, path)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			// Missing files flow through so the run reports a skip
			// notice rather than aborting.
			add(path)
			continue
		}
		walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if s.excluded(p) && p != path {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(p, ".py") {
				add(p)
			}
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walking %s: %w", path, walkErr)
		}
	}
	return files, nil
}

// excluded matches a path against the exclude patterns, on both the full
// slash path and the base name.
func (s *Summarizer) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, g := range s.exclude {
		if g.Match(slashed) || g.Match(base) {
			return true
		}
	}
	return false
}
