package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codeatlas/codeatlas/internal/parser"
)

// Diagnostic records a recovered per-file failure. Diagnostics never abort
// the batch; they are carried alongside the results.
type Diagnostic struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ProgressReporter receives parse progress callbacks.
type ProgressReporter interface {
	OnParseStart(totalFiles int)
	OnFileParsed(relPath string)
	OnParseComplete(parsed int, duration time.Duration)
}

// NoOpProgressReporter ignores all progress events. Library callers that
// do not render progress pass this.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnParseStart(int)                   {}
func (NoOpProgressReporter) OnFileParsed(string)                {}
func (NoOpProgressReporter) OnParseComplete(int, time.Duration) {}

// Orchestrator fans parsing out over the discovered file set. Each file's
// parse is independent and produces an immutable ParsedFile; results are
// written exactly once into per-file slots and folded into the shared map
// only after every parse completes, so no shared mutable state is touched
// during an individual parse.
type Orchestrator struct {
	rootDir  string
	adapter  *parser.Adapter
	workers  int
	progress ProgressReporter
}

// NewOrchestrator creates an Orchestrator parsing files under rootDir.
// workers <= 0 defaults to the number of CPUs.
func NewOrchestrator(rootDir string, adapter *parser.Adapter, workers int, progress ProgressReporter) *Orchestrator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if progress == nil {
		progress = NoOpProgressReporter{}
	}

	return &Orchestrator{
		rootDir:  rootDir,
		adapter:  adapter,
		workers:  workers,
		progress: progress,
	}
}

// ParseAll parses every file concurrently and returns the results keyed by
// slash-normalized relative path.
//
// An unreadable file is skipped entirely with a diagnostic; a file that
// reads but fails to parse still appears in the map with empty elements
// and imports. Only context cancellation returns an error, in which case
// the partial results are discarded.
func (o *Orchestrator) ParseAll(ctx context.Context, relPaths []string) (map[string]*parser.ParsedFile, []Diagnostic, error) {
	start := time.Now()
	o.progress.OnParseStart(len(relPaths))

	results := make([]*parser.ParsedFile, len(relPaths))
	failures := make([]*Diagnostic, len(relPaths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i, relPath := range relPaths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			absPath := filepath.Join(o.rootDir, filepath.FromSlash(relPath))
			content, err := os.ReadFile(absPath)
			if err != nil {
				failures[i] = &Diagnostic{Path: relPath, Message: err.Error()}
				return nil
			}

			lang := parser.ClassifyPath(relPath)
			elements, imports := o.adapter.Parse(ctx, absPath, content, lang)

			results[i] = &parser.ParsedFile{
				RelativePath: relPath,
				Language:     lang,
				SizeBytes:    int64(len(content)),
				Elements:     elements,
				Imports:      imports,
			}
			o.progress.OnFileParsed(relPath)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	files := make(map[string]*parser.ParsedFile, len(relPaths))
	diagnostics := []Diagnostic{}
	for i, result := range results {
		if result != nil {
			files[result.RelativePath] = result
		}
		if failures[i] != nil {
			diagnostics = append(diagnostics, *failures[i])
		}
	}

	o.progress.OnParseComplete(len(files), time.Since(start))
	return files, diagnostics, nil
}
