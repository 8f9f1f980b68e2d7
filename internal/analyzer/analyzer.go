package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/codeatlas/codeatlas/internal/depgraph"
	"github.com/codeatlas/codeatlas/internal/parser"
)

// Cycle-detection algorithm selectors.
const (
	CycleAlgorithmDFS = "dfs" // single-pass DFS
	CycleAlgorithmSCC = "scc" // Tarjan strongly-connected components
)

// Options configures an Analyzer.
type Options struct {
	IgnorePatterns   []string
	Extensions       []string
	MaxFileSizeBytes int64
	Workers          int
	CycleAlgorithm   string // CycleAlgorithmDFS (default) or CycleAlgorithmSCC
	Adapter          *parser.Adapter
	Progress         ProgressReporter
}

// Result is the immutable outcome of one analysis.
type Result struct {
	Repo        string                        `json:"repo,omitempty"` // repository locator, when cloned
	Root        string                        `json:"root"`           // analyzed root directory
	Files       map[string]*parser.ParsedFile `json:"files"`
	Tree        *TreeNode                     `json:"tree"`
	Graph       depgraph.Graph                `json:"graph"`
	Analysis    *depgraph.Analysis            `json:"analysis"`
	Diagnostics []Diagnostic                  `json:"diagnostics"`
	StartedAt   time.Time                     `json:"started_at"`
	Duration    time.Duration                 `json:"duration"`
}

// Analyzer runs the full pipeline over a local source tree: discover,
// parse, assemble the tree, build the dependency graph, and compute
// analytics and cycles. It only ever reads beneath the root it is given;
// acquiring and cleaning up cloned repositories belongs to the caller.
type Analyzer struct {
	opts Options
}

// New creates an Analyzer. A nil-adapter Options gets a default adapter.
func New(opts Options) *Analyzer {
	if opts.Adapter == nil {
		opts.Adapter = parser.NewAdapter()
	}
	if opts.Progress == nil {
		opts.Progress = NoOpProgressReporter{}
	}
	return &Analyzer{opts: opts}
}

// AnalyzePath analyzes the source tree rooted at root.
func (a *Analyzer) AnalyzePath(ctx context.Context, root string) (*Result, error) {
	start := time.Now()

	discovery, err := NewDiscovery(root, a.opts.IgnorePatterns, a.opts.Extensions, a.opts.MaxFileSizeBytes)
	if err != nil {
		return nil, fmt.Errorf("invalid discovery configuration: %w", err)
	}

	relPaths, err := discovery.Discover()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	orchestrator := NewOrchestrator(root, a.opts.Adapter, a.opts.Workers, a.opts.Progress)
	files, diagnostics, err := orchestrator.ParseAll(ctx, relPaths)
	if err != nil {
		return nil, err
	}

	// Everything past this point is single-threaded over the immutable
	// file map.
	graph := depgraph.Build(files)

	knownFiles := make([]string, 0, len(files))
	for p := range files {
		knownFiles = append(knownFiles, p)
	}
	analysis := depgraph.Analyze(graph, knownFiles)

	analysis.Cycles, err = a.detectCycles(graph)
	if err != nil {
		return nil, err
	}

	return &Result{
		Root:        root,
		Files:       files,
		Tree:        BuildTree(files),
		Graph:       graph,
		Analysis:    analysis,
		Diagnostics: diagnostics,
		StartedAt:   start,
		Duration:    time.Since(start),
	}, nil
}

func (a *Analyzer) detectCycles(graph depgraph.Graph) ([]depgraph.Cycle, error) {
	switch a.opts.CycleAlgorithm {
	case CycleAlgorithmSCC:
		cycles, err := depgraph.DetectCyclesSCC(graph)
		if err != nil {
			return nil, fmt.Errorf("cycle detection failed: %w", err)
		}
		return cycles, nil
	default:
		return depgraph.DetectCycles(graph), nil
	}
}
