package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeatlas/codeatlas/internal/analyzer"
	"github.com/codeatlas/codeatlas/internal/config"
	"github.com/codeatlas/codeatlas/internal/docgen"
	"github.com/codeatlas/codeatlas/internal/git"
	"github.com/codeatlas/codeatlas/internal/history"
)

var (
	analyzeRepoURL   string
	analyzeJSON      bool
	analyzeWatch     bool
	analyzeSummaries bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a source tree and report its structure and dependencies",
	Long: `Analyze parses every supported file under the given path (or a cloned
repository when --repo is set), builds the import dependency graph, and
reports rankings, isolated files, and import cycles.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRepoURL, "repo", "", "git repository URL to clone and analyze")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full result as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeWatch, "watch", false, "re-analyze when files change (local paths only)")
	analyzeCmd.Flags().BoolVar(&analyzeSummaries, "summaries", false, "generate LLM summaries for top-ranked files (needs docgen.api_key)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if analyzeRepoURL == "" && len(args) == 0 {
		return fmt.Errorf("either a path argument or --repo is required")
	}
	if analyzeRepoURL != "" && analyzeWatch {
		return fmt.Errorf("--watch only applies to local paths")
	}

	a, err := buildAnalyzer(cfg, NewCLIProgressReporter(quiet))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := ""
	repo := ""
	if analyzeRepoURL != "" {
		cloner := git.NewCloner(cfg.Acquire.TempRepoDir, nil)
		cloned, cleanup, err := cloner.Clone(ctx, analyzeRepoURL)
		if err != nil {
			return err
		}
		defer cleanup()
		root = cloned
		repo = analyzeRepoURL
	} else {
		root = args[0]
	}

	result, err := a.AnalyzePath(ctx, root)
	if err != nil {
		return err
	}
	result.Repo = repo

	recordHistory(cfg.History.Path, result)

	if err := renderResult(ctx, cfg, result); err != nil {
		return err
	}

	if analyzeWatch {
		return watchAndReanalyze(ctx, cfg, a, root)
	}
	return nil
}

// renderResult prints one analysis result, as JSON or as the human
// summary, with optional LLM summaries appended.
func renderResult(ctx context.Context, cfg *config.Config, result *analyzer.Result) error {
	if analyzeJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	printSummary(result)

	if analyzeSummaries {
		printLLMSummaries(ctx, cfg, result)
	}
	return nil
}

func printSummary(result *analyzer.Result) {
	fmt.Printf("\nAnalyzed %d files in %s\n", len(result.Files), result.Duration.Round(time.Millisecond))
	if len(result.Diagnostics) > 0 {
		fmt.Printf("Skipped %d unreadable files\n", len(result.Diagnostics))
	}
	fmt.Printf("Dependency edges: %d\n", result.Graph.EdgeCount())

	if len(result.Analysis.MostImported) > 0 {
		fmt.Println("\nMost imported:")
		for _, rank := range result.Analysis.MostImported {
			fmt.Printf("  %4d  %s\n", rank.ImportedByCount, rank.Path)
		}
	}
	if len(result.Analysis.MostImporting) > 0 {
		fmt.Println("\nMost importing:")
		for _, rank := range result.Analysis.MostImporting {
			fmt.Printf("  %4d  %s\n", rank.ImportsCount, rank.Path)
		}
	}
	if len(result.Analysis.IsolatedFiles) > 0 {
		fmt.Printf("\nIsolated files (%d):\n", len(result.Analysis.IsolatedFiles))
		for _, path := range result.Analysis.IsolatedFiles {
			fmt.Printf("  %s\n", path)
		}
	}
	if len(result.Analysis.Cycles) > 0 {
		fmt.Printf("\nImport cycles (%d):\n", len(result.Analysis.Cycles))
		for _, cycle := range result.Analysis.Cycles {
			fmt.Printf("  %s\n", strings.Join(cycle.Files, " -> "))
		}
	} else {
		fmt.Println("\nNo import cycles detected")
	}
}

// printLLMSummaries generates and prints docgen summaries. Failures only
// warn: enrichment never fails the analysis.
func printLLMSummaries(ctx context.Context, cfg *config.Config, result *analyzer.Result) {
	if cfg.Docgen.APIKey == "" {
		log.Println("Warning: --summaries requires docgen.api_key (or CODEATLAS_DOCGEN_API_KEY)")
		return
	}

	client, err := docgen.NewClient(ctx, cfg.Docgen.APIKey, cfg.Docgen.ModelAdvanced, cfg.Docgen.ModelLite, cfg.Docgen.MaxConcurrent)
	if err != nil {
		log.Printf("Warning: docgen unavailable: %v", err)
		return
	}

	summaries := client.SummarizeTopFiles(ctx, result)
	if len(summaries) == 0 {
		return
	}

	fmt.Println("\nFile summaries:")
	for _, path := range docgen.Sorted(summaries) {
		fmt.Printf("\n%s\n  %s\n", path, summaries[path])
	}
}

// recordHistory appends the run to the history store; failures only warn.
func recordHistory(path string, result *analyzer.Result) {
	store, err := history.Open(path)
	if err != nil {
		log.Printf("Warning: history unavailable: %v", err)
		return
	}
	defer store.Close()

	_, err = store.Append(history.Record{
		Repo:       result.Repo,
		Root:       result.Root,
		StartedAt:  result.StartedAt,
		Duration:   result.Duration,
		FileCount:  len(result.Files),
		EdgeCount:  result.Graph.EdgeCount(),
		CycleCount: len(result.Analysis.Cycles),
	})
	if err != nil {
		log.Printf("Warning: failed to record analysis: %v", err)
	}
}

// watchAndReanalyze blocks, re-running the analysis whenever watched files
// change, until the context is canceled.
func watchAndReanalyze(ctx context.Context, cfg *config.Config, a *analyzer.Analyzer, root string) error {
	watcher, err := analyzer.NewWatcher(root, cfg.Analysis.Extensions)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Stop()

	rerun := make(chan []string, 1)
	watcher.Start(ctx, func(changed []string) {
		select {
		case rerun <- changed:
		default: // A re-run is already pending; the next run picks everything up.
		}
	})

	log.Println("Watching for changes (Ctrl-C to stop)...")
	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-rerun:
			log.Printf("%d files changed, re-analyzing...", len(changed))
			result, err := a.AnalyzePath(ctx, root)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Printf("Warning: re-analysis failed: %v", err)
				continue
			}
			printSummary(result)
		}
	}
}
