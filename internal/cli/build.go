package cli

import (
	"fmt"
	"time"

	"github.com/codeatlas/codeatlas/internal/analyzer"
	"github.com/codeatlas/codeatlas/internal/config"
	"github.com/codeatlas/codeatlas/internal/parser"
)

// buildAnalyzer wires the parser adapter and analyzer from configuration.
func buildAnalyzer(cfg *config.Config, progress analyzer.ProgressReporter) (*analyzer.Analyzer, error) {
	var adapterOpts []parser.AdapterOption

	if len(cfg.Parser.ExternalCommand) > 0 {
		backend, err := parser.NewExternalBackend(
			cfg.Parser.ExternalCommand,
			cfg.Parser.ExternalProcs,
			time.Duration(cfg.Parser.ExternalTimeout)*time.Second,
		)
		if err != nil {
			return nil, fmt.Errorf("invalid external parser configuration: %w", err)
		}
		adapterOpts = append(adapterOpts, parser.WithExternalBackend(backend))
	}

	if cfg.Parser.CacheCapacity > 0 {
		cache, err := parser.NewCache(cfg.Parser.CacheCapacity)
		if err != nil {
			return nil, fmt.Errorf("failed to create parse cache: %w", err)
		}
		adapterOpts = append(adapterOpts, parser.WithCache(cache))
	}

	return analyzer.New(analyzer.Options{
		IgnorePatterns:   cfg.Analysis.IgnorePatterns,
		Extensions:       cfg.Analysis.Extensions,
		MaxFileSizeBytes: cfg.Analysis.MaxFileSizeBytes,
		Workers:          cfg.Analysis.Workers,
		CycleAlgorithm:   cfg.Analysis.CycleAlgorithm,
		Adapter:          parser.NewAdapter(adapterOpts...),
		Progress:         progress,
	}), nil
}
