// Package docgen produces optional natural-language summaries for the
// highest-ranked files of an analysis. Enrichment is best-effort: any
// failure logs and skips the file, and analysis results never depend on it.
package docgen

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"
	genai "google.golang.org/genai"

	"github.com/codeatlas/codeatlas/internal/analyzer"
	"github.com/codeatlas/codeatlas/internal/parser"
)

// advancedTierSize is how many of the top files use the advanced model.
const advancedTierSize = 3

// Client generates summaries for one analysis result.
type Client struct {
	models        ModelBackend
	modelAdvanced string
	modelLite     string
	sem           *semaphore.Weighted
}

// ModelBackend is the LLM call surface, narrowed for testing.
type ModelBackend interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// geminiBackend calls the Gemini API through the official genai client.
type geminiBackend struct {
	cli *genai.Client
}

func (g *geminiBackend) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model %s", model)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// NewClient creates a docgen client against the Gemini API. maxConcurrent
// bounds in-flight LLM calls.
func NewClient(ctx context.Context, apiKey, modelAdvanced, modelLite string, maxConcurrent int64) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("docgen requires an API key")
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		models:        &geminiBackend{cli: cli},
		modelAdvanced: modelAdvanced,
		modelLite:     modelLite,
		sem:           semaphore.NewWeighted(maxConcurrent),
	}, nil
}

// NewClientWithBackend creates a client over an explicit backend. Used by
// tests to inject a fake model.
func NewClientWithBackend(backend ModelBackend, modelAdvanced, modelLite string, maxConcurrent int64) *Client {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Client{
		models:        backend,
		modelAdvanced: modelAdvanced,
		modelLite:     modelLite,
		sem:           semaphore.NewWeighted(maxConcurrent),
	}
}

// SummarizeTopFiles generates one-paragraph summaries for the most-imported
// files of a result, keyed by relative path. The top advancedTierSize files
// use the advanced model; the rest use the lite model. Per-file failures
// are logged and omitted from the returned map.
func (c *Client) SummarizeTopFiles(ctx context.Context, result *analyzer.Result) map[string]string {
	targets := SelectTargets(result)

	summaries := make(map[string]string, len(targets))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, relPath := range targets {
		file, ok := result.Files[relPath]
		if !ok {
			continue
		}

		model := c.modelLite
		if i < advancedTierSize {
			model = c.modelAdvanced
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := c.sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer c.sem.Release(1)

			text, err := c.models.Generate(ctx, model, buildPrompt(file))
			if err != nil {
				log.Printf("Warning: summary generation failed for %s: %v", file.RelativePath, err)
				return
			}

			mu.Lock()
			summaries[file.RelativePath] = strings.TrimSpace(text)
			mu.Unlock()
		}()
	}

	wg.Wait()
	return summaries
}

// SelectTargets returns the files worth summarizing, most-imported first.
func SelectTargets(result *analyzer.Result) []string {
	if result == nil || result.Analysis == nil {
		return nil
	}

	var targets []string
	seen := make(map[string]bool)
	for _, rank := range result.Analysis.MostImported {
		if !seen[rank.Path] {
			seen[rank.Path] = true
			targets = append(targets, rank.Path)
		}
	}
	return targets
}

// buildPrompt renders one file's structural inventory into the summary
// request.
func buildPrompt(file *parser.ParsedFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the purpose of the source file %q (%s) in one paragraph, based on its structure.\n\n", file.RelativePath, file.Language)

	if len(file.Elements) > 0 {
		b.WriteString("Declared elements:\n")
		for _, el := range file.Elements {
			fmt.Fprintf(&b, "- %s %s", el.Kind, el.Name)
			if len(el.Parameters) > 0 {
				fmt.Fprintf(&b, "(%s)", strings.Join(el.Parameters, ", "))
			}
			if el.DocComment != "" {
				fmt.Fprintf(&b, ": %s", firstLine(el.DocComment))
			}
			b.WriteString("\n")
		}
	}

	if len(file.Imports) > 0 {
		fmt.Fprintf(&b, "\nImports: %s\n", strings.Join(file.Imports, ", "))
	}
	return b.String()
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// Sorted returns the summary paths in deterministic order, for rendering.
func Sorted(summaries map[string]string) []string {
	paths := make([]string, 0, len(summaries))
	for p := range summaries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
