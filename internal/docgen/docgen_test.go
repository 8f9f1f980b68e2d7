package docgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeatlas/codeatlas/internal/analyzer"
	"github.com/codeatlas/codeatlas/internal/depgraph"
	"github.com/codeatlas/codeatlas/internal/parser"
)

// fakeBackend records which model each file was requested with.
type fakeBackend struct {
	mu     sync.Mutex
	models map[string]string // prompt excerpt -> model
	fail   map[string]bool   // file path -> force failure
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{models: make(map[string]string), fail: make(map[string]bool)}
}

func (f *fakeBackend) Generate(_ context.Context, model, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for path := range f.fail {
		if containsPath(prompt, path) {
			return "", errors.New("model unavailable")
		}
	}
	f.models[prompt] = model
	return "  summary text  ", nil
}

func (f *fakeBackend) modelFor(path string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for prompt, model := range f.models {
		if containsPath(prompt, path) {
			return model, true
		}
	}
	return "", false
}

// containsPath reports whether a prompt mentions the quoted file path.
func containsPath(prompt, path string) bool {
	return strings.Contains(prompt, fmt.Sprintf("%q", path))
}

// rankedResult builds a result whose MostImported ranking lists the given
// paths in order.
func rankedResult(paths ...string) *analyzer.Result {
	files := make(map[string]*parser.ParsedFile, len(paths))
	ranks := make([]depgraph.FileRank, 0, len(paths))
	for i, p := range paths {
		files[p] = &parser.ParsedFile{
			RelativePath: p,
			Language:     parser.LangPython,
			Elements: []parser.CodeElement{
				{Kind: parser.KindFunction, Name: "run", StartLine: 1, EndLine: 2},
			},
		}
		ranks = append(ranks, depgraph.FileRank{Path: p, ImportedByCount: len(paths) - i})
	}
	return &analyzer.Result{
		Files:    files,
		Analysis: &depgraph.Analysis{MostImported: ranks},
	}
}

func TestSummarizeTopFiles_ModelTiers(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	client := NewClientWithBackend(backend, "advanced-model", "lite-model", 5)

	result := rankedResult("a.py", "b.py", "c.py", "d.py", "e.py")
	summaries := client.SummarizeTopFiles(context.Background(), result)

	require.Len(t, summaries, 5)
	assert.Equal(t, "summary text", summaries["a.py"])

	// The three highest-ranked files use the advanced model.
	for _, path := range []string{"a.py", "b.py", "c.py"} {
		model, ok := backend.modelFor(path)
		require.True(t, ok, "no call for %s", path)
		assert.Equal(t, "advanced-model", model, "path %s", path)
	}
	for _, path := range []string{"d.py", "e.py"} {
		model, ok := backend.modelFor(path)
		require.True(t, ok, "no call for %s", path)
		assert.Equal(t, "lite-model", model, "path %s", path)
	}
}

func TestSummarizeTopFiles_FailuresAreSkipped(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.fail["b.py"] = true
	client := NewClientWithBackend(backend, "adv", "lite", 2)

	summaries := client.SummarizeTopFiles(context.Background(), rankedResult("a.py", "b.py", "c.py"))

	assert.Contains(t, summaries, "a.py")
	assert.Contains(t, summaries, "c.py")
	assert.NotContains(t, summaries, "b.py")
}

func TestSelectTargets(t *testing.T) {
	t.Parallel()

	assert.Nil(t, SelectTargets(nil))
	assert.Nil(t, SelectTargets(&analyzer.Result{}))

	result := rankedResult("x.py", "y.py")
	assert.Equal(t, []string{"x.py", "y.py"}, SelectTargets(result))
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	file := &parser.ParsedFile{
		RelativePath: "svc/auth.py",
		Language:     parser.LangPython,
		Elements: []parser.CodeElement{
			{Kind: parser.KindFunction, Name: "login", Parameters: []string{"user", "password"}, DocComment: "Authenticate a user.\nSecond line."},
			{Kind: parser.KindClass, Name: "Session"},
		},
		Imports: []string{"os", ".tokens"},
	}

	prompt := buildPrompt(file)

	assert.Contains(t, prompt, `"svc/auth.py"`)
	assert.Contains(t, prompt, "function login(user, password): Authenticate a user.")
	assert.NotContains(t, prompt, "Second line.")
	assert.Contains(t, prompt, "class Session")
	assert.Contains(t, prompt, "Imports: os, .tokens")
}

func TestSorted(t *testing.T) {
	t.Parallel()

	summaries := map[string]string{"b.py": "x", "a.py": "y", "c.py": "z"}
	assert.Equal(t, []string{"a.py", "b.py", "c.py"}, Sorted(summaries))
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient(context.Background(), "", "adv", "lite", 5)
	assert.Error(t, err)
}
