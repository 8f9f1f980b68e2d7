package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeatlas/codeatlas/internal/analyzer"
	"github.com/codeatlas/codeatlas/internal/config"
)

func newTestMCPServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.Acquire.TempRepoDir = t.TempDir()
	return NewServer(cfg, analyzer.New(analyzer.Options{}))
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

// resultText extracts the text payload of a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func analyzeFixture(t *testing.T, s *Server) {
	t.Helper()
	result, err := s.handleAnalyzeRepo(context.Background(),
		toolRequest(map[string]interface{}{"path": "../../testdata/project"}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))
}

func TestAnalyzeRepoTool_LocalPath(t *testing.T) {
	t.Parallel()

	s := newTestMCPServer(t)
	result, err := s.handleAnalyzeRepo(context.Background(),
		toolRequest(map[string]interface{}{"path": "../../testdata/project"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var summary struct {
		Root      string `json:"root"`
		FileCount int    `json:"file_count"`
		EdgeCount int    `json:"edge_count"`
		Analysis  struct {
			IsolatedFiles []string `json:"isolated_files"`
			Cycles        []struct {
				Files []string `json:"files"`
			} `json:"cycles"`
		} `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &summary))

	assert.Equal(t, 5, summary.FileCount)
	assert.Equal(t, 5, summary.EdgeCount)
	assert.Equal(t, []string{"lonely.py"}, summary.Analysis.IsolatedFiles)
	require.Len(t, summary.Analysis.Cycles, 1)
	assert.Equal(t, []string{"services/a.js", "services/b.js"}, summary.Analysis.Cycles[0].Files)
}

func TestAnalyzeRepoTool_ArgumentValidation(t *testing.T) {
	t.Parallel()

	s := newTestMCPServer(t)

	result, err := s.handleAnalyzeRepo(context.Background(), toolRequest(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = s.handleAnalyzeRepo(context.Background(), toolRequest(map[string]interface{}{
		"repo_url": "https://example.com/r.git",
		"path":     "/tmp",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestFileElementsTool(t *testing.T) {
	t.Parallel()

	s := newTestMCPServer(t)
	analyzeFixture(t, s)

	result, err := s.handleFileElements(context.Background(),
		toolRequest(map[string]interface{}{"path": "main.js"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var body struct {
		Path     string `json:"path"`
		Language string `json:"language"`
		Elements []struct {
			Kind string `json:"kind"`
			Name string `json:"name"`
		} `json:"elements"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &body))

	assert.Equal(t, "main.js", body.Path)
	assert.Equal(t, "javascript", body.Language)
	require.Len(t, body.Elements, 1)
	assert.Equal(t, "function", body.Elements[0].Kind)
	assert.Equal(t, "main", body.Elements[0].Name)
}

func TestFileDependenciesTool(t *testing.T) {
	t.Parallel()

	s := newTestMCPServer(t)
	analyzeFixture(t, s)

	result, err := s.handleFileDependencies(context.Background(),
		toolRequest(map[string]interface{}{"path": "services/a.js"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var body struct {
		Imports      []string `json:"imports"`
		Dependencies []string `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &body))

	assert.Equal(t, []string{"../utils/h", "./b"}, body.Imports)
	assert.Equal(t, []string{"utils/h.js", "services/b.js"}, body.Dependencies)
}

func TestFindCyclesTool(t *testing.T) {
	t.Parallel()

	s := newTestMCPServer(t)
	analyzeFixture(t, s)

	result, err := s.handleFindCycles(context.Background(), toolRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var body struct {
		Cycles []struct {
			Files []string `json:"files"`
		} `json:"cycles"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &body))

	require.Len(t, body.Cycles, 1)
	assert.Equal(t, []string{"services/a.js", "services/b.js"}, body.Cycles[0].Files)
}

func TestToolsWithoutAnalysis(t *testing.T) {
	t.Parallel()

	s := newTestMCPServer(t)

	result, err := s.handleFileElements(context.Background(),
		toolRequest(map[string]interface{}{"path": "main.js"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = s.handleFindCycles(context.Background(), toolRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestFileElementsTool_UnknownPath(t *testing.T) {
	t.Parallel()

	s := newTestMCPServer(t)
	analyzeFixture(t, s)

	result, err := s.handleFileElements(context.Background(),
		toolRequest(map[string]interface{}{"path": "nope.js"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "not found")
}
