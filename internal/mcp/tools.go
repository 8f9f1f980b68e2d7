package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codeatlas/codeatlas/internal/analyzer"
	"github.com/codeatlas/codeatlas/internal/parser"
)

// analyzeSummary is the condensed analyze_repo result: the full file map
// is too large for a tool response, so only the aggregate surfaces return.
type analyzeSummary struct {
	Repo        string                `json:"repo,omitempty"`
	Root        string                `json:"root"`
	FileCount   int                   `json:"file_count"`
	EdgeCount   int                   `json:"edge_count"`
	Analysis    any                   `json:"analysis"`
	Diagnostics []analyzer.Diagnostic `json:"diagnostics,omitempty"`
}

// registerTools wires every analysis tool into the MCP server.
func (s *Server) registerTools() {
	analyzeTool := mcp.NewTool(
		"analyze_repo",
		mcp.WithDescription("Analyze a source tree: parse every supported file, build the import dependency graph, and compute rankings, isolated files, and cycles. Pass either a git repository URL to clone or a local path."),
		mcp.WithString("repo_url",
			mcp.Description("Git repository URL to clone and analyze (http, https, git, or git@ form)")),
		mcp.WithString("path",
			mcp.Description("Local directory to analyze")),
	)
	s.mcp.AddTool(analyzeTool, s.handleAnalyzeRepo)

	elementsTool := mcp.NewTool(
		"file_elements",
		mcp.WithDescription("List the code elements (functions, classes, methods with signatures and doc comments) of one file from the most recent analysis."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Relative path of the file within the analyzed tree")),
	)
	s.mcp.AddTool(elementsTool, s.handleFileElements)

	depsTool := mcp.NewTool(
		"file_dependencies",
		mcp.WithDescription("List the resolved outgoing dependencies and raw import specifiers of one file from the most recent analysis."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Relative path of the file within the analyzed tree")),
	)
	s.mcp.AddTool(depsTool, s.handleFileDependencies)

	cyclesTool := mcp.NewTool(
		"find_cycles",
		mcp.WithDescription("List the import cycles detected in the most recent analysis."),
	)
	s.mcp.AddTool(cyclesTool, s.handleFindCycles)
}

func (s *Server) handleAnalyzeRepo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	repoURL, _ := argsMap["repo_url"].(string)
	path, _ := argsMap["path"].(string)
	if (repoURL == "") == (path == "") {
		return mcp.NewToolResultError("exactly one of repo_url or path is required"), nil
	}

	root := path
	if repoURL != "" {
		cloned, cleanup, err := s.cloner.Clone(ctx, repoURL)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		defer cleanup()
		root = cloned
	}

	result, err := s.analyzer.AnalyzePath(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	result.Repo = repoURL
	s.setLatest(result)

	return jsonResult(analyzeSummary{
		Repo:        result.Repo,
		Root:        result.Root,
		FileCount:   len(result.Files),
		EdgeCount:   result.Graph.EdgeCount(),
		Analysis:    result.Analysis,
		Diagnostics: result.Diagnostics,
	})
}

func (s *Server) handleFileElements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, file, errResult := s.lookupFile(request)
	if errResult != nil {
		return errResult, nil
	}

	return jsonResult(map[string]any{
		"path":     file.RelativePath,
		"language": file.Language,
		"elements": file.Elements,
	})
}

func (s *Server) handleFileDependencies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, file, errResult := s.lookupFile(request)
	if errResult != nil {
		return errResult, nil
	}

	dependencies := result.Graph[file.RelativePath]
	if dependencies == nil {
		dependencies = []string{}
	}

	return jsonResult(map[string]any{
		"path":         file.RelativePath,
		"imports":      file.Imports,
		"dependencies": dependencies,
	})
}

func (s *Server) handleFindCycles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.getLatest()
	if result == nil {
		return mcp.NewToolResultError("no analysis available; run analyze_repo first"), nil
	}
	return jsonResult(map[string]any{"cycles": result.Analysis.Cycles})
}

// lookupFile resolves the required path argument against the latest
// analysis.
func (s *Server) lookupFile(request mcp.CallToolRequest) (*analyzer.Result, *parser.ParsedFile, *mcp.CallToolResult) {
	result := s.getLatest()
	if result == nil {
		return nil, nil, mcp.NewToolResultError("no analysis available; run analyze_repo first")
	}

	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, nil, mcp.NewToolResultError("invalid arguments format")
	}
	path, ok := argsMap["path"].(string)
	if !ok || path == "" {
		return nil, nil, mcp.NewToolResultError("path parameter is required")
	}

	file, ok := result.Files[path]
	if !ok {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("file not found in analysis: %s", path))
	}
	return result, file, nil
}

func jsonResult(body any) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
