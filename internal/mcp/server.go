// Package mcp exposes the analysis pipeline as MCP tools over stdio.
package mcp

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/codeatlas/codeatlas/internal/analyzer"
	"github.com/codeatlas/codeatlas/internal/config"
	"github.com/codeatlas/codeatlas/internal/git"
)

// Server manages the MCP server lifecycle. The most recent analysis result
// is held in memory so the per-file tools can answer without re-running
// the pipeline.
type Server struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	cloner   *git.Cloner
	mcp      *server.MCPServer

	mu     sync.RWMutex
	latest *analyzer.Result
}

// NewServer creates an MCP server exposing the analysis tools.
func NewServer(cfg *config.Config, a *analyzer.Analyzer) *Server {
	s := &Server{
		cfg:      cfg,
		analyzer: a,
		cloner:   git.NewCloner(cfg.Acquire.TempRepoDir, git.NewRegistry()),
	}

	s.mcp = server.NewMCPServer(
		"codeatlas",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		errCh <- server.ServeStdio(s.mcp)
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// setLatest stores the most recent analysis result.
func (s *Server) setLatest(result *analyzer.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = result
}

// getLatest returns the most recent analysis result, if any.
func (s *Server) getLatest() *analyzer.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}
