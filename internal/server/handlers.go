package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/codeatlas/codeatlas/internal/analyzer"
	"github.com/codeatlas/codeatlas/internal/git"
	"github.com/codeatlas/codeatlas/internal/history"
)

// AnalyzeRequest is the POST /analyze body. Exactly one of RepoURL or Path
// must be set.
type AnalyzeRequest struct {
	RepoURL string `json:"repo_url,omitempty"`
	Path    string `json:"path,omitempty"`
}

// StatsResponse is the GET /stats body.
type StatsResponse struct {
	ActiveClones     int `json:"active_clones"`
	AnalysesRecorded int `json:"analyses_recorded"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{ActiveClones: s.registry.Count()}

	if s.store != nil {
		count, err := s.store.Count()
		if err != nil {
			log.Printf("Warning: failed to count history: %v", err)
		} else {
			resp.AnalysesRecorded = count
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAnalyze runs a full analysis for a cloned repository or a local
// path. Acquisition failures are request-fatal: caller errors map to 400,
// transient clone failures to 502. Per-file parse failures never fail the
// request; they surface as diagnostics in the result.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if (req.RepoURL == "") == (req.Path == "") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "exactly one of repo_url or path is required"})
		return
	}

	root := req.Path
	repo := ""
	if req.RepoURL != "" {
		cloned, cleanup, err := s.cloner.Clone(r.Context(), req.RepoURL)
		if err != nil {
			writeJSON(w, cloneErrorStatus(err), errorResponse{Error: err.Error()})
			return
		}
		defer cleanup()
		root = cloned
		repo = req.RepoURL
	}

	result, err := s.analyzer.AnalyzePath(r.Context(), root)
	if err != nil {
		log.Printf("Warning: analysis failed for %s: %v", root, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "analysis failed"})
		return
	}
	result.Repo = repo

	s.record(result)
	writeJSON(w, http.StatusOK, result)
}

// record appends the analysis to history; persistence failures only log.
func (s *Server) record(result *analyzer.Result) {
	if s.store == nil {
		return
	}
	_, err := s.store.Append(history.Record{
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

// cloneErrorStatus maps acquisition error categories to HTTP status codes.
func cloneErrorStatus(err error) int {
	switch {
	case errors.Is(err, git.ErrInvalidRepoURL):
		return http.StatusBadRequest
	case errors.Is(err, git.ErrCloneFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Warning: failed to encode response: %v", err)
	}
}
