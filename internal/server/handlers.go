package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/fivewhys/fivewhys-ai/internal/analysis"
)

// StartRequest begins a new analysis.
type StartRequest struct {
	Problem string `json:"problem"`
}

// AnswerRequest submits the user's answer to the current why-question.
type AnswerRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleStart handles POST /api/start.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	next, err := s.analyzer.Start(r.Context(), req.Problem)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, next)
}

// handleAnswer handles POST /api/answer. The reply is either the next
// question or the final result, depending on where the interview landed.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "session_id is required"})
		return
	}

	res, err := s.analyzer.SubmitAnswer(r.Context(), req.SessionID, req.Answer)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	if res.Final != nil {
		writeJSON(w, http.StatusOK, res.Final)
		return
	}
	writeJSON(w, http.StatusOK, res.Next)
}

// handleSessionByID handles GET and DELETE on /api/session/{id}.
func (s *Server) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/session/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		sess := s.analyzer.GetSession(id)
		if sess == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
			return
		}
		writeJSON(w, http.StatusOK, sess.Snapshot())

	case http.MethodDelete:
		if !s.analyzer.DeleteSession(id) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "session deleted"})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleHealth reports liveness and the active session count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"sessions_count": s.store.Len(),
	})
}

// handleRoot serves the bundled UI when a static directory is configured.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	index := filepath.Join(s.cfg.Server.StaticDir, "index.html")
	if _, err := os.Stat(index); err == nil {
		http.ServeFile(w, r, index)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"service": "fivewhys-ai",
		"status":  "running",
	})
}

// writeAnalysisError maps analyzer error kinds to status codes.
func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analysis.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, analysis.ErrSessionComplete),
		errors.Is(err, analysis.ErrProblemTooShort),
		errors.Is(err, analysis.ErrAnswerTooShort):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, analysis.ErrOracleUnavailable):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		s.log.Error("unhandled analyzer error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
