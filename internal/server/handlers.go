package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/spacesedan/brandpulse/internal/models"
	"github.com/spacesedan/brandpulse/internal/pipeline"
)

type analyzeResponse struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	RunID      string   `json:"runId"`
	Written    int      `json:"written"`
	Skipped    int      `json:"skipped"`
	Irrelevant int      `json:"irrelevant"`
	Reasons    []string `json:"reasons,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request format"})
		return
	}

	userQuery, err := extractQuery(body)
	if err != nil {
		slog.Warn("[Server] Failed to parse request data", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request format"})
		return
	}
	if strings.TrimSpace(userQuery) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query is required"})
		return
	}

	// A run keeps going once started; dropping the request only stops
	// the caller from waiting, not the in-flight model and store calls.
	summary, err := s.runner.Run(context.WithoutCancel(r.Context()), userQuery)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyQuery) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query is required"})
			return
		}
		slog.Error("[Server] Pipeline run failed",
			slog.String("query", userQuery),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "analysis failed"})
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:    true,
		Message:    "Analysis complete.",
		RunID:      summary.RunID,
		Written:    summary.Written,
		Skipped:    summary.Skipped,
		Irrelevant: summary.Irrelevant,
		Reasons:    summary.Reasons,
	})
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	userQuery := r.URL.Query().Get("query")
	if userQuery == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query is required"})
		return
	}

	records, err := s.store.QueryByUserQuery(r.Context(), userQuery)
	if err != nil {
		slog.Error("[Server] Feedback query failed",
			slog.String("query", userQuery),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "store error"})
		return
	}

	if records == nil {
		records = []models.FeedbackRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")

	summary, err := s.runs.GetRunSummary(r.Context(), runID)
	if err != nil {
		slog.Error("[Server] Run lookup failed",
			slog.String("run_id", runID),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "registry error"})
		return
	}
	if summary == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run not found"})
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleStream pushes every feedback change event to the client as SSE.
// No server-side filtering: clients watch for their own userQuery.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	events, cancel := s.hub.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case record, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(record)
			if err != nil {
				slog.Warn("[Server] Failed to marshal change event",
					slog.String("record_id", record.ID))
				continue
			}
			if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("[Server] Failed to encode response", slog.String("error", err.Error()))
	}
}
