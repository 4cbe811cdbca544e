// Package server exposes the pipeline over HTTP: the analyze trigger,
// the dashboard read contract, and the SSE live feed.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spacesedan/brandpulse/internal/livefeed"
	"github.com/spacesedan/brandpulse/internal/models"
	"github.com/spacesedan/brandpulse/internal/pipeline"
)

type AnalysisRunner interface {
	Run(ctx context.Context, userQuery string) (*pipeline.RunSummary, error)
}

type FeedbackLister interface {
	QueryByUserQuery(ctx context.Context, userQuery string) ([]models.FeedbackRecord, error)
}

type RunFetcher interface {
	GetRunSummary(ctx context.Context, runID string) (*pipeline.RunSummary, error)
}

type Server struct {
	runner AnalysisRunner
	store  FeedbackLister
	runs   RunFetcher
	hub    *livefeed.Hub
}

func New(runner AnalysisRunner, store FeedbackLister, runs RunFetcher, hub *livefeed.Hub) *Server {
	return &Server{
		runner: runner,
		store:  store,
		runs:   runs,
		hub:    hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/v1/analyze", s.handleAnalyze)
	r.Get("/v1/feedback", s.handleListFeedback)
	r.Get("/v1/feedback/stream", s.handleStream)
	r.Get("/v1/runs/{id}", s.handleGetRun)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
