// Package server exposes the dashboard core to the browser frontend over
// HTTP. It is a thin shell: every response body comes straight out of the
// presentation adapters, and every mutation is a state transition on the
// session. Rendering happens client-side.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/brentlens/brentlens/internal/adapters"
	"github.com/brentlens/brentlens/internal/dashboard"
	"github.com/brentlens/brentlens/internal/logger"
	"github.com/brentlens/brentlens/internal/models"
)

// Server is the HTTP API for the dashboard frontend.
type Server struct {
	session *dashboard.Session
	router  chi.Router
	http    *http.Server
}

// New creates a configured server for the given session.
func New(session *dashboard.Session, listenAddr string, allowedOrigins []string) *Server {
	s := &Server{session: session}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/view", s.handleView)
		r.Get("/state", s.handleState)
		r.Post("/range", s.handleSetRange)
		r.Post("/select", s.handleSelect)
		r.Post("/selection/clear", s.handleClearSelection)
	})

	s.router = r
	s.http = &http.Server{
		Addr:              listenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router returns the underlying router, primarily for tests.
func (s *Server) Router() http.Handler { return s.router }

// ListenAndServe blocks serving HTTP until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// viewResponse bundles the three adapter projections plus the state that
// produced them, so the frontend renders one consistent snapshot.
type viewResponse struct {
	Range     models.DateRange      `json:"range"`
	Selection *models.Selection     `json:"selection,omitempty"`
	Chart     adapters.Chart        `json:"chart"`
	Events    adapters.EventList    `json:"events"`
	Metrics   adapters.MetricsPanel `json:"metrics"`
	Errors    []string              `json:"errors,omitempty"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	view := s.session.View()

	resp := viewResponse{
		Range:   view.State.Range,
		Chart:   adapters.BuildChart(view.Rows, view.ChangePoints, view.State.Selection),
		Events:  adapters.BuildEventList(view.Groups, view.State.Selection),
		Metrics: adapters.BuildMetricsPanel(view.Metrics),
	}
	if view.State.Selection.IsSet() {
		sel := view.State.Selection
		resp.Selection = &sel
	}
	for _, se := range view.Errors {
		resp.Errors = append(resp.Errors, se.Error())
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state := s.session.State()
	resp := map[string]interface{}{"range": state.Range}
	if state.Selection.IsSet() {
		resp["selection"] = state.Selection
	}
	writeJSON(w, http.StatusOK, resp)
}

type rangeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (s *Server) handleSetRange(w http.ResponseWriter, r *http.Request) {
	var req rangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	start, err := models.ParseDate(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := models.ParseDate(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rng, err := models.NewDateRange(start, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.session.SetRange(r.Context(), rng)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if result.Failed() {
		// Every slice failed: nothing of the new range loaded. Surface it as
		// a gateway failure so the frontend can show a blocking error state.
		writeError(w, http.StatusBadGateway, "data provider unreachable")
		return
	}
	s.handleView(w, r)
}

type selectRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.session.SelectEvent(date, req.Name); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.handleView(w, r)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.session.ClearSelection()
	s.handleView(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": msg})
}
