// Package httpapi exposes one engine over HTTP.
//
// Every request that touches the engine holds the server mutex for its
// whole duration, so a POST with many lines is applied atomically with
// respect to other requests.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roach88/fleetlot/internal/command"
	"github.com/roach88/fleetlot/internal/engine"
	"github.com/roach88/fleetlot/internal/runner"
)

const (
	contentTypeJSON        = "application/json"
	defaultShutdownTimeout = time.Second * 5
	maxBodyBytes           = 1 << 20
)

// Server serves the engine API.
type Server struct {
	mu     sync.Mutex
	engine *engine.Engine
	runner *runner.Runner

	addr       string
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a server for e. Lines posted to /api/commands are
// executed through r, which must drive the same engine.
func NewServer(e *engine.Engine, r *runner.Runner, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine: e,
		runner: r,
		addr:   addr,
		logger: logger,
	}
}

// Handler returns the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler {
	return s.createRouter()
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.createRouter(),
		ReadHeaderTimeout: time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info("HTTP server started", "addr", s.addr)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// createRouter builds chi router
func (s *Server) createRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/api/commands", s.handleCommands)
	r.Get("/api/lots", s.handleLots)
	r.Get("/api/lots/{capacity}", s.handleLot)
	r.Get("/api/count", s.handleCount)

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("Error encoding response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, NewOKResponse())
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	var req CommandsRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("invalid request body: "+err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outputs := make([]string, 0, len(req.Lines))
	for i, line := range req.Lines {
		res, _, err := s.runner.Process(r.Context(), line)
		switch {
		case errors.Is(err, command.ErrBlankLine):
			continue
		case command.IsUnknown(err):
			s.logger.Warn("unknown command", "line", i+1, "error", err)
			continue
		case command.IsMalformed(err):
			s.writeJSON(w, http.StatusBadRequest, CommandsResponse{
				Status:  StatusError,
				Outputs: outputs,
				Error:   fmt.Sprintf("line %d: %v", i+1, err),
			})
			return
		case err != nil:
			s.writeJSON(w, http.StatusInternalServerError, CommandsResponse{
				Status:  StatusError,
				Outputs: outputs,
				Error:   fmt.Sprintf("line %d: %v", i+1, err),
			})
			return
		}

		if res.HasOutput {
			outputs = append(outputs, res.Output)
		}
	}

	s.writeJSON(w, http.StatusOK, CommandsResponse{Status: StatusSuccess, Outputs: outputs})
}

func (s *Server) handleLots(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	lots := s.engine.Lots()
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, LotsResponse{Status: StatusSuccess, Lots: lots})
}

func (s *Server) handleLot(w http.ResponseWriter, r *http.Request) {
	capacity, err := strconv.Atoi(chi.URLParam(r, "capacity"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("capacity must be an integer"))
		return
	}

	s.mu.Lock()
	lot, ok := s.engine.Lot(capacity)
	s.mu.Unlock()

	if !ok {
		s.writeJSON(w, http.StatusNotFound, NewErrorResponse("lot not found"))
		return
	}
	s.writeJSON(w, http.StatusOK, LotResponse{Status: StatusSuccess, Lot: lot})
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("threshold")
	if raw == "" {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("Missing threshold"))
		return
	}
	threshold, err := strconv.Atoi(raw)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("threshold must be an integer"))
		return
	}

	s.mu.Lock()
	n := s.engine.Count(threshold)
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, CountResponse{Status: StatusSuccess, Threshold: threshold, Count: n})
}
