// Package server exposes the tracker over an HTTP JSON API. Mutations
// arrive as intent-tagged commands on two endpoints, mirroring the
// dashboard's column and application actions; the rest are read paths.
package server

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/stanleypangg/dear-applicant/internal/database"
	"github.com/stanleypangg/dear-applicant/internal/identity"
	"github.com/stanleypangg/dear-applicant/internal/services/application"
	"github.com/stanleypangg/dear-applicant/internal/services/board"
	"github.com/stanleypangg/dear-applicant/internal/services/column"
	"github.com/stanleypangg/dear-applicant/internal/services/history"
)

// Server is the HTTP front for the tracker.
type Server struct {
	resolver identity.Resolver
	columns  column.Service
	apps     application.Service
	board    board.Service
	history  history.Service
	listings *database.ListingRepo
	httpSrv  *http.Server
}

// New wires a Server over db, listening on addr.
func New(db *sql.DB, addr string, resolver identity.Resolver) *Server {
	historySvc := history.NewService(db)
	s := &Server{
		resolver: resolver,
		columns:  column.NewService(db),
		apps:     application.NewService(db, historySvc),
		board:    board.NewService(db),
		history:  historySvc,
		listings: database.NewListingRepo(db),
	}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the route table. Exposed so tests can drive the
// server through httptest without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.Handle("GET /dashboard", s.requireUser(s.handleBoard))
	mux.Handle("POST /dashboard/columns", s.requireUser(s.handleColumnAction))
	mux.Handle("POST /dashboard/applications", s.requireUser(s.handleApplicationAction))
	mux.Handle("GET /applications/{id}/transitions", s.requireUser(s.handleTransitions))
	mux.Handle("GET /jobs", s.requireUser(s.handleJobs))

	return logRequests(mux)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", s.httpSrv.Addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "dear-applicant"})
}

// userHandler is a handler that already knows who is asking.
type userHandler func(w http.ResponseWriter, r *http.Request, userID string)

// requireUser resolves the request identity or rejects with 401. The
// core trusts the resolved id from here on.
func (s *Server) requireUser(next userHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.resolver.ResolveUserID(r)
		if err != nil {
			if errors.Is(err, identity.ErrUnauthenticated) {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
				return
			}
			writeError(w, err)
			return
		}
		next(w, r, userID)
	})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
