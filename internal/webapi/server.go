// Package webapi runs a loopback-only HTTP companion API so external
// tooling (dashboards, spreadsheets, curl) can read table state and spin
// history without going through the desktop UI.
package webapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/spinroom/roulette-sim-go/internal/history"
	"github.com/spinroom/roulette-sim-go/internal/session"
)

// DefaultPort is used when no port is configured.
const DefaultPort = 17980

// Server serves the read-only companion API on loopback.
type Server struct {
	table      *session.Session
	store      *history.Store
	token      string
	addr       string
	httpServer *http.Server
}

// New creates a companion server bound to loopback at the given port.
// token may be empty to disable token checks.
func New(table *session.Session, store *history.Store, port int, token string) *Server {
	if port <= 0 {
		port = DefaultPort
	}
	return &Server{
		table: table,
		store: store,
		token: token,
		addr:  fmt.Sprintf("127.0.0.1:%d", port),
	}
}

// Addr returns the address the server binds to.
func (s *Server) Addr() string {
	return s.addr
}

// Start begins listening in a goroutine. It returns when the socket is bound.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("webapi: listen %s: %w", s.addr, err)
	}
	go func() {
		_ = s.httpServer.Serve(ln)
	}()
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Handler builds the router. Exposed so tests can drive it through
// httptest without binding a socket.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)
			r.Get("/table", s.handleTable)
			r.Get("/sessions", s.handleSessions)
			r.Route("/sessions/{id}", func(r chi.Router) {
				r.Get("/", s.handleSessionDetail)
				r.Delete("/", s.handleSessionDelete)
				r.Get("/spins", s.handleSessionSpins)
				r.Get("/export.csv", s.handleSessionExport)
			})
		})
	})
	return r
}

// requireToken checks X-Api-Token when a token is configured.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("X-Api-Token") != s.token {
			writeJSON(w, http.StatusUnauthorized, errObj("UNAUTHORIZED", "missing or invalid X-Api-Token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /api/table
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.table.Snapshot())
}

// GET /api/sessions?limit=&offset=
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	limit := clampInt(qInt(r, "limit", 20), 1, 200)
	offset := clampInt(qInt(r, "offset", 0), 0, 1_000_000)

	sessions, total, err := s.store.ListSessions(limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errObj("SERVER_ERROR", "failed to list sessions"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"total":    total,
	})
}

// GET /api/sessions/{id}
func (s *Server) handleSessionDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.GetSession(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errObj("NOT_FOUND", "session not found"))
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// DELETE /api/sessions/{id}
func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteSession(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errObj("SERVER_ERROR", "failed to delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/sessions/{id}/spins?page=&per_page=
func (s *Server) handleSessionSpins(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page := clampInt(qInt(r, "page", 1), 1, 1_000_000)
	perPage := clampInt(qInt(r, "per_page", 50), 1, 1000)

	pageData, err := s.store.GetSessionSpins(id, page, perPage)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errObj("SERVER_ERROR", "failed to fetch spins"))
		return
	}
	writeJSON(w, http.StatusOK, pageData)
}

// GET /api/sessions/{id}/export.csv
func (s *Server) handleSessionExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="session_spins.csv"`)
	if err := s.store.ExportCSV(w, id); err != nil {
		// Headers are already sent; append an error row for the caller.
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errObj(code, msg string) map[string]any {
	return map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	}
}

func qInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
