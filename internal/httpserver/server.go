// internal/httpserver/server.go
//
// HTTP wiring for the erayle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", GET /api/word.
//   - Session endpoints under /api/session (anon-cookie identity).
//   - Feedback endpoint with server-side hCaptcha verification.
//   - Admin endpoints (JWT cookie after password login).
//
// The game core never sees HTTP; handlers translate requests into session
// transitions and execute the effects the core hands back.

package httpserver

import (
	"database/sql"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/sagaleh/erayle/internal/game"
	"github.com/sagaleh/erayle/internal/persist"
	"github.com/sagaleh/erayle/internal/words"
)

// Server bundles the router, the persistence gateway, the word provider,
// and the in-memory table of live sessions.
type Server struct {
	r        *chi.Mux
	gw       *persist.Gateway
	provider *words.Provider
	db       *sql.DB

	mu       sync.Mutex
	sessions map[string]*game.Session // keyed by playerID|day

	now func() time.Time // injectable clock for day-boundary tests
}

// New constructs a Server, installs middleware, and registers routes.
func New(gw *persist.Gateway, provider *words.Provider, db *sql.DB) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		gw:       gw,
		provider: provider,
		db:       db,
		sessions: make(map[string]*game.Session),
		now:      time.Now,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"erayle","endpoints":["/health","GET /api/word","POST /api/session/start","POST /api/session/key"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Get("/api/word", s.handleWord)
	s.r.Route("/api/session", func(r chi.Router) {
		r.Get("/", s.handleSessionGet)
		r.Post("/start", s.handleSessionStart)
		r.Post("/key", s.handleSessionKey)
		r.Post("/hint", s.handleSessionHint)
	})
	s.r.Post("/api/feedback", s.handleFeedback)

	s.mountAdmin()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --------------------------- player identity -------------------------------

const playerCookieName = "erayle_player"

// ensurePlayerID returns the anon player cookie, setting a fresh one when
// missing. The cookie is the browser's identity; snapshots and the score
// ledger are keyed by it.
func (s *Server) ensurePlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   os.Getenv("NODE_ENV") == "production",
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})
	return id
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
