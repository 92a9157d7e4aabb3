// internal/httpserver/server.go
//
// HTTP server wiring for the Crazee backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/leaderboard".
//   - Play endpoints (optional auth): /game/* for classic games, /daily/* for
//     the daily challenge.
//   - Auth + profile endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - Each save slot (player + mode) owns exactly one game engine. Requests
//     for the same slot are serialized on the session mutex.
//   - Every successful move is saved to the snapshot store before replying.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/EthanCarson/Crazy-Rolls/internal/config"
	"github.com/EthanCarson/Crazy-Rolls/internal/daily"
	"github.com/EthanCarson/Crazy-Rolls/internal/store"
	"github.com/EthanCarson/Crazy-Rolls/internal/users"
)

// Server bundles router, snapshot store, live sessions and DB handle.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	saves    store.Store
	db       *sql.DB
	users    *users.Store
	daily    *daily.Store
	clock    quartz.Clock
	sessions *registry
}

// New constructs a Server, installs middleware, and registers routes.
// A nil clock means wall-clock time.
func New(cfg config.Config, saves store.Store, db *sql.DB, clock quartz.Clock) *Server {
	if clock == nil {
		clock = quartz.NewReal()
	}
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		saves:    saves,
		db:       db,
		users:    users.NewStore(db),
		daily:    daily.NewStore(db),
		clock:    clock,
		sessions: newRegistry(cfg.SessionIdle),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                   // add X-Request-ID
	s.r.Use(chimw.RealIP)                      // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                     // one zerolog line per request
	s.r.Use(chimw.Recoverer)                   // recover from panics
	s.r.Use(chimw.Timeout(cfg.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                   // default JSON responses
	s.r.Use(s.cors)                            // credentials-friendly CORS

	// JSON 404 for easier debugging. Set before mounting so sub-routers inherit it.
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "crazee-go",
			"endpoints": []string{"/health", "/game", "/daily/new", "/leaderboard", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// Classic games: optional auth (guests can play)
	s.r.With(s.withOptionalAuth()).Route("/game", func(r chi.Router) {
		s.mountPlay(r, modeClassic)
	})

	// Daily Challenge: optional auth (guests can play; one result per day)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	s.r.Get("/leaderboard", s.handleLeaderboard)

	// Auth + profile/stats
	s.mountAuthRoutes()

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

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

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs method, path, status and duration at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("requestId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	body := map[string]string{"error": code}
	if msg != "" {
		body["message"] = msg
	}
	writeJSON(w, status, body)
}
