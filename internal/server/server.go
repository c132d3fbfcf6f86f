// Package server exposes the HTTP API. Handlers decode and validate the
// wire shape, resolve the caller identity from the bearer token, and
// delegate to the application services; taxonomy errors map to statuses
// here and raw internals never reach clients.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tonearm/internal/app"
	"tonearm/internal/apperr"
	"tonearm/internal/ratelimit"
	"tonearm/internal/usertoken"
	"tonearm/internal/util"
)

const maxBodyBytes = 1 << 20

// Config wires required dependencies for the HTTP server.
type Config struct {
	App    *app.App
	Tokens *usertoken.Manager

	RedisAddr                string
	RedisPassword            string
	SignupRateLimitPerMinute int
	LoginRateLimitPerMinute  int

	TrustedProxies *util.TrustedProxies
}

// Server exposes the HTTP endpoints.
type Server struct {
	app           *app.App
	tokens        *usertoken.Manager
	mux           *http.ServeMux
	signupLimiter *ratelimit.FixedWindowLimiter
	loginLimiter  *ratelimit.FixedWindowLimiter
	trusted       *util.TrustedProxies
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	signupLimit := cfg.SignupRateLimitPerMinute
	if signupLimit <= 0 {
		signupLimit = 5
	}
	loginLimit := cfg.LoginRateLimitPerMinute
	if loginLimit <= 0 {
		loginLimit = 10
	}
	newLimiter := func(name string, limit int) (*ratelimit.FixedWindowLimiter, error) {
		prefix := "tonearm:ratelimit:" + name
		limiter, err := ratelimit.NewFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, prefix, limit, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("init %s limiter: %w", name, err)
		}
		return limiter, nil
	}
	signupLimiter, err := newLimiter("signup", signupLimit)
	if err != nil {
		return nil, err
	}
	loginLimiter, err := newLimiter("login", loginLimit)
	if err != nil {
		return nil, err
	}
	s := &Server{
		app:           cfg.App,
		tokens:        cfg.Tokens,
		mux:           http.NewServeMux(),
		signupLimiter: signupLimiter,
		loginLimiter:  loginLimiter,
		trusted:       cfg.TrustedProxies,
	}
	s.routes()
	return s, nil
}

// Router returns the handler with the middleware chain applied.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(util.WithCORS(util.WithRequestID(util.WithRequestLog(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	// account
	s.mux.Handle("GET /api/users/me", s.authenticated(s.handleMe))
	s.mux.Handle("PATCH /api/users/me", s.authenticated(s.handleUpdateMe))
	s.mux.Handle("DELETE /api/users/me", s.authenticated(s.handleDeleteMe))
	s.mux.Handle("GET /api/users/me/ratings", s.authenticated(s.handleMyRatings))
	s.mux.Handle("GET /api/users/me/favorites", s.authenticated(s.handleMyFavorites))

	// catalog reads are open
	s.mux.HandleFunc("GET /api/artists", s.handleListArtists)
	s.mux.HandleFunc("GET /api/artists/{id}", s.handleGetArtist)
	s.mux.HandleFunc("GET /api/genres", s.handleListGenres)
	s.mux.HandleFunc("GET /api/genres/{id}", s.handleGetGenre)
	s.mux.HandleFunc("GET /api/albums", s.handleListAlbums)
	s.mux.HandleFunc("GET /api/albums/{id}", s.handleGetAlbum)
	s.mux.HandleFunc("GET /api/albums/{id}/reviews", s.handleAlbumReviews)
	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/roles", s.handleListRoles)

	// catalog mutations are admin-only
	s.mux.Handle("POST /api/artists", s.adminOnly(s.handleCreateArtist))
	s.mux.Handle("PATCH /api/artists/{id}", s.adminOnly(s.handleUpdateArtist))
	s.mux.Handle("DELETE /api/artists/{id}", s.adminOnly(s.handleDeleteArtist))
	s.mux.Handle("POST /api/genres", s.adminOnly(s.handleCreateGenre))
	s.mux.Handle("PATCH /api/genres/{id}", s.adminOnly(s.handleUpdateGenre))
	s.mux.Handle("DELETE /api/genres/{id}", s.adminOnly(s.handleDeleteGenre))
	s.mux.Handle("POST /api/genres/{id}/subgenres", s.adminOnly(s.handleAssignSubgenre))
	s.mux.Handle("POST /api/albums", s.adminOnly(s.handleCreateAlbum))
	s.mux.Handle("PATCH /api/albums/{id}", s.adminOnly(s.handleUpdateAlbum))
	s.mux.Handle("DELETE /api/albums/{id}", s.adminOnly(s.handleDeleteAlbum))
	s.mux.Handle("POST /api/albums/{id}/genres", s.adminOnly(s.handleAssignAlbumGenre))
	s.mux.Handle("POST /api/roles", s.adminOnly(s.handleCreateRole))

	// engagement is self-only; the services enforce it again
	s.mux.Handle("PUT /api/albums/{id}/rating", s.authenticated(s.handleSetRating))
	s.mux.Handle("PUT /api/albums/{id}/favorite", s.authenticated(s.handleSetFavorite))
	s.mux.Handle("PUT /api/albums/{id}/review", s.authenticated(s.handleSetReview))
	s.mux.Handle("GET /api/albums/{id}/status", s.authenticated(s.handleEngagementStatus))

	// admin
	s.mux.Handle("GET /api/admin/users", s.adminOnly(s.handleAdminListUsers))
	s.mux.Handle("POST /api/admin/engagements/bulk", s.adminOnly(s.handleBulkEngagements))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// identity resolves the caller from the bearer token; nil for anonymous
// or invalid credentials.
func (s *Server) identity(r *http.Request) *app.Identity {
	token, ok := bearerToken(r)
	if !ok {
		return nil
	}
	ident, err := s.tokens.Verify(token)
	if err != nil {
		slog.Warn("token rejected", "path", r.URL.Path, "error", err)
		return nil
	}
	return &app.Identity{UserID: ident.UserID, Role: ident.Role}
}

type identHandler func(http.ResponseWriter, *http.Request, *app.Identity)

func (s *Server) authenticated(next identHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := s.identity(r)
		if ident == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, ident)
	})
}

func (s *Server) adminOnly(next identHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := s.identity(r)
		if ident == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !ident.IsAdmin() {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r, ident)
	})
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	key := r.URL.Path + "|" + util.ClientIP(r, s.trusted)
	if limiter.Allow(key) {
		return true
	}
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validationf("id", "invalid id")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeAppError maps a taxonomy error to its status. Internal errors are
// logged and masked.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		slog.Error("unclassified error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if appErr.Kind == apperr.Internal {
		slog.Error("internal error", "path", r.URL.Path, "error", appErr)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	payload := map[string]string{"error": appErr.Message}
	if appErr.Field != "" {
		payload["field"] = appErr.Field
	}
	writeJSON(w, appErr.StatusCode(), payload)
}
