package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/kv"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	sessions kv.SessionStore
	timeout  time.Duration
}

func NewAuthHandler(sessions kv.SessionStore, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		timeout:  timeout,
	}
}

// POST /api/v1/auth/logout
//
// Bumping the session version invalidates every token issued to the user.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	who, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if _, err := h.sessions.Bump(ctx, who.UserID); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to bump session version")
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "session store unavailable")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
