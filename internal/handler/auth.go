package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/omarantar7/dentalcare-admin/internal/auth"
	apperrors "github.com/omarantar7/dentalcare-admin/pkg/errors"
	"github.com/omarantar7/dentalcare-admin/pkg/httputil"
)

// AuthHandler handles HTTP requests for the session endpoints.
type AuthHandler struct {
	logger *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(logger *slog.Logger) *AuthHandler {
	return &AuthHandler{logger: logger}
}

// LoginRequest is the JSON request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse carries the authenticated user back to the browser. The
// bearer token stays server-side in the scope's session store and is never
// returned to the client.
type SessionResponse struct {
	User          any  `json:"user"`
	Authenticated bool `json:"authenticated"`
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sc, ok := scopeFrom(w, r, h.logger)
	if !ok {
		return
	}

	var req LoginRequest
	if !decode(w, r, &req, h.logger) {
		return
	}

	result, err := sc.Manager.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: SessionResponse{User: result.User, Authenticated: true},
	})
}

// Logout handles POST /api/logout. It always succeeds from the browser's
// perspective, whatever the clinic backend said.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sc, ok := scopeFrom(w, r, h.logger)
	if !ok {
		return
	}

	sc.Manager.Logout(r.Context())

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: SessionResponse{Authenticated: false},
	})
}

// Me handles GET /api/me: a server-verified identity check.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sc, ok := scopeFrom(w, r, h.logger)
	if !ok {
		return
	}

	if sc.Store.Token(r.Context()) == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("not authenticated"), h.logger)
		return
	}

	user, err := sc.Manager.RefreshUser(r.Context())
	if err != nil {
		// A verify that times out has already torn the session down; the
		// browser sees it as unauthenticated, not as a server fault.
		if errors.Is(err, auth.ErrVerifyTimeout) {
			err = apperrors.Unauthorized("auth check timed out")
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: SessionResponse{User: user, Authenticated: true},
	})
}
