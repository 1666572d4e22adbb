// Package handler exposes the admin gateway's HTTP surface: the auth
// endpoints, the proxied clinic CRUD endpoints, and the guarded page
// shells. Every handler resolves its per-browser scope from the request
// context installed by the scope resolver middleware.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/omarantar7/dentalcare-admin/internal/scope"
	apperrors "github.com/omarantar7/dentalcare-admin/pkg/errors"
	"github.com/omarantar7/dentalcare-admin/pkg/httputil"
	"github.com/omarantar7/dentalcare-admin/pkg/validator"
)

// maxBodyBytes caps request bodies on JSON endpoints.
const maxBodyBytes = 1 << 20

// scopeFrom resolves the request's session scope. A missing scope means
// the resolver middleware is not mounted, which is a wiring bug.
func scopeFrom(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*scope.Scope, bool) {
	sc, ok := scope.FromContext(r.Context())
	if !ok {
		logger.ErrorContext(r.Context(), "request reached handler without a session scope")
		httputil.WriteError(w, r, apperrors.Internal(errors.New("no session scope")), logger)
		return nil, false
	}
	return sc, true
}

// decode reads and validates a JSON body, mapping decode failures to
// invalid-input errors rather than internal ones.
func decode(w http.ResponseWriter, r *http.Request, dst any, logger *slog.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := validator.DecodeAndValidate(r, dst); err != nil {
		var valErr *validator.ValidationError
		if !errors.As(err, &valErr) {
			err = apperrors.InvalidInput("invalid request body")
		}
		httputil.WriteError(w, r, err, logger)
		return false
	}
	return true
}

// urlID parses a numeric URL parameter.
func urlID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput(name + " must be a positive integer")
	}
	return id, nil
}
