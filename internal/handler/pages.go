package handler

import (
	"fmt"
	"html"
	"log/slog"
	"net/http"

	"github.com/omarantar7/dentalcare-admin/internal/guard"
)

// PagesHandler serves the guarded page routes. Pages are thin titled
// shells; the decision to render, bounce to login, or bounce to the
// dashboard is the interesting part and belongs to the scope's guard.
type PagesHandler struct {
	logger *slog.Logger
}

// NewPagesHandler creates a new page handler.
func NewPagesHandler(logger *slog.Logger) *PagesHandler {
	return &PagesHandler{logger: logger}
}

// Serve evaluates the navigation through the scope's guard and renders
// the page shell when allowed.
func (h *PagesHandler) Serve(w http.ResponseWriter, r *http.Request) {
	sc, ok := scopeFrom(w, r, h.logger)
	if !ok {
		return
	}

	switch sc.Guard.Decide(r.Context(), r.URL.Path) {
	case guard.RedirectToLogin:
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	case guard.RedirectToDashboard:
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	route, found := sc.Guard.RouteFor(r.URL.Path)
	if !found {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if route.Name == "not-found" {
		w.WriteHeader(http.StatusNotFound)
	}

	title := html.EscapeString(route.Title)
	fmt.Fprintf(w, "<!doctype html><html><head><title>%s | Dental Clinic Admin</title></head><body><div id=\"app\" data-page=%q></div></body></html>", title, route.Name)
}
