// Package guard decides, per navigation attempt, whether a route may be
// rendered or the session must be bounced to the login or dashboard entry
// points. It consumes the auth manager's server-verifying session check.
package guard

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// Decision is the outcome of a navigation attempt.
type Decision int

const (
	Allowed Decision = iota
	RedirectToLogin
	RedirectToDashboard
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToDashboard:
		return "redirect_to_dashboard"
	default:
		return "unknown"
	}
}

// Route is one entry of the navigation table. Patterns use path segments,
// where "{name}" matches exactly one segment and a trailing "*" matches any
// remainder.
type Route struct {
	Path         string
	Name         string
	RequiresAuth bool
	Title        string
}

// SessionChecker is the slice of the auth manager the guard consumes. The
// implementation short-circuits to false without a network call when no
// token is cached, so the guard never pays for a verify it does not need.
type SessionChecker interface {
	IsAuthenticated(ctx context.Context) bool
}

// Guard evaluates navigation attempts against a route table.
type Guard struct {
	routes        []Route
	auth          SessionChecker
	logger        *slog.Logger
	loginPath     string
	dashboardPath string
}

// New creates a guard over the given route table.
func New(auth SessionChecker, routes []Route, logger *slog.Logger) *Guard {
	return &Guard{
		routes:        routes,
		auth:          auth,
		logger:        logger,
		loginPath:     "/login",
		dashboardPath: "/",
	}
}

// DefaultRoutes is the clinic admin navigation table.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Name: "dashboard", RequiresAuth: true, Title: "Dashboard"},
		{Path: "/login", Name: "login", RequiresAuth: false, Title: "Login"},
		{Path: "/patients", Name: "patients", RequiresAuth: true, Title: "Patients"},
		{Path: "/patients/{id}", Name: "patient-profile", RequiresAuth: true, Title: "Patient Profile"},
		{Path: "/labs", Name: "labs", RequiresAuth: true, Title: "Labs"},
		{Path: "/*", Name: "not-found", RequiresAuth: false, Title: "Not Found"},
	}
}

// Decide evaluates one navigation attempt:
//
//  1. A route requiring auth is allowed only when the session verifies
//     against the server; otherwise the navigation bounces to login. A
//     failed verify has already cleared the session by the time the
//     decision is returned.
//  2. The login page itself bounces a still-valid session to the
//     dashboard instead of rendering the login form again.
//  3. Everything else is allowed.
func (g *Guard) Decide(ctx context.Context, path string) Decision {
	if g.requiresAuth(path) {
		if g.auth.IsAuthenticated(ctx) {
			return Allowed
		}
		g.logger.InfoContext(ctx, "navigation denied, redirecting to login",
			slog.String("path", path),
		)
		return RedirectToLogin
	}

	if normalize(path) == g.loginPath && g.auth.IsAuthenticated(ctx) {
		return RedirectToDashboard
	}

	return Allowed
}

// RouteFor returns the most specific route matching path.
func (g *Guard) RouteFor(path string) (Route, bool) {
	var (
		best      Route
		bestScore = -1
		found     bool
	)
	for _, r := range g.routes {
		if score, ok := match(r.Path, path); ok && score > bestScore {
			best, bestScore, found = r, score, true
		}
	}
	return best, found
}

// Middleware adapts the guard to an HTTP handler chain for page routes.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch g.Decide(r.Context(), r.URL.Path) {
		case RedirectToLogin:
			http.Redirect(w, r, g.loginPath, http.StatusFound)
		case RedirectToDashboard:
			http.Redirect(w, r, g.dashboardPath, http.StatusFound)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// requiresAuth reports whether any route along the matched chain declares
// the flag: the routes matching the path itself plus routes matching a
// segment prefix of it.
func (g *Guard) requiresAuth(path string) bool {
	for _, r := range g.routes {
		if !r.RequiresAuth {
			continue
		}
		if _, ok := match(r.Path, path); ok {
			return true
		}
		if isAncestor(r.Path, path) {
			return true
		}
	}
	return false
}

func normalize(path string) string {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}

func segments(path string) []string {
	path = strings.Trim(normalize(path), "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// match reports whether pattern matches path, with a specificity score so
// literal matches beat wildcard ones.
func match(pattern, path string) (int, bool) {
	ps, xs := segments(pattern), segments(path)
	score := 0
	for i, seg := range ps {
		if seg == "*" {
			return score, true
		}
		if i >= len(xs) {
			return 0, false
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			score++
			continue
		}
		if seg != xs[i] {
			return 0, false
		}
		score += 2
	}
	if len(ps) != len(xs) {
		return 0, false
	}
	return score, true
}

// isAncestor reports whether pattern's segments form a proper prefix of
// path's segments. The root pattern is never an ancestor; it matches only
// itself.
func isAncestor(pattern, path string) bool {
	ps, xs := segments(pattern), segments(path)
	if len(ps) == 0 || len(ps) >= len(xs) {
		return false
	}
	for i, seg := range ps {
		if seg == "*" {
			return true
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			continue
		}
		if seg != xs[i] {
			return false
		}
	}
	return true
}
