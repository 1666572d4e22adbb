// Package clinic is the gateway for every outbound call to the clinic
// backend API. It injects the scope's bearer token into each request and
// owns the one codepath that can invalidate a session as a side effect of
// any business call: an unauthorized response clears the session store,
// fires the forced-logout hook, and still surfaces the error to the caller.
package clinic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/omarantar7/dentalcare-admin/internal/session"
	apperrors "github.com/omarantar7/dentalcare-admin/pkg/errors"
)

// maxErrorBody bounds how much of an error response body is read.
const maxErrorBody = 1 << 20

// Doer executes HTTP requests. Satisfied by httpclient.Client and
// httpclient.CircuitBreakerClient.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client calls the clinic backend on behalf of one scope.
type Client struct {
	baseURL string
	http    Doer
	store   session.Store
	logger  *slog.Logger

	onUnauthorized func(context.Context)
}

// New creates a gateway client for the given scope's session store.
func New(baseURL string, doer Doer, store session.Store, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    doer,
		store:   store,
		logger:  logger,
	}
}

// OnUnauthorized registers the hook fired after an unauthorized response has
// cleared the session store. The hook performs the rest of the forced
// logout: dropping the in-memory session mirror and redirecting to the
// login entry point. Registered after construction because the session
// manager that owns the hook is built on top of this client.
func (c *Client) OnUnauthorized(fn func(context.Context)) {
	c.onUnauthorized = fn
}

// backendError is the error body shape the clinic backend returns.
type backendError struct {
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do executes one API call: marshals body, injects the bearer token if one
// is cached, and decodes the response into out. Unauthorized responses are
// handled here for every endpoint uniformly.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Attach the bearer credential when one is cached; otherwise the call
	// goes out unauthenticated.
	if token := c.store.Token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("clinic api %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return c.handleUnauthorized(ctx, method, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.parseError(resp, method, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode clinic api response: %w", err)
		}
	}
	return nil
}

// handleUnauthorized implements the global de-authentication side effect.
// It does not distinguish "token absent" from "token rejected": both end
// with an empty store and the forced-logout hook fired.
func (c *Client) handleUnauthorized(ctx context.Context, method, path string) error {
	c.logger.WarnContext(ctx, "clinic api rejected credentials, clearing session",
		slog.String("method", method),
		slog.String("path", path),
	)

	c.store.Clear(ctx)
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}

	// The caller still observes the failure.
	return apperrors.Unauthorized("clinic api rejected credentials")
}

// parseError translates a non-2xx, non-401 response into an AppError,
// preserving the backend's message when the body is structured.
func (c *Client) parseError(resp *http.Response, method, path string) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apperrors.FromStatus(resp.StatusCode, "UPSTREAM_ERROR",
			fmt.Sprintf("%s %s returned status %d", method, path, resp.StatusCode))
	}

	var be backendError
	if json.Unmarshal(raw, &be) == nil {
		if be.Error != nil && be.Error.Message != "" {
			return apperrors.FromStatus(resp.StatusCode, be.Error.Code, be.Error.Message)
		}
		if be.Message != "" {
			return apperrors.FromStatus(resp.StatusCode, "UPSTREAM_ERROR", be.Message)
		}
	}

	return apperrors.FromStatus(resp.StatusCode, "UPSTREAM_ERROR",
		fmt.Sprintf("%s %s returned status %d", method, path, resp.StatusCode))
}
