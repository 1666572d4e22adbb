package clinic

import (
	"context"
	"net/http"

	"github.com/omarantar7/dentalcare-admin/internal/domain"
)

// LoginResult is the payload returned by POST /login.
type LoginResult struct {
	Message   string       `json:"message"`
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token and user record. It does
// not touch the session store; installing the session atomically is the
// session manager's job.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout notifies the backend that the current token should be revoked.
// The response body is ignored.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

// Me asks the backend which identity the current token maps to.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var result struct {
		User *domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/me", nil, &result); err != nil {
		return nil, err
	}
	return result.User, nil
}
