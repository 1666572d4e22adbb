package scope

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieCodec issues and verifies the browser scope cookie. The cookie
// value is an HS256-signed JWT wrapping a random scope id, so a client
// cannot forge its way into another browser's session stack.
type CookieCodec struct {
	name   string
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewCookieCodec creates a codec for the named cookie.
func NewCookieCodec(name, secret string, ttl time.Duration, secure bool) *CookieCodec {
	return &CookieCodec{
		name:   name,
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
	}
}

type scopeClaims struct {
	ScopeID string `json:"sid"`
	jwt.RegisteredClaims
}

// Issue mints a fresh scope id, signs it, and sets the cookie on the
// response. Returns the new scope id.
func (c *CookieCodec) Issue(w http.ResponseWriter) (string, error) {
	sid := uuid.NewString()
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, scopeClaims{
		ScopeID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sid, nil
}

// Decode extracts and verifies the scope id from the request cookie. A
// missing, malformed, expired, or tampered cookie reads as absent; the
// caller then issues a fresh anonymous scope.
func (c *CookieCodec) Decode(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	claims := &scopeClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid || claims.ScopeID == "" {
		return "", false
	}
	return claims.ScopeID, true
}
