package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	DefaultTokenName = "token"
	DefaultCookieAge = 7 * 24 * time.Hour
)

// SessionRevoker ends the session behind a token
type SessionRevoker interface {
	Logout(ctx context.Context, token string) error
}

// Binder carries session tokens between requests and responses. A token is
// read from a request header first and from a cookie second; it is written
// back as an HttpOnly cookie.
type Binder struct {
	cookieName string
	header     string
	domain     string
	secure     bool
	maxAge     time.Duration
	revoker    SessionRevoker
}

// BinderConfig configures a Binder; zero values fall back to defaults
type BinderConfig struct {
	CookieName string
	Header     string
	Domain     string
	Secure     bool
	MaxAge     time.Duration
}

// NewBinder creates a session binder revoking cleared tokens through revoker
func NewBinder(cfg BinderConfig, revoker SessionRevoker) *Binder {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultTokenName
	}
	if cfg.Header == "" {
		cfg.Header = DefaultTokenName
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultCookieAge
	}
	return &Binder{
		cookieName: cfg.CookieName,
		header:     cfg.Header,
		domain:     cfg.Domain,
		secure:     cfg.Secure,
		maxAge:     cfg.MaxAge,
		revoker:    revoker,
	}
}

// ExtractToken returns the session token presented on r
func (b *Binder) ExtractToken(r *http.Request) (string, bool) {
	if token := r.Header.Get(b.header); token != "" {
		return token, true
	}
	if cookie, err := r.Cookie(b.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}

// AttachToken sets the session cookie on the response
func (b *Binder) AttachToken(c *gin.Context, token string) {
	c.SetCookie(b.cookieName, token, int(b.maxAge/time.Second), "/", b.domain, b.secure, true)
}

// ClearToken revokes the session held in the request cookie and expires the
// cookie. Requests without the cookie are left alone.
func (b *Binder) ClearToken(c *gin.Context) {
	cookie, err := c.Request.Cookie(b.cookieName)
	if err != nil {
		return
	}

	if cookie.Value != "" {
		_ = b.revoker.Logout(c.Request.Context(), cookie.Value)
	}

	c.SetCookie(b.cookieName, "", -1, "/", b.domain, b.secure, true)
}
