package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sakury/vidora/core"
	"github.com/sakury/vidora/ports"
)

const (
	SessionKeyPrefix = KeyPrefix + "token:web:"

	DefaultSessionTTL  = 7 * 24 * time.Hour
	DefaultRenewWindow = 24 * time.Hour

	tokenBytes = 32
)

// SessionStore maps opaque session tokens to session records in the shared
// cache. The cache TTL is the source of truth for removal.
type SessionStore struct {
	cache       ports.Cache
	ttl         time.Duration
	renewWindow time.Duration
	now         func() time.Time
}

// SessionOption configures a SessionStore
type SessionOption func(*SessionStore)

// WithSessionClock overrides the time source
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SessionStore) {
		s.now = now
	}
}

// NewSessionStore creates a session store issuing sessions valid for ttl and
// renewing them once less than renewWindow remains
func NewSessionStore(cache ports.Cache, ttl, renewWindow time.Duration, opts ...SessionOption) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if renewWindow <= 0 || renewWindow >= ttl {
		renewWindow = DefaultRenewWindow
		if renewWindow >= ttl {
			renewWindow = ttl / 7
		}
	}
	s := &SessionStore{
		cache:       cache,
		ttl:         ttl,
		renewWindow: renewWindow,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns how long a freshly issued session is valid
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Issue mints a new token for account and persists its session record
func (s *SessionStore) Issue(ctx context.Context, account core.Account) (core.Session, error) {
	return s.save(ctx, core.SessionFromAccount(account))
}

// Resolve returns the session for token, or core.ErrNotFound
func (s *SessionStore) Resolve(ctx context.Context, token string) (core.Session, error) {
	if token == "" {
		return core.Session{}, core.ErrNotFound
	}

	data, err := s.cache.Get(ctx, SessionKeyPrefix+token)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Session{}, core.ErrNotFound
		}
		return core.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	var session core.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return core.Session{}, fmt.Errorf("failed to decode session: %w", err)
	}

	if session.Expired(s.now()) {
		return core.Session{}, core.ErrNotFound
	}

	return session, nil
}

// Invalidate deletes the session for token; invalidating twice is not an error
func (s *SessionStore) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.cache.Delete(ctx, SessionKeyPrefix+token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// RenewIfNearExpiry mints a new token and record for session when less than
// the renew window remains, and reports whether it did. The old token is
// left to expire on its own.
func (s *SessionStore) RenewIfNearExpiry(ctx context.Context, session core.Session) (core.Session, bool, error) {
	if session.Remaining(s.now()) >= s.renewWindow {
		return session, false, nil
	}

	renewed, err := s.save(ctx, core.Session{}.WithProfileOf(session))
	if err != nil {
		return core.Session{}, false, err
	}
	return renewed, true, nil
}

func (s *SessionStore) save(ctx context.Context, session core.Session) (core.Session, error) {
	token, err := newToken()
	if err != nil {
		return core.Session{}, fmt.Errorf("failed to generate token: %w", err)
	}

	session.Token = token
	session.ExpireAt = s.now().Add(s.ttl)

	data, err := json.Marshal(session)
	if err != nil {
		return core.Session{}, fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.cache.Set(ctx, SessionKeyPrefix+token, data, s.ttl); err != nil {
		return core.Session{}, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// newToken returns 256 random bits encoded base64url without padding
func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
