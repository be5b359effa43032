package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sakury/vidora/core"
	"github.com/sakury/vidora/ports"
)

const (
	KeyPrefix          = "vidora:"
	ChallengeKeyPrefix = KeyPrefix + "checkCode:"

	DefaultChallengeTTL = 10 * time.Minute
)

// ChallengeStore maps captcha challenge identifiers to expected answers in
// the shared cache
type ChallengeStore struct {
	cache ports.Cache
	ttl   time.Duration
}

// NewChallengeStore creates a challenge store whose entries live for ttl
func NewChallengeStore(cache ports.Cache, ttl time.Duration) *ChallengeStore {
	if ttl <= 0 {
		ttl = DefaultChallengeTTL
	}
	return &ChallengeStore{cache: cache, ttl: ttl}
}

// Issue stores answer under a fresh identifier and returns the identifier
func (s *ChallengeStore) Issue(ctx context.Context, answer string) (string, error) {
	id := uuid.NewString()
	if err := s.cache.Set(ctx, ChallengeKeyPrefix+id, []byte(answer), s.ttl); err != nil {
		return "", fmt.Errorf("failed to save challenge: %w", err)
	}
	return id, nil
}

// Resolve returns the expected answer for id without consuming it. Unknown,
// expired and consumed challenges all yield core.ErrNotFound.
func (s *ChallengeStore) Resolve(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", core.ErrNotFound
	}
	answer, err := s.cache.Get(ctx, ChallengeKeyPrefix+id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", core.ErrNotFound
		}
		return "", fmt.Errorf("failed to get challenge: %w", err)
	}
	return string(answer), nil
}

// Consume deletes the challenge; consuming twice is not an error
func (s *ChallengeStore) Consume(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.cache.Delete(ctx, ChallengeKeyPrefix+id); err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	return nil
}
