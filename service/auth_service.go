package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sakury/vidora/core"
	"github.com/sakury/vidora/internal/logger"
	"github.com/sakury/vidora/ports"
)

// RegisterInput is a captcha-gated registration request
type RegisterInput struct {
	Email         string
	NickName      string
	Password      string
	CaptchaAnswer string
	ChallengeID   string
}

// LoginInput is a captcha-gated login request. PreviousToken is the session
// token the client already presented, if any.
type LoginInput struct {
	Email         string
	Password      string
	CaptchaAnswer string
	ChallengeID   string
	ClientIP      string
	PreviousToken string
}

// AuthService composes challenges, credentials and sessions into the
// register / login / auto-login / logout flows
type AuthService struct {
	challenges  *ChallengeStore
	credentials *Credentials
	sessions    *SessionStore
	captcha     ports.CaptchaGenerator
	eventPub    ports.EventPublisher
	logger      *logger.Logger
	now         func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	challenges *ChallengeStore,
	credentials *Credentials,
	sessions *SessionStore,
	captcha ports.CaptchaGenerator,
	eventPub ports.EventPublisher,
	logger *logger.Logger,
) *AuthService {
	return &AuthService{
		challenges:  challenges,
		credentials: credentials,
		sessions:    sessions,
		captcha:     captcha,
		eventPub:    eventPub,
		logger:      logger,
		now:         time.Now,
	}
}

// SessionTTL returns how long an issued session stays valid
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessions.TTL()
}

// CheckCode renders a new captcha and stores its answer
func (s *AuthService) CheckCode(ctx context.Context) (core.CaptchaChallenge, error) {
	image, answer, err := s.captcha.Generate()
	if err != nil {
		return core.CaptchaChallenge{}, fmt.Errorf("failed to generate captcha: %w", err)
	}

	id, err := s.challenges.Issue(ctx, answer)
	if err != nil {
		s.logger.Error("Auth service: failed to issue challenge",
			"error", err.Error())
		return core.CaptchaChallenge{}, err
	}

	return core.CaptchaChallenge{ID: id, Image: image}, nil
}

// Register creates an account. The challenge is consumed whatever the outcome.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	defer s.consumeChallenge(ctx, in.ChallengeID)

	if err := s.verifyCaptcha(ctx, in.ChallengeID, in.CaptchaAnswer); err != nil {
		return err
	}

	account, err := s.credentials.Register(ctx, in.Email, in.NickName, in.Password)
	if err != nil {
		return err
	}

	s.publish(ctx, ports.AccountEvent{Type: ports.EventRegistered, UserID: account.UserID})

	return nil
}

// Login authenticates the caller and issues a new session. Any session the
// caller already held is invalidated first. The challenge is consumed
// whatever the outcome.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (core.Session, error) {
	defer s.consumeChallenge(ctx, in.ChallengeID)

	if err := s.verifyCaptcha(ctx, in.ChallengeID, in.CaptchaAnswer); err != nil {
		return core.Session{}, err
	}

	if in.PreviousToken != "" {
		if err := s.sessions.Invalidate(ctx, in.PreviousToken); err != nil {
			s.logger.Warn("Auth service: failed to clear previous session",
				"error", err.Error())
		}
	}

	account, err := s.credentials.Authenticate(ctx, in.Email, in.Password, in.ClientIP)
	if err != nil {
		if core.IsBusiness(err) {
			s.logger.Info("Auth service: login rejected",
				"email", in.Email,
				"reason", err.Error())
		}
		return core.Session{}, err
	}

	session, err := s.sessions.Issue(ctx, account)
	if err != nil {
		s.logger.Error("Auth service: failed to issue session",
			"user_id", account.UserID,
			"error", err.Error())
		return core.Session{}, err
	}

	s.publish(ctx, ports.AccountEvent{Type: ports.EventLoggedIn, UserID: account.UserID, ClientIP: in.ClientIP})

	return session, nil
}

// AutoLogin resolves the caller's session and renews it when it is close to
// expiry. ok is false when the caller has no active session.
func (s *AuthService) AutoLogin(ctx context.Context, token string) (session core.Session, ok bool, err error) {
	session, err = s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Session{}, false, nil
		}
		return core.Session{}, false, err
	}

	session, renewed, err := s.sessions.RenewIfNearExpiry(ctx, session)
	if err != nil {
		return core.Session{}, false, err
	}
	if renewed {
		s.logger.Debug("Auth service: session renewed",
			"user_id", session.UserID)
	}

	return session, true, nil
}

// Authenticate resolves token to its session without renewing it
func (s *AuthService) Authenticate(ctx context.Context, token string) (core.Session, error) {
	session, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Session{}, core.ErrSessionRequired
		}
		return core.Session{}, err
	}
	return session, nil
}

// Logout invalidates the session behind token. It never fails; store errors
// are logged.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	session, err := s.sessions.Resolve(ctx, token)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		s.logger.Warn("Auth service: failed to resolve session on logout",
			"error", err.Error())
	}

	if err := s.sessions.Invalidate(ctx, token); err != nil {
		s.logger.Error("Auth service: failed to invalidate session",
			"error", err.Error())
		return nil
	}

	if session.UserID != "" {
		s.publish(ctx, ports.AccountEvent{Type: ports.EventLoggedOut, UserID: session.UserID})
	}

	return nil
}

func (s *AuthService) verifyCaptcha(ctx context.Context, challengeID, answer string) error {
	expected, err := s.challenges.Resolve(ctx, challengeID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ErrInvalidCaptcha
		}
		return err
	}

	answer = strings.TrimSpace(answer)
	if answer == "" || !strings.EqualFold(answer, expected) {
		return core.ErrInvalidCaptcha
	}
	return nil
}

func (s *AuthService) consumeChallenge(ctx context.Context, challengeID string) {
	if err := s.challenges.Consume(ctx, challengeID); err != nil {
		s.logger.Error("Auth service: failed to consume challenge",
			"challenge_id", challengeID,
			"error", err.Error())
	}
}

// publish sends an account event; failures never affect the flow
func (s *AuthService) publish(ctx context.Context, event ports.AccountEvent) {
	if s.eventPub == nil {
		return
	}
	event.At = s.now()
	if err := s.eventPub.Publish(ctx, event); err != nil {
		s.logger.Warn("Auth service: failed to publish account event",
			"type", event.Type,
			"user_id", event.UserID,
			"error", err.Error())
	}
}
