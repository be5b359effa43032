package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakury/vidora/adapters/account"
	"github.com/sakury/vidora/adapters/store"
	"github.com/sakury/vidora/core"
	"github.com/sakury/vidora/internal/testutil"
	"github.com/sakury/vidora/ports"
)

var errBackend = errors.New("backend unavailable")

type fixedCaptcha struct {
	answer string
	err    error
}

func (f fixedCaptcha) Generate() (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return "data:image/png;base64,AAAA", f.answer, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.AccountEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event ports.AccountEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

// failingCache fails every operation
type failingCache struct{}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error { return errBackend }
func (failingCache) Get(context.Context, string) ([]byte, error)              { return nil, errBackend }
func (failingCache) Delete(context.Context, string) error                     { return errBackend }

type mockAccountStore struct {
	mock.Mock
}

func (m *mockAccountStore) FindByEmail(ctx context.Context, email string) (core.Account, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(core.Account), args.Error(1)
}

func (m *mockAccountStore) FindByNickName(ctx context.Context, nickName string) (core.Account, error) {
	args := m.Called(ctx, nickName)
	return args.Get(0).(core.Account), args.Error(1)
}

func (m *mockAccountStore) FindByUserID(ctx context.Context, userID string) (core.Account, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(core.Account), args.Error(1)
}

func (m *mockAccountStore) Insert(ctx context.Context, a core.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAccountStore) UpdateByUserID(ctx context.Context, userID string, update core.AccountUpdate) error {
	return m.Called(ctx, userID, update).Error(0)
}

func (m *mockAccountStore) DeleteByUserID(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type authFixture struct {
	clock    *testutil.Clock
	cache    *store.MemoryStore
	accounts *account.MemoryRepository
	events   *recordingPublisher
	service  *AuthService
	sessions *SessionStore
	checks   *ChallengeStore
}

const testAnswer = "7"

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	clock := testutil.NewClock(time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC))
	cache := store.NewMemoryStoreWithClock(clock.Now)
	accounts := account.NewMemoryRepository()
	events := &recordingPublisher{}
	log := testutil.MakeNoopLogger()

	credentials := NewCredentials(accounts, log, bcrypt.MinCost)
	credentials.now = clock.Now
	sessions := NewSessionStore(cache, DefaultSessionTTL, DefaultRenewWindow, WithSessionClock(clock.Now))
	checks := NewChallengeStore(cache, DefaultChallengeTTL)

	svc := NewAuthService(checks, credentials, sessions, fixedCaptcha{answer: testAnswer}, events, log)
	svc.now = clock.Now

	return &authFixture{
		clock:    clock,
		cache:    cache,
		accounts: accounts,
		events:   events,
		service:  svc,
		sessions: sessions,
		checks:   checks,
	}
}

func (f *authFixture) challenge(t *testing.T) string {
	t.Helper()
	c, err := f.service.CheckCode(context.Background())
	if err != nil {
		t.Fatalf("check code: %v", err)
	}
	return c.ID
}

func (f *authFixture) register(t *testing.T, email, nick, password string) {
	t.Helper()
	err := f.service.Register(context.Background(), RegisterInput{
		Email:         email,
		NickName:      nick,
		Password:      password,
		CaptchaAnswer: testAnswer,
		ChallengeID:   f.challenge(t),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
}

func (f *authFixture) login(t *testing.T, email, password string) core.Session {
	t.Helper()
	session, err := f.service.Login(context.Background(), LoginInput{
		Email:         email,
		Password:      password,
		CaptchaAnswer: testAnswer,
		ChallengeID:   f.challenge(t),
		ClientIP:      "192.0.2.10",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return session
}
