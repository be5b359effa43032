package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakury/vidora/adapters/account"
	"github.com/sakury/vidora/core"
	"github.com/sakury/vidora/internal/testutil"
)

func newTestCredentials() (*Credentials, *account.MemoryRepository) {
	repo := account.NewMemoryRepository()
	c := NewCredentials(repo, testutil.MakeNoopLogger(), bcrypt.MinCost)
	c.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return c, repo
}

func TestCredentials_Register(t *testing.T) {
	ctx := context.Background()
	c, repo := newTestCredentials()

	created, err := c.Register(ctx, "mika@example.com", "mika", "secret123")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[0-9]{10}$`), created.UserID)
	assert.Equal(t, core.AccountEnabled, created.Status)
	assert.Equal(t, core.SexUnknown, created.Sex)
	assert.Equal(t, core.DefaultTheme, created.Theme)
	assert.Zero(t, created.TotalCoinCount)
	assert.Zero(t, created.CurrentCoinCount)
	assert.Equal(t, c.now(), created.RegisterTime)

	stored, err := repo.FindByEmail(ctx, "mika@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestCredentials_RegisterDuplicates(t *testing.T) {
	ctx := context.Background()
	c, repo := newTestCredentials()

	_, err := c.Register(ctx, "a@example.com", "alpha", "secret123")
	require.NoError(t, err)

	_, err = c.Register(ctx, "a@example.com", "beta", "secret123")
	assert.ErrorIs(t, err, core.ErrDuplicateEmail)

	_, err = c.Register(ctx, "b@example.com", "alpha", "secret123")
	assert.ErrorIs(t, err, core.ErrDuplicateNickname)

	assert.Equal(t, 1, repo.Count())
}

func TestCredentials_Authenticate(t *testing.T) {
	ctx := context.Background()
	c, repo := newTestCredentials()

	created, err := c.Register(ctx, "mika@example.com", "mika", "secret123")
	require.NoError(t, err)

	got, err := c.Authenticate(ctx, "mika@example.com", "secret123", "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, got.UserID)
	require.NotNil(t, got.LastLoginTime)
	assert.Equal(t, c.now(), *got.LastLoginTime)
	assert.Equal(t, "203.0.113.9", got.LastLoginIP)

	stored, err := repo.FindByUserID(ctx, created.UserID)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", stored.LastLoginIP)
}

func TestCredentials_AuthenticateRejects(t *testing.T) {
	ctx := context.Background()
	c, repo := newTestCredentials()

	created, err := c.Register(ctx, "mika@example.com", "mika", "secret123")
	require.NoError(t, err)

	_, err = c.Authenticate(ctx, "mika@example.com", "wrong1234", "")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)

	_, err = c.Authenticate(ctx, "nobody@example.com", "secret123", "")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)

	disabled := core.AccountDisabled
	require.NoError(t, repo.UpdateByUserID(ctx, created.UserID, core.AccountUpdate{Status: &disabled}))

	_, err = c.Authenticate(ctx, "mika@example.com", "secret123", "")
	assert.ErrorIs(t, err, core.ErrAccountDisabled)

	// a wrong password on a disabled account still reads as bad credentials
	_, err = c.Authenticate(ctx, "mika@example.com", "wrong1234", "")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestCredentials_LastLoginFailureIsIgnored(t *testing.T) {
	ctx := context.Background()

	digest, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)

	store := new(mockAccountStore)
	store.On("FindByEmail", ctx, "mika@example.com").
		Return(core.Account{UserID: "1234567890", Password: digest, Status: core.AccountEnabled}, nil)
	store.On("UpdateByUserID", ctx, "1234567890", mock.AnythingOfType("core.AccountUpdate")).
		Return(errBackend)

	c := NewCredentials(store, testutil.MakeNoopLogger(), bcrypt.MinCost)

	got, err := c.Authenticate(ctx, "mika@example.com", "secret123", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "1234567890", got.UserID)
	assert.Nil(t, got.LastLoginTime)
	store.AssertExpectations(t)
}

func TestCredentials_InfrastructureErrors(t *testing.T) {
	ctx := context.Background()

	store := new(mockAccountStore)
	store.On("FindByEmail", ctx, mock.Anything).Return(core.Account{}, errBackend)

	c := NewCredentials(store, testutil.MakeNoopLogger(), bcrypt.MinCost)

	_, err := c.Authenticate(ctx, "mika@example.com", "secret123", "")
	assert.ErrorIs(t, err, errBackend)
	assert.False(t, core.IsBusiness(err))

	_, err = c.Register(ctx, "mika@example.com", "mika", "secret123")
	assert.ErrorIs(t, err, errBackend)
	assert.False(t, core.IsBusiness(err))
}

func TestCredentials_RegisterRaceLosesToUniqueKey(t *testing.T) {
	ctx := context.Background()

	store := new(mockAccountStore)
	store.On("FindByEmail", ctx, "mika@example.com").Return(core.Account{}, core.ErrNotFound)
	store.On("FindByNickName", ctx, "mika").Return(core.Account{}, core.ErrNotFound)
	store.On("Insert", ctx, mock.AnythingOfType("core.Account")).Return(core.ErrDuplicateEmail)

	c := NewCredentials(store, testutil.MakeNoopLogger(), bcrypt.MinCost)

	_, err := c.Register(ctx, "mika@example.com", "mika", "secret123")
	assert.ErrorIs(t, err, core.ErrDuplicateEmail)
	store.AssertExpectations(t)
}

func TestNewCredentials_CostFallback(t *testing.T) {
	c := NewCredentials(account.NewMemoryRepository(), testutil.MakeNoopLogger(), 0)
	assert.Equal(t, bcrypt.DefaultCost, c.cost)
}
