package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/sakury/vidora/core"
	"github.com/sakury/vidora/internal/logger"
	"github.com/sakury/vidora/ports"
	"golang.org/x/crypto/bcrypt"
)

// Credentials registers accounts and verifies email/password pairs against
// the account store
type Credentials struct {
	accounts ports.AccountStore
	logger   *logger.Logger
	cost     int
	now      func() time.Time
}

// NewCredentials creates a credential verifier hashing passwords at cost
func NewCredentials(accounts ports.AccountStore, logger *logger.Logger, cost int) *Credentials {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Credentials{
		accounts: accounts,
		logger:   logger,
		cost:     cost,
		now:      time.Now,
	}
}

// Register creates an enabled account after checking that neither the email
// nor the nickname is taken
func (c *Credentials) Register(ctx context.Context, email, nickName, password string) (core.Account, error) {
	if err := c.ensureAbsent(ctx, c.accounts.FindByEmail, email, core.ErrDuplicateEmail); err != nil {
		return core.Account{}, err
	}
	if err := c.ensureAbsent(ctx, c.accounts.FindByNickName, nickName, core.ErrDuplicateNickname); err != nil {
		return core.Account{}, err
	}

	userID, err := randomDigits(core.UserIDLength)
	if err != nil {
		return core.Account{}, fmt.Errorf("failed to generate user id: %w", err)
	}

	digest, err := HashPassword(password, c.cost)
	if err != nil {
		return core.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account := core.Account{
		UserID:       userID,
		Email:        email,
		NickName:     nickName,
		Password:     digest,
		Status:       core.AccountEnabled,
		Sex:          core.SexUnknown,
		Theme:        core.DefaultTheme,
		RegisterTime: c.now(),
	}

	if err := c.accounts.Insert(ctx, account); err != nil {
		// a concurrent registration can still win the unique key
		if core.IsBusiness(err) {
			return core.Account{}, err
		}
		c.logger.Error("Credentials: failed to create account",
			"email", email,
			"error", err.Error())
		return core.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	c.logger.Info("Credentials: account registered",
		"user_id", userID)

	return account, nil
}

// Authenticate checks email and password and records the login time and
// client IP. Failing to record the login does not fail authentication.
func (c *Credentials) Authenticate(ctx context.Context, email, password, clientIP string) (core.Account, error) {
	account, err := c.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Account{}, core.ErrInvalidCredentials
		}
		return core.Account{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	if err := ComparePasswordAndHash(password, account.Password); err != nil {
		if !errors.Is(err, ErrMismatchedHashAndPassword) {
			c.logger.Warn("Credentials: stored digest unusable",
				"user_id", account.UserID,
				"error", err.Error())
		}
		return core.Account{}, core.ErrInvalidCredentials
	}

	if !account.Enabled() {
		return core.Account{}, core.ErrAccountDisabled
	}

	now := c.now()
	update := core.AccountUpdate{
		LastLoginTime: &now,
		LastLoginIP:   &clientIP,
	}
	if err := c.accounts.UpdateByUserID(ctx, account.UserID, update); err != nil {
		c.logger.Warn("Credentials: failed to record last login",
			"user_id", account.UserID,
			"error", err.Error())
	} else {
		update.Apply(&account)
	}

	return account, nil
}

func (c *Credentials) ensureAbsent(ctx context.Context, find func(context.Context, string) (core.Account, error), value string, taken error) error {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, core.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check account uniqueness: %w", err)
	}
}

// randomDigits returns n decimal digits from crypto/rand
func randomDigits(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)

	max := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
