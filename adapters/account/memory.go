package account

import (
	"context"
	"fmt"
	"sync"

	"github.com/sakury/vidora/core"
	"github.com/sakury/vidora/ports"
)

var _ ports.AccountStore = (*MemoryRepository)(nil)

// MemoryRepository keeps accounts in process memory, enforcing the same
// unique keys as the database schema
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]core.Account
}

// NewMemoryRepository creates an empty in-memory account store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[string]core.Account)}
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (core.Account, error) {
	return r.findBy(func(a core.Account) bool { return a.Email == email })
}

func (r *MemoryRepository) FindByNickName(ctx context.Context, nickName string) (core.Account, error) {
	return r.findBy(func(a core.Account) bool { return a.NickName == nickName })
}

func (r *MemoryRepository) FindByUserID(ctx context.Context, userID string) (core.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[userID]
	if !ok {
		return core.Account{}, core.ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepository) Insert(ctx context.Context, account core.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.UserID]; ok {
		return fmt.Errorf("user id %s: %w", account.UserID, ErrUniqueViolation)
	}
	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return fmt.Errorf("failed to insert account: %w", core.ErrDuplicateEmail)
		}
		if existing.NickName == account.NickName {
			return fmt.Errorf("failed to insert account: %w", core.ErrDuplicateNickname)
		}
	}

	r.accounts[account.UserID] = account
	return nil
}

func (r *MemoryRepository) UpdateByUserID(ctx context.Context, userID string, update core.AccountUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[userID]
	if !ok {
		return core.ErrNotFound
	}
	update.Apply(&a)
	r.accounts[userID] = a
	return nil
}

func (r *MemoryRepository) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[userID]; !ok {
		return core.ErrNotFound
	}
	delete(r.accounts, userID)
	return nil
}

// Count returns the number of stored accounts
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.accounts)
}

func (r *MemoryRepository) findBy(match func(core.Account) bool) (core.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if match(a) {
			return a, nil
		}
	}
	return core.Account{}, core.ErrNotFound
}
