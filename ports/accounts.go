package ports

import (
	"context"

	"github.com/sakury/vidora/core"
)

// AccountStore is the persistent user-record collaborator. Finders return
// core.ErrNotFound when no record matches.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (core.Account, error)
	FindByNickName(ctx context.Context, nickName string) (core.Account, error)
	FindByUserID(ctx context.Context, userID string) (core.Account, error)
	Insert(ctx context.Context, account core.Account) error
	UpdateByUserID(ctx context.Context, userID string, update core.AccountUpdate) error
	DeleteByUserID(ctx context.Context, userID string) error
}
