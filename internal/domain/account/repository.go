package account

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, a *Account) error
	Save(ctx context.Context, a *Account) error
	GetByAccountID(ctx context.Context, accountID string) (*Account, error)
	GetByAccountNumber(ctx context.Context, number string) (*Account, error)
	GetByID(ctx context.Context, id uint64) (*Account, error)

	GetProfile(ctx context.Context, accountID uint64) (*CustomerBehaviorProfile, error)
	SaveProfile(ctx context.Context, p *CustomerBehaviorProfile) error

	// AdjustBalance applies a signed delta atomically (balance = balance + delta).
	AdjustBalance(ctx context.Context, accountID uint64, delta decimal.Decimal) error

	CreateTransaction(ctx context.Context, t *Transaction) error
	CountTransactionsSince(ctx context.Context, accountID uint64, since time.Time) (int, error)

	CreateBlacklistEntry(ctx context.Context, e *BlacklistEntry) error
	// ActiveBlacklistMatches returns active entries whose match key equals any
	// of the given keys. Empty keys are skipped.
	ActiveBlacklistMatches(ctx context.Context, keys ...string) ([]BlacklistEntry, error)
}
