package accountmock

import (
	"context"
	"time"

	domain "chequemate-backend/internal/domain/account"

	"github.com/shopspring/decimal"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies account.Repository. A
// zero-value Repo acts like an empty database.
type Repo struct {
	CreateFn                 func(ctx context.Context, a *domain.Account) error
	SaveFn                   func(ctx context.Context, a *domain.Account) error
	GetByAccountIDFn         func(ctx context.Context, accountID string) (*domain.Account, error)
	GetByAccountNumberFn     func(ctx context.Context, number string) (*domain.Account, error)
	GetByIDFn                func(ctx context.Context, id uint64) (*domain.Account, error)
	GetProfileFn             func(ctx context.Context, accountID uint64) (*domain.CustomerBehaviorProfile, error)
	SaveProfileFn            func(ctx context.Context, p *domain.CustomerBehaviorProfile) error
	AdjustBalanceFn          func(ctx context.Context, accountID uint64, delta decimal.Decimal) error
	CreateTransactionFn      func(ctx context.Context, t *domain.Transaction) error
	CountTransactionsSinceFn func(ctx context.Context, accountID uint64, since time.Time) (int, error)
	CreateBlacklistEntryFn   func(ctx context.Context, e *domain.BlacklistEntry) error
	ActiveBlacklistMatchesFn func(ctx context.Context, keys ...string) ([]domain.BlacklistEntry, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, a *domain.Account) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByAccountID(ctx context.Context, accountID string) (*domain.Account, error) {
	if m.GetByAccountIDFn != nil {
		return m.GetByAccountIDFn(ctx, accountID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByAccountNumber(ctx context.Context, number string) (*domain.Account, error) {
	if m.GetByAccountNumberFn != nil {
		return m.GetByAccountNumberFn(ctx, number)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetProfile(ctx context.Context, accountID uint64) (*domain.CustomerBehaviorProfile, error) {
	if m.GetProfileFn != nil {
		return m.GetProfileFn(ctx, accountID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) SaveProfile(ctx context.Context, p *domain.CustomerBehaviorProfile) error {
	if m.SaveProfileFn != nil {
		return m.SaveProfileFn(ctx, p)
	}
	return nil
}

func (m *Repo) AdjustBalance(ctx context.Context, accountID uint64, delta decimal.Decimal) error {
	if m.AdjustBalanceFn != nil {
		return m.AdjustBalanceFn(ctx, accountID, delta)
	}
	return nil
}

func (m *Repo) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	if m.CreateTransactionFn != nil {
		return m.CreateTransactionFn(ctx, t)
	}
	return nil
}

func (m *Repo) CountTransactionsSince(ctx context.Context, accountID uint64, since time.Time) (int, error) {
	if m.CountTransactionsSinceFn != nil {
		return m.CountTransactionsSinceFn(ctx, accountID, since)
	}
	return 0, nil
}

func (m *Repo) CreateBlacklistEntry(ctx context.Context, e *domain.BlacklistEntry) error {
	if m.CreateBlacklistEntryFn != nil {
		return m.CreateBlacklistEntryFn(ctx, e)
	}
	return nil
}

func (m *Repo) ActiveBlacklistMatches(ctx context.Context, keys ...string) ([]domain.BlacklistEntry, error) {
	if m.ActiveBlacklistMatchesFn != nil {
		return m.ActiveBlacklistMatchesFn(ctx, keys...)
	}
	return nil, nil
}
