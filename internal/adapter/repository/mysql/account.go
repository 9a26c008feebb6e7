package mysql

import (
	"context"
	"time"

	accountDomain "chequemate-backend/internal/domain/account"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) *AccountRepository { return &AccountRepository{db: db} }

func (r *AccountRepository) Create(ctx context.Context, a *accountDomain.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AccountRepository) Save(ctx context.Context, a *accountDomain.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AccountRepository) GetByAccountID(ctx context.Context, accountID string) (*accountDomain.Account, error) {
	var out accountDomain.Account
	res := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&out)
	return &out, res.Error
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, number string) (*accountDomain.Account, error) {
	var out accountDomain.Account
	res := r.db.WithContext(ctx).Where("account_number = ?", number).First(&out)
	return &out, res.Error
}

func (r *AccountRepository) GetByID(ctx context.Context, id uint64) (*accountDomain.Account, error) {
	var out accountDomain.Account
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *AccountRepository) GetProfile(ctx context.Context, accountID uint64) (*accountDomain.CustomerBehaviorProfile, error) {
	var out accountDomain.CustomerBehaviorProfile
	res := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *AccountRepository) SaveProfile(ctx context.Context, p *accountDomain.CustomerBehaviorProfile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// AdjustBalance applies the delta in a single guarded UPDATE. Debits that
// would overdraw the account affect zero rows and fail with
// ErrInsufficientBalance instead of going negative.
func (r *AccountRepository) AdjustBalance(ctx context.Context, accountID uint64, delta decimal.Decimal) error {
	q := r.db.WithContext(ctx).Model(&accountDomain.Account{}).Where("id = ?", accountID)
	if delta.IsNegative() {
		q = q.Where("balance >= ?", delta.Neg())
	}
	res := q.Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return accountDomain.ErrInsufficientBalance
	}
	return nil
}

func (r *AccountRepository) CreateTransaction(ctx context.Context, t *accountDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *AccountRepository) CountTransactionsSince(ctx context.Context, accountID uint64, since time.Time) (int, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&accountDomain.Transaction{}).
		Where("account_id = ? AND created_at >= ?", accountID, since).
		Count(&n)
	return int(n), res.Error
}

func (r *AccountRepository) CreateBlacklistEntry(ctx context.Context, e *accountDomain.BlacklistEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *AccountRepository) ActiveBlacklistMatches(ctx context.Context, keys ...string) ([]accountDomain.BlacklistEntry, error) {
	filtered := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			filtered = append(filtered, k)
		}
	}
	if len(filtered) == 0 {
		return nil, nil
	}
	var out []accountDomain.BlacklistEntry
	res := r.db.WithContext(ctx).
		Where("active = ? AND match_key IN ?", true, filtered).
		Find(&out)
	return out, res.Error
}
