package mysql

import (
	"context"

	"chequemate-backend/internal/domain/cheque"
	"chequemate-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Banks:         &BankRepository{db: tx},
		Accounts:      &AccountRepository{db: tx},
		Cheques:       &ChequeRepository{db: tx},
		Clearing:      &ClearingRepository{db: tx},
		Verifications: &VerificationRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinChequeTx(ctx context.Context, chequeID string, fn func(r uow.Repos, c *cheque.Cheque) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		// lock the cheque row up-front so concurrent stage calls serialize
		c, err := r.Cheques.GetByChequeIDForUpdate(ctx, chequeID)
		if err != nil {
			return cheque.ErrNotFound
		}
		return fn(r, c)
	})
}
