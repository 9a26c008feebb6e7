package mysql

import (
	"context"

	bankDomain "chequemate-backend/internal/domain/bank"

	"gorm.io/gorm"
)

type BankRepository struct{ db *gorm.DB }

func NewBankRepository(db *gorm.DB) *BankRepository { return &BankRepository{db: db} }

func (r *BankRepository) Create(ctx context.Context, b *bankDomain.Bank) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BankRepository) GetByBankID(ctx context.Context, bankID string) (*bankDomain.Bank, error) {
	var out bankDomain.Bank
	res := r.db.WithContext(ctx).Where("bank_id = ?", bankID).First(&out)
	return &out, res.Error
}

func (r *BankRepository) GetByCode(ctx context.Context, code string) (*bankDomain.Bank, error) {
	var out bankDomain.Bank
	res := r.db.WithContext(ctx).Where("code = ?", code).First(&out)
	return &out, res.Error
}
