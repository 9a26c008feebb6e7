package bankmock

import (
	"context"
	"errors"

	domain "chequemate-backend/internal/domain/bank"
)

var _ domain.Repository = (*Repo)(nil)

var errNotFound = errors.New("bankmock: bank not found")

// Repo is a function-backed mock that satisfies bank.Repository.
type Repo struct {
	CreateFn      func(ctx context.Context, b *domain.Bank) error
	GetByBankIDFn func(ctx context.Context, bankID string) (*domain.Bank, error)
	GetByCodeFn   func(ctx context.Context, code string) (*domain.Bank, error)
}

func (m *Repo) Create(ctx context.Context, b *domain.Bank) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *Repo) GetByBankID(ctx context.Context, bankID string) (*domain.Bank, error) {
	if m.GetByBankIDFn != nil {
		return m.GetByBankIDFn(ctx, bankID)
	}
	return nil, errNotFound
}

func (m *Repo) GetByCode(ctx context.Context, code string) (*domain.Bank, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}
	return nil, errNotFound
}
