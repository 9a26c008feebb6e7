package chequemock

import (
	"context"

	domain "chequemate-backend/internal/domain/cheque"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies cheque.Repository. A
// zero-value Repo behaves like an empty database: lookups miss, writes no-op,
// and TransitionStatus enforces the real transition table in memory.
type Repo struct {
	CreateBookFn                 func(ctx context.Context, b *domain.ChequeBook, leaves []domain.ChequeLeaf) error
	GetBookByBookIDFn            func(ctx context.Context, bookID string) (*domain.ChequeBook, error)
	FindLeafFn                   func(ctx context.Context, accountID uint64, chequeNumber string) (*domain.ChequeLeaf, error)
	GetLeafByIDFn                func(ctx context.Context, id uint64) (*domain.ChequeLeaf, error)
	ConsumeLeafFn                func(ctx context.Context, leafID uint64) error
	SaveLeafFn                   func(ctx context.Context, l *domain.ChequeLeaf) error
	CreateFn                     func(ctx context.Context, c *domain.Cheque) error
	GetByChequeIDFn              func(ctx context.Context, chequeID string) (*domain.Cheque, error)
	GetByChequeIDForUpdateFn     func(ctx context.Context, chequeID string) (*domain.Cheque, error)
	GetByIDFn                    func(ctx context.Context, id uint64) (*domain.Cheque, error)
	GetByIDForUpdateFn           func(ctx context.Context, id uint64) (*domain.Cheque, error)
	DeleteFn                     func(ctx context.Context, chequeID string) error
	TransitionStatusFn           func(ctx context.Context, c *domain.Cheque, to domain.Status) error
	CountDuplicatePresentmentsFn func(ctx context.Context, c *domain.Cheque) (int64, error)
}

func (m *Repo) CreateBook(ctx context.Context, b *domain.ChequeBook, leaves []domain.ChequeLeaf) error {
	if m.CreateBookFn != nil {
		return m.CreateBookFn(ctx, b, leaves)
	}
	return nil
}

func (m *Repo) GetBookByBookID(ctx context.Context, bookID string) (*domain.ChequeBook, error) {
	if m.GetBookByBookIDFn != nil {
		return m.GetBookByBookIDFn(ctx, bookID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) FindLeaf(ctx context.Context, accountID uint64, chequeNumber string) (*domain.ChequeLeaf, error) {
	if m.FindLeafFn != nil {
		return m.FindLeafFn(ctx, accountID, chequeNumber)
	}
	return nil, domain.ErrLeafNotFound
}

func (m *Repo) GetLeafByID(ctx context.Context, id uint64) (*domain.ChequeLeaf, error) {
	if m.GetLeafByIDFn != nil {
		return m.GetLeafByIDFn(ctx, id)
	}
	return nil, domain.ErrLeafNotFound
}

func (m *Repo) ConsumeLeaf(ctx context.Context, leafID uint64) error {
	if m.ConsumeLeafFn != nil {
		return m.ConsumeLeafFn(ctx, leafID)
	}
	return nil
}

func (m *Repo) SaveLeaf(ctx context.Context, l *domain.ChequeLeaf) error {
	if m.SaveLeafFn != nil {
		return m.SaveLeafFn(ctx, l)
	}
	return nil
}

func (m *Repo) Create(ctx context.Context, c *domain.Cheque) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByChequeID(ctx context.Context, chequeID string) (*domain.Cheque, error) {
	if m.GetByChequeIDFn != nil {
		return m.GetByChequeIDFn(ctx, chequeID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByChequeIDForUpdate(ctx context.Context, chequeID string) (*domain.Cheque, error) {
	if m.GetByChequeIDForUpdateFn != nil {
		return m.GetByChequeIDForUpdateFn(ctx, chequeID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Cheque, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Cheque, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Delete(ctx context.Context, chequeID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, chequeID)
	}
	return nil
}

func (m *Repo) TransitionStatus(ctx context.Context, c *domain.Cheque, to domain.Status) error {
	if m.TransitionStatusFn != nil {
		return m.TransitionStatusFn(ctx, c, to)
	}
	if !domain.CanTransition(c.Status, to) {
		return domain.ErrInvalidTransition
	}
	c.Status = to
	c.StatusVersion++
	return nil
}

func (m *Repo) CountDuplicatePresentments(ctx context.Context, c *domain.Cheque) (int64, error) {
	if m.CountDuplicatePresentmentsFn != nil {
		return m.CountDuplicatePresentmentsFn(ctx, c)
	}
	return 0, nil
}
