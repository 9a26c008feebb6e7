package clearingmock

import (
	"context"
	"time"

	domain "chequemate-backend/internal/domain/clearing"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies clearing.Repository.
type Repo struct {
	CreateValidationResultFn   func(ctx context.Context, v *domain.InitialValidationResult) error
	GetValidationByChequeIDFn  func(ctx context.Context, chequeID uint64) (*domain.InitialValidationResult, error)
	CreateRecordFn             func(ctx context.Context, r *domain.ClearingRecord) error
	GetRecordByChequeIDFn      func(ctx context.Context, chequeID uint64) (*domain.ClearingRecord, error)
	SaveRecordFn               func(ctx context.Context, r *domain.ClearingRecord) error
	MarkStaleForwardedBeforeFn func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *Repo) CreateValidationResult(ctx context.Context, v *domain.InitialValidationResult) error {
	if m.CreateValidationResultFn != nil {
		return m.CreateValidationResultFn(ctx, v)
	}
	return nil
}

func (m *Repo) GetValidationByChequeID(ctx context.Context, chequeID uint64) (*domain.InitialValidationResult, error) {
	if m.GetValidationByChequeIDFn != nil {
		return m.GetValidationByChequeIDFn(ctx, chequeID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) CreateRecord(ctx context.Context, r *domain.ClearingRecord) error {
	if m.CreateRecordFn != nil {
		return m.CreateRecordFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetRecordByChequeID(ctx context.Context, chequeID uint64) (*domain.ClearingRecord, error) {
	if m.GetRecordByChequeIDFn != nil {
		return m.GetRecordByChequeIDFn(ctx, chequeID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) SaveRecord(ctx context.Context, r *domain.ClearingRecord) error {
	if m.SaveRecordFn != nil {
		return m.SaveRecordFn(ctx, r)
	}
	return nil
}

func (m *Repo) MarkStaleForwardedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.MarkStaleForwardedBeforeFn != nil {
		return m.MarkStaleForwardedBeforeFn(ctx, cutoff)
	}
	return 0, nil
}
