package verificationmock

import (
	"context"

	domain "chequemate-backend/internal/domain/verification"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies verification.Repository.
type Repo struct {
	UpsertFn                   func(ctx context.Context, v *domain.DeepVerification) error
	GetByChequeIDFn            func(ctx context.Context, chequeID uint64) (*domain.DeepVerification, error)
	CreateFlagFn               func(ctx context.Context, f *domain.FraudFlag) error
	SaveFlagFn                 func(ctx context.Context, f *domain.FraudFlag) error
	GetFlagByFlagIDForUpdateFn func(ctx context.Context, flagID string) (*domain.FraudFlag, error)
	PendingFlagByChequeIDFn    func(ctx context.Context, chequeID uint64) (*domain.FraudFlag, error)
	PendingFlagsFn             func(ctx context.Context, limit int) ([]domain.FraudFlag, error)
	CreateSettlementFn         func(ctx context.Context, s *domain.Settlement) error
	SaveSettlementFn           func(ctx context.Context, s *domain.Settlement) error
	GetSettlementByChequeIDFn  func(ctx context.Context, chequeID uint64) (*domain.Settlement, error)
	CreateBounceFn             func(ctx context.Context, b *domain.BounceRecord) error
}

func (m *Repo) Upsert(ctx context.Context, v *domain.DeepVerification) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, v)
	}
	return nil
}

func (m *Repo) GetByChequeID(ctx context.Context, chequeID uint64) (*domain.DeepVerification, error) {
	if m.GetByChequeIDFn != nil {
		return m.GetByChequeIDFn(ctx, chequeID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) CreateFlag(ctx context.Context, f *domain.FraudFlag) error {
	if m.CreateFlagFn != nil {
		return m.CreateFlagFn(ctx, f)
	}
	return nil
}

func (m *Repo) SaveFlag(ctx context.Context, f *domain.FraudFlag) error {
	if m.SaveFlagFn != nil {
		return m.SaveFlagFn(ctx, f)
	}
	return nil
}

func (m *Repo) GetFlagByFlagIDForUpdate(ctx context.Context, flagID string) (*domain.FraudFlag, error) {
	if m.GetFlagByFlagIDForUpdateFn != nil {
		return m.GetFlagByFlagIDForUpdateFn(ctx, flagID)
	}
	return nil, domain.ErrFlagNotFound
}

func (m *Repo) PendingFlagByChequeID(ctx context.Context, chequeID uint64) (*domain.FraudFlag, error) {
	if m.PendingFlagByChequeIDFn != nil {
		return m.PendingFlagByChequeIDFn(ctx, chequeID)
	}
	return nil, domain.ErrFlagNotFound
}

func (m *Repo) PendingFlags(ctx context.Context, limit int) ([]domain.FraudFlag, error) {
	if m.PendingFlagsFn != nil {
		return m.PendingFlagsFn(ctx, limit)
	}
	return nil, nil
}

func (m *Repo) CreateSettlement(ctx context.Context, s *domain.Settlement) error {
	if m.CreateSettlementFn != nil {
		return m.CreateSettlementFn(ctx, s)
	}
	return nil
}

func (m *Repo) SaveSettlement(ctx context.Context, s *domain.Settlement) error {
	if m.SaveSettlementFn != nil {
		return m.SaveSettlementFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetSettlementByChequeID(ctx context.Context, chequeID uint64) (*domain.Settlement, error) {
	if m.GetSettlementByChequeIDFn != nil {
		return m.GetSettlementByChequeIDFn(ctx, chequeID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) CreateBounce(ctx context.Context, b *domain.BounceRecord) error {
	if m.CreateBounceFn != nil {
		return m.CreateBounceFn(ctx, b)
	}
	return nil
}
