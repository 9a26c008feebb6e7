package mysql

import (
	"context"
	"errors"

	verifDomain "chequemate-backend/internal/domain/verification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VerificationRepository struct{ db *gorm.DB }

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Upsert is the idempotency anchor of the scoring engine: at most one row per
// cheque, backed by the unique index on cheque_id. The existing row (if any)
// is locked and updated in place; a lost create race falls back to the update
// path instead of surfacing the duplicate-key error.
func (r *VerificationRepository) Upsert(ctx context.Context, v *verifDomain.DeepVerification) error {
	var existing verifDomain.DeepVerification
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("cheque_id = ?", v.ChequeID).
		First(&existing).Error
	switch {
	case err == nil:
		return r.replace(ctx, &existing, v)
	case errors.Is(err, gorm.ErrRecordNotFound):
		v.RunCount = 1
		createErr := r.db.WithContext(ctx).Create(v).Error
		if createErr == nil {
			return nil
		}
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return createErr
		}
		// Concurrent create won; re-read and update.
		if err := r.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cheque_id = ?", v.ChequeID).
			First(&existing).Error; err != nil {
			return err
		}
		return r.replace(ctx, &existing, v)
	default:
		return err
	}
}

// replace rewrites the assessment fields of the existing row, preserving the
// row identity and bumping the run counter.
func (r *VerificationRepository) replace(ctx context.Context, existing, v *verifDomain.DeepVerification) error {
	v.ID = existing.ID
	v.VerificationID = existing.VerificationID
	v.CreatedAt = existing.CreatedAt
	v.RunCount = existing.RunCount + 1
	if v.FinalDecision == "" {
		v.FinalDecision = existing.FinalDecision
	}
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *VerificationRepository) GetByChequeID(ctx context.Context, chequeID uint64) (*verifDomain.DeepVerification, error) {
	var out verifDomain.DeepVerification
	res := r.db.WithContext(ctx).Where("cheque_id = ?", chequeID).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *VerificationRepository) CreateFlag(ctx context.Context, f *verifDomain.FraudFlag) error {
	f.PriorityRank = verifDomain.PriorityRankOf(f.Priority)
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *VerificationRepository) SaveFlag(ctx context.Context, f *verifDomain.FraudFlag) error {
	f.PriorityRank = verifDomain.PriorityRankOf(f.Priority)
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *VerificationRepository) GetFlagByFlagIDForUpdate(ctx context.Context, flagID string) (*verifDomain.FraudFlag, error) {
	var out verifDomain.FraudFlag
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("flag_id = ?", flagID).
		First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *VerificationRepository) PendingFlagByChequeID(ctx context.Context, chequeID uint64) (*verifDomain.FraudFlag, error) {
	var out verifDomain.FraudFlag
	res := r.db.WithContext(ctx).
		Where("cheque_id = ? AND status = ?", chequeID, verifDomain.FlagPending).
		First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

// PendingFlags is the review queue: urgent>high>medium>low, oldest first
// within a priority.
func (r *VerificationRepository) PendingFlags(ctx context.Context, limit int) ([]verifDomain.FraudFlag, error) {
	var out []verifDomain.FraudFlag
	res := r.db.WithContext(ctx).
		Where("status = ?", verifDomain.FlagPending).
		Order("priority_rank ASC, created_at ASC, id ASC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

func (r *VerificationRepository) CreateSettlement(ctx context.Context, s *verifDomain.Settlement) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *VerificationRepository) SaveSettlement(ctx context.Context, s *verifDomain.Settlement) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *VerificationRepository) GetSettlementByChequeID(ctx context.Context, chequeID uint64) (*verifDomain.Settlement, error) {
	var out verifDomain.Settlement
	res := r.db.WithContext(ctx).Where("cheque_id = ?", chequeID).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *VerificationRepository) CreateBounce(ctx context.Context, b *verifDomain.BounceRecord) error {
	return r.db.WithContext(ctx).Create(b).Error
}
