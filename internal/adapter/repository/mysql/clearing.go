package mysql

import (
	"context"
	"time"

	clearingDomain "chequemate-backend/internal/domain/clearing"

	"gorm.io/gorm"
)

type ClearingRepository struct{ db *gorm.DB }

func NewClearingRepository(db *gorm.DB) *ClearingRepository { return &ClearingRepository{db: db} }

func (r *ClearingRepository) CreateValidationResult(ctx context.Context, v *clearingDomain.InitialValidationResult) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *ClearingRepository) GetValidationByChequeID(ctx context.Context, chequeID uint64) (*clearingDomain.InitialValidationResult, error) {
	var out clearingDomain.InitialValidationResult
	res := r.db.WithContext(ctx).Where("cheque_id = ?", chequeID).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *ClearingRepository) CreateRecord(ctx context.Context, rec *clearingDomain.ClearingRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *ClearingRepository) GetRecordByChequeID(ctx context.Context, chequeID uint64) (*clearingDomain.ClearingRecord, error) {
	var out clearingDomain.ClearingRecord
	res := r.db.WithContext(ctx).Where("cheque_id = ?", chequeID).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *ClearingRepository) SaveRecord(ctx context.Context, rec *clearingDomain.ClearingRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// MarkStaleForwardedBefore flags forwarded-but-never-responded records older
// than the cutoff. Detection only; nothing is cancelled.
func (r *ClearingRepository) MarkStaleForwardedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&clearingDomain.ClearingRecord{}).
		Where("disposition = ? AND stale = ? AND forwarded_at < ?", clearingDomain.DispositionForwarded, false, cutoff).
		Update("stale", true)
	return res.RowsAffected, res.Error
}
