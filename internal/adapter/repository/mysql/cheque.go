package mysql

import (
	"context"
	"time"

	chequeDomain "chequemate-backend/internal/domain/cheque"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChequeRepository struct{ db *gorm.DB }

func NewChequeRepository(db *gorm.DB) *ChequeRepository { return &ChequeRepository{db: db} }

func (r *ChequeRepository) CreateBook(ctx context.Context, b *chequeDomain.ChequeBook, leaves []chequeDomain.ChequeLeaf) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return err
	}
	for i := range leaves {
		leaves[i].ChequeBookID = b.ID
	}
	return r.db.WithContext(ctx).CreateInBatches(leaves, 100).Error
}

func (r *ChequeRepository) GetBookByBookID(ctx context.Context, bookID string) (*chequeDomain.ChequeBook, error) {
	var out chequeDomain.ChequeBook
	res := r.db.WithContext(ctx).Where("book_id = ?", bookID).First(&out)
	return &out, res.Error
}

func (r *ChequeRepository) FindLeaf(ctx context.Context, accountID uint64, chequeNumber string) (*chequeDomain.ChequeLeaf, error) {
	var out chequeDomain.ChequeLeaf
	res := r.db.WithContext(ctx).
		Joins("JOIN cheque_books ON cheque_books.id = cheque_leaves.cheque_book_id").
		Where("cheque_books.account_id = ? AND cheque_leaves.cheque_number = ?", accountID, chequeNumber).
		First(&out)
	return &out, res.Error
}

func (r *ChequeRepository) GetLeafByID(ctx context.Context, id uint64) (*chequeDomain.ChequeLeaf, error) {
	var out chequeDomain.ChequeLeaf
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

// ConsumeLeaf flips unused→used with a guarded update; the leaf is consumed
// exactly once even if two cheques reference it concurrently.
func (r *ChequeRepository) ConsumeLeaf(ctx context.Context, leafID uint64) error {
	res := r.db.WithContext(ctx).Model(&chequeDomain.ChequeLeaf{}).
		Where("id = ? AND status = ?", leafID, chequeDomain.LeafUnused).
		Update("status", chequeDomain.LeafUsed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return chequeDomain.ErrLeafAlreadyUsed
	}
	return nil
}

func (r *ChequeRepository) SaveLeaf(ctx context.Context, l *chequeDomain.ChequeLeaf) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *ChequeRepository) Create(ctx context.Context, c *chequeDomain.Cheque) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ChequeRepository) GetByChequeID(ctx context.Context, chequeID string) (*chequeDomain.Cheque, error) {
	var out chequeDomain.Cheque
	res := r.db.WithContext(ctx).Where("cheque_id = ?", chequeID).First(&out)
	return &out, res.Error
}

func (r *ChequeRepository) GetByChequeIDForUpdate(ctx context.Context, chequeID string) (*chequeDomain.Cheque, error) {
	var out chequeDomain.Cheque
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("cheque_id = ?", chequeID).
		First(&out)
	return &out, res.Error
}

func (r *ChequeRepository) GetByID(ctx context.Context, id uint64) (*chequeDomain.Cheque, error) {
	var out chequeDomain.Cheque
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ChequeRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*chequeDomain.Cheque, error) {
	var out chequeDomain.Cheque
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *ChequeRepository) Delete(ctx context.Context, chequeID string) error {
	return r.db.WithContext(ctx).
		Where("cheque_id = ?", chequeID).
		Delete(&chequeDomain.Cheque{}).Error
}

// TransitionStatus is the compare-and-swap behind every lifecycle move: one
// UPDATE guarded by the expected status and version. Zero rows affected means
// another call won the race or the precondition never held.
func (r *ChequeRepository) TransitionStatus(ctx context.Context, c *chequeDomain.Cheque, to chequeDomain.Status) error {
	if !chequeDomain.CanTransition(c.Status, to) {
		return chequeDomain.ErrInvalidTransition
	}
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&chequeDomain.Cheque{}).
		Where("id = ? AND status = ? AND status_version = ?", c.ID, c.Status, c.StatusVersion).
		Updates(map[string]any{
			"status":            to,
			"status_version":    c.StatusVersion + 1,
			"status_updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return chequeDomain.ErrInvalidTransition
	}
	c.Status = to
	c.StatusVersion++
	c.StatusUpdatedAt = now
	return nil
}

// CountDuplicatePresentments counts other live cheques with the same number
// for the same drawer account that already made it into clearing or beyond.
func (r *ChequeRepository) CountDuplicatePresentments(ctx context.Context, c *chequeDomain.Cheque) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&chequeDomain.Cheque{}).
		Where("cheque_number = ? AND drawer_account_id = ? AND id <> ?", c.ChequeNumber, c.DrawerAccountID, c.ID).
		Where("status IN ?", []chequeDomain.Status{
			chequeDomain.StatusClearing,
			chequeDomain.StatusAtDrawerBank,
			chequeDomain.StatusFlagged,
			chequeDomain.StatusApproved,
		}).
		Count(&n)
	return n, res.Error
}
