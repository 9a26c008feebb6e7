package verification

import "context"

type Repository interface {
	// Upsert creates the verification row for its cheque, or replaces the
	// assessment fields if one already exists. The unique index on cheque_id
	// backs it; concurrent re-verification must never surface a duplicate-key
	// error or leave two rows.
	Upsert(ctx context.Context, v *DeepVerification) error
	GetByChequeID(ctx context.Context, chequeID uint64) (*DeepVerification, error)

	CreateFlag(ctx context.Context, f *FraudFlag) error
	SaveFlag(ctx context.Context, f *FraudFlag) error
	GetFlagByFlagIDForUpdate(ctx context.Context, flagID string) (*FraudFlag, error)
	PendingFlagByChequeID(ctx context.Context, chequeID uint64) (*FraudFlag, error)
	// PendingFlags returns the review queue: urgent>high>medium>low, then
	// oldest first.
	PendingFlags(ctx context.Context, limit int) ([]FraudFlag, error)

	CreateSettlement(ctx context.Context, s *Settlement) error
	SaveSettlement(ctx context.Context, s *Settlement) error
	GetSettlementByChequeID(ctx context.Context, chequeID uint64) (*Settlement, error)

	CreateBounce(ctx context.Context, b *BounceRecord) error
}
