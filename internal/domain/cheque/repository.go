package cheque

import "context"

type Repository interface {
	CreateBook(ctx context.Context, b *ChequeBook, leaves []ChequeLeaf) error
	GetBookByBookID(ctx context.Context, bookID string) (*ChequeBook, error)
	// FindLeaf resolves the leaf for a drawer account and cheque number across
	// the account's books.
	FindLeaf(ctx context.Context, accountID uint64, chequeNumber string) (*ChequeLeaf, error)
	GetLeafByID(ctx context.Context, id uint64) (*ChequeLeaf, error)
	// ConsumeLeaf flips unused→used with a guarded update; any other current
	// status yields ErrLeafAlreadyUsed.
	ConsumeLeaf(ctx context.Context, leafID uint64) error
	SaveLeaf(ctx context.Context, l *ChequeLeaf) error

	Create(ctx context.Context, c *Cheque) error
	GetByChequeID(ctx context.Context, chequeID string) (*Cheque, error)
	GetByChequeIDForUpdate(ctx context.Context, chequeID string) (*Cheque, error)
	GetByID(ctx context.Context, id uint64) (*Cheque, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*Cheque, error)
	Delete(ctx context.Context, chequeID string) error

	// TransitionStatus is the compare-and-swap at the heart of the state
	// machine: a single UPDATE guarded by the current status and version.
	// Zero rows affected means the precondition no longer holds and the call
	// fails with ErrInvalidTransition; the status is never overwritten blindly.
	TransitionStatus(ctx context.Context, c *Cheque, to Status) error

	// CountDuplicatePresentments counts other live cheques with the same
	// number for the same drawer account that already entered clearing.
	CountDuplicatePresentments(ctx context.Context, c *Cheque) (int64, error)
}
