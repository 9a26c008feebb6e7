package uowmock

import (
	"context"
	"errors"

	"chequemate-backend/internal/domain/cheque"
	"chequemate-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn       func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinChequeTxFn func(ctx context.Context, chequeID string, fn func(r uow.Repos, c *cheque.Cheque) error) error
}

func New() *UoW { return &UoW{} }

func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinChequeTx(fn func(context.Context, string, func(uow.Repos, *cheque.Cheque) error) error) *UoW {
	m.WithinChequeTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinChequeTx(ctx context.Context, chequeID string, fn func(r uow.Repos, c *cheque.Cheque) error) error {
	if m.WithinChequeTxFn != nil {
		return m.WithinChequeTxFn(ctx, chequeID, fn)
	}
	return errUnimplemented
}

// Passthrough wires both transaction shapes straight to the given repos with
// no real transaction around them. The cheque for WithinChequeTx is resolved
// through r.Cheques so tests control it the same way the database would.
func Passthrough(r uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			return fn(r)
		},
		WithinChequeTxFn: func(ctx context.Context, chequeID string, fn func(uow.Repos, *cheque.Cheque) error) error {
			c, err := r.Cheques.GetByChequeIDForUpdate(ctx, chequeID)
			if err != nil {
				return cheque.ErrNotFound
			}
			return fn(r, c)
		},
	}
}
