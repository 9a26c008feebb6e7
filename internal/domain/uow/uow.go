package uow

import (
	"context"

	"chequemate-backend/internal/domain/account"
	"chequemate-backend/internal/domain/bank"
	"chequemate-backend/internal/domain/cheque"
	"chequemate-backend/internal/domain/clearing"
	"chequemate-backend/internal/domain/verification"
)

type Repos struct {
	Banks         bank.Repository
	Accounts      account.Repository
	Cheques       cheque.Repository
	Clearing      clearing.Repository
	Verifications verification.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn inside one database transaction.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinChequeTx locks the cheque row up-front, then runs fn. Every stage
	// transition goes through here so two concurrent calls serialize on the row.
	WithinChequeTx(ctx context.Context, chequeID string, fn func(r Repos, c *cheque.Cheque) error) error
}
