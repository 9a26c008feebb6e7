package registry

import (
	"context"
	"errors"
	"fmt"

	"chequemate-backend/internal/domain/account"
	"chequemate-backend/internal/domain/bank"
	"chequemate-backend/internal/domain/cheque"
	"chequemate-backend/internal/domain/uow"
	"chequemate-backend/pkg/id"

	"github.com/shopspring/decimal"
)

// Usecase manages the reference data the clearing pipeline runs against:
// banks, accounts, cheque books and blacklist entries.
type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

type CreateBankInput struct {
	Code          string
	Name          string
	Type          bank.Type
	RoutingNumber string
}

func (u *Usecase) CreateBank(ctx context.Context, in CreateBankInput) (*bank.Bank, error) {
	if in.Code == "" || in.Name == "" {
		return nil, errors.New("bank code and name are required")
	}
	if in.Type == "" {
		in.Type = bank.TypeCommercial
	}
	b := &bank.Bank{
		BankID:        id.NewID32(),
		Code:          in.Code,
		Name:          in.Name,
		Type:          in.Type,
		RoutingNumber: in.RoutingNumber,
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Banks.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

type CreateAccountInput struct {
	BankCode      string
	AccountNumber string
	HolderName    string
	NationalID    string
	Balance       decimal.Decimal
}

func (u *Usecase) CreateAccount(ctx context.Context, in CreateAccountInput) (*account.Account, error) {
	if in.BankCode == "" || in.AccountNumber == "" {
		return nil, errors.New("bank code and account number are required")
	}
	var a *account.Account
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		b, err := r.Banks.GetByCode(ctx, in.BankCode)
		if err != nil {
			return fmt.Errorf("bank %s not found", in.BankCode)
		}
		a = &account.Account{
			AccountID:     id.NewID32(),
			BankID:        b.ID,
			AccountNumber: in.AccountNumber,
			HolderName:    in.HolderName,
			NationalID:    in.NationalID,
			Balance:       in.Balance,
			Status:        account.StatusActive,
		}
		return r.Accounts.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

type CreateBookInput struct {
	AccountNumber string
	SerialStart   int
	LeafCount     int
}

// CreateChequeBook issues a book with a contiguous serial range; one unused
// leaf per serial.
func (u *Usecase) CreateChequeBook(ctx context.Context, in CreateBookInput) (*cheque.ChequeBook, error) {
	if in.LeafCount <= 0 || in.LeafCount > 200 {
		return nil, errors.New("leaf count must be 1..200")
	}
	var book *cheque.ChequeBook
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Accounts.GetByAccountNumber(ctx, in.AccountNumber)
		if err != nil {
			return account.ErrNotFound
		}
		book = &cheque.ChequeBook{
			BookID:      id.NewID32(),
			AccountID:   a.ID,
			SerialStart: in.SerialStart,
			SerialEnd:   in.SerialStart + in.LeafCount - 1,
		}
		leaves := make([]cheque.ChequeLeaf, 0, in.LeafCount)
		for i := 0; i < in.LeafCount; i++ {
			leaves = append(leaves, cheque.ChequeLeaf{
				ChequeNumber: fmt.Sprintf("%06d", in.SerialStart+i),
				Status:       cheque.LeafUnused,
			})
		}
		return r.Cheques.CreateBook(ctx, book, leaves)
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

type BlacklistInput struct {
	EntryType account.BlacklistEntryType
	MatchKey  string
	Reason    string
}

func (u *Usecase) AddBlacklistEntry(ctx context.Context, in BlacklistInput) error {
	switch in.EntryType {
	case account.BlacklistAccount, account.BlacklistCheque, account.BlacklistPerson:
	default:
		return fmt.Errorf("unknown blacklist entry type %q", in.EntryType)
	}
	if in.MatchKey == "" {
		return errors.New("match key is required")
	}
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Accounts.CreateBlacklistEntry(ctx, &account.BlacklistEntry{
			EntryType: in.EntryType,
			MatchKey:  in.MatchKey,
			Reason:    in.Reason,
			Active:    true,
		})
	})
}

// SetStopPayment toggles the stop-payment flag on a leaf identified by the
// drawer account and cheque number.
func (u *Usecase) SetStopPayment(ctx context.Context, accountNumber, chequeNumber string, stop bool) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Accounts.GetByAccountNumber(ctx, accountNumber)
		if err != nil {
			return account.ErrNotFound
		}
		leaf, err := r.Cheques.FindLeaf(ctx, a.ID, chequeNumber)
		if err != nil {
			return cheque.ErrLeafNotFound
		}
		leaf.StopPayment = stop
		return r.Cheques.SaveLeaf(ctx, leaf)
	})
}
