package chequeuc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chequemate-backend/internal/domain/account"
	"chequemate-backend/internal/domain/cheque"
	"chequemate-backend/internal/domain/clearing"
	"chequemate-backend/internal/domain/events"
	"chequemate-backend/internal/domain/uow"
	"chequemate-backend/internal/domain/verification"
	"chequemate-backend/internal/usecase/validation"
	"chequemate-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Usecase struct {
	uow       uow.UnitOfWork
	publisher events.Publisher
	valCfg    validation.Config
}

func NewUsecase(tx uow.UnitOfWork, pub events.Publisher, valCfg validation.Config) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Usecase{uow: tx, publisher: pub, valCfg: valCfg}
}

// CreateChequeInput is the vision-extraction output the presenting bank
// ingests, plus the declared deposit details.
type CreateChequeInput struct {
	ChequeNumber            string
	DrawerAccountNumber     string
	PresentingAccountNumber string // empty if not yet deposited to an account
	PayeeName               string
	Amount                  decimal.Decimal
	OCRAmount               decimal.Decimal
	IssueDate               time.Time
	MICRCode                string
}

type ChequeDTO struct {
	ChequeID     string          `json:"cheque_id"`
	ChequeNumber string          `json:"cheque_number"`
	PayeeName    string          `json:"payee_name"`
	Amount       decimal.Decimal `json:"amount"`
	IssueDate    time.Time       `json:"issue_date"`
	MICRCode     string          `json:"micr_code"`
	SameBank     bool            `json:"same_bank"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

/// ChequeDetailDTO is the full queryable picture of a cheque: whatever stage
// records exist are attached, so no failure mode is unobservable.
type ChequeDetailDTO struct {
	ChequeDTO
	Validation   *clearing.InitialValidationResult `json:"validation,omitempty"`
	Clearing     *clearingDTO                      `json:"clearing,omitempty"`
	Verification *verification.DeepVerification   `json:"verification,omitempty"`
	Flag         *verification.FraudFlag          `json:"flag,omitempty"`
	Settlement   *verification.Settlement         `json:"settlement,omitempty"`
}

type clearingDTO struct {
	BlacklistHit   bool       `json:"blacklist_hit"`
	DuplicateHit   bool       `json:"duplicate_hit"`
	StopPaymentHit bool       `json:"stop_payment_hit"`
	Disposition    string     `json:"disposition"`
	ResponseStatus string     `json:"response_status,omitempty"`
	InterBank      bool       `json:"inter_bank"`
	ReceivedAt     *time.Time `json:"received_at,omitempty"`
	ForwardedAt    *time.Time `json:"forwarded_at,omitempty"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
	Stale          bool       `json:"stale"`
}

// Create ingests a cheque at the presenting bank. The referenced leaf is
// consumed (unused→used, exactly once) and a same-bank deposit is detected
// here so the screening stage can skip inter-bank routing later.
func (u *Usecase) Create(ctx context.Context, in CreateChequeInput) (*ChequeDTO, error) {
	if in.ChequeNumber == "" || in.DrawerAccountNumber == "" || !in.Amount.IsPositive() {
		return nil, errors.New("invalid input: cheque number, drawer account and positive amount required")
	}

	var dto *ChequeDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		drawer, err := r.Accounts.GetByAccountNumber(ctx, in.DrawerAccountNumber)
		if err != nil {
			return fmt.Errorf("drawer account %s: %w", in.DrawerAccountNumber, account.ErrNotFound)
		}
		if drawer.Status != account.StatusActive {
			return fmt.Errorf("drawer account %s: %w", in.DrawerAccountNumber, account.ErrNotActive)
		}

		var presenting *account.Account
		if in.PresentingAccountNumber != "" {
			presenting, err = r.Accounts.GetByAccountNumber(ctx, in.PresentingAccountNumber)
			if err != nil {
				return fmt.Errorf("presenting account %s: %w", in.PresentingAccountNumber, account.ErrNotFound)
			}
		}

		leaf, err := r.Cheques.FindLeaf(ctx, drawer.ID, in.ChequeNumber)
		if err != nil {
			return cheque.ErrLeafNotFound
		}
		if err := r.Cheques.ConsumeLeaf(ctx, leaf.ID); err != nil {
			return err
		}

		c := &cheque.Cheque{
			ChequeID:        id.NewID32(),
			ChequeNumber:    in.ChequeNumber,
			LeafID:          leaf.ID,
			DrawerAccountID: drawer.ID,
			DrawerBankID:    drawer.BankID,
			PayeeName:       in.PayeeName,
			Amount:          in.Amount,
			OCRAmount:       in.OCRAmount,
			IssueDate:       in.IssueDate,
			MICRCode:        in.MICRCode,
			Status:          cheque.StatusReceived,
			StatusUpdatedAt: time.Now().UTC(),
		}
		if presenting != nil {
			c.PresentingAccountID = &presenting.ID
			c.PresentingBankID = &presenting.BankID
			c.SameBank = presenting.BankID == drawer.BankID
		}
		if err := r.Cheques.Create(ctx, c); err != nil {
			return err
		}
		dto = toDTO(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Validate runs the presenting-bank checks and moves the cheque to
// validated or validation_failed. Failed cheques stay persisted with the
// reason attached.
func (u *Usecase) Validate(ctx context.Context, chequeID string) (*clearing.InitialValidationResult, error) {
	var out *clearing.InitialValidationResult
	err := u.uow.WithinChequeTx(ctx, chequeID, func(r uow.Repos, c *cheque.Cheque) error {
		if c.Status != cheque.StatusReceived {
			return fmt.Errorf("%w: cannot validate cheque in state %s", cheque.ErrInvalidTransition, c.Status)
		}
		if existing, err := r.Clearing.GetValidationByChequeID(ctx, c.ID); err == nil {
			out = existing
			return nil // immutable once written
		} else if !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, clearing.ErrNotFound) {
			return err
		}

		res := validation.Run(validation.Input{
			ChequeNumber:   c.ChequeNumber,
			PayeeName:      c.PayeeName,
			DeclaredAmount: c.Amount,
			OCRAmount:      c.OCRAmount,
			IssueDate:      c.IssueDate,
			MICRCode:       c.MICRCode,
			Now:            time.Now().UTC(),
		}, u.valCfg)

		out = &clearing.InitialValidationResult{
			ChequeID:      c.ID,
			FieldsPresent: res.FieldsPresent,
			DateValid:     res.DateValid,
			MICRReadable:  res.MICRReadable,
			AmountMatch:   res.AmountMatch,
			OCRAmount:     c.OCRAmount,
			Passed:        res.Passed,
			FailureReason: res.FailureReason,
		}
		if err := r.Clearing.CreateValidationResult(ctx, out); err != nil {
			return err
		}

		to := cheque.StatusValidated
		if !res.Passed {
			to = cheque.StatusValidationFailed
		}
		from := c.Status
		if err := r.Cheques.TransitionStatus(ctx, c, to); err != nil {
			return err
		}
		u.publisher.PublishTransition(ctx, events.TransitionEvent{
			ChequeID: c.ChequeID, From: string(from), To: string(to), At: time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, chequeID string) (*ChequeDetailDTO, error) {
	var detail *ChequeDetailDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Cheques.GetByChequeID(ctx, chequeID)
		if err != nil {
			return cheque.ErrNotFound
		}
		detail = &ChequeDetailDTO{ChequeDTO: *toDTO(c)}

		if v, err := r.Clearing.GetValidationByChequeID(ctx, c.ID); err == nil {
			detail.Validation = v
		}
		if rec, err := r.Clearing.GetRecordByChequeID(ctx, c.ID); err == nil {
			detail.Clearing = &clearingDTO{
				BlacklistHit:   rec.BlacklistHit,
				DuplicateHit:   rec.DuplicateHit,
				StopPaymentHit: rec.StopPaymentHit,
				Disposition:    string(rec.Disposition),
				ResponseStatus: rec.ResponseStatus,
				InterBank:      rec.FromBankID != nil,
				ReceivedAt:     rec.ReceivedAt,
				ForwardedAt:    rec.ForwardedAt,
				RespondedAt:    rec.RespondedAt,
				Stale:          rec.Stale,
			}
		}
		if dv, err := r.Verifications.GetByChequeID(ctx, c.ID); err == nil {
			detail.Verification = dv
		}
		if f, err := r.Verifications.PendingFlagByChequeID(ctx, c.ID); err == nil {
			detail.Flag = f
		}
		if s, err := r.Verifications.GetSettlementByChequeID(ctx, c.ID); err == nil {
			detail.Settlement = s
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Delete is the administrative purge; soft-deleted so audits still see it.
func (u *Usecase) Delete(ctx context.Context, chequeID string) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Cheques.GetByChequeID(ctx, chequeID); err != nil {
			return cheque.ErrNotFound
		}
		return r.Cheques.Delete(ctx, chequeID)
	})
}

func toDTO(c *cheque.Cheque) *ChequeDTO {
	return &ChequeDTO{
		ChequeID:     c.ChequeID,
		ChequeNumber: c.ChequeNumber,
		PayeeName:    c.PayeeName,
		Amount:       c.Amount,
		IssueDate:    c.IssueDate,
		MICRCode:     c.MICRCode,
		SameBank:     c.SameBank,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt,
	}
}
