package screening

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chequemate-backend/internal/domain/cheque"
	"chequemate-backend/internal/domain/clearing"
	"chequemate-backend/internal/domain/events"
	"chequemate-backend/internal/domain/uow"
	"chequemate-backend/internal/usecase/verification"

	"gorm.io/gorm"
)

// Usecase is the central clearing house stage: blacklist, duplicate and
// stop-payment screening plus inter-bank routing. Screening hits never reject
// a cheque here; they ride along on the clearing record and bias the risk
// score downstream.
type Usecase struct {
	uow       uow.UnitOfWork
	verifier  *verification.Usecase
	publisher events.Publisher
}

func NewUsecase(tx uow.UnitOfWork, verifier *verification.Usecase, pub events.Publisher) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Usecase{uow: tx, verifier: verifier, publisher: pub}
}

type ScreeningDTO struct {
	ChequeID       string `json:"cheque_id"`
	ChequeStatus   string `json:"cheque_status"`
	BlacklistHit   bool   `json:"blacklist_hit"`
	DuplicateHit   bool   `json:"duplicate_hit"`
	StopPaymentHit bool   `json:"stop_payment_hit"`
	SameBank       bool   `json:"same_bank"`
	Disposition    string `json:"disposition"`
}

// SendToClearing takes a validated cheque into central clearing: runs the
// screening checks and records the outcome. Same-bank deposits bypass the
// inter-bank leg entirely and run the funds-check/deep-verification path
// inline; everything else waits for the drawer bank to pick it up.
func (u *Usecase) SendToClearing(ctx context.Context, chequeID string) (*ScreeningDTO, error) {
	var dto *ScreeningDTO
	err := u.uow.WithinChequeTx(ctx, chequeID, func(r uow.Repos, c *cheque.Cheque) error {
		if c.Status != cheque.StatusValidated {
			return fmt.Errorf("%w: cannot send cheque in state %s to clearing", cheque.ErrInvalidTransition, c.Status)
		}

		from := c.Status
		if err := r.Cheques.TransitionStatus(ctx, c, cheque.StatusClearing); err != nil {
			return err
		}
		u.publisher.PublishTransition(ctx, events.TransitionEvent{
			ChequeID: c.ChequeID, From: string(from), To: string(c.Status), At: time.Now().UTC(),
		})

		record, err := u.screen(ctx, r, c)
		if err != nil {
			return err
		}

		if c.SameBank {
			// No routing fields, no handoff: verification runs right here.
			if _, err := u.verifier.RunWithin(ctx, r, c); err != nil {
				return err
			}
			// Verification marked its own copy of the record responded;
			// re-read so the DTO reports the post-verification disposition.
			record, err = r.Clearing.GetRecordByChequeID(ctx, c.ID)
			if err != nil {
				return err
			}
		}

		dto = &ScreeningDTO{
			ChequeID:       c.ChequeID,
			ChequeStatus:   string(c.Status),
			BlacklistHit:   record.BlacklistHit,
			DuplicateHit:   record.DuplicateHit,
			StopPaymentHit: record.StopPaymentHit,
			SameBank:       c.SameBank,
			Disposition:    string(record.Disposition),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// ReceiveAtDrawerBank completes the simulated asynchronous handoff for an
// inter-bank cheque: the clearing record is stamped forwarded and the cheque
// moves to at_drawer_bank.
func (u *Usecase) ReceiveAtDrawerBank(ctx context.Context, chequeID string) (*ScreeningDTO, error) {
	var dto *ScreeningDTO
	err := u.uow.WithinChequeTx(ctx, chequeID, func(r uow.Repos, c *cheque.Cheque) error {
		if c.Status != cheque.StatusClearing {
			return fmt.Errorf("%w: cheque in state %s is not awaiting handoff", cheque.ErrInvalidTransition, c.Status)
		}
		if c.SameBank {
			return fmt.Errorf("%w: same-bank deposit does not route inter-bank", cheque.ErrInvalidTransition)
		}

		record, err := r.Clearing.GetRecordByChequeID(ctx, c.ID)
		if err != nil {
			return err
		}

		from := c.Status
		if err := r.Cheques.TransitionStatus(ctx, c, cheque.StatusAtDrawerBank); err != nil {
			return err
		}

		now := time.Now().UTC()
		record.Disposition = clearing.DispositionForwarded
		record.ForwardedAt = &now
		if err := r.Clearing.SaveRecord(ctx, record); err != nil {
			return err
		}

		u.publisher.PublishTransition(ctx, events.TransitionEvent{
			ChequeID: c.ChequeID, From: string(from), To: string(c.Status), At: now,
		})
		dto = &ScreeningDTO{
			ChequeID:       c.ChequeID,
			ChequeStatus:   string(c.Status),
			BlacklistHit:   record.BlacklistHit,
			DuplicateHit:   record.DuplicateHit,
			StopPaymentHit: record.StopPaymentHit,
			SameBank:       false,
			Disposition:    string(record.Disposition),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// screen runs the three checks and persists the clearing record. Inter-bank
// routing fields are populated only when drawer and presenting bank differ.
func (u *Usecase) screen(ctx context.Context, r uow.Repos, c *cheque.Cheque) (*clearing.ClearingRecord, error) {
	drawer, err := r.Accounts.GetByID(ctx, c.DrawerAccountID)
	if err != nil {
		return nil, fmt.Errorf("load drawer account: %w", err)
	}

	// (a) blacklist: drawer account number, cheque number, drawer national id.
	keys := []string{drawer.AccountNumber, c.ChequeNumber}
	if drawer.NationalID != "" {
		keys = append(keys, drawer.NationalID)
	}
	matches, err := r.Accounts.ActiveBlacklistMatches(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("blacklist lookup: %w", err)
	}

	// (b) duplicate presentment for the same drawer account.
	dupes, err := r.Cheques.CountDuplicatePresentments(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}

	// (c) stop payment on the referenced leaf.
	leaf, err := r.Cheques.GetLeafByID(ctx, c.LeafID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, cheque.ErrLeafNotFound) {
			return nil, fmt.Errorf("load leaf: %w", err)
		}
		leaf = nil
	}

	now := time.Now().UTC()
	record := &clearing.ClearingRecord{
		ChequeID:       c.ID,
		BlacklistHit:   len(matches) > 0,
		DuplicateHit:   dupes > 0,
		StopPaymentHit: leaf != nil && leaf.StopPayment,
		Disposition:    clearing.DispositionPending,
		ReceivedAt:     &now,
	}
	if !c.SameBank && c.PresentingBankID != nil {
		record.FromBankID = c.PresentingBankID
		toBank := c.DrawerBankID
		record.ToBankID = &toBank
	}
	if err := r.Clearing.CreateRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
