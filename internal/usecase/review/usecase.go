package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chequemate-backend/internal/domain/cheque"
	"chequemate-backend/internal/domain/events"
	"chequemate-backend/internal/domain/uow"
	domain "chequemate-backend/internal/domain/verification"
	verificationuc "chequemate-backend/internal/usecase/verification"

	"gorm.io/gorm"
)

type Usecase struct {
	uow       uow.UnitOfWork
	publisher events.Publisher
}

func NewUsecase(tx uow.UnitOfWork, pub events.Publisher) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Usecase{uow: tx, publisher: pub}
}

type FlagDTO struct {
	FlagID        string    `json:"flag_id"`
	ChequeID      string    `json:"cheque_id"`
	Priority      string    `json:"priority"`
	Status        string    `json:"status"`
	AssignedTo    string    `json:"assigned_to,omitempty"`
	ReviewerNotes string    `json:"reviewer_notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Queue returns pending flags ordered urgent > high > medium > low, oldest
// first within a priority.
func (u *Usecase) Queue(ctx context.Context, limit int) ([]FlagDTO, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []FlagDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		flags, err := r.Verifications.PendingFlags(ctx, limit)
		if err != nil {
			return err
		}
		out = make([]FlagDTO, 0, len(flags))
		for _, f := range flags {
			c, err := r.Cheques.GetByID(ctx, f.ChequeID)
			if err != nil {
				return err
			}
			out = append(out, toFlagDTO(&f, c.ChequeID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Assign persists the reviewer on a pending flag.
func (u *Usecase) Assign(ctx context.Context, flagID, reviewerID string) (*FlagDTO, error) {
	var dto *FlagDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		f, err := r.Verifications.GetFlagByFlagIDForUpdate(ctx, flagID)
		if err != nil {
			return domain.ErrFlagNotFound
		}
		if f.Status != domain.FlagPending {
			return domain.ErrFlagNotPending
		}
		f.AssignedTo = reviewerID
		if err := r.Verifications.SaveFlag(ctx, f); err != nil {
			return err
		}
		c, err := r.Cheques.GetByID(ctx, f.ChequeID)
		if err != nil {
			return err
		}
		d := toFlagDTO(f, c.ChequeID)
		dto = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

type ResolveInput struct {
	FlagID     string
	Decision   domain.Decision // approve or reject
	Notes      string
	ReviewerID string
}

// Resolve closes a flag and drives the parent cheque's transition in the same
// transaction; the two can never diverge.
func (u *Usecase) Resolve(ctx context.Context, in ResolveInput) (*FlagDTO, error) {
	if in.Decision != domain.DecisionApprove && in.Decision != domain.DecisionReject {
		return nil, fmt.Errorf("resolve decision must be approve or reject, got %q", in.Decision)
	}

	var dto *FlagDTO
	var evt events.TransitionEvent
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		f, err := r.Verifications.GetFlagByFlagIDForUpdate(ctx, in.FlagID)
		if err != nil {
			return domain.ErrFlagNotFound
		}
		if f.Status != domain.FlagPending {
			return domain.ErrFlagNotPending
		}

		c, err := r.Cheques.GetByIDForUpdate(ctx, f.ChequeID)
		if err != nil {
			return cheque.ErrNotFound
		}

		from := c.Status
		if err := u.applyDecision(ctx, r, c, f.ChequeID, in.Decision); err != nil {
			return err
		}

		now := time.Now().UTC()
		f.Status = domain.FlagResolved
		if in.Decision == domain.DecisionReject {
			f.Status = domain.FlagRejected
		}
		if in.ReviewerID != "" {
			f.AssignedTo = in.ReviewerID
		}
		f.ReviewerNotes = in.Notes
		f.ResolvedAt = &now
		if err := r.Verifications.SaveFlag(ctx, f); err != nil {
			return err
		}

		evt = events.TransitionEvent{ChequeID: c.ChequeID, From: string(from), To: string(c.Status), At: now}
		d := toFlagDTO(f, c.ChequeID)
		dto = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.publisher.PublishTransition(ctx, evt)
	return dto, nil
}

type DecisionInput struct {
	ChequeID string
	Decision domain.Decision // approve or reject
	Notes    string
}

// RecordDecision writes a final decision for a cheque sitting at the drawer
// bank or in the review queue. A pending flag, if any, is resolved in the
// same transaction.
func (u *Usecase) RecordDecision(ctx context.Context, in DecisionInput) error {
	if in.Decision != domain.DecisionApprove && in.Decision != domain.DecisionReject {
		return fmt.Errorf("decision must be approve or reject, got %q", in.Decision)
	}

	var evt events.TransitionEvent
	err := u.uow.WithinChequeTx(ctx, in.ChequeID, func(r uow.Repos, c *cheque.Cheque) error {
		if c.Status != cheque.StatusAtDrawerBank && c.Status != cheque.StatusFlagged {
			return fmt.Errorf("%w: cannot record decision for cheque in state %s", cheque.ErrInvalidTransition, c.Status)
		}

		from := c.Status
		if err := u.applyDecision(ctx, r, c, c.ID, in.Decision); err != nil {
			return err
		}

		if f, err := r.Verifications.PendingFlagByChequeID(ctx, c.ID); err == nil {
			now := time.Now().UTC()
			f.Status = domain.FlagResolved
			if in.Decision == domain.DecisionReject {
				f.Status = domain.FlagRejected
			}
			f.ReviewerNotes = in.Notes
			f.ResolvedAt = &now
			if err := r.Verifications.SaveFlag(ctx, f); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, domain.ErrFlagNotFound) {
			return err
		}

		evt = events.TransitionEvent{ChequeID: c.ChequeID, From: string(from), To: string(c.Status), At: time.Now().UTC()}
		return nil
	})
	if err != nil {
		return err
	}
	u.publisher.PublishTransition(ctx, evt)
	return nil
}

// applyDecision transitions the cheque and, on approval, runs settlement
// bookkeeping. The final decision is mirrored onto the verification row when
// one exists.
func (u *Usecase) applyDecision(ctx context.Context, r uow.Repos, c *cheque.Cheque, chequeRowID uint64, decision domain.Decision) error {
	to := cheque.StatusApproved
	if decision == domain.DecisionReject {
		to = cheque.StatusRejected
	}
	if err := r.Cheques.TransitionStatus(ctx, c, to); err != nil {
		return err
	}
	if decision == domain.DecisionApprove {
		if _, err := verificationuc.SettleApproved(ctx, r, c); err != nil {
			return err
		}
	}

	if dv, err := r.Verifications.GetByChequeID(ctx, chequeRowID); err == nil {
		dv.FinalDecision = decision
		if err := r.Verifications.Upsert(ctx, dv); err != nil {
			return err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func toFlagDTO(f *domain.FraudFlag, chequeID string) FlagDTO {
	return FlagDTO{
		FlagID:        f.FlagID,
		ChequeID:      chequeID,
		Priority:      string(f.Priority),
		Status:        string(f.Status),
		AssignedTo:    f.AssignedTo,
		ReviewerNotes: f.ReviewerNotes,
		CreatedAt:     f.CreatedAt,
	}
}
