package verification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"chequemate-backend/internal/domain/account"
	"chequemate-backend/internal/domain/cheque"
	"chequemate-backend/internal/domain/clearing"
	"chequemate-backend/internal/domain/events"
	"chequemate-backend/internal/domain/uow"
	domain "chequemate-backend/internal/domain/verification"
	"chequemate-backend/pkg/id"

	"gorm.io/gorm"
)

// SignatureScorer abstracts the external signature-similarity collaborator.
// available=false means the service was unreachable and the returned score is
// a heuristic default.
type SignatureScorer interface {
	Score(ctx context.Context, chequeID string) (score float64, available bool)
}

// FraudModel abstracts the optional anomaly-scoring collaborator. It only
// enriches the explanation; the composite score is always computed locally so
// re-runs stay deterministic.
type FraudModel interface {
	Predict(ctx context.Context, req FraudPredictRequest) (*FraudPredictResponse, error)
}

type FraudPredictRequest struct {
	ChequeNumber   string  `json:"chequeNumber"`
	AccountNumber  string  `json:"accountNumber"`
	Amount         float64 `json:"amount"`
	PayeeName      string  `json:"payeeName"`
	SignatureScore float64 `json:"signatureScore"`
}

type FraudPredictResponse struct {
	ModelAvailable bool                  `json:"modelAvailable"`
	RiskFactors    domain.RiskFactorList `json:"riskFactors"`
}

type Usecase struct {
	uow       uow.UnitOfWork
	signature SignatureScorer
	model     FraudModel
	publisher events.Publisher
	cfg       Config
}

func NewUsecase(tx uow.UnitOfWork, sig SignatureScorer, model FraudModel, pub events.Publisher, cfg Config) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Usecase{uow: tx, signature: sig, model: model, publisher: pub, cfg: cfg}
}

type VerificationDTO struct {
	VerificationID string                `json:"verification_id"`
	ChequeID       string                `json:"cheque_id"`
	ChequeStatus   string                `json:"cheque_status"`
	SignatureScore float64               `json:"signature_score"`
	SignatureMatch bool                  `json:"signature_match"`
	FraudRiskScore float64               `json:"fraud_risk_score"`
	RiskLevel      string                `json:"risk_level"`
	Decision       string                `json:"decision"`
	Confidence     float64               `json:"confidence"`
	Reasoning      string                `json:"reasoning"`
	RiskFactors    domain.RiskFactorList `json:"risk_factors"`
	ModelAvailable bool                  `json:"model_available"`
	RunCount       int                   `json:"run_count"`
}

// Run executes deep verification for an inter-bank cheque sitting at the
// drawer bank. Safe to invoke repeatedly: the assessment row is upserted by
// cheque id and re-runs on unchanged inputs reproduce the same score.
func (u *Usecase) Run(ctx context.Context, chequeID string) (*VerificationDTO, error) {
	var dto *VerificationDTO
	err := u.uow.WithinChequeTx(ctx, chequeID, func(r uow.Repos, c *cheque.Cheque) error {
		if c.Status != cheque.StatusAtDrawerBank && c.Status != cheque.StatusFlagged {
			return fmt.Errorf("%w: cannot verify cheque in state %s", cheque.ErrInvalidTransition, c.Status)
		}
		var err error
		dto, err = u.RunWithin(ctx, r, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// RunWithin performs the assessment inside an existing transaction. The
// screening stage reuses it for same-bank deposits, where funds check and
// verification happen inline instead of after an inter-bank handoff.
func (u *Usecase) RunWithin(ctx context.Context, r uow.Repos, c *cheque.Cheque) (*VerificationDTO, error) {
	drawer, err := r.Accounts.GetByID(ctx, c.DrawerAccountID)
	if err != nil {
		return nil, fmt.Errorf("load drawer account: %w", err)
	}

	profile, err := r.Accounts.GetProfile(ctx, drawer.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, account.ErrNotFound) {
		return nil, fmt.Errorf("load behavior profile: %w", err)
	}

	now := time.Now().UTC()
	v24, err := r.Accounts.CountTransactionsSince(ctx, drawer.ID, now.Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("count 24h velocity: %w", err)
	}
	v7d, err := r.Accounts.CountTransactionsSince(ctx, drawer.ID, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("count 7d velocity: %w", err)
	}

	record, err := r.Clearing.GetRecordByChequeID(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("load clearing record: %w", err)
	}
	hits := ScreeningHits{
		Blacklist:   record.BlacklistHit,
		Duplicate:   record.DuplicateHit,
		StopPayment: record.StopPaymentHit,
	}

	sigScore, sigAvailable := u.cfg.DegradedSignatureScore, false
	if u.signature != nil {
		sigScore, sigAvailable = u.signature.Score(ctx, c.ChequeID)
	}

	amount, _ := c.Amount.Float64()
	balance, _ := drawer.Balance.Float64()
	assessment := Evaluate(FeatureInput{
		Amount:         amount,
		Balance:        balance,
		PayeeName:      c.PayeeName,
		At:             c.IssueDate,
		Profile:        profile,
		Velocity24h:    v24,
		Velocity7d:     v7d,
		SignatureScore: sigScore,
	}, hits, u.cfg)

	modelAvailable := false
	if u.model != nil {
		resp, err := u.model.Predict(ctx, FraudPredictRequest{
			ChequeNumber:   c.ChequeNumber,
			AccountNumber:  drawer.AccountNumber,
			Amount:         amount,
			PayeeName:      c.PayeeName,
			SignatureScore: sigScore,
		})
		if err != nil {
			// Degraded mode: local features stand on their own.
			log.Printf("fraud model unavailable for cheque %s: %v", c.ChequeID, err)
		} else if resp.ModelAvailable {
			modelAvailable = true
			assessment.Factors = append(assessment.Factors, resp.RiskFactors...)
		}
	}

	dv := &domain.DeepVerification{
		VerificationID: id.NewID32(),
		ChequeID:       c.ID,
		SignatureScore: sigScore,
		SignatureMatch: sigScore >= u.cfg.HardSignatureFloor && sigAvailable,
		BehaviorScore:  assessment.Score,
		UnusualAmount:  assessment.Features.AmountZscore > u.cfg.ZScoreTrigger,
		NewPayee:       assessment.Features.IsNewPayee,
		UnusualTime:    assessment.Features.IsUnusualTime,
		HighVelocity:   assessment.Features.Velocity24h > u.cfg.Velocity24hTrigger,
		Dormant:        assessment.Features.IsDormant,
		Velocity24h:    assessment.Features.Velocity24h,
		BehaviorFlags:  assessment.Factors,
		FraudRiskScore: assessment.Score,
		RiskLevel:      assessment.RiskLevel,
		ModelAvailable: modelAvailable,
		AutoDecision:   assessment.Decision,
		AutoConfidence: assessment.Confidence,
		Reasoning:      assessment.Reasoning,
	}
	if err := r.Verifications.Upsert(ctx, dv); err != nil {
		return nil, fmt.Errorf("upsert verification: %w", err)
	}

	// Re-runs on a flagged cheque only refresh the assessment; the pending
	// flag keeps its place in the queue.
	if c.Status == cheque.StatusAtDrawerBank || c.Status == cheque.StatusClearing {
		if err := u.applyDecision(ctx, r, c, drawer.ID, dv, assessment); err != nil {
			return nil, err
		}
	}

	return &VerificationDTO{
		VerificationID: dv.VerificationID,
		ChequeID:       c.ChequeID,
		ChequeStatus:   string(c.Status),
		SignatureScore: dv.SignatureScore,
		SignatureMatch: dv.SignatureMatch,
		FraudRiskScore: dv.FraudRiskScore,
		RiskLevel:      string(dv.RiskLevel),
		Decision:       string(dv.AutoDecision),
		Confidence:     dv.AutoConfidence,
		Reasoning:      dv.Reasoning,
		RiskFactors:    dv.BehaviorFlags,
		ModelAvailable: dv.ModelAvailable,
		RunCount:       dv.RunCount,
	}, nil
}

func (u *Usecase) applyDecision(ctx context.Context, r uow.Repos, c *cheque.Cheque, drawerID uint64, dv *domain.DeepVerification, a Assessment) error {
	from := c.Status
	switch a.Decision {
	case domain.DecisionApprove:
		if err := r.Cheques.TransitionStatus(ctx, c, cheque.StatusApproved); err != nil {
			return err
		}
		if _, err := SettleApproved(ctx, r, c); err != nil {
			return err
		}
	case domain.DecisionReject:
		if err := r.Cheques.TransitionStatus(ctx, c, cheque.StatusRejected); err != nil {
			return err
		}
		if a.InsufficientFunds {
			drawer, err := r.Accounts.GetByID(ctx, drawerID)
			if err != nil {
				return err
			}
			if err := r.Verifications.CreateBounce(ctx, &domain.BounceRecord{
				ChequeID:  c.ID,
				AccountID: drawerID,
				Amount:    c.Amount,
				Shortfall: c.Amount.Sub(drawer.Balance),
				Reason:    "insufficient funds",
			}); err != nil {
				return err
			}
		}
	case domain.DecisionFlagForReview:
		if err := r.Cheques.TransitionStatus(ctx, c, cheque.StatusFlagged); err != nil {
			return err
		}
		if err := ensurePendingFlag(ctx, r, c.ID, assessmentPriority(a)); err != nil {
			return err
		}
	}

	if err := markResponded(ctx, r, c.ID, string(a.Decision)); err != nil {
		return err
	}
	u.publisher.PublishTransition(ctx, events.TransitionEvent{
		ChequeID: c.ChequeID, From: string(from), To: string(c.Status), At: time.Now().UTC(),
	})
	return nil
}

func assessmentPriority(a Assessment) domain.Priority { return FlagPriority(a.RiskLevel) }

func ensurePendingFlag(ctx context.Context, r uow.Repos, chequeID uint64, prio domain.Priority) error {
	if _, err := r.Verifications.PendingFlagByChequeID(ctx, chequeID); err == nil {
		return nil // already queued
	} else if !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, domain.ErrFlagNotFound) {
		return err
	}
	return r.Verifications.CreateFlag(ctx, &domain.FraudFlag{
		FlagID:       id.NewID32(),
		ChequeID:     chequeID,
		Priority:     prio,
		PriorityRank: domain.PriorityRankOf(prio),
		Status:       domain.FlagPending,
	})
}

func markResponded(ctx context.Context, r uow.Repos, chequeID uint64, status string) error {
	record, err := r.Clearing.GetRecordByChequeID(ctx, chequeID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	record.Disposition = clearing.DispositionResponded
	record.ResponseStatus = status
	record.RespondedAt = &now
	return r.Clearing.SaveRecord(ctx, record)
}

// SettleApproved records the debit/credit legs for an approved cheque and
// moves the money. A bookkeeping failure marks the settlement failed but does
// not undo the approval.
func SettleApproved(ctx context.Context, r uow.Repos, c *cheque.Cheque) (*domain.Settlement, error) {
	s := &domain.Settlement{
		SettlementID:    id.NewID32(),
		ChequeID:        c.ID,
		DebitAccountID:  c.DrawerAccountID,
		CreditAccountID: c.PresentingAccountID,
		Amount:          c.Amount,
		Status:          domain.SettlementPending,
	}
	if err := r.Verifications.CreateSettlement(ctx, s); err != nil {
		return nil, err
	}

	if err := r.Accounts.AdjustBalance(ctx, c.DrawerAccountID, c.Amount.Neg()); err != nil {
		s.Status = domain.SettlementFailed
		s.FailureReason = err.Error()
		return s, r.Verifications.SaveSettlement(ctx, s)
	}
	if c.PresentingAccountID != nil {
		if err := r.Accounts.AdjustBalance(ctx, *c.PresentingAccountID, c.Amount); err != nil {
			s.Status = domain.SettlementFailed
			s.FailureReason = err.Error()
			return s, r.Verifications.SaveSettlement(ctx, s)
		}
	}

	// The cleared cheque becomes account activity for future velocity windows.
	txn := &account.Transaction{
		AccountID: c.DrawerAccountID,
		Amount:    c.Amount,
		PayeeName: c.PayeeName,
	}
	if err := r.Accounts.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}

	s.Status = domain.SettlementCompleted
	return s, r.Verifications.SaveSettlement(ctx, s)
}
