package review

import (
	"context"
	"errors"
	"testing"

	"chequemate-backend/internal/domain/cheque"
	"chequemate-backend/internal/domain/uow"
	domain "chequemate-backend/internal/domain/verification"
	"chequemate-backend/internal/testutil/accountmock"
	"chequemate-backend/internal/testutil/chequemock"
	"chequemate-backend/internal/testutil/clearingmock"
	"chequemate-backend/internal/testutil/uowmock"
	"chequemate-backend/internal/testutil/verificationmock"

	"github.com/shopspring/decimal"
)

type reviewFixture struct {
	cheques *chequemock.Repo
	verifs  *verificationmock.Repo
	repos   uow.Repos
	cheque  *cheque.Cheque
	flag    *domain.FraudFlag
}

func newReviewFixture(t *testing.T, status cheque.Status) *reviewFixture {
	t.Helper()

	presenting := uint64(20)
	f := &reviewFixture{
		cheque: &cheque.Cheque{
			ID:                  1,
			ChequeID:            "c0ffee00000000000000000000000001",
			ChequeNumber:        "000101",
			DrawerAccountID:     10,
			PresentingAccountID: &presenting,
			Amount:              decimal.NewFromInt(1200),
			Status:              status,
		},
		flag: &domain.FraudFlag{
			ID:           5,
			FlagID:       "f1a9000000000000000000000000000f",
			ChequeID:     1,
			Priority:     domain.PriorityHigh,
			PriorityRank: domain.PriorityRankOf(domain.PriorityHigh),
			Status:       domain.FlagPending,
		},
	}
	f.cheques = &chequemock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*cheque.Cheque, error) {
			if id != f.cheque.ID {
				return nil, cheque.ErrNotFound
			}
			return f.cheque, nil
		},
		GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*cheque.Cheque, error) {
			if id != f.cheque.ID {
				return nil, cheque.ErrNotFound
			}
			return f.cheque, nil
		},
		GetByChequeIDForUpdateFn: func(ctx context.Context, chequeID string) (*cheque.Cheque, error) {
			if chequeID != f.cheque.ChequeID {
				return nil, cheque.ErrNotFound
			}
			return f.cheque, nil
		},
	}
	f.verifs = &verificationmock.Repo{
		GetFlagByFlagIDForUpdateFn: func(ctx context.Context, flagID string) (*domain.FraudFlag, error) {
			if flagID != f.flag.FlagID {
				return nil, domain.ErrFlagNotFound
			}
			return f.flag, nil
		},
		PendingFlagByChequeIDFn: func(ctx context.Context, chequeID uint64) (*domain.FraudFlag, error) {
			if chequeID == f.flag.ChequeID && f.flag.Status == domain.FlagPending {
				return f.flag, nil
			}
			return nil, domain.ErrFlagNotFound
		},
	}
	f.repos = uow.Repos{
		Accounts:      &accountmock.Repo{},
		Cheques:       f.cheques,
		Clearing:      &clearingmock.Repo{},
		Verifications: f.verifs,
	}
	return f
}

func TestQueue_OrdersAndJoinsChequeIDs(t *testing.T) {
	f := newReviewFixture(t, cheque.StatusFlagged)

	f.verifs.PendingFlagsFn = func(ctx context.Context, limit int) ([]domain.FraudFlag, error) {
		if limit != 100 {
			t.Fatalf("default limit = %d, want 100", limit)
		}
		return []domain.FraudFlag{*f.flag}, nil
	}

	uc := NewUsecase(uowmock.Passthrough(f.repos), nil)
	flags, err := uc.Queue(context.Background(), 0)
	if err != nil {
		t.Fatalf("Queue: %v", err)
	}
	if len(flags) != 1 {
		t.Fatalf("got %d flags, want 1", len(flags))
	}
	if flags[0].ChequeID != f.cheque.ChequeID {
		t.Fatalf("flag carries cheque id %q, want public id %q", flags[0].ChequeID, f.cheque.ChequeID)
	}
	if flags[0].Priority != string(domain.PriorityHigh) {
		t.Fatalf("priority = %s, want high", flags[0].Priority)
	}
}

func TestAssign(t *testing.T) {
	f := newReviewFixture(t, cheque.StatusFlagged)
	uc := NewUsecase(uowmock.Passthrough(f.repos), nil)

	reviewer := "ab12ab12ab12ab12ab12ab12ab12ab12"
	dto, err := uc.Assign(context.Background(), f.flag.FlagID, reviewer)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if dto.AssignedTo != reviewer || f.flag.AssignedTo != reviewer {
		t.Fatalf("assignment not persisted: %+v", dto)
	}

	// A resolved flag cannot be assigned.
	f.flag.Status = domain.FlagResolved
	if _, err := uc.Assign(context.Background(), f.flag.FlagID, reviewer); !errors.Is(err, domain.ErrFlagNotPending) {
		t.Fatalf("err = %v, want ErrFlagNotPending", err)
	}
}

func TestResolve_ApproveDrivesChequeAndSettles(t *testing.T) {
	f := newReviewFixture(t, cheque.StatusFlagged)

	var settled *domain.Settlement
	f.verifs.SaveSettlementFn = func(ctx context.Context, s *domain.Settlement) error {
		settled = s
		return nil
	}

	uc := NewUsecase(uowmock.Passthrough(f.repos), nil)
	dto, err := uc.Resolve(context.Background(), ResolveInput{
		FlagID:   f.flag.FlagID,
		Decision: domain.DecisionApprove,
		Notes:    "verified with drawer by phone",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if f.cheque.Status != cheque.StatusApproved {
		t.Fatalf("cheque status = %s, want approved", f.cheque.Status)
	}
	if dto.Status != string(domain.FlagResolved) {
		t.Fatalf("flag status = %s, want resolved", dto.Status)
	}
	if f.flag.ResolvedAt == nil {
		t.Fatal("resolution timestamp missing")
	}
	if settled == nil || settled.Status != domain.SettlementCompleted {
		t.Fatalf("settlement = %+v, want completed", settled)
	}
}

func TestResolve_RejectClosesFlagAsRejected(t *testing.T) {
	f := newReviewFixture(t, cheque.StatusFlagged)
	uc := NewUsecase(uowmock.Passthrough(f.repos), nil)

	dto, err := uc.Resolve(context.Background(), ResolveInput{
		FlagID:   f.flag.FlagID,
		Decision: domain.DecisionReject,
		Notes:    "signature disputed by drawer",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.cheque.Status != cheque.StatusRejected {
		t.Fatalf("cheque status = %s, want rejected", f.cheque.Status)
	}
	if dto.Status != string(domain.FlagRejected) {
		t.Fatalf("flag status = %s, want rejected", dto.Status)
	}
}

func TestResolve_Guards(t *testing.T) {
	t.Run("invalid decision", func(t *testing.T) {
		f := newReviewFixture(t, cheque.StatusFlagged)
		uc := NewUsecase(uowmock.Passthrough(f.repos), nil)
		if _, err := uc.Resolve(context.Background(), ResolveInput{FlagID: f.flag.FlagID, Decision: domain.DecisionFlagForReview}); err == nil {
			t.Fatal("flag_for_review is not a resolution")
		}
	})
	t.Run("unknown flag", func(t *testing.T) {
		f := newReviewFixture(t, cheque.StatusFlagged)
		uc := NewUsecase(uowmock.Passthrough(f.repos), nil)
		if _, err := uc.Resolve(context.Background(), ResolveInput{FlagID: "ffffffffffffffffffffffffffffffff", Decision: domain.DecisionApprove}); !errors.Is(err, domain.ErrFlagNotFound) {
			t.Fatalf("err = %v, want ErrFlagNotFound", err)
		}
	})
	t.Run("already resolved", func(t *testing.T) {
		f := newReviewFixture(t, cheque.StatusFlagged)
		f.flag.Status = domain.FlagResolved
		uc := NewUsecase(uowmock.Passthrough(f.repos), nil)
		if _, err := uc.Resolve(context.Background(), ResolveInput{FlagID: f.flag.FlagID, Decision: domain.DecisionApprove}); !errors.Is(err, domain.ErrFlagNotPending) {
			t.Fatalf("err = %v, want ErrFlagNotPending", err)
		}
	})
}

func TestRecordDecision_AtDrawerBank(t *testing.T) {
	f := newReviewFixture(t, cheque.StatusAtDrawerBank)
	f.flag.Status = domain.FlagResolved // no pending flag for this cheque

	uc := NewUsecase(uowmock.Passthrough(f.repos), nil)
	if err := uc.RecordDecision(context.Background(), DecisionInput{
		ChequeID: f.cheque.ChequeID,
		Decision: domain.DecisionReject,
	}); err != nil {
		t.Fatalf("RecordDecision: %v", err)
	}
	if f.cheque.Status != cheque.StatusRejected {
		t.Fatalf("cheque status = %s, want rejected", f.cheque.Status)
	}
}

func TestRecordDecision_ResolvesPendingFlagInSameTx(t *testing.T) {
	f := newReviewFixture(t, cheque.StatusFlagged)

	uc := NewUsecase(uowmock.Passthrough(f.repos), nil)
	if err := uc.RecordDecision(context.Background(), DecisionInput{
		ChequeID: f.cheque.ChequeID,
		Decision: domain.DecisionApprove,
		Notes:    "cleared after callback",
	}); err != nil {
		t.Fatalf("RecordDecision: %v", err)
	}
	if f.cheque.Status != cheque.StatusApproved {
		t.Fatalf("cheque status = %s, want approved", f.cheque.Status)
	}
	if f.flag.Status != domain.FlagResolved {
		t.Fatalf("flag status = %s, want resolved alongside the decision", f.flag.Status)
	}
	if f.flag.ReviewerNotes != "cleared after callback" {
		t.Fatalf("notes = %q", f.flag.ReviewerNotes)
	}
}

func TestRecordDecision_WrongState(t *testing.T) {
	f := newReviewFixture(t, cheque.StatusClearing)
	uc := NewUsecase(uowmock.Passthrough(f.repos), nil)

	err := uc.RecordDecision(context.Background(), DecisionInput{ChequeID: f.cheque.ChequeID, Decision: domain.DecisionApprove})
	if !errors.Is(err, cheque.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestRecordDecision_MirrorsFinalDecision(t *testing.T) {
	f := newReviewFixture(t, cheque.StatusAtDrawerBank)
	f.flag.Status = domain.FlagResolved

	dv := &domain.DeepVerification{ID: 3, ChequeID: 1, AutoDecision: domain.DecisionFlagForReview}
	f.verifs.GetByChequeIDFn = func(ctx context.Context, chequeID uint64) (*domain.DeepVerification, error) {
		return dv, nil
	}
	var upserted *domain.DeepVerification
	f.verifs.UpsertFn = func(ctx context.Context, v *domain.DeepVerification) error {
		upserted = v
		return nil
	}

	uc := NewUsecase(uowmock.Passthrough(f.repos), nil)
	if err := uc.RecordDecision(context.Background(), DecisionInput{ChequeID: f.cheque.ChequeID, Decision: domain.DecisionApprove}); err != nil {
		t.Fatalf("RecordDecision: %v", err)
	}
	if upserted == nil || upserted.FinalDecision != domain.DecisionApprove {
		t.Fatalf("final decision not mirrored: %+v", upserted)
	}
}
