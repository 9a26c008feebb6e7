package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chequemate-backend/internal/domain/cheque"
	"chequemate-backend/internal/domain/uow"
	domain "chequemate-backend/internal/domain/verification"
	"chequemate-backend/internal/testutil/accountmock"
	"chequemate-backend/internal/testutil/chequemock"
	"chequemate-backend/internal/testutil/uowmock"
	"chequemate-backend/internal/testutil/verificationmock"
	"chequemate-backend/internal/usecase/review"
)

type reviewHTTPFixture struct {
	cheques *chequemock.Repo
	verifs  *verificationmock.Repo

	flag   *domain.FraudFlag
	cheque *cheque.Cheque
}

func newReviewHTTPFixture() (*reviewHTTPFixture, *ReviewHandler) {
	f := &reviewHTTPFixture{
		cheque: &cheque.Cheque{
			ID:       1,
			ChequeID: strings.Repeat("c", 32),
			Status:   cheque.StatusFlagged,
		},
		flag: &domain.FraudFlag{
			ID:        5,
			FlagID:    strings.Repeat("f", 32),
			ChequeID:  1,
			Priority:  domain.PriorityHigh,
			Status:    domain.FlagPending,
			CreatedAt: time.Now().UTC(),
		},
	}
	f.verifs = &verificationmock.Repo{
		PendingFlagsFn: func(ctx context.Context, limit int) ([]domain.FraudFlag, error) {
			return []domain.FraudFlag{*f.flag}, nil
		},
		GetFlagByFlagIDForUpdateFn: func(ctx context.Context, flagID string) (*domain.FraudFlag, error) {
			if flagID == f.flag.FlagID {
				return f.flag, nil
			}
			return nil, domain.ErrFlagNotFound
		},
	}
	f.cheques = &chequemock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*cheque.Cheque, error) {
			if id == f.cheque.ID {
				return f.cheque, nil
			}
			return nil, cheque.ErrNotFound
		},
		GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*cheque.Cheque, error) {
			if id == f.cheque.ID {
				return f.cheque, nil
			}
			return nil, cheque.ErrNotFound
		},
	}
	repos := uow.Repos{
		Cheques:       f.cheques,
		Accounts:      &accountmock.Repo{},
		Verifications: f.verifs,
	}
	uc := review.NewUsecase(uowmock.Passthrough(repos), nil)
	return f, NewReviewHandler(uc)
}

func TestReviewQueue(t *testing.T) {
	e := newEchoWithValidator()
	f, h := newReviewHTTPFixture()

	req := httptest.NewRequest(stdhttp.MethodGet, "/review-queue?limit=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Queue(c); err != nil {
		t.Fatalf("Queue error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Flags []review.FlagDTO `json:"flags"`
		Count int              `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if body.Count != 1 || len(body.Flags) != 1 {
		t.Fatalf("count = %d, flags = %d, want 1 each", body.Count, len(body.Flags))
	}
	got := body.Flags[0]
	if got.FlagID != f.flag.FlagID || got.ChequeID != f.cheque.ChequeID {
		t.Fatalf("queue entry must join the public cheque id: %+v", got)
	}
	if got.Priority != "high" || got.Status != "pending" {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestAssignFlag(t *testing.T) {
	e := newEchoWithValidator()
	f, h := newReviewHTTPFixture()
	reviewer := strings.Repeat("e", 32)

	t.Run("success", func(t *testing.T) {
		c, rec := postJSONContext(e, "/flags/"+f.flag.FlagID+"/assign", mustJSON(map[string]any{"reviewer_id": reviewer}))
		c.SetParamNames("flag_id")
		c.SetParamValues(f.flag.FlagID)

		if err := h.Assign(c); err != nil {
			t.Fatalf("Assign error: %v", err)
		}
		if rec.Code != stdhttp.StatusOK {
			t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
		}
		var dto review.FlagDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
			t.Fatalf("bad json: %v", err)
		}
		if dto.AssignedTo != reviewer {
			t.Fatalf("assigned_to = %q, want %q", dto.AssignedTo, reviewer)
		}
	})

	t.Run("invalid reviewer id", func(t *testing.T) {
		c, rec := postJSONContext(e, "/flags/"+f.flag.FlagID+"/assign", mustJSON(map[string]any{"reviewer_id": "NOT_HEX"}))
		c.SetParamNames("flag_id")
		c.SetParamValues(f.flag.FlagID)

		if err := h.Assign(c); err != nil {
			t.Fatalf("Assign error: %v", err)
		}
		if rec.Code != stdhttp.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		c, rec := postJSONContext(e, "/flags/nope/assign", mustJSON(map[string]any{"reviewer_id": reviewer}))
		c.SetParamNames("flag_id")
		c.SetParamValues(strings.Repeat("0", 32))

		if err := h.Assign(c); err != nil {
			t.Fatalf("Assign error: %v", err)
		}
		if rec.Code != stdhttp.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestResolveFlag(t *testing.T) {
	e := newEchoWithValidator()

	t.Run("approve resolves flag and cheque", func(t *testing.T) {
		f, h := newReviewHTTPFixture()
		c, rec := postJSONContext(e, "/flags/"+f.flag.FlagID+"/resolve", mustJSON(map[string]any{
			"decision": "approve",
			"notes":    "verified with drawer by phone",
		}))
		c.SetParamNames("flag_id")
		c.SetParamValues(f.flag.FlagID)

		if err := h.Resolve(c); err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if rec.Code != stdhttp.StatusOK {
			t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
		}
		var dto review.FlagDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
			t.Fatalf("bad json: %v", err)
		}
		if dto.Status != string(domain.FlagResolved) {
			t.Fatalf("flag status = %s, want resolved", dto.Status)
		}
		if f.cheque.Status != cheque.StatusApproved {
			t.Fatalf("cheque status = %s, want approved", f.cheque.Status)
		}
	})

	t.Run("invalid decision", func(t *testing.T) {
		f, h := newReviewHTTPFixture()
		c, rec := postJSONContext(e, "/flags/"+f.flag.FlagID+"/resolve", mustJSON(map[string]any{"decision": "escalate"}))
		c.SetParamNames("flag_id")
		c.SetParamValues(f.flag.FlagID)

		if err := h.Resolve(c); err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if rec.Code != stdhttp.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("already resolved", func(t *testing.T) {
		f, h := newReviewHTTPFixture()
		f.flag.Status = domain.FlagResolved

		c, rec := postJSONContext(e, "/flags/"+f.flag.FlagID+"/resolve", mustJSON(map[string]any{"decision": "reject"}))
		c.SetParamNames("flag_id")
		c.SetParamValues(f.flag.FlagID)

		if err := h.Resolve(c); err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if rec.Code != stdhttp.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})
}

func TestRecordDecision(t *testing.T) {
	e := newEchoWithValidator()

	t.Run("reject at drawer bank", func(t *testing.T) {
		f, h := newReviewHTTPFixture()
		f.cheque.Status = cheque.StatusAtDrawerBank
		f.cheques.GetByChequeIDForUpdateFn = func(ctx context.Context, chequeID string) (*cheque.Cheque, error) {
			if chequeID == f.cheque.ChequeID {
				return f.cheque, nil
			}
			return nil, cheque.ErrNotFound
		}

		c, rec := postJSONContext(e, "/cheques/"+f.cheque.ChequeID+"/decision", mustJSON(map[string]any{
			"decision": "reject",
			"notes":    "signature mismatch on manual inspection",
		}))
		c.SetParamNames("cheque_id")
		c.SetParamValues(f.cheque.ChequeID)

		if err := h.RecordDecision(c); err != nil {
			t.Fatalf("RecordDecision error: %v", err)
		}
		if rec.Code != stdhttp.StatusOK {
			t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
		}
		var body map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
		if body["cheque_id"] != f.cheque.ChequeID || body["decision"] != "reject" {
			t.Fatalf("body = %v", body)
		}
		if f.cheque.Status != cheque.StatusRejected {
			t.Fatalf("cheque status = %s, want rejected", f.cheque.Status)
		}
	})

	t.Run("unknown cheque", func(t *testing.T) {
		_, h := newReviewHTTPFixture()
		missing := strings.Repeat("0", 32)
		c, rec := postJSONContext(e, "/cheques/"+missing+"/decision", mustJSON(map[string]any{"decision": "approve"}))
		c.SetParamNames("cheque_id")
		c.SetParamValues(missing)

		if err := h.RecordDecision(c); err != nil {
			t.Fatalf("RecordDecision error: %v", err)
		}
		if rec.Code != stdhttp.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}
