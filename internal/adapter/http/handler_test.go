package http

import (
	"bytes"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"chequemate-backend/internal/domain/account"
	"chequemate-backend/internal/domain/cheque"
	"chequemate-backend/internal/domain/verification"
)

// -------- helpers shared by the handler tests --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func containsFieldMsg(details []FieldError, field, fragment string) bool {
	for _, d := range details {
		if d.Field == field && strings.Contains(d.Message, fragment) {
			return true
		}
	}
	return false
}

func postJSONContext(e *echo.Echo, target string, body *bytes.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(stdhttp.MethodPost, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// -------- tests --------

func TestHealth_ReturnsOKWithRFC3339NanoUTC(t *testing.T) {
	e := echo.New()
	h := NewHandler()

	req := httptest.NewRequest(stdhttp.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	start := time.Now().UTC()

	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
	}
	if body.Status != "ok" {
		t.Fatalf(`expected status "ok", got %q`, body.Status)
	}

	parsed, err := time.Parse(time.RFC3339Nano, body.Time)
	if err != nil {
		t.Fatalf("time not RFC3339Nano: %v (value=%q)", err, body.Time)
	}
	now := time.Now().UTC()
	if parsed.Before(start.Add(-2*time.Second)) || parsed.After(now.Add(2*time.Second)) {
		t.Fatalf("time not within expected window: parsed=%v start=%v now=%v", parsed, start, now)
	}
}

func TestWriteDomainError_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"cheque missing", cheque.ErrNotFound, stdhttp.StatusNotFound},
		{"leaf missing", cheque.ErrLeafNotFound, stdhttp.StatusNotFound},
		{"account missing", account.ErrNotFound, stdhttp.StatusNotFound},
		{"flag missing", verification.ErrFlagNotFound, stdhttp.StatusNotFound},
		{"invalid transition", cheque.ErrInvalidTransition, stdhttp.StatusConflict},
		{"leaf already used", cheque.ErrLeafAlreadyUsed, stdhttp.StatusConflict},
		{"flag not pending", verification.ErrFlagNotPending, stdhttp.StatusConflict},
		{"frozen account", account.ErrNotActive, stdhttp.StatusConflict},
		{"anything else", errors.New("boom"), stdhttp.StatusBadRequest},
	}
	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := writeDomainError(c, tc.err); err != nil {
				t.Fatalf("writeDomainError: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			var er ErrorResponse
			_ = json.Unmarshal(rec.Body.Bytes(), &er)
			if er.Error == "" {
				t.Fatal("error body must carry the message")
			}
		})
	}
}

func TestWriteDomainError_WrapsAreUnwrapped(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	wrapped := errors.Join(errors.New("cannot approve"), cheque.ErrInvalidTransition)
	if err := writeDomainError(c, wrapped); err != nil {
		t.Fatalf("writeDomainError: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409 for a wrapped transition error", rec.Code)
	}
}
