package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domain "chequemate-backend/internal/domain/verification"
	verification "chequemate-backend/internal/usecase/verification"
)

func TestSignatureClientScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verify-signature" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"result":{"distance":0.12,"similarity":92.5,"confidence":0.9}}`))
	}))
	defer srv.Close()

	c := NewSignatureClient(srv.URL, time.Second, 85)
	score, available := c.Score(context.Background(), "abc")
	if !available {
		t.Fatal("expected available=true")
	}
	if score != 92.5 {
		t.Fatalf("score = %v, want 92.5", score)
	}
}

func TestSignatureClientDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewSignatureClient(srv.URL, time.Second, 85)
	score, available := c.Score(context.Background(), "abc")
	if available {
		t.Fatal("expected available=false on 500")
	}
	if score != 85 {
		t.Fatalf("degraded score = %v, want 85", score)
	}

	// No base URL configured behaves the same.
	none := NewSignatureClient("", time.Second, 85)
	score, available = none.Score(context.Background(), "abc")
	if available || score != 85 {
		t.Fatalf("unconfigured client: score=%v available=%v", score, available)
	}
}

func TestFraudClientPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"result":{"modelAvailable":true,"riskFactors":[{"factor":"model_anomaly","severity":"medium","description":"amount out of band"}]}}`))
	}))
	defer srv.Close()

	c := NewFraudClient(srv.URL, time.Second)
	resp, err := c.Predict(context.Background(), verification.FraudPredictRequest{ChequeNumber: "000101", Amount: 500})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if !resp.ModelAvailable {
		t.Fatal("expected modelAvailable=true")
	}
	if len(resp.RiskFactors) != 1 || resp.RiskFactors[0].Severity != domain.SeverityMedium {
		t.Fatalf("unexpected factors %+v", resp.RiskFactors)
	}
}

func TestFraudClientUnconfigured(t *testing.T) {
	c := NewFraudClient("", time.Second)
	if _, err := c.Predict(context.Background(), verification.FraudPredictRequest{}); err == nil {
		t.Fatal("expected error from unconfigured client")
	}
}

func TestVisionClientExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"fields":{"micrLine":"⑆000101⑆ ⑈021000021⑈ 1234567890","chequeNumber":"000101","routingNumber":"021000021","accountNumber":"1234567890","payeeName":"Jane Roe","amountNumeric":"1250.00","signaturePresent":true,"confidence":0.97}}`))
	}))
	defer srv.Close()

	c := NewVisionClient(srv.URL, time.Second)
	fields, err := c.Extract(context.Background(), "aGVsbG8=", "image/png")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if fields.ChequeNumber != "000101" || !fields.SignaturePresent {
		t.Fatalf("unexpected fields %+v", fields)
	}
}

func TestVisionClientServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"error":"unreadable image"}`))
	}))
	defer srv.Close()

	c := NewVisionClient(srv.URL, time.Second)
	if _, err := c.Extract(context.Background(), "x", "image/png"); err == nil || err.Error() != "unreadable image" {
		t.Fatalf("err = %v, want unreadable image", err)
	}
}
