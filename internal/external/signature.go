package external

import (
	"context"
	"log"
	"net/http"
	"time"
)

type signatureRequest struct {
	ChequeID string `json:"chequeId"`
}

type signatureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Result  *struct {
		Distance   float64 `json:"distance"`
		Similarity float64 `json:"similarity"`
		Confidence float64 `json:"confidence"`
	} `json:"result"`
}

// SignatureClient calls the signature-similarity service. The service keeps
// the reference specimen on file per account, so the request only carries the
// cheque id. When the service is unreachable the configured degraded score is
// returned with available=false.
type SignatureClient struct {
	baseURL       string
	hc            *http.Client
	degradedScore float64
}

func NewSignatureClient(baseURL string, timeout time.Duration, degradedScore float64) *SignatureClient {
	return &SignatureClient{baseURL: baseURL, hc: newHTTPClient(timeout), degradedScore: degradedScore}
}

// Score implements verification.SignatureScorer.
func (c *SignatureClient) Score(ctx context.Context, chequeID string) (float64, bool) {
	if c == nil || c.baseURL == "" {
		return c.fallback()
	}
	var resp signatureResponse
	if err := postJSON(ctx, c.hc, c.baseURL+"/verify-signature", signatureRequest{ChequeID: chequeID}, &resp); err != nil {
		log.Printf("signature service: %v", err)
		return c.fallback()
	}
	if !resp.Success || resp.Result == nil {
		log.Printf("signature service rejected cheque %s: %s", chequeID, resp.Error)
		return c.fallback()
	}
	return resp.Result.Similarity, true
}

func (c *SignatureClient) fallback() (float64, bool) {
	if c == nil {
		return 85, false
	}
	return c.degradedScore, false
}
