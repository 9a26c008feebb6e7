package external

import (
	"context"
	"errors"
	"net/http"
	"time"

	verification "chequemate-backend/internal/usecase/verification"
)

var ErrModelUnavailable = errors.New("fraud model unavailable")

type fraudResponse struct {
	Success bool                               `json:"success"`
	Error   string                             `json:"error"`
	Result  *verification.FraudPredictResponse `json:"result"`
}

// FraudClient calls the optional anomaly-scoring service.
type FraudClient struct {
	baseURL string
	hc      *http.Client
}

func NewFraudClient(baseURL string, timeout time.Duration) *FraudClient {
	return &FraudClient{baseURL: baseURL, hc: newHTTPClient(timeout)}
}

// Predict implements verification.FraudModel.
func (c *FraudClient) Predict(ctx context.Context, req verification.FraudPredictRequest) (*verification.FraudPredictResponse, error) {
	if c == nil || c.baseURL == "" {
		return nil, ErrModelUnavailable
	}
	var resp fraudResponse
	if err := postJSON(ctx, c.hc, c.baseURL+"/predict", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Result == nil {
		if resp.Error != "" {
			return nil, errors.New(resp.Error)
		}
		return nil, ErrModelUnavailable
	}
	return resp.Result, nil
}
