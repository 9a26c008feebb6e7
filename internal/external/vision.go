package external

import (
	"context"
	"errors"
	"net/http"
	"time"
)

var ErrVisionUnavailable = errors.New("vision service unavailable")

// ExtractedFields is what the OCR service reads off a cheque image. Amount
// fields are kept as strings so the caller decides how strictly to parse.
type ExtractedFields struct {
	MICRLine         string  `json:"micrLine"`
	ChequeNumber     string  `json:"chequeNumber"`
	RoutingNumber    string  `json:"routingNumber"`
	AccountNumber    string  `json:"accountNumber"`
	PayeeName        string  `json:"payeeName"`
	AmountNumeric    string  `json:"amountNumeric"`
	AmountWords      string  `json:"amountWords"`
	IssueDate        string  `json:"issueDate"`
	SignaturePresent bool    `json:"signaturePresent"`
	Confidence       float64 `json:"confidence"`
}

type visionRequest struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
}

type visionResponse struct {
	Success bool             `json:"success"`
	Error   string           `json:"error"`
	Fields  *ExtractedFields `json:"fields"`
}

// VisionClient calls the document extraction service.
type VisionClient struct {
	baseURL string
	hc      *http.Client
}

func NewVisionClient(baseURL string, timeout time.Duration) *VisionClient {
	return &VisionClient{baseURL: baseURL, hc: newHTTPClient(timeout)}
}

// Extract sends a base64-encoded cheque image and returns the fields the
// service read off it.
func (c *VisionClient) Extract(ctx context.Context, imageB64, mimeType string) (*ExtractedFields, error) {
	if c == nil || c.baseURL == "" {
		return nil, ErrVisionUnavailable
	}
	var resp visionResponse
	if err := postJSON(ctx, c.hc, c.baseURL+"/extract", visionRequest{Image: imageB64, MimeType: mimeType}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Fields == nil {
		if resp.Error != "" {
			return nil, errors.New(resp.Error)
		}
		return nil, ErrVisionUnavailable
	}
	return resp.Fields, nil
}
