package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"chequemate-backend/internal/external"
	"chequemate-backend/internal/usecase/chequeuc"
	"chequemate-backend/internal/usecase/screening"
	verificationuc "chequemate-backend/internal/usecase/verification"
)

// Extractor is the OCR collaborator; nil means image extraction is disabled.
type Extractor interface {
	Extract(ctx context.Context, imageB64, mimeType string) (*external.ExtractedFields, error)
}

type ChequeHandler struct {
	cheques  *chequeuc.Usecase
	screener *screening.Usecase
	verifier *verificationuc.Usecase
	vision   Extractor
}

func NewChequeHandler(cheques *chequeuc.Usecase, screener *screening.Usecase, verifier *verificationuc.Usecase, vision Extractor) *ChequeHandler {
	return &ChequeHandler{cheques: cheques, screener: screener, verifier: verifier, vision: vision}
}

type createChequeReq struct {
	ChequeNumber            string `json:"cheque_number"             validate:"required"`
	DrawerAccountNumber     string `json:"drawer_account_number"     validate:"required"`
	PresentingAccountNumber string `json:"presenting_account_number"`
	PayeeName               string `json:"payee_name"                validate:"required"`
	Amount                  string `json:"amount"                    validate:"required,money"`
	OCRAmount               string `json:"ocr_amount"                validate:"omitempty,money"`
	IssueDate               string `json:"issue_date"                validate:"required,datetime=2006-01-02"`
	MICRCode                string `json:"micr_code"                 validate:"required"`
}

func (h *ChequeHandler) CreateCheque(c echo.Context) error {
	var req createChequeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	amount, _ := decimal.NewFromString(req.Amount)
	ocrAmount := amount
	if req.OCRAmount != "" {
		ocrAmount, _ = decimal.NewFromString(req.OCRAmount)
	}
	issueDate, _ := time.Parse("2006-01-02", req.IssueDate)

	dto, err := h.cheques.Create(c.Request().Context(), chequeuc.CreateChequeInput{
		ChequeNumber:            req.ChequeNumber,
		DrawerAccountNumber:     req.DrawerAccountNumber,
		PresentingAccountNumber: req.PresentingAccountNumber,
		PayeeName:               req.PayeeName,
		Amount:                  amount,
		OCRAmount:               ocrAmount,
		IssueDate:               issueDate,
		MICRCode:                req.MICRCode,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type extractChequeReq struct {
	Image    string `json:"image"     validate:"required"`
	MimeType string `json:"mime_type" validate:"required,oneof=image/png image/jpeg"`
}

// ExtractCheque runs OCR on a cheque image and returns the fields so the
// console can review them before creating the cheque.
func (h *ChequeHandler) ExtractCheque(c echo.Context) error {
	if h.vision == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "image extraction not configured"})
	}
	var req extractChequeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	fields, err := h.vision.Extract(c.Request().Context(), req.Image, req.MimeType)
	if err != nil {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, fields)
}

func (h *ChequeHandler) GetCheque(c echo.Context) error {
	dto, err := h.cheques.Get(c.Request().Context(), c.Param("cheque_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ChequeHandler) DeleteCheque(c echo.Context) error {
	if err := h.cheques.Delete(c.Request().Context(), c.Param("cheque_id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ChequeHandler) ValidateCheque(c echo.Context) error {
	res, err := h.cheques.Validate(c.Request().Context(), c.Param("cheque_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ChequeHandler) SendToClearing(c echo.Context) error {
	dto, err := h.screener.SendToClearing(c.Request().Context(), c.Param("cheque_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ReceiveAtDrawerBank records the drawer bank picking up a forwarded
// inter-bank cheque.
func (h *ChequeHandler) ReceiveAtDrawerBank(c echo.Context) error {
	dto, err := h.screener.ReceiveAtDrawerBank(c.Request().Context(), c.Param("cheque_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ChequeHandler) VerifyCheque(c echo.Context) error {
	dto, err := h.verifier.Run(c.Request().Context(), c.Param("cheque_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
