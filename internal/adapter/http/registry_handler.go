package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"chequemate-backend/internal/domain/account"
	"chequemate-backend/internal/domain/bank"
	"chequemate-backend/internal/usecase/registry"
)

// RegistryHandler covers the reference-data endpoints: banks, accounts,
// cheque books, blacklist entries and stop-payment orders.
type RegistryHandler struct{ uc *registry.Usecase }

func NewRegistryHandler(uc *registry.Usecase) *RegistryHandler { return &RegistryHandler{uc: uc} }

type createBankReq struct {
	Code          string `json:"code"           validate:"required"`
	Name          string `json:"name"           validate:"required"`
	Type          string `json:"type"           validate:"omitempty,oneof=commercial central government"`
	RoutingNumber string `json:"routing_number" validate:"omitempty,len=9,numeric"`
}

func (h *RegistryHandler) CreateBank(c echo.Context) error {
	var req createBankReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	b, err := h.uc.CreateBank(c.Request().Context(), registry.CreateBankInput{
		Code:          req.Code,
		Name:          req.Name,
		Type:          bank.Type(req.Type),
		RoutingNumber: req.RoutingNumber,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

type createAccountReq struct {
	BankCode      string `json:"bank_code"      validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	HolderName    string `json:"holder_name"    validate:"required"`
	NationalID    string `json:"national_id"`
	Balance       string `json:"balance"        validate:"omitempty,money"`
}

func (h *RegistryHandler) CreateAccount(c echo.Context) error {
	var req createAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	balance := decimal.Zero
	if req.Balance != "" {
		balance, _ = decimal.NewFromString(req.Balance)
	}
	a, err := h.uc.CreateAccount(c.Request().Context(), registry.CreateAccountInput{
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
		HolderName:    req.HolderName,
		NationalID:    req.NationalID,
		Balance:       balance,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

type createBookReq struct {
	AccountNumber string `json:"account_number" validate:"required"`
	SerialStart   int    `json:"serial_start"   validate:"required,gte=1"`
	LeafCount     int    `json:"leaf_count"     validate:"required,gte=1,lte=200"`
}

func (h *RegistryHandler) CreateChequeBook(c echo.Context) error {
	var req createBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	book, err := h.uc.CreateChequeBook(c.Request().Context(), registry.CreateBookInput{
		AccountNumber: req.AccountNumber,
		SerialStart:   req.SerialStart,
		LeafCount:     req.LeafCount,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, book)
}

type blacklistReq struct {
	EntryType string `json:"entry_type" validate:"required,oneof=account cheque person"`
	MatchKey  string `json:"match_key"  validate:"required"`
	Reason    string `json:"reason"`
}

func (h *RegistryHandler) AddBlacklistEntry(c echo.Context) error {
	var req blacklistReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	if err := h.uc.AddBlacklistEntry(c.Request().Context(), registry.BlacklistInput{
		EntryType: account.BlacklistEntryType(req.EntryType),
		MatchKey:  req.MatchKey,
		Reason:    req.Reason,
	}); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

type stopPaymentReq struct {
	AccountNumber string `json:"account_number" validate:"required"`
	ChequeNumber  string `json:"cheque_number"  validate:"required"`
	Stop          *bool  `json:"stop"           validate:"required"`
}

func (h *RegistryHandler) SetStopPayment(c echo.Context) error {
	var req stopPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	if err := h.uc.SetStopPayment(c.Request().Context(), req.AccountNumber, req.ChequeNumber, *req.Stop); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"account_number": req.AccountNumber,
		"cheque_number":  req.ChequeNumber,
		"stop":           *req.Stop,
	})
}
