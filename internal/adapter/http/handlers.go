package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"chequemate-backend/internal/domain/account"
	"chequemate-backend/internal/domain/cheque"
	"chequemate-backend/internal/domain/clearing"
	"chequemate-backend/internal/domain/verification"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// writeDomainError maps domain errors to HTTP codes: missing resources 404,
// lifecycle conflicts 409, everything else 400.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, cheque.ErrNotFound),
		errors.Is(err, cheque.ErrLeafNotFound),
		errors.Is(err, account.ErrNotFound),
		errors.Is(err, clearing.ErrNotFound),
		errors.Is(err, verification.ErrNotFound),
		errors.Is(err, verification.ErrFlagNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, cheque.ErrInvalidTransition),
		errors.Is(err, cheque.ErrLeafAlreadyUsed),
		errors.Is(err, verification.ErrFlagNotPending),
		errors.Is(err, account.ErrNotActive):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
}
