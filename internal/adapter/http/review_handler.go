package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	domain "chequemate-backend/internal/domain/verification"
	"chequemate-backend/internal/usecase/review"
)

type ReviewHandler struct{ uc *review.Usecase }

func NewReviewHandler(uc *review.Usecase) *ReviewHandler { return &ReviewHandler{uc: uc} }

func (h *ReviewHandler) Queue(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	flags, err := h.uc.Queue(c.Request().Context(), limit)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"flags": flags, "count": len(flags)})
}

type assignFlagReq struct {
	ReviewerID string `json:"reviewer_id" validate:"required,hex32"`
}

func (h *ReviewHandler) Assign(c echo.Context) error {
	var req assignFlagReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Assign(c.Request().Context(), c.Param("flag_id"), req.ReviewerID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type resolveFlagReq struct {
	Decision   string `json:"decision"    validate:"required,oneof=approve reject"`
	Notes      string `json:"notes"`
	ReviewerID string `json:"reviewer_id" validate:"omitempty,hex32"`
}

func (h *ReviewHandler) Resolve(c echo.Context) error {
	var req resolveFlagReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Resolve(c.Request().Context(), review.ResolveInput{
		FlagID:     c.Param("flag_id"),
		Decision:   domain.Decision(req.Decision),
		Notes:      req.Notes,
		ReviewerID: req.ReviewerID,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type decisionReq struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Notes    string `json:"notes"`
}

// RecordDecision lets the drawer bank approve or reject a cheque directly,
// outside the review queue.
func (h *ReviewHandler) RecordDecision(c echo.Context) error {
	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	chequeID := c.Param("cheque_id")
	if err := h.uc.RecordDecision(c.Request().Context(), review.DecisionInput{
		ChequeID: chequeID,
		Decision: domain.Decision(req.Decision),
		Notes:    req.Notes,
	}); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"cheque_id": chequeID, "decision": req.Decision})
}
