package http

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts every handler on the echo instance. main and the
// handler tests share this so route shapes cannot drift.
func RegisterRoutes(e *echo.Echo, h *Handler, cheques *ChequeHandler, reviews *ReviewHandler, reg *RegistryHandler, events *EventsHandler) {
	e.GET("/health", h.Health)

	e.POST("/cheques", cheques.CreateCheque)
	e.POST("/cheques/extract", cheques.ExtractCheque)
	e.GET("/cheques/:cheque_id", cheques.GetCheque)
	e.DELETE("/cheques/:cheque_id", cheques.DeleteCheque)
	e.POST("/cheques/:cheque_id/validate", cheques.ValidateCheque)
	e.POST("/cheques/:cheque_id/send-to-clearing", cheques.SendToClearing)
	e.POST("/cheques/:cheque_id/receive", cheques.ReceiveAtDrawerBank)
	e.POST("/cheques/:cheque_id/verify", cheques.VerifyCheque)
	e.POST("/cheques/:cheque_id/decision", reviews.RecordDecision)

	e.GET("/review-queue", reviews.Queue)
	e.POST("/flags/:flag_id/assign", reviews.Assign)
	e.POST("/flags/:flag_id/resolve", reviews.Resolve)

	e.POST("/banks", reg.CreateBank)
	e.POST("/accounts", reg.CreateAccount)
	e.POST("/cheque-books", reg.CreateChequeBook)
	e.POST("/blacklist", reg.AddBlacklistEntry)
	e.POST("/stop-payments", reg.SetStopPayment)

	if events != nil {
		e.GET("/events", events.Stream)
	}
}
