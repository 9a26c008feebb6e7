package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"chequemate-backend/internal/domain/events"
)

// Subscriber hands out a stream of transition events plus a stop function.
type Subscriber func(ctx context.Context) (<-chan events.TransitionEvent, func())

type EventsHandler struct{ subscribe Subscriber }

func NewEventsHandler(subscribe Subscriber) *EventsHandler {
	return &EventsHandler{subscribe: subscribe}
}

// Stream pushes cheque status transitions to the client as server-sent
// events until the client disconnects.
func (h *EventsHandler) Stream(c echo.Context) error {
	if h.subscribe == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "event stream not configured"})
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ctx := c.Request().Context()
	ch, stop := h.subscribe(ctx)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-ch:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "event: transition\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
