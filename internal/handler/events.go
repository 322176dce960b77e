package handler

import (
    "encoding/json"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"
)

// Watch handles GET /v1/bookings/watch.  It streams refresh signals for
// the authenticated actor as server-sent events.  Each event is a small
// JSON payload telling the client which booking changed and why; clients
// react by re-fetching their bookings rather than trusting any pushed
// state.  The stream ends when the client disconnects.  Delivery is
// best-effort: a dropped connection loses nothing of record, the next
// list request re-derives the truth.
func (h *BookingHandler) Watch(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx := c.Request().Context()
    events, cancel, err := h.Notifier.Subscribe(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "subscription failed"})
    }
    defer cancel()

    res := c.Response()
    res.Header().Set(echo.HeaderContentType, "text/event-stream")
    res.Header().Set("Cache-Control", "no-cache")
    res.Header().Set("Connection", "keep-alive")
    res.WriteHeader(http.StatusOK)
    res.Flush()

    for {
        select {
        case <-ctx.Done():
            return nil
        case ev, ok := <-events:
            if !ok {
                return nil
            }
            body, err := json.Marshal(ev)
            if err != nil {
                continue
            }
            if _, err := fmt.Fprintf(res, "data: %s\n\n", body); err != nil {
                return nil
            }
            res.Flush()
        }
    }
}
