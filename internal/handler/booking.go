package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/performer-booking/internal/engine"
    "github.com/iliyamo/performer-booking/internal/lifecycle"
    "github.com/iliyamo/performer-booking/internal/model"
    "github.com/iliyamo/performer-booking/internal/notify"
    "github.com/iliyamo/performer-booking/internal/repository"
)

// BookingHandler groups the dependencies needed to create bookings, serve
// them to their parties and route transition requests into the engine.
// All methods assume JWT authentication and role validation have already
// been performed by middleware; the actor id and role are read from the
// request context.  Status is never written here directly – every
// mutation goes through the engine.
type BookingHandler struct {
    Repo     *repository.BookingRepo // booking persistence
    Engine   *engine.Engine          // transition evaluation and application
    Notifier notify.Notifier         // refresh signals toward observers
}

// NewBookingHandler constructs a BookingHandler.  All dependencies must
// be non-nil.
func NewBookingHandler(repo *repository.BookingRepo, eng *engine.Engine, notifier notify.Notifier) *BookingHandler {
    if repo == nil || eng == nil || notifier == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Repo: repo, Engine: eng, Notifier: notifier}
}

// Create handles POST /v1/bookings.  Only clients create bookings; the
// record starts in PENDING and the performer has the confirmation window
// to answer.  The body carries the performer, the event period
// (RFC 3339) and the free-form event details.  Overlapping an existing
// confirmed engagement of the performer yields 409.
func (h *BookingHandler) Create(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    role, err := getRole(c)
    if err != nil || role != model.RoleClient {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "only clients may create bookings"})
    }
    var body struct {
        PerformerID uint64             `json:"performer_id"`
        EventStart  string             `json:"event_start"`
        EventEnd    string             `json:"event_end"`
        Details     model.EventDetails `json:"details"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.PerformerID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "performer_id is required"})
    }
    start, err := time.Parse(time.RFC3339, body.EventStart)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_start must be RFC3339"})
    }
    end, err := time.Parse(time.RFC3339, body.EventEnd)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_end must be RFC3339"})
    }
    now := time.Now().UTC()
    if !start.Before(end) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_start must be before event_end"})
    }
    if start.Before(now) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_start must be in the future"})
    }

    b := model.Booking{
        ClientID:    userID,
        PerformerID: body.PerformerID,
        EventStart:  start.UTC(),
        EventEnd:    end.UTC(),
        Details:     body.Details,
    }
    ctx := c.Request().Context()
    if err := h.Repo.Create(ctx, &b); err != nil {
        if errors.Is(err, repository.ErrOverlap) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "performer is already booked for this period"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    // Wake the performer's open sessions so the new request shows up
    // without waiting for a manual reload.  Best-effort.
    _ = h.Notifier.Publish(ctx, b.PerformerID, model.BookingChangedEvent{
        ActorID:   b.PerformerID,
        BookingID: b.ID,
        Reason:    "created",
        NewStatus: b.Status,
    })
    return c.JSON(http.StatusCreated, b)
}

// List handles GET /v1/bookings.  The actor sees the bookings of the
// role they are acting in.  Due automatic transitions are applied before
// answering, so the response never shows a booking whose deadline
// already passed in its stale state.
func (h *BookingHandler) List(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    role, err := getRole(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookings, err := h.Engine.SyncActor(c.Request().Context(), userID, role)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if bookings == nil {
        bookings = []model.Booking{}
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// Get handles GET /v1/bookings/:id.  Only the two parties of a booking
// may read it.
func (h *BookingHandler) Get(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    b, err := h.Repo.GetByID(c.Request().Context(), c.Param("id"))
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if b.ClientID != userID && b.PerformerID != userID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusOK, b)
}

// Confirm handles POST /v1/bookings/:id/confirm (performer only).
func (h *BookingHandler) Confirm(c echo.Context) error {
    return h.transition(c, model.StatusConfirmed, nil)
}

// Reject handles POST /v1/bookings/:id/reject (performer only).
func (h *BookingHandler) Reject(c echo.Context) error {
    return h.transition(c, model.StatusRejected, nil)
}

// Cancel handles POST /v1/bookings/:id/cancel (performer only).  The
// optional body carries a human-readable reason stored on the booking.
// Cancelling inside the 14-day window is answered with allowed=false
// rather than an error status: it is an expected business refusal, not a
// fault.
func (h *BookingHandler) Cancel(c echo.Context) error {
    var body struct {
        Reason string `json:"reason"`
    }
    // The body is optional; ignore bind errors for an empty payload.
    _ = c.Bind(&body)
    var reason *string
    if body.Reason != "" {
        reason = &body.Reason
    }
    return h.transition(c, model.StatusCancelled, reason)
}

// transition routes a manual transition request into the engine and maps
// the outcome onto HTTP.
func (h *BookingHandler) transition(c echo.Context, target model.BookingStatus, reason *string) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    b, err := h.Engine.RequestTransition(c.Request().Context(), c.Param("id"), target, userID, reason)
    switch {
    case err == nil:
        return c.JSON(http.StatusOK, echo.Map{"allowed": true, "booking": b})
    case errors.Is(err, lifecycle.ErrWindowClosed):
        return c.JSON(http.StatusOK, echo.Map{
            "allowed": false,
            "reason":  "cancellation window closed: less than 14 days before the event",
        })
    case errors.Is(err, lifecycle.ErrIllegalTransition):
        return c.JSON(http.StatusConflict, echo.Map{"error": "illegal transition"})
    case errors.Is(err, repository.ErrVersionConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking changed concurrently, reload and retry"})
    case errors.Is(err, repository.ErrBookingNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
}

// countdownEntry is one remaining-time readout in a countdown response.
type countdownEntry struct {
    Text    string `json:"text"`
    Elapsed bool   `json:"elapsed"`
}

// Countdown handles GET /v1/bookings/:id/countdown.  It reports the
// remaining-time texts relevant to the booking's current status: the
// confirmation deadline while PENDING, the cancellation cutoff and time
// to the event while CONFIRMED, and time to the event end while ONGOING.
// Terminal bookings get an empty object.
func (h *BookingHandler) Countdown(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    b, err := h.Repo.GetByID(c.Request().Context(), c.Param("id"))
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if b.ClientID != userID && b.PerformerID != userID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }

    now := time.Now().UTC()
    out := echo.Map{"status": b.Status}
    switch b.Status {
    case model.StatusPending:
        text, elapsed, _ := lifecycle.Remaining(b.CreatedAt, lifecycle.ConfirmWindowDays, now)
        out["confirm_deadline"] = countdownEntry{Text: text, Elapsed: elapsed}
    case model.StatusConfirmed:
        text, elapsed, _ := lifecycle.Remaining(b.EventStart, -lifecycle.CancelWindowDays, now)
        out["cancel_cutoff"] = countdownEntry{Text: text, Elapsed: elapsed}
        text, elapsed, _ = lifecycle.Remaining(b.EventStart, 0, now)
        out["event_start"] = countdownEntry{Text: text, Elapsed: elapsed}
    case model.StatusOngoing:
        text, elapsed, _ := lifecycle.Remaining(b.EventEnd, 0, now)
        out["event_end"] = countdownEntry{Text: text, Elapsed: elapsed}
    }
    return c.JSON(http.StatusOK, out)
}
