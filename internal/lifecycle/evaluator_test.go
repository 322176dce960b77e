package lifecycle

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/performer-booking/internal/model"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newBooking(status model.BookingStatus, createdAt, start, end time.Time) *model.Booking {
    return &model.Booking{
        ID:          "b-1",
        ClientID:    1,
        PerformerID: 2,
        Status:      status,
        EventStart:  start,
        EventEnd:    end,
        CreatedAt:   createdAt,
    }
}

func TestValidateManual_PendingDecisions(t *testing.T) {
    b := newBooking(model.StatusPending, base, base.AddDate(0, 1, 0), base.AddDate(0, 1, 0).Add(4*time.Hour))

    assert.NoError(t, ValidateManual(b, model.StatusConfirmed, base.Add(time.Hour)))
    assert.NoError(t, ValidateManual(b, model.StatusRejected, base.Add(time.Hour)))
    assert.ErrorIs(t, ValidateManual(b, model.StatusCancelled, base.Add(time.Hour)), ErrIllegalTransition)
    assert.ErrorIs(t, ValidateManual(b, model.StatusOngoing, base.Add(time.Hour)), ErrIllegalTransition)
}

func TestValidateManual_CancelWindow(t *testing.T) {
    start := base.AddDate(0, 0, 30)
    b := newBooking(model.StatusConfirmed, base, start, start.Add(4*time.Hour))

    cases := []struct {
        name string
        now  time.Time
        want error
    }{
        {"well outside window", start.Add(-20 * 24 * time.Hour), nil},
        {"exactly 14 days remaining", start.Add(-CancelWindow), nil},
        {"one second inside window", start.Add(-CancelWindow).Add(time.Second), ErrWindowClosed},
        {"day before event", start.Add(-24 * time.Hour), ErrWindowClosed},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            err := ValidateManual(b, model.StatusCancelled, tc.now)
            if tc.want == nil {
                assert.NoError(t, err)
            } else {
                assert.ErrorIs(t, err, tc.want)
            }
        })
    }
}

func TestValidateManual_TerminalStatesAreImmutable(t *testing.T) {
    terminals := []model.BookingStatus{
        model.StatusEnded, model.StatusRejected, model.StatusCancelled, model.StatusUnconfirmed,
    }
    targets := []model.BookingStatus{
        model.StatusPending, model.StatusConfirmed, model.StatusOngoing,
        model.StatusEnded, model.StatusRejected, model.StatusCancelled,
    }
    for _, from := range terminals {
        b := newBooking(from, base, base.AddDate(0, 1, 0), base.AddDate(0, 1, 1))
        for _, to := range targets {
            assert.ErrorIs(t, ValidateManual(b, to, base), ErrIllegalTransition,
                "%s -> %s must be illegal", from, to)
        }
    }
}

func TestValidateManual_RejectsUnknownTarget(t *testing.T) {
    b := newBooking(model.StatusPending, base, base.AddDate(0, 1, 0), base.AddDate(0, 1, 1))
    assert.ErrorIs(t, ValidateManual(b, model.BookingStatus("ARCHIVED"), base), ErrIllegalTransition)
}

func TestNextAutomatic_PendingExpiry(t *testing.T) {
    b := newBooking(model.StatusPending, base, base.AddDate(0, 1, 0), base.AddDate(0, 1, 1))

    _, due := NextAutomatic(b, base.Add(ConfirmWindow).Add(-time.Second))
    assert.False(t, due, "still inside the confirmation window")

    next, due := NextAutomatic(b, base.Add(ConfirmWindow))
    require.True(t, due, "window boundary reached")
    assert.Equal(t, model.StatusUnconfirmed, next)
}

func TestNextAutomatic_EventProgress(t *testing.T) {
    start := base.AddDate(0, 0, 10)
    end := start.Add(4 * time.Hour)

    b := newBooking(model.StatusConfirmed, base, start, end)
    _, due := NextAutomatic(b, start.Add(-time.Minute))
    assert.False(t, due)

    next, due := NextAutomatic(b, start)
    require.True(t, due)
    assert.Equal(t, model.StatusOngoing, next)

    b.Status = model.StatusOngoing
    next, due = NextAutomatic(b, end)
    require.True(t, due)
    assert.Equal(t, model.StatusEnded, next)
}

func TestNextAutomatic_TerminalStatesNeverDue(t *testing.T) {
    farPast := base.AddDate(-1, 0, 0)
    for _, s := range []model.BookingStatus{
        model.StatusEnded, model.StatusRejected, model.StatusCancelled, model.StatusUnconfirmed,
    } {
        b := newBooking(s, farPast, farPast.AddDate(0, 0, 1), farPast.AddDate(0, 0, 2))
        _, due := NextAutomatic(b, base)
        assert.False(t, due, "terminal status %s must never be due", s)
    }
}

func TestAdvance_PassesThroughOngoing(t *testing.T) {
    start := base.Add(-6 * time.Hour)
    end := base.Add(-2 * time.Hour)
    b := newBooking(model.StatusConfirmed, base.AddDate(0, 0, -5), start, end)

    path := Advance(b, base)
    assert.Equal(t, []model.BookingStatus{model.StatusOngoing, model.StatusEnded}, path,
        "event that started and ended must pass through ONGOING, never jump to ENDED")
    assert.Equal(t, model.StatusEnded, b.Status)
}

func TestAdvance_Idempotent(t *testing.T) {
    b := newBooking(model.StatusPending, base.Add(-3*24*time.Hour), base.AddDate(0, 1, 0), base.AddDate(0, 1, 1))

    first := Advance(b, base)
    assert.Equal(t, []model.BookingStatus{model.StatusUnconfirmed}, first)

    second := Advance(b, base)
    assert.Empty(t, second, "re-evaluating an already advanced record is a no-op")
    assert.Equal(t, model.StatusUnconfirmed, b.Status)
}
