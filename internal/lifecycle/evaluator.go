package lifecycle

import (
    "time"

    "github.com/iliyamo/performer-booking/internal/model"
)

// ConfirmWindowDays is how long, in days, a performer has to answer a
// PENDING request before it automatically expires to UNCONFIRMED,
// measured from the booking's creation time.
const ConfirmWindowDays = 2

// ConfirmWindow is ConfirmWindowDays expressed as a duration.
const ConfirmWindow = ConfirmWindowDays * 24 * time.Hour

// CancelWindowDays is the minimum lead time, in days before the event
// start, during which a CONFIRMED booking may still be cancelled.  The
// boundary is closed: exactly CancelWindowDays remaining still allows
// cancellation.
const CancelWindowDays = 14

// CancelWindow is CancelWindowDays expressed as a duration.
const CancelWindow = CancelWindowDays * 24 * time.Hour

// ValidateManual checks whether an actor-requested transition of b to
// target is legal at instant now.  It returns nil when the transition may
// be applied, ErrWindowClosed when a cancellation arrives too close to
// the event, and ErrIllegalTransition for every other mismatch, including
// any request against a terminal booking.  It does not mutate b.
func ValidateManual(b *model.Booking, target model.BookingStatus, now time.Time) error {
    if !target.Valid() {
        return ErrIllegalTransition
    }
    if b.Status.Terminal() {
        return ErrIllegalTransition
    }
    switch b.Status {
    case model.StatusPending:
        // The performer may answer a pending request either way at any time
        // before the confirmation window expires it.
        if target == model.StatusConfirmed || target == model.StatusRejected {
            return nil
        }
    case model.StatusConfirmed:
        if target == model.StatusCancelled {
            // Closed boundary: exactly CancelWindow of lead time remaining
            // still permits cancellation.
            if b.EventStart.Sub(now) >= CancelWindow {
                return nil
            }
            return ErrWindowClosed
        }
    }
    return ErrIllegalTransition
}

// NextAutomatic reports the time-triggered transition due for b at
// instant now, if any.  It returns the target status and true when a
// transition is due, or the zero status and false otherwise.  Only one
// step is reported at a time: a CONFIRMED booking whose event already
// ended is first due for ONGOING, and only a subsequent evaluation moves
// it on to ENDED.  Callers that want the full chain use Advance.
func NextAutomatic(b *model.Booking, now time.Time) (model.BookingStatus, bool) {
    switch b.Status {
    case model.StatusPending:
        if !now.Before(b.CreatedAt.Add(ConfirmWindow)) {
            return model.StatusUnconfirmed, true
        }
    case model.StatusConfirmed:
        if !now.Before(b.EventStart) {
            return model.StatusOngoing, true
        }
    case model.StatusOngoing:
        if !now.Before(b.EventEnd) {
            return model.StatusEnded, true
        }
    }
    return "", false
}

// Advance applies every automatic transition due for b at instant now,
// in state-machine order, mutating b.Status as it goes.  It returns the
// ordered list of statuses passed through, which is empty when nothing
// was due.  Intermediate states are never skipped: a booking whose event
// has both started and ended within one evaluation pass still records
// ONGOING before ENDED.  Terminal bookings are left untouched.
//
// Advance is pure with respect to the store – persistence (and the
// per-step compare-and-swap that makes concurrent evaluation safe) is
// layered on top by the engine.
func Advance(b *model.Booking, now time.Time) []model.BookingStatus {
    var path []model.BookingStatus
    for {
        next, due := NextAutomatic(b, now)
        if !due {
            return path
        }
        b.Status = next
        path = append(path, next)
    }
}
