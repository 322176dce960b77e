// Package engine drives the booking lifecycle against the store.  It is
// the only component that mutates booking status: manual transition
// requests from handlers and time-triggered transitions found by the
// periodic sweep both funnel through applyStep, which persists the change
// with a compare-and-swap and emits the change notifications exactly once
// per applied transition.
package engine

import (
    "context"
    "errors"
    "log"
    "time"

    "github.com/iliyamo/performer-booking/internal/lifecycle"
    "github.com/iliyamo/performer-booking/internal/model"
    "github.com/iliyamo/performer-booking/internal/notify"
    "github.com/iliyamo/performer-booking/internal/queue"
    "github.com/iliyamo/performer-booking/internal/repository"
)

// Store is the slice of the booking repository the engine depends on.
// *repository.BookingRepo satisfies it; tests substitute an in-memory
// implementation.
type Store interface {
    GetByID(ctx context.Context, id string) (model.Booking, error)
    ListByActor(ctx context.Context, actorID uint64, role string) ([]model.Booking, error)
    ListDue(ctx context.Context, pendingBefore, now time.Time, limit int) ([]model.Booking, error)
    UpdateStatusCAS(ctx context.Context, id string, fromVersion uint64, to model.BookingStatus, reason *string) error
}

// Feed forwards a status change to the durable broker queue consumed by
// the notification-delivery service.  It may be nil when the service runs
// without a broker; delivery is best-effort either way.
type Feed func(ctx context.Context, ev queue.BookingStatusChangedEvent) error

// Engine evaluates and applies booking transitions.  One Engine instance
// runs per process; concurrent instances (or concurrent calls into one
// instance) are safe because every write goes through the store's
// compare-and-swap, which lets exactly one writer apply a given
// transition.
type Engine struct {
    store    Store
    notifier notify.Notifier
    feed     Feed
    interval time.Duration
    batch    int
    now      func() time.Time
}

// New returns an Engine sweeping on the given interval.  A zero interval
// defaults to 30 seconds, a nil feed disables the broker queue.
func New(store Store, notifier notify.Notifier, feed Feed, interval time.Duration) *Engine {
    if interval <= 0 {
        interval = 30 * time.Second
    }
    return &Engine{
        store:    store,
        notifier: notifier,
        feed:     feed,
        interval: interval,
        batch:    500,
        now:      time.Now,
    }
}

// Run executes the periodic background sweep until ctx is cancelled.
// Each tick is independent and idempotent: a record with no due
// transition is a no-op, and a record another evaluator already advanced
// is skipped via the version check.  Errors are logged and retried on the
// next tick, never surfaced to users.
func (e *Engine) Run(ctx context.Context) {
    t := time.NewTicker(e.interval)
    defer t.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case <-t.C:
            changed, err := e.Sweep(ctx, e.now().UTC())
            if err != nil {
                log.Printf("engine: sweep failed: %v", err)
                continue
            }
            if len(changed) > 0 {
                log.Printf("engine: sweep applied transitions on %d bookings", len(changed))
            }
        }
    }
}

// Sweep loads every booking whose automatic deadline has passed and
// applies the due transitions.  It returns the bookings that changed, in
// their post-transition state.  A booking whose event both started and
// ended since the last pass moves CONFIRMED -> ONGOING -> ENDED in this
// single pass, each step persisted and notified separately so the
// intermediate state is never skipped.
func (e *Engine) Sweep(ctx context.Context, now time.Time) ([]model.Booking, error) {
    due, err := e.store.ListDue(ctx, now.Add(-lifecycle.ConfirmWindow), now, e.batch)
    if err != nil {
        return nil, err
    }
    var changed []model.Booking
    for _, b := range due {
        if e.advance(ctx, &b, now) {
            changed = append(changed, b)
        }
    }
    return changed, nil
}

// SyncActor re-evaluates every booking the actor is a party to and
// returns the refreshed list.  Handlers call it before answering a list
// request so an actor always observes post-deadline state without
// waiting for the next background tick.
func (e *Engine) SyncActor(ctx context.Context, actorID uint64, role string) ([]model.Booking, error) {
    list, err := e.store.ListByActor(ctx, actorID, role)
    if err != nil {
        return nil, err
    }
    now := e.now().UTC()
    for i := range list {
        e.advance(ctx, &list[i], now)
    }
    return list, nil
}

// RequestTransition applies an actor-requested transition: confirm,
// reject or cancel.  Manual transitions are performer-initiated, so a
// caller who is not the booking's performer gets
// repository.ErrForbidden.  Validation errors
// (lifecycle.ErrIllegalTransition, lifecycle.ErrWindowClosed) and
// concurrent-update conflicts (repository.ErrVersionConflict) are
// returned synchronously for the handler to surface; nothing is retried
// here.  On success the updated booking is returned.
func (e *Engine) RequestTransition(ctx context.Context, bookingID string, target model.BookingStatus, actorID uint64, cancelReason *string) (model.Booking, error) {
    b, err := e.store.GetByID(ctx, bookingID)
    if err != nil {
        return model.Booking{}, err
    }
    if b.PerformerID != actorID {
        return model.Booking{}, repository.ErrForbidden
    }
    now := e.now().UTC()
    if err := lifecycle.ValidateManual(&b, target, now); err != nil {
        return model.Booking{}, err
    }
    var reason *string
    if target == model.StatusCancelled {
        reason = cancelReason
    }
    if err := e.applyStep(ctx, &b, target, "performer-action", reason, now); err != nil {
        return model.Booking{}, err
    }
    return b, nil
}

// advance applies every automatic transition currently due for b,
// persisting and notifying step by step.  It reports whether at least one
// transition was applied.  A version conflict means another evaluator got
// there first and is silently treated as done; any other persistence
// failure leaves the record for the next tick.
func (e *Engine) advance(ctx context.Context, b *model.Booking, now time.Time) bool {
    applied := false
    for {
        next, due := lifecycle.NextAutomatic(b, now)
        if !due {
            return applied
        }
        if err := e.applyStep(ctx, b, next, "deadline-elapsed", nil, now); err != nil {
            if !errors.Is(err, repository.ErrVersionConflict) {
                log.Printf("engine: advance %s to %s failed: %v", b.ID, next, err)
            }
            return applied
        }
        applied = true
    }
}

// applyStep persists a single transition of b to status to via the
// store's compare-and-swap and, on success, emits exactly one refresh
// event per affected actor plus one broker message.  The winner of the
// CAS is the only caller that reaches the notification code, which is
// what makes the per-change at-most-once guarantee hold under concurrent
// evaluation.
func (e *Engine) applyStep(ctx context.Context, b *model.Booking, to model.BookingStatus, reasonTag string, cancelReason *string, now time.Time) error {
    if err := e.store.UpdateStatusCAS(ctx, b.ID, b.Version, to, cancelReason); err != nil {
        return err
    }
    old := b.Status
    b.Status = to
    b.Version++
    if cancelReason != nil {
        b.CancelReason = cancelReason
    }
    b.UpdatedAt = now

    ev := model.BookingChangedEvent{
        BookingID: b.ID,
        Reason:    reasonTag,
        OldStatus: old,
        NewStatus: to,
    }
    for _, actorID := range []uint64{b.ClientID, b.PerformerID} {
        ev.ActorID = actorID
        if err := e.notifier.Publish(ctx, actorID, ev); err != nil {
            // Best-effort: the periodic sweep re-derives the same state, so
            // a lost refresh signal only delays the observer's reload.
            log.Printf("engine: refresh publish for actor %d failed: %v", actorID, err)
        }
    }
    if e.feed != nil {
        msg := queue.BookingStatusChangedEvent{
            BookingID:   b.ID,
            ClientID:    b.ClientID,
            PerformerID: b.PerformerID,
            OldStatus:   string(old),
            NewStatus:   string(to),
            Reason:      reasonTag,
            EventStart:  b.EventStart.UTC().Format(time.RFC3339),
            EventEnd:    b.EventEnd.UTC().Format(time.RFC3339),
            ChangedAt:   now.Format(time.RFC3339),
        }
        if err := e.feed(ctx, msg); err != nil {
            log.Printf("engine: broker publish for booking %s failed: %v", b.ID, err)
        }
    }
    return nil
}
