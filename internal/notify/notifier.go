// Package notify implements the observer refresh channel.  When a
// booking's status changes, the engine publishes a small
// BookingChangedEvent per affected actor; connected observers subscribe
// by actor id and re-fetch their bookings when signalled.  The channel is
// fan-out, at-most-once and best-effort: a missed event is masked by the
// periodic background sweep re-deriving the same state, so no retries or
// ordering guarantees are provided.
package notify

import (
    "context"
    "sync"

    "github.com/iliyamo/performer-booking/internal/model"
)

// Notifier fans booking-change signals out to subscribed observers.
type Notifier interface {
    // Publish delivers ev to every current subscriber of actorID.  It is
    // best-effort: a slow or absent subscriber never blocks the caller.
    Publish(ctx context.Context, actorID uint64, ev model.BookingChangedEvent) error
    // Subscribe returns a channel of events for actorID and a cancel
    // function that releases the subscription.  The channel is closed
    // after cancel is called.
    Subscribe(ctx context.Context, actorID uint64) (<-chan model.BookingChangedEvent, func(), error)
}

// MemoryNotifier is an in-process Notifier used in tests and when the
// service runs without Redis.  Events are delivered synchronously with a
// non-blocking send: subscribers that are not draining their channel
// simply miss events, matching the best-effort contract.
type MemoryNotifier struct {
    mu     sync.Mutex
    nextID int
    subs   map[uint64]map[int]chan model.BookingChangedEvent
}

// NewMemoryNotifier returns an empty in-process notifier.
func NewMemoryNotifier() *MemoryNotifier {
    return &MemoryNotifier{subs: make(map[uint64]map[int]chan model.BookingChangedEvent)}
}

// Publish delivers ev to every current subscriber of actorID.
func (m *MemoryNotifier) Publish(_ context.Context, actorID uint64, ev model.BookingChangedEvent) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    for _, ch := range m.subs[actorID] {
        select {
        case ch <- ev:
        default: // subscriber not draining; drop rather than block
        }
    }
    return nil
}

// Subscribe registers a buffered channel for actorID.
func (m *MemoryNotifier) Subscribe(_ context.Context, actorID uint64) (<-chan model.BookingChangedEvent, func(), error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    id := m.nextID
    m.nextID++
    ch := make(chan model.BookingChangedEvent, 16)
    if m.subs[actorID] == nil {
        m.subs[actorID] = make(map[int]chan model.BookingChangedEvent)
    }
    m.subs[actorID][id] = ch
    cancel := func() {
        m.mu.Lock()
        defer m.mu.Unlock()
        if sub, ok := m.subs[actorID][id]; ok {
            delete(m.subs[actorID], id)
            close(sub)
        }
    }
    return ch, cancel, nil
}
