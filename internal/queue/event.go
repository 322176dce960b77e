// Package queue defines message payloads exchanged over the message broker.
package queue

// StatusChangedQueue is the durable queue carrying booking status
// transitions toward the notification-delivery service (email, push).
const StatusChangedQueue = "booking.status-changed"

// BookingStatusChangedEvent is published whenever a booking moves to a
// new status, whether by actor action or by an elapsed deadline.  It
// contains enough information for downstream consumers to log, notify or
// trigger analytics without querying the primary database.
type BookingStatusChangedEvent struct {
    BookingID   string `json:"booking_id"`
    ClientID    uint64 `json:"client_id"`
    PerformerID uint64 `json:"performer_id"`
    OldStatus   string `json:"old_status"`
    NewStatus   string `json:"new_status"`
    Reason      string `json:"reason"`
    EventStart  string `json:"event_start"`
    EventEnd    string `json:"event_end"`
    ChangedAt   string `json:"changed_at"`
}
