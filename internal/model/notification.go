package model

// BookingChangedEvent is the ephemeral refresh signal fanned out to
// connected observers when a booking's status changes.  It deliberately
// carries no full payload: receivers are expected to re-fetch the booking
// from the store.  Delivery is best-effort and at-most-once per change; a
// missed event is healed by the periodic background sweep.
//
// Fields:
//  ActorID    – the user who should reload (client or performer).
//  BookingID  – which booking changed.
//  Reason     – short tag such as "created" or "status-changed".
//  OldStatus  – status before the change; empty on creation.
//  NewStatus  – status after the change.
type BookingChangedEvent struct {
    ActorID   uint64        `json:"actor_id"`
    BookingID string        `json:"booking_id"`
    Reason    string        `json:"reason"`
    OldStatus BookingStatus `json:"old_status,omitempty"`
    NewStatus BookingStatus `json:"new_status"`
}
