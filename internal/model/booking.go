package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking as stored in
// the bookings.status column.  The seven values below are the only values the
// column may hold; the database enforces this with an ENUM and the
// lifecycle package enforces it for every transition.
type BookingStatus string

const (
    StatusPending     BookingStatus = "PENDING"     // created by a client, awaiting performer decision
    StatusConfirmed   BookingStatus = "CONFIRMED"   // accepted by the performer
    StatusOngoing     BookingStatus = "ONGOING"     // event started, not yet finished
    StatusEnded       BookingStatus = "ENDED"       // event finished
    StatusUnconfirmed BookingStatus = "UNCONFIRMED" // performer never answered within the confirmation window
    StatusRejected    BookingStatus = "REJECTED"    // declined by the performer
    StatusCancelled   BookingStatus = "CANCELLED"   // confirmed booking cancelled before the event
)

// Valid reports whether s is one of the seven defined statuses.  Values
// read from external input must pass this check before being used in a
// transition request.
func (s BookingStatus) Valid() bool {
    switch s {
    case StatusPending, StatusConfirmed, StatusOngoing, StatusEnded,
        StatusUnconfirmed, StatusRejected, StatusCancelled:
        return true
    }
    return false
}

// Terminal reports whether no further transition, automatic or manual, may
// move a booking away from s.  UNCONFIRMED is treated as terminal: the
// source system leaves it as a dead end and we preserve that here.
func (s BookingStatus) Terminal() bool {
    switch s {
    case StatusEnded, StatusRejected, StatusCancelled, StatusUnconfirmed:
        return true
    }
    return false
}

// EventDetails carries the free-form description of the engagement.  The
// lifecycle engine never inspects these fields; they are stored as a JSON
// blob in bookings.details and returned verbatim to clients.
type EventDetails struct {
    Location     string   `json:"location"`
    PartyType    string   `json:"party_type"`
    GuestsMin    uint32   `json:"guests_min"`
    GuestsMax    uint32   `json:"guests_max"`
    AgeMin       uint32   `json:"age_min"`
    AgeMax       uint32   `json:"age_max"`
    MusicPrefs    []string `json:"music_prefs,omitempty"`
    ExtraServices []string `json:"extra_services,omitempty"`
}

// Booking records a client's request for a performer to appear at an event.
// It is the central entity of the lifecycle engine.
//
// Fields:
//  ID           – opaque UUID primary key.
//  ClientID     – user who requested the booking.
//  PerformerID  – performer being booked.
//  Status       – current lifecycle state, see BookingStatus.
//  Version      – optimistic-concurrency sequence; bumped on every status
//                 change.  Two evaluators racing on the same record are
//                 serialized by a compare-and-swap on this field, so each
//                 due condition is applied at most once.
//  EventStart   – when the engagement begins (UTC).
//  EventEnd     – when the engagement ends (UTC); always after EventStart.
//  Details      – free-form event description, opaque to the engine.
//  CancelReason – set only when Status becomes CANCELLED.
//  CreatedAt    – creation timestamp; anchors the confirmation window.
//  UpdatedAt    – last modification timestamp.
type Booking struct {
    ID           string        `json:"id"`
    ClientID     uint64        `json:"client_id"`
    PerformerID  uint64        `json:"performer_id"`
    Status       BookingStatus `json:"status"`
    Version      uint64        `json:"version"`
    EventStart   time.Time     `json:"event_start"`
    EventEnd     time.Time     `json:"event_end"`
    Details      EventDetails  `json:"details"`
    CancelReason *string       `json:"cancel_reason,omitempty"`
    CreatedAt    time.Time     `json:"created_at"`
    UpdatedAt    time.Time     `json:"updated_at"`
}
