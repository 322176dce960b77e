// Package lifecycle implements the booking state machine: validation of
// actor-requested transitions and evaluation of time-triggered ones.  All
// functions here are pure – they read a booking and a clock instant and
// never touch the database, which keeps the transition rules trivially
// testable.  Persistence of the decisions made here is the job of the
// engine package.
package lifecycle

import "errors"

// ErrIllegalTransition is returned when a manual transition request is
// incompatible with the booking's current status, e.g. confirming a
// booking that already ended.  Handlers should translate this into an
// HTTP 409 response.
var ErrIllegalTransition = errors.New("illegal transition")

// ErrWindowClosed is returned when a cancellation is requested closer to
// the event start than the cancellation window permits.  This is a
// business-rule refusal, not a fault: handlers surface it to the user as
// a non-fatal "no longer possible" answer rather than an error status.
var ErrWindowClosed = errors.New("cancellation window closed")
