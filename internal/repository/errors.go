// Package repository defines error types that are reused across the data
// access layer.  These sentinel values allow higher layers such as the
// engine and the handlers to distinguish between failure scenarios
// without string matching.
package repository

import "errors"

// ErrBookingNotFound is returned when the requested booking id does not
// exist.  Handlers should translate this into an HTTP 404 response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrVersionConflict is returned by UpdateStatusCAS when the booking row
// changed since it was read: another evaluator applied a transition
// first.  Automatic evaluation treats this as "the other writer won" and
// moves on; manual requests surface it as an HTTP 409.
var ErrVersionConflict = errors.New("booking version conflict")

// ErrOverlap is returned when a new booking would intersect an existing
// confirmed or ongoing engagement of the same performer.  Handlers should
// translate this into an HTTP 409 response.
var ErrOverlap = errors.New("performer already booked for this period")

// ErrForbidden is returned when the caller attempts an operation on a
// booking they are not a party to.  Handlers should translate this into
// an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
