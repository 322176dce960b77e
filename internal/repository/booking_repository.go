package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/performer-booking/internal/model"
)

// BookingRepo provides data access to the bookings table.  It is the
// single writer-of-record for booking state: every status mutation goes
// through UpdateStatusCAS, which serializes concurrent evaluators per
// record via a compare-and-swap on the version column.  All timestamp
// fields are stored in UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, client_id, performer_id, status, version, event_start, event_end, details, cancel_reason, created_at, updated_at`

// scanBooking reads one bookings row from the given scanner.  The details
// JSON column is unmarshalled into the model struct; cancel_reason is
// nullable.
func scanBooking(row interface {
    Scan(dest ...interface{}) error
}) (model.Booking, error) {
    var (
        b          model.Booking
        status     string
        rawDetails []byte
        reason     sql.NullString
    )
    if err := row.Scan(
        &b.ID, &b.ClientID, &b.PerformerID, &status, &b.Version,
        &b.EventStart, &b.EventEnd, &rawDetails, &reason,
        &b.CreatedAt, &b.UpdatedAt,
    ); err != nil {
        return model.Booking{}, err
    }
    b.Status = model.BookingStatus(status)
    if len(rawDetails) > 0 {
        if err := json.Unmarshal(rawDetails, &b.Details); err != nil {
            return model.Booking{}, err
        }
    }
    if reason.Valid {
        v := reason.String
        b.CancelReason = &v
    }
    return b, nil
}

// Create inserts a new PENDING booking after verifying that the requested
// period does not overlap an existing CONFIRMED or ONGOING engagement of
// the same performer.  The overlap check and the insert run in one
// transaction so two simultaneous requests cannot both pass the check.
// On success the generated UUID and the database-assigned timestamps are
// populated on b.  A conflicting period yields ErrOverlap.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // Simple range-intersection check: [event_start, event_end) intervals
    // overlap when each starts before the other ends.
    const overlapQ = `SELECT COUNT(*) FROM bookings
        WHERE performer_id = ? AND status IN ('CONFIRMED','ONGOING')
          AND event_start < ? AND event_end > ?`
    var n int
    if err := tx.QueryRowContext(ctx, overlapQ, b.PerformerID, b.EventEnd.UTC(), b.EventStart.UTC()).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrOverlap
    }

    if b.ID == "" {
        b.ID = uuid.NewString()
    }
    details, err := json.Marshal(b.Details)
    if err != nil {
        return err
    }
    const insQ = `INSERT INTO bookings
        (id, client_id, performer_id, status, version, event_start, event_end, details)
        VALUES (?, ?, ?, 'PENDING', 0, ?, ?, ?)`
    if _, err := tx.ExecContext(ctx, insQ, b.ID, b.ClientID, b.PerformerID,
        b.EventStart.UTC(), b.EventEnd.UTC(), details); err != nil {
        return err
    }

    // Query back the row to pick up the database-assigned timestamps.
    const selQ = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
    created, err := scanBooking(tx.QueryRowContext(ctx, selQ, b.ID))
    if err != nil {
        return err
    }
    *b = created

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByID fetches a single booking.  It returns ErrBookingNotFound when
// the id is unknown.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
    b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return model.Booking{}, ErrBookingNotFound
    }
    if err != nil {
        return model.Booking{}, err
    }
    return b, nil
}

// ListByActor returns every booking the given actor is a party to, in the
// role they are acting in: clients see the bookings they requested,
// performers the bookings requested of them.  Results are ordered by
// event start so upcoming engagements come first.
func (r *BookingRepo) ListByActor(ctx context.Context, actorID uint64, role string) ([]model.Booking, error) {
    col := "client_id"
    if role == model.RolePerformer {
        col = "performer_id"
    }
    q := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + col + ` = ? ORDER BY event_start ASC`
    rows, err := r.db.QueryContext(ctx, q, actorID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Booking
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// ListDue returns non-terminal bookings whose automatic deadline has
// passed and which are therefore due for a time-triggered transition:
// PENDING rows created at or before pendingBefore (the confirmation
// window cutoff computed by the caller), CONFIRMED rows whose event has
// started, and ONGOING rows whose event has ended.  limit bounds one
// sweep batch; the next tick picks up the remainder.
func (r *BookingRepo) ListDue(ctx context.Context, pendingBefore, now time.Time, limit int) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings
        WHERE (status = 'PENDING'   AND created_at  <= ?)
           OR (status = 'CONFIRMED' AND event_start <= ?)
           OR (status = 'ONGOING'   AND event_end   <= ?)
        ORDER BY updated_at ASC
        LIMIT ?`
    rows, err := r.db.QueryContext(ctx, q, pendingBefore.UTC(), now.UTC(), now.UTC(), limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Booking
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// UpdateStatusCAS moves a booking to status to if and only if its version
// column still equals fromVersion.  The version is bumped atomically so
// the first writer wins and every later writer observes
// ErrVersionConflict instead of double-applying the same transition.
// reason is stored only when non-nil (set on cancellation).  An unknown
// id yields ErrBookingNotFound.
func (r *BookingRepo) UpdateStatusCAS(ctx context.Context, id string, fromVersion uint64, to model.BookingStatus, reason *string) error {
    const q = `UPDATE bookings
        SET status = ?, version = version + 1,
            cancel_reason = COALESCE(?, cancel_reason),
            updated_at = UTC_TIMESTAMP()
        WHERE id = ? AND version = ?`
    res, err := r.db.ExecContext(ctx, q, string(to), reason, id, fromVersion)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n > 0 {
        return nil
    }
    // Zero rows: either the row is gone or another writer bumped the
    // version first.  Distinguish so callers can react appropriately.
    var exists int
    err = r.db.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE id = ?`, id).Scan(&exists)
    if err == sql.ErrNoRows {
        return ErrBookingNotFound
    }
    if err != nil {
        return err
    }
    return ErrVersionConflict
}
