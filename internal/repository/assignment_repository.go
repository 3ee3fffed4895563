package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/shopspring/decimal"

    "github.com/hostaluna/room-rental/internal/booking"
    "github.com/hostaluna/room-rental/internal/model"
)

// AssignmentRepo owns the rental_rooms pivot: one row per room per
// rental, carrying that room's actual check-in/check-out bounds and the
// price increment captured at assignment time.
type AssignmentRepo struct {
    db *sql.DB
}

// NewAssignmentRepo returns an AssignmentRepo bound to the database.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

const assignmentColumns = `id, rental_id, room_id, check_in, check_out,
	check_timein, check_timeout, price_base, created_at, updated_at`

func scanAssignment(row interface{ Scan(...any) error }) (*model.RoomAssignment, error) {
    var (
        m         model.RoomAssignment
        checkIn   sql.NullTime
        checkOut  sql.NullTime
        timeIn    sql.NullString
        timeOut   sql.NullString
        priceBase string
    )
    err := row.Scan(&m.ID, &m.RentalID, &m.RoomID, &checkIn, &checkOut,
        &timeIn, &timeOut, &priceBase, &m.CreatedAt, &m.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if checkIn.Valid {
        v := checkIn.Time
        m.CheckIn = &v
    }
    if checkOut.Valid {
        v := checkOut.Time
        m.CheckOut = &v
    }
    if timeIn.Valid {
        v := timeIn.String
        m.CheckTimeIn = &v
    }
    if timeOut.Valid {
        v := timeOut.String
        m.CheckTimeOut = &v
    }
    if m.PriceBase, err = decimal.NewFromString(priceBase); err != nil {
        return nil, err
    }
    return &m, nil
}

// AttachTx inserts pivot rows for the rental in one statement.  Callers
// run the availability check first, inside the same transaction, so the
// insert and the overlap test form one atomic unit.
func (r *AssignmentRepo) AttachTx(ctx context.Context, tx *sql.Tx, assignments []model.RoomAssignment) error {
    if len(assignments) == 0 {
        return nil
    }
    var sb strings.Builder
    sb.WriteString(`INSERT INTO rental_rooms
		(rental_id, room_id, check_in, check_out, check_timein, check_timeout, price_base) VALUES `)
    args := make([]any, 0, len(assignments)*7)
    for i, a := range assignments {
        if i > 0 {
            sb.WriteString(",")
        }
        sb.WriteString("(?, ?, ?, ?, ?, ?, ?)")
        args = append(args, a.RentalID, a.RoomID, dateArgPtr(a.CheckIn), dateArgPtr(a.CheckOut),
            a.CheckTimeIn, a.CheckTimeOut, a.PriceBase.String())
    }
    _, err := tx.ExecContext(ctx, sb.String(), args...)
    return err
}

// DetachAllTx removes every pivot row of a rental, used when an
// extension re-syncs the room set from scratch.
func (r *AssignmentRepo) DetachAllTx(ctx context.Context, tx *sql.Tx, rentalID uint64) error {
    _, err := tx.ExecContext(ctx, `DELETE FROM rental_rooms WHERE rental_id = ?`, rentalID)
    return err
}

// DetachTx removes specific rooms from a rental before their occupancy
// started.
func (r *AssignmentRepo) DetachTx(ctx context.Context, tx *sql.Tx, rentalID uint64, roomIDs []uint64) error {
    if len(roomIDs) == 0 {
        return nil
    }
    q := `DELETE FROM rental_rooms WHERE rental_id = ? AND room_id IN (` + placeholders(len(roomIDs)) + `)`
    args := make([]any, 0, len(roomIDs)+1)
    args = append(args, rentalID)
    for _, id := range roomIDs {
        args = append(args, id)
    }
    _, err := tx.ExecContext(ctx, q, args...)
    return err
}

// ListByRental returns every assignment of a rental.
func (r *AssignmentRepo) ListByRental(ctx context.Context, rentalID uint64) ([]model.RoomAssignment, error) {
    const q = `SELECT ` + assignmentColumns + ` FROM rental_rooms WHERE rental_id = ?`
    return r.list(ctx, r.db, q, rentalID)
}

// ListByRentalTx is ListByRental inside a transaction, used when the
// billing recompute must see rows written moments earlier.
func (r *AssignmentRepo) ListByRentalTx(ctx context.Context, tx *sql.Tx, rentalID uint64) ([]model.RoomAssignment, error) {
    const q = `SELECT ` + assignmentColumns + ` FROM rental_rooms WHERE rental_id = ?`
    return r.list(ctx, tx, q, rentalID)
}

// OpenByRentalTx returns the rental's assignments that are still
// occupying (check_out IS NULL).
func (r *AssignmentRepo) OpenByRentalTx(ctx context.Context, tx *sql.Tx, rentalID uint64) ([]model.RoomAssignment, error) {
    const q = `SELECT ` + assignmentColumns + ` FROM rental_rooms WHERE rental_id = ? AND check_out IS NULL`
    return r.list(ctx, tx, q, rentalID)
}

// OpenRoomIDsByRental returns the IDs of rooms the rental still holds
// open, in pivot insertion order.
func (r *AssignmentRepo) OpenRoomIDsByRental(ctx context.Context, rentalID uint64) ([]uint64, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT room_id FROM rental_rooms WHERE rental_id = ? AND check_out IS NULL ORDER BY id`, rentalID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        out = append(out, id)
    }
    return out, rows.Err()
}

// OccupanciesForRoomsTx loads every committed occupancy touching the
// given rooms, joined with its rental's window, and reduces each row to
// an absolute span.  It runs inside the transaction that holds the room
// locks so the availability decision and the subsequent attach are
// serialized per room.
func (r *AssignmentRepo) OccupanciesForRoomsTx(ctx context.Context, tx *sql.Tx, roomIDs []uint64) ([]booking.Occupancy, error) {
    if len(roomIDs) == 0 {
        return nil, nil
    }
    q := `SELECT rr.room_id, rr.rental_id, r.type, r.arrival_date, r.arrival_time,
			r.departure_date, r.departure_time,
			rr.check_in, rr.check_out, rr.check_timein, rr.check_timeout
		FROM rental_rooms rr
		JOIN rentals r ON r.id = rr.rental_id
		WHERE r.checkout = 0 AND rr.room_id IN (` + placeholders(len(roomIDs)) + `)`
    args := make([]any, 0, len(roomIDs))
    for _, id := range roomIDs {
        args = append(args, id)
    }
    rows, err := tx.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []booking.Occupancy
    for rows.Next() {
        var (
            in            booking.OccupancyInput
            departureDate sql.NullTime
            departureTime sql.NullString
            checkIn       sql.NullTime
            checkOut      sql.NullTime
            timeIn        sql.NullString
            timeOut       sql.NullString
        )
        err := rows.Scan(&in.RoomID, &in.RentalID, &in.Type, &in.ArrivalDate, &in.ArrivalTime,
            &departureDate, &departureTime, &checkIn, &checkOut, &timeIn, &timeOut)
        if err != nil {
            return nil, err
        }
        if departureDate.Valid {
            v := departureDate.Time
            in.DepartureDate = &v
        }
        if departureTime.Valid {
            v := departureTime.String
            in.DepartureTime = &v
        }
        if checkIn.Valid {
            v := checkIn.Time
            in.CheckIn = &v
        }
        if checkOut.Valid {
            v := checkOut.Time
            in.CheckOut = &v
        }
        if timeIn.Valid {
            v := timeIn.String
            in.CheckTimeIn = &v
        }
        if timeOut.Valid {
            v := timeOut.String
            in.CheckTimeOut = &v
        }
        out = append(out, booking.Reduce(in))
    }
    return out, rows.Err()
}

// OpenCheckInTx stamps the actual check-in on a rental's assignments
// that have none yet, the moment a reservation is confirmed and its
// rooms start being occupied for real.
func (r *AssignmentRepo) OpenCheckInTx(ctx context.Context, tx *sql.Tx, rentalID uint64, checkIn time.Time, checkTimeIn *string) error {
    const q = `UPDATE rental_rooms SET check_in = ?, check_timein = ?
		WHERE rental_id = ? AND check_in IS NULL AND check_out IS NULL`
    _, err := tx.ExecContext(ctx, q, dateArg(checkIn), checkTimeIn, rentalID)
    return err
}

// CloseRoomTx records the end of one room's occupancy.  For hour stays
// the time bound is recorded as well.
func (r *AssignmentRepo) CloseRoomTx(ctx context.Context, tx *sql.Tx, rentalID, roomID uint64, checkOut time.Time, checkTimeOut *string) error {
    const q = `UPDATE rental_rooms SET check_out = ?, check_timeout = ?
		WHERE rental_id = ? AND room_id = ? AND check_out IS NULL`
    _, err := tx.ExecContext(ctx, q, dateArg(checkOut), checkTimeOut, rentalID, roomID)
    return err
}

// SyncCheckoutDateTx re-closes assignments whose checkout falls after a
// rental's new, earlier checkout date so no room is billed past the end
// of the stay.
func (r *AssignmentRepo) SyncCheckoutDateTx(ctx context.Context, tx *sql.Tx, rentalID uint64, newCheckout time.Time) error {
    const q = `UPDATE rental_rooms SET check_out = ?
		WHERE rental_id = ? AND check_out IS NOT NULL AND check_out > ?`
    _, err := tx.ExecContext(ctx, q, dateArg(newCheckout), rentalID, dateArg(newCheckout))
    return err
}

// DetachSameDayNoOpTx removes assignments whose check-in equals their
// check-out with no time-based check-in ever recorded: the room was
// never really occupied, so the row is a no-op and the room frees up
// immediately.  Returns the released room IDs.
func (r *AssignmentRepo) DetachSameDayNoOpTx(ctx context.Context, tx *sql.Tx, rentalID uint64) ([]uint64, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT room_id FROM rental_rooms
		 WHERE rental_id = ? AND check_in = check_out AND check_timein IS NULL`, rentalID)
    if err != nil {
        return nil, err
    }
    var released []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            rows.Close()
            return nil, err
        }
        released = append(released, id)
    }
    if err := rows.Close(); err != nil {
        return nil, err
    }
    if len(released) == 0 {
        return nil, nil
    }
    _, err = tx.ExecContext(ctx,
        `DELETE FROM rental_rooms
		 WHERE rental_id = ? AND check_in = check_out AND check_timein IS NULL`, rentalID)
    if err != nil {
        return nil, err
    }
    return released, nil
}

// OpenCountByRoom reports how many open assignments a room has.  The
// exclusivity invariant keeps this at zero or one; anything above one
// is corruption worth alerting on.
func (r *AssignmentRepo) OpenCountByRoom(ctx context.Context, roomID uint64) (int, error) {
    var n int
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM rental_rooms WHERE room_id = ? AND check_out IS NULL`, roomID).Scan(&n)
    return n, err
}

func (r *AssignmentRepo) list(ctx context.Context, q queryer, query string, args ...any) ([]model.RoomAssignment, error) {
    rows, err := q.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.RoomAssignment
    for rows.Next() {
        m, err := scanAssignment(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *m)
    }
    return out, rows.Err()
}

// queryer abstracts *sql.DB and *sql.Tx for read helpers.
type queryer interface {
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// placeholders renders "?, ?, ?" for IN clauses.
func placeholders(n int) string {
    return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
