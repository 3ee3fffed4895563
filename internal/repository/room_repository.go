package repository

import (
    "context"
    "database/sql"

    "github.com/shopspring/decimal"

    "github.com/hostaluna/room-rental/internal/model"
)

// RoomRepo encapsulates database operations for rooms.  LockTx is the
// piece that makes check-then-attach safe: two concurrent bookings for
// the same room serialize on the row locks it takes.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo constructs a RoomRepo given a DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, type_id, number, state, increment, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
    var (
        m         model.Room
        increment string
    )
    err := row.Scan(&m.ID, &m.TypeID, &m.Number, &m.State, &increment, &m.CreatedAt, &m.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if m.Increment, err = decimal.NewFromString(increment); err != nil {
        return nil, err
    }
    return &m, nil
}

// GetByID loads one room or ErrRoomNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
    const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
    m, err := scanRoom(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, ErrRoomNotFound
    }
    return m, err
}

// ListByIDs returns the requested rooms in the order their IDs were
// supplied.  A shorter result than the input means some room does not
// exist; callers surface that as a validation failure.
func (r *RoomRepo) ListByIDs(ctx context.Context, ids []uint64) ([]model.Room, error) {
    if len(ids) == 0 {
        return nil, nil
    }
    q := `SELECT ` + roomColumns + ` FROM rooms WHERE id IN (` + placeholders(len(ids)) + `)`
    args := make([]any, 0, len(ids))
    for _, id := range ids {
        args = append(args, id)
    }
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    byID := make(map[uint64]model.Room, len(ids))
    for rows.Next() {
        m, err := scanRoom(rows)
        if err != nil {
            return nil, err
        }
        byID[m.ID] = *m
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    out := make([]model.Room, 0, len(byID))
    for _, id := range ids {
        if m, ok := byID[id]; ok {
            out = append(out, m)
        }
    }
    return out, nil
}

// List returns all rooms ordered by number.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
    const q = `SELECT ` + roomColumns + ` FROM rooms ORDER BY number`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Room
    for rows.Next() {
        m, err := scanRoom(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *m)
    }
    return out, rows.Err()
}

// LockTx takes row locks on the given rooms (SELECT ... FOR UPDATE).
// Every booking flow that checks availability must lock its rooms
// first; that serializes concurrent check-then-attach sequences per
// room and closes the double-booking window.
func (r *RoomRepo) LockTx(ctx context.Context, tx *sql.Tx, ids []uint64) error {
    if len(ids) == 0 {
        return nil
    }
    q := `SELECT id FROM rooms WHERE id IN (` + placeholders(len(ids)) + `) FOR UPDATE`
    args := make([]any, 0, len(ids))
    for _, id := range ids {
        args = append(args, id)
    }
    rows, err := tx.QueryContext(ctx, q, args...)
    if err != nil {
        return err
    }
    defer rows.Close()
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return err
        }
    }
    return rows.Err()
}

// UpdateStateTx flips a room's physical state (disponible, ocupada,
// mantenimiento) inside the caller's transaction.
func (r *RoomRepo) UpdateStateTx(ctx context.Context, tx *sql.Tx, id uint64, state string) error {
    _, err := tx.ExecContext(ctx, `UPDATE rooms SET state = ? WHERE id = ?`, state, id)
    return err
}

// UpdateStatesTx flips several rooms to the same state.
func (r *RoomRepo) UpdateStatesTx(ctx context.Context, tx *sql.Tx, ids []uint64, state string) error {
    if len(ids) == 0 {
        return nil
    }
    q := `UPDATE rooms SET state = ? WHERE id IN (` + placeholders(len(ids)) + `)`
    args := make([]any, 0, len(ids)+1)
    args = append(args, state)
    for _, id := range ids {
        args = append(args, id)
    }
    _, err := tx.ExecContext(ctx, q, args...)
    return err
}

// OccupiedRoomsPastCheckout returns rooms still marked occupied whose
// assignment checkout date has already passed, the housekeeping sweep's
// working set.
func (r *RoomRepo) OccupiedRoomsPastCheckout(ctx context.Context, date string) ([]uint64, error) {
    const q = `SELECT DISTINCT rm.id FROM rooms rm
		JOIN rental_rooms rr ON rr.room_id = rm.id
		WHERE rm.state = ? AND rr.check_out IS NOT NULL AND rr.check_out <= ?`
    rows, err := r.db.QueryContext(ctx, q, model.RoomOcupada, date)
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

// Create inserts a new room.
func (r *RoomRepo) Create(ctx context.Context, m *model.Room) error {
    const q = `INSERT INTO rooms (type_id, number, state, increment) VALUES (?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, m.TypeID, m.Number, m.State, m.Increment.String())
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    m.ID = uint64(id)
    return nil
}

// Update rewrites a room's editable fields.
func (r *RoomRepo) Update(ctx context.Context, m *model.Room) error {
    const q = `UPDATE rooms SET type_id = ?, number = ?, state = ?, increment = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, m.TypeID, m.Number, m.State, m.Increment.String(), m.ID)
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        return ErrRoomNotFound
    }
    return nil
}

// Delete removes a room.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        return ErrRoomNotFound
    }
    return nil
}
