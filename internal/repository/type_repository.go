package repository

import (
    "context"
    "database/sql"

    "github.com/shopspring/decimal"

    "github.com/hostaluna/room-rental/internal/model"
)

// TypeRepo manages room categories.  Deleting a type is guarded: rooms
// must be moved off it first.
type TypeRepo struct {
    db *sql.DB
}

// NewTypeRepo constructs a TypeRepo given a DB handle.
func NewTypeRepo(db *sql.DB) *TypeRepo { return &TypeRepo{db: db} }

func scanType(row interface{ Scan(...any) error }) (*model.RoomType, error) {
    var (
        m         model.RoomType
        increment string
    )
    err := row.Scan(&m.ID, &m.Title, &m.Description, &increment, &m.CreatedAt, &m.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if m.Increment, err = decimal.NewFromString(increment); err != nil {
        return nil, err
    }
    return &m, nil
}

// List returns all room types.
func (r *TypeRepo) List(ctx context.Context) ([]model.RoomType, error) {
    const q = `SELECT id, title, description, increment, created_at, updated_at FROM types ORDER BY title`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.RoomType
    for rows.Next() {
        m, err := scanType(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *m)
    }
    return out, rows.Err()
}

// GetByID loads one type or ErrTypeNotFound.
func (r *TypeRepo) GetByID(ctx context.Context, id uint64) (*model.RoomType, error) {
    const q = `SELECT id, title, description, increment, created_at, updated_at FROM types WHERE id = ?`
    m, err := scanType(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, ErrTypeNotFound
    }
    return m, err
}

// Create inserts a new room type.
func (r *TypeRepo) Create(ctx context.Context, m *model.RoomType) error {
    const q = `INSERT INTO types (title, description, increment) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.Increment.String())
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

// Update rewrites a type's editable fields.
func (r *TypeRepo) Update(ctx context.Context, m *model.RoomType) error {
    const q = `UPDATE types SET title = ?, description = ?, increment = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.Increment.String(), m.ID)
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        return ErrTypeNotFound
    }
    return nil
}

// Delete removes a type unless rooms still reference it, in which case
// ErrTypeInUse is returned and nothing changes.
func (r *TypeRepo) Delete(ctx context.Context, id uint64) error {
    var n int
    if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms WHERE type_id = ?`, id).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrTypeInUse
    }
    res, err := r.db.ExecContext(ctx, `DELETE FROM types WHERE id = ?`, id)
    if err != nil {
        return err
    }
    if affected, err := res.RowsAffected(); err == nil && affected == 0 {
        return ErrTypeNotFound
    }
    return nil
}
