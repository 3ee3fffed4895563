package repository

import (
    "context"
    "database/sql"

    "github.com/hostaluna/room-rental/internal/model"
)

// ClientRepo provides CRUD operations for clients.  Bookings look
// clients up either by primary key or by identity card.
type ClientRepo struct {
    db *sql.DB
}

// NewClientRepo returns a ClientRepo bound to the given database.
func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{db: db} }

const clientColumns = `id, name, identity_card, phone, created_at, updated_at`

func scanClient(row interface{ Scan(...any) error }) (*model.Client, error) {
    var (
        m     model.Client
        phone sql.NullString
    )
    err := row.Scan(&m.ID, &m.Name, &m.IdentityCard, &phone, &m.CreatedAt, &m.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if phone.Valid {
        v := phone.String
        m.Phone = &v
    }
    return &m, nil
}

// GetByID loads one client or ErrClientNotFound.
func (r *ClientRepo) GetByID(ctx context.Context, id uint64) (*model.Client, error) {
    const q = `SELECT ` + clientColumns + ` FROM clients WHERE id = ?`
    m, err := scanClient(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, ErrClientNotFound
    }
    return m, err
}

// GetByIdentityCard finds a client by the card number reception typed
// from the document.
func (r *ClientRepo) GetByIdentityCard(ctx context.Context, card string) (*model.Client, error) {
    const q = `SELECT ` + clientColumns + ` FROM clients WHERE identity_card = ?`
    m, err := scanClient(r.db.QueryRowContext(ctx, q, card))
    if err == sql.ErrNoRows {
        return nil, ErrClientNotFound
    }
    return m, err
}

// List returns all clients ordered by name.
func (r *ClientRepo) List(ctx context.Context) ([]model.Client, error) {
    const q = `SELECT ` + clientColumns + ` FROM clients ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Client
    for rows.Next() {
        m, err := scanClient(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *m)
    }
    return out, rows.Err()
}

// Create inserts a new client.
func (r *ClientRepo) Create(ctx context.Context, m *model.Client) error {
    const q = `INSERT INTO clients (name, identity_card, phone) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, m.Name, m.IdentityCard, m.Phone)
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

// Update rewrites a client's editable fields.
func (r *ClientRepo) Update(ctx context.Context, m *model.Client) error {
    const q = `UPDATE clients SET name = ?, identity_card = ?, phone = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, m.Name, m.IdentityCard, m.Phone, m.ID)
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        return ErrClientNotFound
    }
    return nil
}
