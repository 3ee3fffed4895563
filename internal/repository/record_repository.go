package repository

import (
    "context"
    "database/sql"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"

    "github.com/hostaluna/room-rental/internal/model"
)

// RecordRepo persists checkout receipts.  A rental gets at most one
// record; the INSERT IGNORE keeps a retried checkout from duplicating
// the receipt.
type RecordRepo struct {
    db *sql.DB
}

// NewRecordRepo returns a RecordRepo bound to the given database.
func NewRecordRepo(db *sql.DB) *RecordRepo { return &RecordRepo{db: db} }

// CreateTx writes the receipt for a rental with a fresh folio.
func (r *RecordRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *model.Record) error {
    if rec.Folio == "" {
        rec.Folio = uuid.NewString()
    }
    const q = `INSERT IGNORE INTO records (rental_id, folio, amount, amount_impost, amount_total)
		VALUES (?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, rec.RentalID, rec.Folio,
        rec.Amount.String(), rec.AmountImpost.String(), rec.AmountTotal.String())
    if err != nil {
        return err
    }
    if id, err := res.LastInsertId(); err == nil && id > 0 {
        rec.ID = uint64(id)
    }
    return nil
}

// GetByRental loads a rental's receipt, or nil when the stay has not
// checked out yet.
func (r *RecordRepo) GetByRental(ctx context.Context, rentalID uint64) (*model.Record, error) {
    const q = `SELECT id, rental_id, folio, amount, amount_impost, amount_total, created_at
		FROM records WHERE rental_id = ?`
    var (
        m      model.Record
        amount string
        impost string
        total  string
    )
    err := r.db.QueryRowContext(ctx, q, rentalID).Scan(
        &m.ID, &m.RentalID, &m.Folio, &amount, &impost, &total, &m.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    if m.Amount, err = decimal.NewFromString(amount); err != nil {
        return nil, err
    }
    if m.AmountImpost, err = decimal.NewFromString(impost); err != nil {
        return nil, err
    }
    if m.AmountTotal, err = decimal.NewFromString(total); err != nil {
        return nil, err
    }
    return &m, nil
}
