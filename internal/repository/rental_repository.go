package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/shopspring/decimal"

    "github.com/hostaluna/room-rental/internal/model"
)

// RentalRepo provides CRUD operations for rentals.  Billing fields are
// written through UpdateAmountsTx only, a derived-fields update that
// deliberately bypasses business validation: it records numbers the
// engine already proved consistent inside the same transaction.
type RentalRepo struct {
    db *sql.DB
}

// NewRentalRepo returns a RentalRepo bound to the given database.
func NewRentalRepo(db *sql.DB) *RentalRepo { return &RentalRepo{db: db} }

// DB exposes the underlying handle so services can open transactions
// spanning several repositories.
func (r *RentalRepo) DB() *sql.DB { return r.db }

const rentalColumns = `id, client_id, move_id, type, arrival_date, arrival_time,
	departure_date, departure_time, checkout_date, reservation, checkout, state,
	discount, amount, amount_impost, amount_total, created_at, updated_at`

func scanRental(row interface{ Scan(...any) error }) (*model.Rental, error) {
    var (
        m             model.Rental
        moveID        sql.NullInt64
        departureDate sql.NullTime
        departureTime sql.NullString
        checkoutDate  sql.NullTime
        discount      string
        amount        string
        amountImpost  string
        amountTotal   string
    )
    err := row.Scan(
        &m.ID, &m.ClientID, &moveID, &m.Type, &m.ArrivalDate, &m.ArrivalTime,
        &departureDate, &departureTime, &checkoutDate, &m.Reservation, &m.Checkout, &m.State,
        &discount, &amount, &amountImpost, &amountTotal, &m.CreatedAt, &m.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if moveID.Valid {
        v := uint64(moveID.Int64)
        m.MoveID = &v
    }
    if departureDate.Valid {
        v := departureDate.Time
        m.DepartureDate = &v
    }
    if departureTime.Valid {
        v := departureTime.String
        m.DepartureTime = &v
    }
    if checkoutDate.Valid {
        v := checkoutDate.Time
        m.CheckoutDate = &v
    }
    if m.Discount, err = decimal.NewFromString(discount); err != nil {
        return nil, err
    }
    if m.Amount, err = decimal.NewFromString(amount); err != nil {
        return nil, err
    }
    if m.AmountImpost, err = decimal.NewFromString(amountImpost); err != nil {
        return nil, err
    }
    if m.AmountTotal, err = decimal.NewFromString(amountTotal); err != nil {
        return nil, err
    }
    return &m, nil
}

// GetByID loads one rental or ErrRentalNotFound.
func (r *RentalRepo) GetByID(ctx context.Context, id uint64) (*model.Rental, error) {
    const q = `SELECT ` + rentalColumns + ` FROM rentals WHERE id = ?`
    m, err := scanRental(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, ErrRentalNotFound
    }
    return m, err
}

// CreateTx inserts a new rental and populates the generated ID and
// timestamps on the model.
func (r *RentalRepo) CreateTx(ctx context.Context, tx *sql.Tx, m *model.Rental) error {
    const q = `INSERT INTO rentals
		(client_id, move_id, type, arrival_date, arrival_time, departure_date,
		 departure_time, checkout_date, reservation, checkout, state,
		 discount, amount, amount_impost, amount_total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q,
        m.ClientID, m.MoveID, m.Type, dateArg(m.ArrivalDate), m.ArrivalTime,
        dateArgPtr(m.DepartureDate), m.DepartureTime, dateArgPtr(m.CheckoutDate),
        m.Reservation, m.Checkout, m.State,
        m.Discount.String(), m.Amount.String(), m.AmountImpost.String(), m.AmountTotal.String(),
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    m.ID = uint64(id)
    now := time.Now().UTC()
    m.CreatedAt, m.UpdatedAt = now, now
    return nil
}

// UpdateWindowTx rewrites the rental's billing mode and temporal window
// after an extension or renewal has been validated.
func (r *RentalRepo) UpdateWindowTx(ctx context.Context, tx *sql.Tx, m *model.Rental) error {
    const q = `UPDATE rentals SET type = ?, arrival_date = ?, arrival_time = ?,
		departure_date = ?, departure_time = ? WHERE id = ?`
    _, err := tx.ExecContext(ctx, q,
        m.Type, dateArg(m.ArrivalDate), m.ArrivalTime,
        dateArgPtr(m.DepartureDate), m.DepartureTime, m.ID,
    )
    return err
}

// UpdateAmountsTx writes the derived billing fields.  No validation
// runs here: the amounts were computed from state this transaction
// already holds consistent.
func (r *RentalRepo) UpdateAmountsTx(ctx context.Context, tx *sql.Tx, id uint64, amount, impost, total decimal.Decimal) error {
    const q = `UPDATE rentals SET amount = ?, amount_impost = ?, amount_total = ? WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, amount.String(), impost.String(), total.String(), id)
    return err
}

// UpdateFlagsTx persists lifecycle flags (reservation, checkout, state,
// checkout_date) after a transition the engine approved.
func (r *RentalRepo) UpdateFlagsTx(ctx context.Context, tx *sql.Tx, m *model.Rental) error {
    const q = `UPDATE rentals SET reservation = ?, checkout = ?, state = ?, checkout_date = ? WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, m.Reservation, m.Checkout, m.State, dateArgPtr(m.CheckoutDate), m.ID)
    return err
}

// MarkCheckout flips only the checkout flag, the side effect of the
// isCheckout evaluation.  The flag is monotonic, so the statement never
// clears it.
func (r *RentalRepo) MarkCheckout(ctx context.Context, id uint64) error {
    const q = `UPDATE rentals SET checkout = 1 WHERE id = ?`
    _, err := r.db.ExecContext(ctx, q, id)
    return err
}

// DeleteTx removes a rental row.  Callers detach the pivot rows first,
// through the assignment repository, inside the same transaction.
func (r *RentalRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    _, err := tx.ExecContext(ctx, `DELETE FROM rentals WHERE id = ?`, id)
    return err
}

// ListReservationsBetween returns reservations whose arrival date falls
// inside [from, to], newest arrival first.
func (r *RentalRepo) ListReservationsBetween(ctx context.Context, from, to time.Time) ([]model.Rental, error) {
    const q = `SELECT ` + rentalColumns + ` FROM rentals
		WHERE reservation = 1 AND arrival_date BETWEEN ? AND ?
		ORDER BY arrival_date DESC`
    return r.list(ctx, q, dateArg(from), dateArg(to))
}

// ListOpenReservations returns reservations that have not terminated,
// the expiry sweep's working set.
func (r *RentalRepo) ListOpenReservations(ctx context.Context) ([]model.Rental, error) {
    const q = `SELECT ` + rentalColumns + ` FROM rentals WHERE reservation = 1 AND checkout = 0`
    return r.list(ctx, q)
}

// ListActive returns rentals that are occupying rooms right now, the
// working set for checkout and timeout sweeps.
func (r *RentalRepo) ListActive(ctx context.Context) ([]model.Rental, error) {
    const q = `SELECT ` + rentalColumns + ` FROM rentals WHERE reservation = 0 AND checkout = 0`
    return r.list(ctx, q)
}

// ListBetween returns all rentals whose arrival date falls inside
// [from, to], newest arrival first.
func (r *RentalRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.Rental, error) {
    const q = `SELECT ` + rentalColumns + ` FROM rentals
		WHERE arrival_date BETWEEN ? AND ? ORDER BY arrival_date DESC`
    return r.list(ctx, q, dateArg(from), dateArg(to))
}

func (r *RentalRepo) list(ctx context.Context, q string, args ...any) ([]model.Rental, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Rental
    for rows.Next() {
        m, err := scanRental(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *m)
    }
    return out, rows.Err()
}

// dateArg renders a DATE column argument; the driver would otherwise
// send a full timestamp.
func dateArg(t time.Time) string { return t.UTC().Format("2006-01-02") }

func dateArgPtr(t *time.Time) any {
    if t == nil {
        return nil
    }
    return dateArg(*t)
}
