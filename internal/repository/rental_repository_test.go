package repository

import (
    "context"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/hostaluna/room-rental/internal/model"
)

func sampleRental() *model.Rental {
    departure := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
    departureTime := "12:00:00"
    return &model.Rental{
        ClientID:      3,
        Type:          model.TypeDays,
        ArrivalDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
        ArrivalTime:   "14:00:00",
        DepartureDate: &departure,
        DepartureTime: &departureTime,
        State:         model.StateConciliado,
    }
}

func rentalRows() *sqlmock.Rows {
    return sqlmock.NewRows([]string{
        "id", "client_id", "move_id", "type", "arrival_date", "arrival_time",
        "departure_date", "departure_time", "checkout_date", "reservation", "checkout", "state",
        "discount", "amount", "amount_impost", "amount_total", "created_at", "updated_at",
    })
}

func TestRentalRepoGetByID(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    arrival := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
    departure := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
    now := time.Now().UTC()

    mock.ExpectQuery("FROM rentals WHERE id =").
        WithArgs(int64(5)).
        WillReturnRows(rentalRows().AddRow(
            5, 3, nil, "days", arrival, "14:00:00",
            departure, "12:00:00", nil, false, false, "conciliado",
            "0", "7000", "840", "7840", now, now,
        ))

    repo := NewRentalRepo(db)
    r, err := repo.GetByID(context.Background(), 5)
    require.NoError(t, err)

    assert.Equal(t, uint64(5), r.ID)
    assert.Equal(t, uint64(3), r.ClientID)
    assert.Nil(t, r.MoveID)
    assert.Equal(t, arrival, r.ArrivalDate)
    require.NotNil(t, r.DepartureDate)
    assert.Equal(t, departure, *r.DepartureDate)
    require.NotNil(t, r.DepartureTime)
    assert.Equal(t, "12:00:00", *r.DepartureTime)
    assert.Nil(t, r.CheckoutDate)
    assert.Equal(t, "7000", r.Amount.String())
    assert.Equal(t, "840", r.AmountImpost.String())
    assert.Equal(t, "7840", r.AmountTotal.String())

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepoGetByIDNotFound(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery("FROM rentals WHERE id =").
        WithArgs(int64(99)).
        WillReturnRows(rentalRows())

    repo := NewRentalRepo(db)
    _, err = repo.GetByID(context.Background(), 99)
    assert.ErrorIs(t, err, ErrRentalNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepoCreateTxSendsDatesAsStrings(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec("INSERT INTO rentals").
        WithArgs(int64(3), nil, "days", "2026-03-10", "14:00:00", "2026-03-12",
            "12:00:00", nil, false, false, "conciliado", "0", "0", "0", "0").
        WillReturnResult(sqlmock.NewResult(9, 1))
    mock.ExpectCommit()

    tx, err := db.BeginTx(context.Background(), nil)
    require.NoError(t, err)

    r := sampleRental()
    repo := NewRentalRepo(db)
    require.NoError(t, repo.CreateTx(context.Background(), tx, r))
    require.NoError(t, tx.Commit())

    assert.Equal(t, uint64(9), r.ID)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepoMarkCheckoutIsMonotonic(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    // the statement only ever sets the flag, it cannot clear it
    mock.ExpectExec("UPDATE rentals SET checkout = 1").
        WithArgs(int64(5)).
        WillReturnResult(sqlmock.NewResult(0, 1))

    repo := NewRentalRepo(db)
    require.NoError(t, repo.MarkCheckout(context.Background(), 5))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepoDeleteTxRemovesOnlyTheRentalRow(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    // pivot cleanup is the assignment repo's job, in the same tx
    mock.ExpectBegin()
    mock.ExpectExec("DELETE FROM rentals WHERE id =").
        WithArgs(int64(5)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    tx, err := db.BeginTx(context.Background(), nil)
    require.NoError(t, err)

    repo := NewRentalRepo(db)
    require.NoError(t, repo.DeleteTx(context.Background(), tx, 5))
    require.NoError(t, tx.Commit())
    assert.NoError(t, mock.ExpectationsWereMet())
}
