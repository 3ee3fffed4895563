package repository

import (
    "context"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/hostaluna/room-rental/internal/booking"
    "github.com/hostaluna/room-rental/internal/model"
)

func dec(t *testing.T, s string) decimal.Decimal {
    t.Helper()
    d, err := decimal.NewFromString(s)
    require.NoError(t, err)
    return d
}

func occupancyRows() *sqlmock.Rows {
    return sqlmock.NewRows([]string{
        "room_id", "rental_id", "type", "arrival_date", "arrival_time",
        "departure_date", "departure_time",
        "check_in", "check_out", "check_timein", "check_timeout",
    })
}

// A day rental and an hour rental sharing a room reduce to spans with
// the expected bounds straight off the join.
func TestOccupanciesForRoomsTxReducesRows(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    day10 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
    day12 := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

    mock.ExpectBegin()
    mock.ExpectQuery("FROM rental_rooms rr").
        WithArgs(int64(7)).
        WillReturnRows(occupancyRows().
            AddRow(7, 20, "days", day10, "14:00:00", day12, nil, day10, nil, nil, nil).
            AddRow(7, 21, "hours", day12, "15:00:00", nil, "18:00:00", day12, nil, "15:00:00", nil))
    mock.ExpectCommit()

    tx, err := db.BeginTx(context.Background(), nil)
    require.NoError(t, err)

    repo := NewAssignmentRepo(db)
    occ, err := repo.OccupanciesForRoomsTx(context.Background(), tx, []uint64{7})
    require.NoError(t, err)
    require.NoError(t, tx.Commit())
    require.Len(t, occ, 2)

    // day booking: midnight to midnight
    assert.Equal(t, uint64(20), occ[0].RentalID)
    assert.Equal(t, day10, occ[0].Span.Start)
    require.NotNil(t, occ[0].Span.End)
    assert.Equal(t, day12, *occ[0].Span.End)

    // hour booking: exact instants
    assert.Equal(t, uint64(21), occ[1].RentalID)
    assert.Equal(t, booking.At(day12, "15:00:00"), occ[1].Span.Start)
    require.NotNil(t, occ[1].Span.End)
    assert.Equal(t, booking.At(day12, "18:00:00"), *occ[1].Span.End)

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachTxBulkInsert(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    day10 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

    mock.ExpectBegin()
    mock.ExpectExec("INSERT INTO rental_rooms").
        WithArgs(
            int64(9), int64(7), "2026-03-10", nil, nil, nil, "100",
            int64(9), int64(8), "2026-03-10", nil, nil, nil, "150",
        ).
        WillReturnResult(sqlmock.NewResult(1, 2))
    mock.ExpectCommit()

    tx, err := db.BeginTx(context.Background(), nil)
    require.NoError(t, err)

    assigns := []model.RoomAssignment{
        {RentalID: 9, RoomID: 7, CheckIn: &day10, PriceBase: dec(t, "100")},
        {RentalID: 9, RoomID: 8, CheckIn: &day10, PriceBase: dec(t, "150")},
    }
    repo := NewAssignmentRepo(db)
    require.NoError(t, repo.AttachTx(context.Background(), tx, assigns))
    require.NoError(t, tx.Commit())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDetachTxRemovesOnlyRequestedRooms(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec("AND room_id IN").
        WithArgs(int64(9), int64(7), int64(8)).
        WillReturnResult(sqlmock.NewResult(0, 2))
    mock.ExpectCommit()

    tx, err := db.BeginTx(context.Background(), nil)
    require.NoError(t, err)

    repo := NewAssignmentRepo(db)
    require.NoError(t, repo.DetachTx(context.Background(), tx, 9, []uint64{7, 8}))
    // an empty room set never touches the database
    require.NoError(t, repo.DetachTx(context.Background(), tx, 9, nil))
    require.NoError(t, tx.Commit())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenCountByRoom(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery("SELECT COUNT").
        WithArgs(int64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

    repo := NewAssignmentRepo(db)
    n, err := repo.OpenCountByRoom(context.Background(), 7)
    require.NoError(t, err)
    assert.Equal(t, 1, n)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDetachSameDayNoOpTxReturnsReleasedRooms(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT room_id FROM rental_rooms").
        WithArgs(int64(9)).
        WillReturnRows(sqlmock.NewRows([]string{"room_id"}).AddRow(7))
    mock.ExpectExec("DELETE FROM rental_rooms").
        WithArgs(int64(9)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    tx, err := db.BeginTx(context.Background(), nil)
    require.NoError(t, err)

    repo := NewAssignmentRepo(db)
    released, err := repo.DetachSameDayNoOpTx(context.Background(), tx, 9)
    require.NoError(t, err)
    require.NoError(t, tx.Commit())

    assert.Equal(t, []uint64{7}, released)
    assert.NoError(t, mock.ExpectationsWereMet())
}
