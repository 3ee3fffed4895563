package booking

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/hostaluna/room-rental/internal/model"
)

func dayOccupancy(roomID, rentalID uint64, arrival, departure time.Time) Occupancy {
    return Reduce(OccupancyInput{
        RoomID:        roomID,
        RentalID:      rentalID,
        Type:          model.TypeDays,
        ArrivalDate:   arrival,
        DepartureDate: &departure,
    })
}

func TestReduce_DayBookingSpansWholeDays(t *testing.T) {
    occ := dayOccupancy(1, 10, date(2024, 3, 1), date(2024, 3, 4))
    assert.Equal(t, date(2024, 3, 1), occ.Span.Start)
    require.NotNil(t, occ.Span.End)
    assert.Equal(t, date(2024, 3, 4), *occ.Span.End)
}

func TestReduce_OpenDayBookingHasNoEnd(t *testing.T) {
    occ := Reduce(OccupancyInput{
        RoomID: 1, RentalID: 10, Type: model.TypeDays,
        ArrivalDate: date(2024, 3, 1),
    })
    assert.Nil(t, occ.Span.End)
}

func TestReduce_PerRoomCarveOutWinsOverRentalWindow(t *testing.T) {
    // the rental runs to March 8 but this room checked out March 3
    occ := Reduce(OccupancyInput{
        RoomID: 1, RentalID: 10, Type: model.TypeDays,
        ArrivalDate:   date(2024, 3, 1),
        DepartureDate: datePtr(2024, 3, 8),
        CheckOut:      datePtr(2024, 3, 3),
    })
    require.NotNil(t, occ.Span.End)
    assert.Equal(t, date(2024, 3, 3), *occ.Span.End)
}

func TestReduce_HourBookingUsesInstants(t *testing.T) {
    occ := Reduce(OccupancyInput{
        RoomID: 2, RentalID: 11, Type: model.TypeHours,
        ArrivalDate:   date(2024, 3, 1),
        ArrivalTime:   "10:00:00",
        DepartureTime: strPtr("13:00:00"),
    })
    assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), occ.Span.Start)
    require.NotNil(t, occ.Span.End)
    assert.Equal(t, time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC), *occ.Span.End)
}

func TestReduce_OvernightHourBookingRollsToNextDay(t *testing.T) {
    // 22:00 to 02:00 with no explicit departure date spans midnight
    occ := Reduce(OccupancyInput{
        RoomID: 2, RentalID: 11, Type: model.TypeHours,
        ArrivalDate:   date(2024, 3, 1),
        ArrivalTime:   "22:00:00",
        DepartureTime: strPtr("02:00:00"),
    })
    require.NotNil(t, occ.Span.End)
    assert.Equal(t, time.Date(2024, 3, 2, 2, 0, 0, 0, time.UTC), *occ.Span.End)
}

func TestCheckAvailability_ReportsFirstConflictInSuppliedOrder(t *testing.T) {
    occ := []Occupancy{
        dayOccupancy(2, 20, date(2024, 3, 2), date(2024, 3, 6)),
        dayOccupancy(3, 30, date(2024, 3, 2), date(2024, 3, 6)),
    }
    window := span(date(2024, 3, 1), datePtr(2024, 3, 5))

    err := CheckAvailability([]uint64{3, 2}, window, occ, 0)
    var conflict *ConflictError
    require.ErrorAs(t, err, &conflict)
    assert.Equal(t, uint64(3), conflict.RoomID)
    assert.Equal(t, uint64(30), conflict.RentalID)
}

func TestCheckAvailability_BackToBackTurnoverAllowed(t *testing.T) {
    occ := []Occupancy{dayOccupancy(1, 20, date(2024, 3, 1), date(2024, 3, 5))}
    window := span(date(2024, 3, 5), datePtr(2024, 3, 8))
    assert.NoError(t, CheckAvailability([]uint64{1}, window, occ, 0))
}

func TestCheckAvailability_ExcludesOwnRentalOnUpdate(t *testing.T) {
    occ := []Occupancy{dayOccupancy(1, 20, date(2024, 3, 1), date(2024, 3, 5))}
    window := span(date(2024, 3, 2), datePtr(2024, 3, 6))

    assert.Error(t, CheckAvailability([]uint64{1}, window, occ, 0))
    assert.NoError(t, CheckAvailability([]uint64{1}, window, occ, 20))
}

func TestCheckAvailability_HourRequestConflictsWithDayBooking(t *testing.T) {
    // a day booking occupies the room for all hours of its span
    occ := []Occupancy{dayOccupancy(1, 20, date(2024, 3, 1), date(2024, 3, 3))}

    hourWindow := Window(&model.Rental{
        Type:          model.TypeHours,
        ArrivalDate:   date(2024, 3, 2),
        ArrivalTime:   "14:00:00",
        DepartureTime: strPtr("17:00:00"),
    })
    err := CheckAvailability([]uint64{1}, hourWindow, occ, 0)
    var conflict *ConflictError
    require.ErrorAs(t, err, &conflict)
    assert.Equal(t, uint64(1), conflict.RoomID)

    // but the day after the booking ends is free
    freeWindow := Window(&model.Rental{
        Type:          model.TypeHours,
        ArrivalDate:   date(2024, 3, 3),
        ArrivalTime:   "14:00:00",
        DepartureTime: strPtr("17:00:00"),
    })
    assert.NoError(t, CheckAvailability([]uint64{1}, freeWindow, occ, 0))
}

func TestCheckAvailability_OpenOccupancyBlocksEverythingAfterStart(t *testing.T) {
    occ := []Occupancy{
        Reduce(OccupancyInput{
            RoomID: 1, RentalID: 20, Type: model.TypeDays,
            ArrivalDate: date(2024, 3, 1),
        }),
    }
    window := span(date(2025, 1, 1), datePtr(2025, 1, 3))
    assert.Error(t, CheckAvailability([]uint64{1}, window, occ, 0))
}

func TestWindow_DayAndHourShapes(t *testing.T) {
    day := Window(&model.Rental{
        Type:          model.TypeDays,
        ArrivalDate:   date(2024, 3, 1),
        DepartureDate: datePtr(2024, 3, 4),
    })
    require.NotNil(t, day.End)
    assert.Equal(t, date(2024, 3, 1), day.Start)
    assert.Equal(t, date(2024, 3, 4), *day.End)

    overnight := Window(&model.Rental{
        Type:          model.TypeHours,
        ArrivalDate:   date(2024, 3, 1),
        ArrivalTime:   "23:00:00",
        DepartureTime: strPtr("01:30:00"),
    })
    require.NotNil(t, overnight.End)
    assert.Equal(t, time.Date(2024, 3, 2, 1, 30, 0, 0, time.UTC), *overnight.End)
}
