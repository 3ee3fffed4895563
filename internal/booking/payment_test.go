package booking

import (
    "testing"

    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/hostaluna/room-rental/internal/model"
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func testSetting() model.Setting {
    return model.Setting{
        PriceDay:     dec(3400),
        PriceHour:    dec(600),
        TimeMinimum:  "03:00:00",
        ActiveImpost: true,
        Impost:       dec(12),
    }
}

func assignment(roomID uint64, increment int64) model.RoomAssignment {
    return model.RoomAssignment{RoomID: roomID, PriceBase: dec(increment)}
}

func TestCalculate_DayRate(t *testing.T) {
    // GIVEN: increment=200, price_day=3400, a two day stay
    // THEN: per-room charge is (200+3400)*2 = 7200, tax 12% -> 864
    calc := Calculator{Setting: testSetting()}
    r := &model.Rental{
        Type:          model.TypeDays,
        ArrivalDate:   date(2024, 3, 1),
        DepartureDate: datePtr(2024, 3, 3),
    }

    got := calc.Calculate(r, []model.RoomAssignment{assignment(1, 200)})

    assert.True(t, got.Amount.Equal(dec(7200)), "amount = %s", got.Amount)
    assert.True(t, got.Impost.Equal(dec(864)), "impost = %s", got.Impost)
    assert.True(t, got.Total.Equal(dec(8064)), "total = %s", got.Total)
}

func TestCalculate_DayRateSumsOverRooms(t *testing.T) {
    calc := Calculator{Setting: testSetting()}
    r := &model.Rental{
        Type:          model.TypeDays,
        ArrivalDate:   date(2024, 3, 1),
        DepartureDate: datePtr(2024, 3, 3),
    }
    got := calc.Calculate(r, []model.RoomAssignment{
        assignment(1, 200),
        assignment(2, 0),
    })
    // (200+3400)*2 + (0+3400)*2
    assert.True(t, got.Amount.Equal(dec(14000)), "amount = %s", got.Amount)
}

func TestCalculate_DayRateUsesPerRoomCheckout(t *testing.T) {
    // the rental runs 4 days but this room left after 1
    calc := Calculator{Setting: testSetting()}
    r := &model.Rental{
        Type:          model.TypeDays,
        ArrivalDate:   date(2024, 3, 1),
        DepartureDate: datePtr(2024, 3, 5),
    }
    a := assignment(1, 200)
    a.CheckOut = datePtr(2024, 3, 2)

    got := calc.Calculate(r, []model.RoomAssignment{a})
    assert.True(t, got.Amount.Equal(dec(3600)), "amount = %s", got.Amount)
}

func TestCalculate_HourRateRoundsStartedHoursUp(t *testing.T) {
    // GIVEN: price_hour=600 and 125 elapsed minutes
    // THEN: ceil(125/60)=3 hours -> 3*600 + increment
    calc := Calculator{Setting: testSetting()}
    r := &model.Rental{
        Type:          model.TypeHours,
        ArrivalDate:   date(2024, 3, 1),
        ArrivalTime:   "10:00:00",
        DepartureTime: strPtr("12:05:00"),
    }

    got := calc.Calculate(r, []model.RoomAssignment{assignment(1, 150)})
    assert.True(t, got.Amount.Equal(dec(1950)), "amount = %s", got.Amount)
}

func TestCalculate_HourRateOvernightUsesDepartureDate(t *testing.T) {
    calc := Calculator{Setting: testSetting()}
    r := &model.Rental{
        Type:          model.TypeHours,
        ArrivalDate:   date(2024, 3, 1),
        ArrivalTime:   "22:00:00",
        DepartureDate: datePtr(2024, 3, 2),
        DepartureTime: strPtr("01:00:00"),
    }
    got := calc.Calculate(r, []model.RoomAssignment{assignment(1, 0)})
    // 3 whole hours across midnight
    assert.True(t, got.Amount.Equal(dec(1800)), "amount = %s", got.Amount)
}

func TestDiscounted_FloorsAtZero(t *testing.T) {
    assert.True(t, Discounted(dec(100), dec(150)).Equal(dec(0)))
    assert.True(t, Discounted(dec(100), dec(30)).Equal(dec(70)))
    assert.True(t, Discounted(dec(100), dec(100)).Equal(dec(0)))
}

func TestCalculate_TaxDisabled(t *testing.T) {
    setting := testSetting()
    setting.ActiveImpost = false
    calc := Calculator{Setting: setting}
    r := &model.Rental{
        Type:          model.TypeDays,
        ArrivalDate:   date(2024, 3, 1),
        DepartureDate: datePtr(2024, 3, 3),
    }
    got := calc.Calculate(r, []model.RoomAssignment{assignment(1, 200)})
    assert.True(t, got.Impost.Equal(dec(0)))
    assert.True(t, got.Total.Equal(got.Amount))
}

func TestCalculate_ExtraHourIsAdditiveAndConsumedOnce(t *testing.T) {
    // GIVEN: an hour stay already billed at 1800 (3h x 600), extended by 2 hours
    calc := Calculator{Setting: testSetting()}
    r := &model.Rental{
        Type:          model.TypeHours,
        ArrivalDate:   date(2024, 3, 1),
        ArrivalTime:   "10:00:00",
        DepartureTime: strPtr("15:00:00"), // already advanced by the renewal flow
        Amount:        dec(1800),
        ExtraHour:     strPtr("02:00:00"),
    }
    rooms := []model.RoomAssignment{assignment(1, 0)}

    // WHEN: the renewal pass runs
    first := calc.Calculate(r, rooms)

    // THEN: exactly 2*price_hour is added and the marker is cleared
    assert.True(t, first.Amount.Equal(dec(3000)), "amount = %s", first.Amount)
    require.Nil(t, r.ExtraHour)

    // AND: a repeated recompute without a new extension leaves the
    // amount unchanged (the full hourly recompute now covers 5 hours)
    r.Amount = first.Amount
    second := calc.Calculate(r, rooms)
    assert.True(t, second.Amount.Equal(first.Amount), "amount = %s", second.Amount)
}

func TestCalculate_ExtraHourDoesNotReapplyDiscount(t *testing.T) {
    calc := Calculator{Setting: testSetting()}
    r := &model.Rental{
        Type:        model.TypeDays,
        ArrivalDate: date(2024, 3, 1),
        Discount:    dec(500),
        Amount:      dec(6700), // 7200 gross minus the 500 discount
        ExtraHour:   strPtr("01:00:00"),
    }
    got := calc.Calculate(r, nil)
    // 6700 + 1*600, the discount already lives in the prior amount
    assert.True(t, got.Amount.Equal(dec(7300)), "amount = %s", got.Amount)
}
