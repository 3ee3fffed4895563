package booking

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/hostaluna/room-rental/internal/model"
)

func TestCanConfirm(t *testing.T) {
    today := date(2024, 3, 10)

    t.Run("rejected before the arrival date", func(t *testing.T) {
        r := &model.Rental{Reservation: true, State: model.StatePendiente, ArrivalDate: date(2024, 3, 12)}
        err := CanConfirm(r, today)
        var rule *BusinessRuleError
        require.ErrorAs(t, err, &rule)
    })

    t.Run("accepted exactly on the arrival date", func(t *testing.T) {
        r := &model.Rental{Reservation: true, State: model.StatePendiente, ArrivalDate: date(2024, 3, 10)}
        assert.NoError(t, CanConfirm(r, today))
    })

    t.Run("accepted after the arrival date", func(t *testing.T) {
        r := &model.Rental{Reservation: true, State: model.StatePendiente, ArrivalDate: date(2024, 3, 8)}
        assert.NoError(t, CanConfirm(r, today))
    })

    t.Run("rejected when already confirmed", func(t *testing.T) {
        r := &model.Rental{Reservation: false, ArrivalDate: today, DepartureDate: datePtr(2024, 3, 15)}
        var rule *BusinessRuleError
        require.ErrorAs(t, CanConfirm(r, today), &rule)
        assert.Equal(t, "the reservation was already confirmed", rule.Msg)
    })

    t.Run("rejected when already checked out", func(t *testing.T) {
        r := &model.Rental{Reservation: true, Checkout: true, ArrivalDate: date(2024, 3, 8)}
        var rule *BusinessRuleError
        require.ErrorAs(t, CanConfirm(r, today), &rule)
        assert.Equal(t, "the rental has already checked out", rule.Msg)
    })
}

func TestEvaluateCheckout(t *testing.T) {
    today := date(2024, 3, 10)

    cases := []struct {
        name string
        r    model.Rental
        want bool
    }{
        {
            name: "departure strictly before today",
            r:    model.Rental{DepartureDate: datePtr(2024, 3, 9), ArrivalDate: date(2024, 3, 7)},
            want: true,
        },
        {
            name: "departure today is not yet a checkout",
            r:    model.Rental{DepartureDate: datePtr(2024, 3, 10), ArrivalDate: date(2024, 3, 7)},
            want: false,
        },
        {
            name: "no departure date falls back to the arrival date",
            r:    model.Rental{ArrivalDate: date(2024, 3, 9)},
            want: true,
        },
        {
            name: "actual checkout date wins over the departure date",
            r:    model.Rental{ArrivalDate: date(2024, 3, 1), DepartureDate: datePtr(2024, 3, 20), CheckoutDate: datePtr(2024, 3, 8)},
            want: true,
        },
        {
            name: "reservations never auto-checkout",
            r:    model.Rental{Reservation: true, ArrivalDate: date(2024, 3, 1), DepartureDate: datePtr(2024, 3, 2)},
            want: false,
        },
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, EvaluateCheckout(&tc.r, today))
        })
    }
}

func TestEvaluateTimeout(t *testing.T) {
    now := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

    t.Run("same-day departure time already passed", func(t *testing.T) {
        r := &model.Rental{
            ArrivalDate:   date(2024, 3, 10),
            DepartureDate: datePtr(2024, 3, 10),
            DepartureTime: strPtr("12:00:00"),
        }
        assert.True(t, EvaluateTimeout(r, now))
    })

    t.Run("departure later today is not overdue", func(t *testing.T) {
        r := &model.Rental{
            ArrivalDate:   date(2024, 3, 10),
            DepartureDate: datePtr(2024, 3, 10),
            DepartureTime: strPtr("18:00:00"),
        }
        assert.False(t, EvaluateTimeout(r, now))
    })

    t.Run("departure on another day is not a same-day timeout", func(t *testing.T) {
        r := &model.Rental{
            ArrivalDate:   date(2024, 3, 10),
            DepartureDate: datePtr(2024, 3, 12),
            DepartureTime: strPtr("08:00:00"),
        }
        assert.False(t, EvaluateTimeout(r, now))
    })

    t.Run("reservations are never overdue", func(t *testing.T) {
        r := &model.Rental{
            Reservation:   true,
            ArrivalDate:   date(2024, 3, 10),
            DepartureDate: datePtr(2024, 3, 10),
            DepartureTime: strPtr("12:00:00"),
        }
        assert.False(t, EvaluateTimeout(r, now))
    })
}

func TestEvaluateExpiry(t *testing.T) {
    today := date(2024, 3, 10)

    t.Run("reconciled reservation past its window is promoted", func(t *testing.T) {
        r := &model.Rental{
            Reservation:   true,
            State:         model.StateConciliado,
            ArrivalDate:   date(2024, 3, 1),
            DepartureDate: datePtr(2024, 3, 5),
        }
        assert.Equal(t, ExpiryPromote, EvaluateExpiry(r, today))
    })

    t.Run("pending reservation past its window is deleted", func(t *testing.T) {
        r := &model.Rental{
            Reservation:   true,
            State:         model.StatePendiente,
            ArrivalDate:   date(2024, 3, 1),
            DepartureDate: datePtr(2024, 3, 5),
        }
        assert.Equal(t, ExpiryDelete, EvaluateExpiry(r, today))
    })

    t.Run("no departure date falls back to the arrival date", func(t *testing.T) {
        r := &model.Rental{
            Reservation: true,
            State:       model.StatePendiente,
            ArrivalDate: date(2024, 3, 9),
        }
        assert.Equal(t, ExpiryDelete, EvaluateExpiry(r, today))
    })

    t.Run("future reservation is left alone", func(t *testing.T) {
        r := &model.Rental{
            Reservation: true,
            State:       model.StatePendiente,
            ArrivalDate: date(2024, 3, 12),
        }
        assert.Equal(t, ExpiryNone, EvaluateExpiry(r, today))
    })

    t.Run("active rentals are not the sweep's business", func(t *testing.T) {
        r := &model.Rental{ArrivalDate: date(2024, 3, 1)}
        assert.Equal(t, ExpiryNone, EvaluateExpiry(r, today))
    })
}

func TestDefaultDepartureTime(t *testing.T) {
    setting := testSetting() // time_minimum 03:00:00

    t.Run("fills a missing departure from the minimum stay", func(t *testing.T) {
        r := &model.Rental{Type: model.TypeHours, ArrivalDate: date(2024, 3, 1), ArrivalTime: "10:00:00"}
        require.NoError(t, DefaultDepartureTime(r, setting))
        require.NotNil(t, r.DepartureTime)
        assert.Equal(t, "13:00:00", *r.DepartureTime)
        assert.Nil(t, r.DepartureDate)
    })

    t.Run("rolls the departure date when the minimum crosses midnight", func(t *testing.T) {
        r := &model.Rental{Type: model.TypeHours, ArrivalDate: date(2024, 3, 1), ArrivalTime: "23:00:00"}
        require.NoError(t, DefaultDepartureTime(r, setting))
        require.NotNil(t, r.DepartureTime)
        assert.Equal(t, "02:00:00", *r.DepartureTime)
        require.NotNil(t, r.DepartureDate)
        assert.Equal(t, date(2024, 3, 2), *r.DepartureDate)
    })

    t.Run("explicit overnight departure also rolls the date", func(t *testing.T) {
        r := &model.Rental{
            Type: model.TypeHours, ArrivalDate: date(2024, 3, 1),
            ArrivalTime: "22:00:00", DepartureTime: strPtr("01:00:00"),
        }
        require.NoError(t, DefaultDepartureTime(r, setting))
        require.NotNil(t, r.DepartureDate)
        assert.Equal(t, date(2024, 3, 2), *r.DepartureDate)
    })
}

func TestApplyExtraHour(t *testing.T) {
    t.Run("extends the departure and returns the incremental window", func(t *testing.T) {
        r := &model.Rental{
            Type:          model.TypeHours,
            ArrivalDate:   date(2024, 3, 1),
            ArrivalTime:   "10:00:00",
            DepartureTime: strPtr("13:00:00"),
        }
        inc, err := ApplyExtraHour(r, "02:00:00")
        require.NoError(t, err)

        assert.Equal(t, "15:00:00", *r.DepartureTime)
        require.NotNil(t, r.ExtraHour)
        assert.Equal(t, time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC), inc.Start)
        require.NotNil(t, inc.End)
        assert.Equal(t, time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC), *inc.End)
    })

    t.Run("rolls the departure date past midnight", func(t *testing.T) {
        r := &model.Rental{
            Type:          model.TypeHours,
            ArrivalDate:   date(2024, 3, 1),
            ArrivalTime:   "20:00:00",
            DepartureTime: strPtr("23:00:00"),
        }
        inc, err := ApplyExtraHour(r, "02:00:00")
        require.NoError(t, err)

        assert.Equal(t, "01:00:00", *r.DepartureTime)
        require.NotNil(t, r.DepartureDate)
        assert.Equal(t, date(2024, 3, 2), *r.DepartureDate)
        require.NotNil(t, inc.End)
        assert.Equal(t, time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC), *inc.End)
    })

    t.Run("cannot extend a stay with no departure time", func(t *testing.T) {
        r := &model.Rental{Type: model.TypeHours, ArrivalDate: date(2024, 3, 1), ArrivalTime: "10:00:00"}
        _, err := ApplyExtraHour(r, "01:00:00")
        var rule *BusinessRuleError
        require.ErrorAs(t, err, &rule)
    })
}

func TestValidateRental(t *testing.T) {
    today := date(2024, 3, 10)

    t.Run("collects every field problem at once", func(t *testing.T) {
        r := &model.Rental{Type: "weeks"}
        err := ValidateRental(r, nil, today)
        var ve *ValidationError
        require.ErrorAs(t, err, &ve)
        assert.Contains(t, ve.Fields, "room_ids")
        assert.Contains(t, ve.Fields, "type")
        assert.Contains(t, ve.Fields, "arrival_date")
    })

    t.Run("reservation in the past is rejected", func(t *testing.T) {
        r := &model.Rental{
            Type: model.TypeHours, Reservation: true, State: model.StatePendiente,
            ArrivalDate: date(2024, 3, 5), ArrivalTime: "10:00:00",
        }
        err := ValidateRental(r, []uint64{1}, today)
        var ve *ValidationError
        require.ErrorAs(t, err, &ve)
        assert.Contains(t, ve.Fields, "arrival_date")
    })

    t.Run("reservation requires a payment state", func(t *testing.T) {
        r := &model.Rental{
            Type: model.TypeHours, Reservation: true,
            ArrivalDate: date(2024, 3, 15), ArrivalTime: "10:00:00",
        }
        err := ValidateRental(r, []uint64{1}, today)
        var ve *ValidationError
        require.ErrorAs(t, err, &ve)
        assert.Contains(t, ve.Fields, "state")
    })

    t.Run("day stay needs a departure strictly after arrival", func(t *testing.T) {
        r := &model.Rental{
            Type: model.TypeDays, ArrivalDate: date(2024, 3, 15), ArrivalTime: "10:00:00",
            DepartureDate: datePtr(2024, 3, 15),
        }
        err := ValidateRental(r, []uint64{1}, today)
        var ve *ValidationError
        require.ErrorAs(t, err, &ve)
        assert.Contains(t, ve.Fields, "departure_date")
    })

    t.Run("well-formed request passes", func(t *testing.T) {
        r := &model.Rental{
            Type: model.TypeDays, ArrivalDate: date(2024, 3, 15), ArrivalTime: "10:00:00",
            DepartureDate: datePtr(2024, 3, 17),
        }
        assert.NoError(t, ValidateRental(r, []uint64{1}, today))
    })
}

func TestValidateExtraHour(t *testing.T) {
    assert.NoError(t, ValidateExtraHour("01:00:00"))
    assert.NoError(t, ValidateExtraHour("04:00:00"))
    assert.Error(t, ValidateExtraHour("05:00:00"))
    assert.Error(t, ValidateExtraHour("90 minutes"))
}
