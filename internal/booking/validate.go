package booking

import (
    "time"

    "github.com/hostaluna/room-rental/internal/model"
)

// Extension durations accepted for an extra-hour renewal.
var renewalHours = map[string]bool{
    "01:00:00": true,
    "02:00:00": true,
    "03:00:00": true,
    "04:00:00": true,
}

// ValidateRental checks every user-correctable rule on a rental about
// to be written.  All fields are inspected so the caller gets the full
// field-to-message map in one rejection, before any mutating write.
func ValidateRental(r *model.Rental, roomIDs []uint64, today time.Time) error {
    ve := NewValidationError()

    if len(roomIDs) == 0 {
        ve.Add("room_ids", "at least one room is required")
    }
    if r.Type != model.TypeDays && r.Type != model.TypeHours {
        ve.Add("type", "type must be days or hours")
    }
    if r.ArrivalDate.IsZero() {
        ve.Add("arrival_date", "the arrival date is required")
    }
    if r.ArrivalTime == "" {
        ve.Add("arrival_time", "the arrival time is required")
    } else if !ValidClock(r.ArrivalTime) {
        ve.Add("arrival_time", "the arrival time is invalid")
    }
    if r.DepartureTime != nil && !ValidClock(*r.DepartureTime) {
        ve.Add("departure_time", "the departure time is invalid")
    }

    if r.Reservation {
        if r.State != model.StatePendiente && r.State != model.StateConciliado {
            ve.Add("state", "the payment state is required for reservations")
        }
        if !r.ArrivalDate.IsZero() && Midnight(r.ArrivalDate).Before(Midnight(today)) {
            ve.Add("arrival_date", "the arrival date has already passed")
        }
    }

    if r.Type == model.TypeDays {
        switch {
        case r.DepartureDate == nil:
            ve.Add("departure_date", "the departure date is required")
        case !r.ArrivalDate.IsZero() && !Midnight(*r.DepartureDate).After(Midnight(r.ArrivalDate)):
            ve.Add("departure_date", "the departure date must be after the arrival date")
        }
    }

    return ve.Err()
}

// ValidateExtraHour checks a renewal duration against the accepted set.
func ValidateExtraHour(extra string) error {
    if !renewalHours[extra] {
        ve := NewValidationError()
        ve.Add("extra_hour", "the renewal duration must be between 01:00:00 and 04:00:00")
        return ve
    }
    return nil
}
