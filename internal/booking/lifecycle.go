package booking

import (
    "time"

    "github.com/hostaluna/room-rental/internal/model"
)

// ExpiryAction is the outcome of evaluating a reservation whose window
// has already passed.
type ExpiryAction int

const (
    // ExpiryNone: the reservation is not past its window.
    ExpiryNone ExpiryAction = iota
    // ExpiryPromote: payment was reconciled, so the booking is kept and
    // promoted straight to checked-out instead of being lost.
    ExpiryPromote
    // ExpiryDelete: the reservation was never confirmed nor paid; it is
    // a no-show and is removed entirely.
    ExpiryDelete
)

// CanConfirm decides whether a reservation may be confirmed today.
// Confirmation is allowed only while the booking is still a
// reservation, the stay has not already ended, and the arrival date has
// been reached.
func CanConfirm(r *model.Rental, today time.Time) error {
    if r.Checkout || EvaluateCheckout(r, today) {
        return Rule("the rental has already checked out")
    }
    if !r.Reservation {
        return Rule("the reservation was already confirmed")
    }
    if Midnight(r.ArrivalDate).After(Midnight(today)) {
        return Rule("the reservation date has not arrived yet")
    }
    return nil
}

// EvaluateCheckout reports whether an active rental's effective end
// (checkout date, else departure date, else none meaning same-day) is
// strictly before today.  Callers flip the rental's checkout flag when
// it returns true; the flag is monotonic afterwards.
func EvaluateCheckout(r *model.Rental, today time.Time) bool {
    if r.Reservation {
        return false
    }
    day := Midnight(today)
    end := r.DepartureDate
    if r.CheckoutDate != nil {
        end = r.CheckoutDate
    }
    if end == nil {
        return Midnight(r.ArrivalDate).Before(day)
    }
    return Midnight(*end).Before(day)
}

// EvaluateTimeout reports whether an active rental's departure instant
// is strictly before now.  A timed-out rental is overdue but not forced
// into checkout; reception decides what to do with a same-day overstay.
func EvaluateTimeout(r *model.Rental, now time.Time) bool {
    if r.Reservation || r.DepartureTime == nil {
        return false
    }
    today := Midnight(now)
    hour := FormatClock(now.Sub(today))
    if r.DepartureDate == nil {
        return *r.DepartureTime < hour
    }
    return Midnight(*r.DepartureDate).Equal(today) && *r.DepartureTime < hour
}

// EvaluateExpiry classifies a reservation against today.  A reservation
// whose window has passed is either promoted (reconciled payment) or
// deleted (pending, never confirmed).
func EvaluateExpiry(r *model.Rental, today time.Time) ExpiryAction {
    if !r.Reservation {
        return ExpiryNone
    }
    day := Midnight(today)
    past := false
    if r.DepartureDate != nil {
        past = Midnight(*r.DepartureDate).Before(day)
    } else {
        past = Midnight(r.ArrivalDate).Before(day)
    }
    if !past {
        return ExpiryNone
    }
    if r.State == model.StateConciliado {
        return ExpiryPromote
    }
    return ExpiryDelete
}

// DefaultDepartureTime fills in a missing departure time for an hour
// stay from the tenant's minimum stay length, rolling the departure
// date to the next day when the sum crosses midnight.
func DefaultDepartureTime(r *model.Rental, setting model.Setting) error {
    if r.DepartureTime != nil {
        // an explicit departure earlier in the clock than the arrival
        // still means the stay runs overnight
        if *r.DepartureTime < r.ArrivalTime && r.DepartureDate == nil {
            next := Midnight(r.ArrivalDate).AddDate(0, 0, 1)
            r.DepartureDate = &next
        }
        return nil
    }
    dep, wrapped, err := AddClock(r.ArrivalTime, setting.TimeMinimum)
    if err != nil {
        return err
    }
    r.DepartureTime = &dep
    if wrapped && r.DepartureDate == nil {
        next := Midnight(r.ArrivalDate).AddDate(0, 0, 1)
        r.DepartureDate = &next
    }
    return nil
}

// ApplyExtraHour extends an existing stay's departure by an "HH:MM:SS"
// duration.  It returns the incremental window (old departure to new
// departure) that alone must be re-checked for availability, and sets
// the transient marker consumed by the payment calculator.
func ApplyExtraHour(r *model.Rental, extra string) (Span, error) {
    if r.DepartureTime == nil {
        return Span{}, Rule("the rental has no departure time to extend")
    }
    oldClock := *r.DepartureTime
    oldDate := r.ArrivalDate
    if r.DepartureDate != nil {
        oldDate = *r.DepartureDate
    }
    oldDeparture := At(oldDate, oldClock)

    newClock, wrapped, err := AddClock(oldClock, extra)
    if err != nil {
        return Span{}, err
    }
    r.DepartureTime = &newClock
    if wrapped {
        next := Midnight(oldDate).AddDate(0, 0, 1)
        r.DepartureDate = &next
    }
    r.ExtraHour = &extra

    newDate := r.ArrivalDate
    if r.DepartureDate != nil {
        newDate = *r.DepartureDate
    }
    newDeparture := At(newDate, newClock)
    return Span{Start: oldDeparture, End: &newDeparture}, nil
}
