package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Rental types.  A rental is billed either by whole days or by
// hour-of-day ranges.
const (
    TypeDays  = "days"
    TypeHours = "hours"
)

// Reservation payment states.  While a rental is still a reservation
// its payment reconciliation status is mandatory.
const (
    StatePendiente  = "pendiente"
    StateConciliado = "conciliado"
)

// Rental is a booking of one or more rooms for a client.  A rental
// starts either as a reservation (a future booking that is not yet
// occupying its rooms) or as an active stay, and ends when it is
// checked out or, for never-confirmed reservations, when the expiry
// sweep removes it.
//
// Dates are stored as MySQL DATE columns and surface as time.Time at
// UTC midnight.  Times of day are stored as MySQL TIME columns and
// surface as "HH:MM:SS" strings; the booking package combines the two
// into absolute instants.
//
// Fields:
//  ID            – primary key identifier.
//  ClientID      – client who booked the rooms.
//  MoveID        – optional housekeeping move record (reference only).
//  Type          – billing mode, "days" or "hours".
//  ArrivalDate   – nominal start date of the stay.
//  ArrivalTime   – time of day the stay starts.
//  DepartureDate – nominal end date; nil for hour stays with no
//                  explicit end date.
//  DepartureTime – time of day the stay ends; nil until defaulted.
//  CheckoutDate  – actual end date once the stay has ended.
//  Reservation   – true while the booking is a future reservation.
//  Checkout      – true once the stay has ended (terminal).
//  State         – payment status, "pendiente" or "conciliado".
//  Discount      – flat discount subtracted from the computed amount.
//  Amount        – computed charge after discount (derived).
//  AmountImpost  – computed tax (derived).
//  AmountTotal   – Amount + AmountImpost (derived).
type Rental struct {
    ID            uint64          // rentals.id
    ClientID      uint64          // rentals.client_id
    MoveID        *uint64         // rentals.move_id (nullable)
    Type          string          // rentals.type
    ArrivalDate   time.Time       // rentals.arrival_date
    ArrivalTime   string          // rentals.arrival_time
    DepartureDate *time.Time      // rentals.departure_date (nullable)
    DepartureTime *string         // rentals.departure_time (nullable)
    CheckoutDate  *time.Time      // rentals.checkout_date (nullable)
    Reservation   bool            // rentals.reservation
    Checkout      bool            // rentals.checkout
    State         string          // rentals.state
    Discount      decimal.Decimal // rentals.discount
    Amount        decimal.Decimal // rentals.amount
    AmountImpost  decimal.Decimal // rentals.amount_impost
    AmountTotal   decimal.Decimal // rentals.amount_total
    CreatedAt     time.Time       // rentals.created_at
    UpdatedAt     time.Time       // rentals.updated_at

    // ExtraHour is a transient "HH:MM:SS" duration set when an existing
    // stay is renewed by a few hours.  It is consumed exactly once by
    // the payment calculator and never persisted.
    ExtraHour *string
}
