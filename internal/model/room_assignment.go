package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// RoomAssignment is one room's occupancy inside one rental (the pivot
// between rentals and rooms).  Each assignment carries its own actual
// check-in/check-out bounds, which may differ from the rental's nominal
// window when a single room checks out early or checks in late.
//
// Invariant: a room has at most one assignment with CheckOut == nil at
// any time; that is what makes occupancy exclusive.
//
// Fields:
//  ID           – primary key identifier.
//  RentalID     – owning rental.
//  RoomID       – room being occupied.
//  CheckIn      – date this room's occupancy started; nil until known.
//  CheckOut     – date this room's occupancy ended; nil while occupying.
//  CheckTimeIn  – time-of-day bound for hour billing; nil for day stays.
//  CheckTimeOut – time-of-day this room's occupancy ended.
//  PriceBase    – the room's price increment captured at assignment
//                 time, so later room price edits do not rewrite
//                 history.
type RoomAssignment struct {
    ID           uint64          // rental_rooms.id
    RentalID     uint64          // rental_rooms.rental_id
    RoomID       uint64          // rental_rooms.room_id
    CheckIn      *time.Time      // rental_rooms.check_in (nullable)
    CheckOut     *time.Time      // rental_rooms.check_out (nullable)
    CheckTimeIn  *string         // rental_rooms.check_timein (nullable)
    CheckTimeOut *string         // rental_rooms.check_timeout (nullable)
    PriceBase    decimal.Decimal // rental_rooms.price_base
    CreatedAt    time.Time       // rental_rooms.created_at
    UpdatedAt    time.Time       // rental_rooms.updated_at
}
