package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Room physical states.  A room leaves "disponible" when a stay begins,
// and passes through "mantenimiento" after checkout until housekeeping
// releases it.
const (
    RoomDisponible    = "disponible"
    RoomOcupada       = "ocupada"
    RoomMantenimiento = "mantenimiento"
)

// Room is a physical unit that can be rented.  Its Increment is a
// per-room surcharge added on top of the tenant's base day or hour
// rate when billing.
//
// Fields:
//  ID        – primary key identifier.
//  TypeID    – room category (RoomType).
//  Number    – door number or label shown to reception.
//  State     – disponible, ocupada or mantenimiento.
//  Increment – price surcharge over the base rate.
type Room struct {
    ID        uint64          // rooms.id
    TypeID    uint64          // rooms.type_id
    Number    string          // rooms.number
    State     string          // rooms.state
    Increment decimal.Decimal // rooms.increment
    CreatedAt time.Time       // rooms.created_at
    UpdatedAt time.Time       // rooms.updated_at
}

// RoomType is a category of rooms (matrimonial, doble, suite...).  It
// carries the default increment applied to rooms created under it.  A
// type cannot be deleted while rooms still reference it.
type RoomType struct {
    ID          uint64          // types.id
    Title       string          // types.title
    Description string          // types.description
    Increment   decimal.Decimal // types.increment
    CreatedAt   time.Time       // types.created_at
    UpdatedAt   time.Time       // types.updated_at
}
