package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Setting is the tenant pricing configuration, a read-mostly singleton
// loaded once per operation and never mutated by the booking core.
//
// Fields:
//  PriceDay     – base rate for one whole day.
//  PriceHour    – base rate for one hour.
//  TimeMinimum  – default stay length ("HH:MM:SS") used to derive a
//                 departure time when the request omits one.
//  ActiveImpost – whether tax is applied at all.
//  Impost       – tax percentage applied to the discounted amount.
type Setting struct {
    ID           uint64          // settings.id
    PriceDay     decimal.Decimal // settings.price_day
    PriceHour    decimal.Decimal // settings.price_hour
    TimeMinimum  string          // settings.time_minimum
    ActiveImpost bool            // settings.active_impost
    Impost       decimal.Decimal // settings.impost
    UpdatedAt    time.Time       // settings.updated_at
}

// CalculateImpost returns the tax owed on an already-discounted amount,
// or zero when tax collection is disabled for the tenant.
func (s Setting) CalculateImpost(amount decimal.Decimal) decimal.Decimal {
    if !s.ActiveImpost {
        return decimal.Zero
    }
    return amount.Mul(s.Impost).Div(decimal.NewFromInt(100))
}
