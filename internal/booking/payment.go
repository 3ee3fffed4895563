package booking

import (
    "math"

    "github.com/shopspring/decimal"

    "github.com/hostaluna/room-rental/internal/model"
)

// Amounts is the result of a billing pass: the discounted charge, the
// tax on it and their sum.  The service layer writes these back onto
// the rental through a derived-fields-only update.
type Amounts struct {
    Amount decimal.Decimal
    Impost decimal.Decimal
    Total  decimal.Decimal
}

// Calculator derives the amount owed for a rental from elapsed
// occupancy per room, the tenant's rates and the rental's billing mode.
// It is invoked whenever a rental's occupancy or duration changes.
type Calculator struct {
    Setting model.Setting
}

// Calculate computes the rental's amounts from its assignments.
//
// An extra-hour renewal is additive: the new charge is the previous
// amount plus the extension hours at the hour rate, and the transient
// marker is consumed so a repeated pass without a new extension leaves
// the amount unchanged.  The discount is not re-applied on renewal
// because the previous amount already carries it.
func (c Calculator) Calculate(r *model.Rental, assignments []model.RoomAssignment) Amounts {
    if r.ExtraHour != nil {
        amount := c.renewalAmount(r)
        return c.withTax(amount)
    }

    var gross decimal.Decimal
    if r.Type == model.TypeDays {
        gross = c.dayAmount(r, assignments)
    } else {
        gross = c.hourAmount(r, assignments)
    }
    return c.withTax(Discounted(gross, r.Discount))
}

// Discounted applies a flat discount and floors the result at zero; a
// discount larger than the charge never produces a negative amount.
func Discounted(amount, discount decimal.Decimal) decimal.Decimal {
    out := amount.Sub(discount)
    if out.IsNegative() {
        return decimal.Zero
    }
    return out
}

func (c Calculator) withTax(amount decimal.Decimal) Amounts {
    impost := c.Setting.CalculateImpost(amount)
    return Amounts{Amount: amount, Impost: impost, Total: amount.Add(impost)}
}

// dayAmount sums, per room, (price_base + price_day) x elapsed whole
// days.  Each room's own check-in/check-out wins over the rental's
// nominal window, so an early per-room checkout is billed only for the
// days that room was actually held.
func (c Calculator) dayAmount(r *model.Rental, assignments []model.RoomAssignment) decimal.Decimal {
    end := r.ArrivalDate
    if r.CheckoutDate != nil {
        end = *r.CheckoutDate
    } else if r.DepartureDate != nil {
        end = *r.DepartureDate
    }

    sum := decimal.Zero
    for _, a := range assignments {
        start := r.ArrivalDate
        if a.CheckIn != nil {
            start = *a.CheckIn
        }
        roomEnd := end
        if a.CheckOut != nil {
            roomEnd = *a.CheckOut
        }
        days := decimal.NewFromInt(WholeDays(start, roomEnd))
        perDay := a.PriceBase.Add(c.Setting.PriceDay)
        sum = sum.Add(perDay.Mul(days))
    }
    return sum
}

// hourAmount sums, per room, ceil(elapsed minutes / 60) x price_hour
// plus the room's increment.  A started hour is billed as a whole one.
func (c Calculator) hourAmount(r *model.Rental, assignments []model.RoomAssignment) decimal.Decimal {
    from := At(r.ArrivalDate, r.ArrivalTime)

    sum := decimal.Zero
    for _, a := range assignments {
        var depClock string
        switch {
        case a.CheckTimeOut != nil:
            depClock = *a.CheckTimeOut
        case r.DepartureTime != nil:
            depClock = *r.DepartureTime
        default:
            continue // no departure bound recorded yet, nothing to bill
        }
        endDate := r.ArrivalDate
        if r.DepartureDate != nil {
            endDate = *r.DepartureDate
        }
        to := At(endDate, depClock)

        elapsed := to.Sub(from)
        if elapsed < 0 {
            elapsed = -elapsed
        }
        hours := int64(math.Ceil(elapsed.Minutes() / 60.0))
        sum = sum.Add(c.Setting.PriceHour.Mul(decimal.NewFromInt(hours)).Add(a.PriceBase))
    }
    return sum
}

// renewalAmount adds the pending extension to the previous amount and
// clears the marker so the extension is charged exactly once.
func (c Calculator) renewalAmount(r *model.Rental) decimal.Decimal {
    hours := decimal.NewFromInt(ClockHours(*r.ExtraHour))
    r.ExtraHour = nil
    return r.Amount.Add(c.Setting.PriceHour.Mul(hours))
}
