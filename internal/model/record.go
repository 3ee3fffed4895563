package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Record is the receipt written when a rental checks out.  It snapshots
// the billed amounts so later setting or room price edits cannot change
// what was actually charged.  A rental has at most one record.
//
// Fields:
//  Folio – human-referenceable receipt identifier (UUID).
type Record struct {
    ID           uint64          // records.id
    RentalID     uint64          // records.rental_id
    Folio        string          // records.folio
    Amount       decimal.Decimal // records.amount
    AmountImpost decimal.Decimal // records.amount_impost
    AmountTotal  decimal.Decimal // records.amount_total
    CreatedAt    time.Time       // records.created_at
}
