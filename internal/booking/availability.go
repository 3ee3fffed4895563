package booking

import (
    "time"

    "github.com/hostaluna/room-rental/internal/model"
)

// Occupancy is one committed room occupancy reduced to an absolute time
// span.  Day bookings occupy midnight to midnight of their date range;
// hour bookings occupy their exact instants.  Reducing both to the same
// shape is what lets an hour request conflict with a day booking
// covering the same date.
type Occupancy struct {
    RoomID   uint64
    RentalID uint64
    Span     Span
}

// OccupancyInput carries the rental and pivot fields needed to reduce
// one assignment row to an Occupancy.  Per-room check-in/check-out
// carve-outs override the rental's nominal window.
type OccupancyInput struct {
    RoomID        uint64
    RentalID      uint64
    Type          string
    ArrivalDate   time.Time
    ArrivalTime   string
    DepartureDate *time.Time
    DepartureTime *string
    CheckIn       *time.Time
    CheckOut      *time.Time
    CheckTimeIn   *string
    CheckTimeOut  *string
}

// Reduce turns an assignment row into its occupancy span.
func Reduce(in OccupancyInput) Occupancy {
    occ := Occupancy{RoomID: in.RoomID, RentalID: in.RentalID}

    if in.Type == model.TypeHours {
        startClock := in.ArrivalTime
        if in.CheckTimeIn != nil {
            startClock = *in.CheckTimeIn
        }
        occ.Span.Start = At(in.ArrivalDate, startClock)

        endClock := in.DepartureTime
        if in.CheckTimeOut != nil {
            endClock = in.CheckTimeOut
        }
        if endClock == nil {
            return occ // still occupying, open span
        }
        endDate := in.ArrivalDate
        if in.DepartureDate != nil {
            endDate = *in.DepartureDate
        } else if *endClock < startClock {
            // overnight span without an explicit end date rolls into
            // the next day
            endDate = endDate.AddDate(0, 0, 1)
        }
        end := At(endDate, *endClock)
        occ.Span.End = &end
        return occ
    }

    // day billing: spans whole days
    start := Midnight(in.ArrivalDate)
    if in.CheckIn != nil {
        start = Midnight(*in.CheckIn)
    }
    occ.Span.Start = start
    switch {
    case in.CheckOut != nil:
        end := Midnight(*in.CheckOut)
        occ.Span.End = &end
    case in.DepartureDate != nil:
        end := Midnight(*in.DepartureDate)
        occ.Span.End = &end
    }
    return occ
}

// Window builds the span a rental is requesting, the shape fed to
// CheckAvailability before any write happens.
func Window(r *model.Rental) Span {
    if r.Type == model.TypeHours {
        s := Span{Start: At(r.ArrivalDate, r.ArrivalTime)}
        if r.DepartureTime == nil {
            return s
        }
        endDate := r.ArrivalDate
        if r.DepartureDate != nil {
            endDate = *r.DepartureDate
        } else if *r.DepartureTime < r.ArrivalTime {
            endDate = endDate.AddDate(0, 0, 1)
        }
        end := At(endDate, *r.DepartureTime)
        s.End = &end
        return s
    }
    s := Span{Start: Midnight(r.ArrivalDate)}
    if r.DepartureDate != nil {
        end := Midnight(*r.DepartureDate)
        s.End = &end
    }
    return s
}

// CheckAvailability decides whether every requested room is free for
// the window.  Room IDs are walked in the order supplied and the first
// overlap is reported as a ConflictError; the validator never picks a
// resolution.  excludeRentalID lets an update re-validate a rental
// against all other rentals without conflicting with itself.
func CheckAvailability(roomIDs []uint64, window Span, occupancies []Occupancy, excludeRentalID uint64) error {
    for _, roomID := range roomIDs {
        for _, occ := range occupancies {
            if occ.RoomID != roomID {
                continue
            }
            if excludeRentalID != 0 && occ.RentalID == excludeRentalID {
                continue
            }
            if Overlaps(window, occ.Span) {
                return &ConflictError{RoomID: roomID, RentalID: occ.RentalID}
            }
        }
    }
    return nil
}
