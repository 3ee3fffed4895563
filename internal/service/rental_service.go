// Package service orchestrates the booking engine: it loads state
// through the repositories, runs the pure rules from internal/booking
// inside a transaction that holds the relevant room locks, and persists
// the outcome.  Nothing here re-implements a rule; the service decides
// ordering, locking and atomicity.
package service

import (
    "context"
    "database/sql"
    "log"
    "time"

    "github.com/shopspring/decimal"

    "github.com/hostaluna/room-rental/internal/booking"
    "github.com/hostaluna/room-rental/internal/model"
    q "github.com/hostaluna/room-rental/internal/queue"
    "github.com/hostaluna/room-rental/internal/repository"
)

// RentalService implements the rental lifecycle: create, reschedule,
// confirm, renew, per-room checkout, cancellation and the periodic
// sweeps.  Every mutating flow follows the same shape: validate with
// pure rules, open a transaction, lock the rooms involved, re-check
// availability against committed state, write, recompute billing,
// commit.  The broker notification goes out only after the commit.
type RentalService struct {
    rentals     *repository.RentalRepo
    assignments *repository.AssignmentRepo
    rooms       *repository.RoomRepo
    clients     *repository.ClientRepo
    settings    *repository.SettingRepo
    records     *repository.RecordRepo
    publisher   EventPublisher
    clock       booking.Clock
}

// NewRentalService wires the service with its repositories.  publisher
// may be nil, in which case no events are emitted.
func NewRentalService(
    rentals *repository.RentalRepo,
    assignments *repository.AssignmentRepo,
    rooms *repository.RoomRepo,
    clients *repository.ClientRepo,
    settings *repository.SettingRepo,
    records *repository.RecordRepo,
    publisher EventPublisher,
    clock booking.Clock,
) *RentalService {
    if clock == nil {
        clock = booking.UTCClock{}
    }
    return &RentalService{
        rentals:     rentals,
        assignments: assignments,
        rooms:       rooms,
        clients:     clients,
        settings:    settings,
        records:     records,
        publisher:   publisher,
        clock:       clock,
    }
}

// CreateRentalInput is the request shape for a new stay or reservation.
// Dates arrive as "2006-01-02" and times of day as "HH:MM:SS"; for a
// walk-in (non-reservation) an empty arrival defaults to right now.
type CreateRentalInput struct {
    ClientID      uint64
    IdentityCard  string
    MoveID        *uint64
    Type          string
    ArrivalDate   string
    ArrivalTime   string
    DepartureDate string
    DepartureTime string
    Reservation   bool
    State         string
    Discount      decimal.Decimal
    RoomIDs       []uint64
}

// ExtendHoursInput reschedules a reservation onto hour billing.  Empty
// fields keep the reservation's current values; an empty departure time
// is derived from the tenant's minimum stay length.
type ExtendHoursInput struct {
    ArrivalDate   string
    ArrivalTime   string
    DepartureTime string
    RoomIDs       []uint64
}

// ExtendDaysInput reschedules a reservation onto day billing.
type ExtendDaysInput struct {
    DepartureDate string
    RoomIDs       []uint64
}

// RentalDetail bundles a rental with its client and room assignments
// for read endpoints.  Timeout flags an hour stay whose departure
// instant has already passed today; the stay is overdue but reception
// decides whether to renew or check it out.
type RentalDetail struct {
    Rental      model.Rental
    Client      *model.Client
    Assignments []model.RoomAssignment
    Timeout     bool
}

// CreateRental books one or more rooms for a client, either as a
// future reservation or as a stay starting now.  The availability
// check, the rental insert and the room attachment run in a single
// transaction holding the per-room locks, so two concurrent requests
// for the same room serialize and the loser gets a ConflictError.
func (s *RentalService) CreateRental(ctx context.Context, in CreateRentalInput) (*model.Rental, error) {
    now := s.clock.Now()
    today := booking.Midnight(now)

    client, err := s.resolveClient(ctx, in.ClientID, in.IdentityCard)
    if err != nil {
        return nil, err
    }

    setting, err := s.settings.Get(ctx)
    if err != nil {
        return nil, err
    }

    r, err := s.buildRental(in, client.ID, now)
    if err != nil {
        return nil, err
    }
    if r.Type == model.TypeHours {
        if err := booking.DefaultDepartureTime(r, setting); err != nil {
            ve := booking.NewValidationError()
            ve.Add("departure_time", "the departure time is invalid")
            return nil, ve
        }
    }
    if r.Type == model.TypeDays && r.DepartureTime == nil {
        noon := booking.Noon
        r.DepartureTime = &noon
    }

    if err := booking.ValidateRental(r, in.RoomIDs, today); err != nil {
        return nil, err
    }
    roomList, err := s.requireRooms(ctx, in.RoomIDs)
    if err != nil {
        return nil, err
    }

    tx, err := s.rentals.DB().BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    defer func() { _ = tx.Rollback() }()

    if err := s.rooms.LockTx(ctx, tx, in.RoomIDs); err != nil {
        return nil, err
    }
    occupancies, err := s.assignments.OccupanciesForRoomsTx(ctx, tx, in.RoomIDs)
    if err != nil {
        return nil, err
    }
    if err := booking.CheckAvailability(in.RoomIDs, booking.Window(r), occupancies, 0); err != nil {
        return nil, err
    }

    if err := s.rentals.CreateTx(ctx, tx, r); err != nil {
        return nil, err
    }
    assigns := s.buildAssignments(r, roomList)
    if err := s.assignments.AttachTx(ctx, tx, assigns); err != nil {
        return nil, err
    }
    if !r.Reservation {
        if err := s.rooms.UpdateStatesTx(ctx, tx, in.RoomIDs, model.RoomOcupada); err != nil {
            return nil, err
        }
    }

    if err := s.settleAmountsTx(ctx, tx, r, setting); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }

    s.publish(ctx, r, in.RoomIDs)
    return r, nil
}

// ExtendByHours reschedules a reservation onto hour billing with a new
// time window and, optionally, a new room set.  Only unconfirmed
// reservations can be rescheduled.
func (s *RentalService) ExtendByHours(ctx context.Context, rentalID uint64, in ExtendHoursInput) (*model.Rental, error) {
    r, err := s.reservationForUpdate(ctx, rentalID)
    if err != nil {
        return nil, err
    }

    r.Type = model.TypeHours
    r.DepartureDate = nil
    r.DepartureTime = nil
    if in.ArrivalDate != "" {
        d, err := time.Parse(booking.DateLayout, in.ArrivalDate)
        if err != nil {
            ve := booking.NewValidationError()
            ve.Add("arrival_date", "the arrival date is invalid")
            return nil, ve
        }
        r.ArrivalDate = booking.Midnight(d)
    }
    if in.ArrivalTime != "" {
        r.ArrivalTime = in.ArrivalTime
    }
    if in.DepartureTime != "" {
        v := in.DepartureTime
        r.DepartureTime = &v
    }

    setting, err := s.settings.Get(ctx)
    if err != nil {
        return nil, err
    }
    if err := booking.DefaultDepartureTime(r, setting); err != nil {
        ve := booking.NewValidationError()
        ve.Add("departure_time", "the departure time is invalid")
        return nil, ve
    }
    return s.reschedule(ctx, r, setting, in.RoomIDs)
}

// ExtendByDays reschedules a reservation onto day billing.  The
// departure time is pinned to noon, the house's day-stay cutoff.
func (s *RentalService) ExtendByDays(ctx context.Context, rentalID uint64, in ExtendDaysInput) (*model.Rental, error) {
    r, err := s.reservationForUpdate(ctx, rentalID)
    if err != nil {
        return nil, err
    }

    r.Type = model.TypeDays
    if in.DepartureDate == "" {
        ve := booking.NewValidationError()
        ve.Add("departure_date", "the departure date is required")
        return nil, ve
    }
    d, err := time.Parse(booking.DateLayout, in.DepartureDate)
    if err != nil {
        ve := booking.NewValidationError()
        ve.Add("departure_date", "the departure date is invalid")
        return nil, ve
    }
    dep := booking.Midnight(d)
    r.DepartureDate = &dep
    noon := booking.Noon
    r.DepartureTime = &noon

    setting, err := s.settings.Get(ctx)
    if err != nil {
        return nil, err
    }
    return s.reschedule(ctx, r, setting, in.RoomIDs)
}

// reschedule validates the mutated reservation, re-checks availability
// excluding the reservation itself, and syncs the room set inside one
// transaction: rooms no longer requested are detached, new ones are
// attached, and kept rooms retain the price increment captured when
// they were first assigned.
func (s *RentalService) reschedule(ctx context.Context, r *model.Rental, setting model.Setting, roomIDs []uint64) (*model.Rental, error) {
    today := booking.Midnight(s.clock.Now())

    current, err := s.assignments.OpenRoomIDsByRental(ctx, r.ID)
    if err != nil {
        return nil, err
    }
    if len(roomIDs) == 0 {
        roomIDs = current
    }
    if err := booking.ValidateRental(r, roomIDs, today); err != nil {
        return nil, err
    }
    roomList, err := s.requireRooms(ctx, roomIDs)
    if err != nil {
        return nil, err
    }

    tx, err := s.rentals.DB().BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    defer func() { _ = tx.Rollback() }()

    if err := s.rooms.LockTx(ctx, tx, roomIDs); err != nil {
        return nil, err
    }
    occupancies, err := s.assignments.OccupanciesForRoomsTx(ctx, tx, roomIDs)
    if err != nil {
        return nil, err
    }
    if err := booking.CheckAvailability(roomIDs, booking.Window(r), occupancies, r.ID); err != nil {
        return nil, err
    }

    if err := s.rentals.UpdateWindowTx(ctx, tx, r); err != nil {
        return nil, err
    }
    requested := make(map[uint64]bool, len(roomIDs))
    for _, id := range roomIDs {
        requested[id] = true
    }
    kept := make(map[uint64]bool, len(current))
    removed := make([]uint64, 0, len(current))
    for _, id := range current {
        if requested[id] {
            kept[id] = true
        } else {
            removed = append(removed, id)
        }
    }
    added := make([]model.Room, 0, len(roomList))
    for _, rm := range roomList {
        if !kept[rm.ID] {
            added = append(added, rm)
        }
    }
    if err := s.assignments.DetachTx(ctx, tx, r.ID, removed); err != nil {
        return nil, err
    }
    if err := s.assignments.AttachTx(ctx, tx, s.buildAssignments(r, added)); err != nil {
        return nil, err
    }

    if err := s.settleAmountsTx(ctx, tx, r, setting); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }

    s.publish(ctx, r, roomIDs)
    return r, nil
}

// ConfirmReservation turns a reservation into an active stay: the
// rooms become occupied, the assignments get their actual check-in
// stamped, the payment state is reconciled, and billing is recomputed
// from the real occupancy start.
//
// Evaluating the checkout gate has a persisted side effect: a rental
// found past its end is marked checked out even though the confirmation
// itself is rejected.  The flag is monotonic.
func (s *RentalService) ConfirmReservation(ctx context.Context, rentalID uint64) (*model.Rental, error) {
    r, err := s.rentals.GetByID(ctx, rentalID)
    if err != nil {
        return nil, err
    }
    now := s.clock.Now()
    today := booking.Midnight(now)

    if !r.Checkout && booking.EvaluateCheckout(r, now) {
        if err := s.rentals.MarkCheckout(ctx, r.ID); err != nil {
            return nil, err
        }
        r.Checkout = true
    }
    if err := booking.CanConfirm(r, now); err != nil {
        return nil, err
    }

    setting, err := s.settings.Get(ctx)
    if err != nil {
        return nil, err
    }

    tx, err := s.rentals.DB().BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    defer func() { _ = tx.Rollback() }()

    var checkTimeIn *string
    if r.Type == model.TypeHours {
        v := r.ArrivalTime
        checkTimeIn = &v
    }
    if err := s.assignments.OpenCheckInTx(ctx, tx, r.ID, today, checkTimeIn); err != nil {
        return nil, err
    }
    open, err := s.assignments.OpenByRentalTx(ctx, tx, r.ID)
    if err != nil {
        return nil, err
    }
    roomIDs := make([]uint64, 0, len(open))
    for _, a := range open {
        roomIDs = append(roomIDs, a.RoomID)
    }
    if err := s.rooms.UpdateStatesTx(ctx, tx, roomIDs, model.RoomOcupada); err != nil {
        return nil, err
    }

    // the guest is here and paying: pendiente reconciles on confirmation
    r.Reservation = false
    r.State = model.StateConciliado
    if err := s.rentals.UpdateFlagsTx(ctx, tx, r); err != nil {
        return nil, err
    }
    if err := s.settleAmountsTx(ctx, tx, r, setting); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }

    s.publish(ctx, r, roomIDs)
    return r, nil
}

// Renew extends an active stay's departure by one to four hours.  Only
// the incremental window between the old and the new departure is
// re-checked for availability, and the charge is additive on top of the
// amount already owed.
func (s *RentalService) Renew(ctx context.Context, rentalID uint64, extraHour string) (*model.Rental, error) {
    if err := booking.ValidateExtraHour(extraHour); err != nil {
        return nil, err
    }
    r, err := s.rentals.GetByID(ctx, rentalID)
    if err != nil {
        return nil, err
    }
    if r.Checkout {
        return nil, booking.Rule("the rental has already checked out")
    }
    if r.Reservation {
        return nil, booking.Rule("a reservation must be confirmed before it can be renewed")
    }

    incremental, err := booking.ApplyExtraHour(r, extraHour)
    if err != nil {
        return nil, err
    }
    setting, err := s.settings.Get(ctx)
    if err != nil {
        return nil, err
    }
    roomIDs, err := s.assignments.OpenRoomIDsByRental(ctx, r.ID)
    if err != nil {
        return nil, err
    }

    tx, err := s.rentals.DB().BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    defer func() { _ = tx.Rollback() }()

    if err := s.rooms.LockTx(ctx, tx, roomIDs); err != nil {
        return nil, err
    }
    occupancies, err := s.assignments.OccupanciesForRoomsTx(ctx, tx, roomIDs)
    if err != nil {
        return nil, err
    }
    if err := booking.CheckAvailability(roomIDs, incremental, occupancies, r.ID); err != nil {
        return nil, err
    }

    if err := s.rentals.UpdateWindowTx(ctx, tx, r); err != nil {
        return nil, err
    }
    if err := s.settleAmountsTx(ctx, tx, r, setting); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }

    s.publish(ctx, r, roomIDs)
    return r, nil
}

// CheckoutRoom ends one room's occupancy.  The room usually moves to
// maintenance; a same-day close with no recorded check-in time is a
// no-op assignment and frees the room immediately.  When the last open
// assignment closes the whole rental checks out: the checkout date is
// stamped, billing settles on actual occupancy and a receipt is cut.
func (s *RentalService) CheckoutRoom(ctx context.Context, rentalID, roomID uint64) (*model.Rental, error) {
    r, err := s.rentals.GetByID(ctx, rentalID)
    if err != nil {
        return nil, err
    }
    if r.Checkout {
        return nil, booking.Rule("the rental has already checked out")
    }
    if r.Reservation {
        return nil, booking.Rule("a reservation must be confirmed before checkout")
    }

    now := s.clock.Now()
    today := booking.Midnight(now)
    setting, err := s.settings.Get(ctx)
    if err != nil {
        return nil, err
    }

    tx, err := s.rentals.DB().BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    defer func() { _ = tx.Rollback() }()

    open, err := s.assignments.OpenByRentalTx(ctx, tx, r.ID)
    if err != nil {
        return nil, err
    }
    found := false
    for _, a := range open {
        if a.RoomID == roomID {
            found = true
            break
        }
    }
    if !found {
        return nil, booking.Rule("the room is not occupied by this rental")
    }

    var checkTimeOut *string
    if r.Type == model.TypeHours {
        clockNow := booking.FormatClock(now.Sub(today))
        checkTimeOut = &clockNow
    }
    if err := s.assignments.CloseRoomTx(ctx, tx, r.ID, roomID, today, checkTimeOut); err != nil {
        return nil, err
    }

    released, err := s.assignments.DetachSameDayNoOpTx(ctx, tx, r.ID)
    if err != nil {
        return nil, err
    }
    if err := s.rooms.UpdateStatesTx(ctx, tx, released, model.RoomDisponible); err != nil {
        return nil, err
    }
    wasReleased := false
    for _, id := range released {
        if id == roomID {
            wasReleased = true
            break
        }
    }
    if !wasReleased {
        if err := s.rooms.UpdateStateTx(ctx, tx, roomID, model.RoomMantenimiento); err != nil {
            return nil, err
        }
    }

    remaining, err := s.assignments.OpenByRentalTx(ctx, tx, r.ID)
    if err != nil {
        return nil, err
    }
    fullCheckout := len(remaining) == 0
    if fullCheckout {
        r.Checkout = true
        r.CheckoutDate = &today
        if err := s.rentals.UpdateFlagsTx(ctx, tx, r); err != nil {
            return nil, err
        }
        if err := s.assignments.SyncCheckoutDateTx(ctx, tx, r.ID, today); err != nil {
            return nil, err
        }
    }

    if err := s.settleAmountsTx(ctx, tx, r, setting); err != nil {
        return nil, err
    }
    if fullCheckout {
        rec := &model.Record{
            RentalID:     r.ID,
            Amount:       r.Amount,
            AmountImpost: r.AmountImpost,
            AmountTotal:  r.AmountTotal,
        }
        if err := s.records.CreateTx(ctx, tx, rec); err != nil {
            return nil, err
        }
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }

    if fullCheckout {
        s.publish(ctx, r, []uint64{roomID})
    }
    return r, nil
}

// DeleteRental cancels a booking.  An active stay's still-open rooms go
// straight back to available; the rental and its assignments are
// removed in one transaction.
func (s *RentalService) DeleteRental(ctx context.Context, rentalID uint64) error {
    r, err := s.rentals.GetByID(ctx, rentalID)
    if err != nil {
        return err
    }

    tx, err := s.rentals.DB().BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() { _ = tx.Rollback() }()

    if !r.Reservation {
        open, err := s.assignments.OpenByRentalTx(ctx, tx, r.ID)
        if err != nil {
            return err
        }
        ids := make([]uint64, 0, len(open))
        for _, a := range open {
            ids = append(ids, a.RoomID)
        }
        if err := s.rooms.UpdateStatesTx(ctx, tx, ids, model.RoomDisponible); err != nil {
            return err
        }
    }
    if err := s.assignments.DetachAllTx(ctx, tx, r.ID); err != nil {
        return err
    }
    if err := s.rentals.DeleteTx(ctx, tx, r.ID); err != nil {
        return err
    }
    return tx.Commit()
}

// GetRental loads one rental with its client and assignments.
func (s *RentalService) GetRental(ctx context.Context, rentalID uint64) (*RentalDetail, error) {
    r, err := s.rentals.GetByID(ctx, rentalID)
    if err != nil {
        return nil, err
    }
    client, err := s.clients.GetByID(ctx, r.ClientID)
    if err != nil {
        return nil, err
    }
    assigns, err := s.assignments.ListByRental(ctx, r.ID)
    if err != nil {
        return nil, err
    }
    return &RentalDetail{
        Rental:      *r,
        Client:      client,
        Assignments: assigns,
        Timeout:     booking.EvaluateTimeout(r, s.clock.Now()),
    }, nil
}

// ListRentals returns rentals whose arrival falls inside [from, to].
func (s *RentalService) ListRentals(ctx context.Context, from, to string) ([]model.Rental, error) {
    f, t, err := parseRange(from, to)
    if err != nil {
        return nil, err
    }
    return s.rentals.ListBetween(ctx, f, t)
}

// ListReservations returns reservations whose arrival falls inside
// [from, to].
func (s *RentalService) ListReservations(ctx context.Context, from, to string) ([]model.Rental, error) {
    f, t, err := parseRange(from, to)
    if err != nil {
        return nil, err
    }
    return s.rentals.ListReservationsBetween(ctx, f, t)
}

// AvailableRoomsByDate returns rooms free for every instant of the
// whole-day window [from, to).  Rooms under maintenance are never
// offered; excludeRentalID lets a reservation being rescheduled keep
// seeing its own rooms as free.
func (s *RentalService) AvailableRoomsByDate(ctx context.Context, from, to string, excludeRentalID uint64) ([]model.Room, error) {
    ve := booking.NewValidationError()
    f := parseDateField(ve, "arrival_date", from)
    t := parseDateField(ve, "departure_date", to)
    if err := ve.Err(); err != nil {
        return nil, err
    }
    if !t.After(f) {
        ve.Add("departure_date", "the departure date must be after the arrival date")
        return nil, ve
    }
    end := t
    return s.freeRooms(ctx, booking.Span{Start: f, End: &end}, excludeRentalID)
}

// AvailableRoomsByHour returns rooms free for an hour window on one
// date.  A departure clock earlier than the arrival clock means the
// window runs overnight into the next day.
func (s *RentalService) AvailableRoomsByHour(ctx context.Context, date, arrivalTime, departureTime string, excludeRentalID uint64) ([]model.Room, error) {
    ve := booking.NewValidationError()
    d := parseDateField(ve, "arrival_date", date)
    if arrivalTime == "" || !booking.ValidClock(arrivalTime) {
        ve.Add("arrival_time", "the arrival time is invalid")
    }
    if departureTime == "" || !booking.ValidClock(departureTime) {
        ve.Add("departure_time", "the departure time is invalid")
    }
    if err := ve.Err(); err != nil {
        return nil, err
    }

    start := booking.At(d, arrivalTime)
    endDate := d
    if departureTime < arrivalTime {
        endDate = endDate.AddDate(0, 0, 1)
    }
    end := booking.At(endDate, departureTime)
    return s.freeRooms(ctx, booking.Span{Start: start, End: &end}, excludeRentalID)
}

// freeRooms filters the whole room inventory down to those with no
// occupancy overlapping the window.
func (s *RentalService) freeRooms(ctx context.Context, window booking.Span, excludeRentalID uint64) ([]model.Room, error) {
    all, err := s.rooms.List(ctx)
    if err != nil {
        return nil, err
    }
    ids := make([]uint64, 0, len(all))
    for _, rm := range all {
        ids = append(ids, rm.ID)
    }

    tx, err := s.rentals.DB().BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
    if err != nil {
        return nil, err
    }
    defer func() { _ = tx.Rollback() }()
    occupancies, err := s.assignments.OccupanciesForRoomsTx(ctx, tx, ids)
    if err != nil {
        return nil, err
    }

    free := make([]model.Room, 0, len(all))
    for _, rm := range all {
        if rm.State == model.RoomMantenimiento {
            continue
        }
        if booking.CheckAvailability([]uint64{rm.ID}, window, occupancies, excludeRentalID) == nil {
            free = append(free, rm)
        }
    }
    return free, nil
}

// ExpireReservations sweeps open reservations whose window has passed.
// Reconciled ones are promoted straight to checked-out so the revenue
// is kept; pending ones were no-shows and are deleted.  Each
// reservation is handled in its own transaction so one failure never
// blocks the rest of the sweep.
func (s *RentalService) ExpireReservations(ctx context.Context) {
    now := s.clock.Now()
    open, err := s.rentals.ListOpenReservations(ctx)
    if err != nil {
        log.Printf("expire sweep: list reservations: %v", err)
        return
    }
    for i := range open {
        r := &open[i]
        switch booking.EvaluateExpiry(r, now) {
        case booking.ExpiryPromote:
            if err := s.promoteExpired(ctx, r); err != nil {
                log.Printf("expire sweep: promote rental %d: %v", r.ID, err)
            }
        case booking.ExpiryDelete:
            if err := s.deleteExpired(ctx, r.ID); err != nil {
                log.Printf("expire sweep: delete rental %d: %v", r.ID, err)
            }
        }
    }
}

func (s *RentalService) promoteExpired(ctx context.Context, r *model.Rental) error {
    tx, err := s.rentals.DB().BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() { _ = tx.Rollback() }()

    r.Reservation = false
    r.Checkout = true
    end := booking.Midnight(r.ArrivalDate)
    if r.DepartureDate != nil {
        end = booking.Midnight(*r.DepartureDate)
    }
    r.CheckoutDate = &end
    if err := s.rentals.UpdateFlagsTx(ctx, tx, r); err != nil {
        return err
    }
    return tx.Commit()
}

func (s *RentalService) deleteExpired(ctx context.Context, rentalID uint64) error {
    tx, err := s.rentals.DB().BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() { _ = tx.Rollback() }()
    if err := s.assignments.DetachAllTx(ctx, tx, rentalID); err != nil {
        return err
    }
    if err := s.rentals.DeleteTx(ctx, tx, rentalID); err != nil {
        return err
    }
    return tx.Commit()
}

// MarkCheckouts sweeps active rentals and flips the checkout flag on
// those whose effective end has passed.  The flag is monotonic; room
// release is the maintenance sweep's job.
func (s *RentalService) MarkCheckouts(ctx context.Context) {
    now := s.clock.Now()
    active, err := s.rentals.ListActive(ctx)
    if err != nil {
        log.Printf("checkout sweep: list active: %v", err)
        return
    }
    for i := range active {
        r := &active[i]
        if !booking.EvaluateCheckout(r, now) {
            continue
        }
        if err := s.rentals.MarkCheckout(ctx, r.ID); err != nil {
            log.Printf("checkout sweep: mark rental %d: %v", r.ID, err)
        }
    }
}

// ReleaseRooms sweeps rooms still marked occupied whose assignment has
// already closed, moving them to maintenance for housekeeping.
func (s *RentalService) ReleaseRooms(ctx context.Context) {
    today := booking.Midnight(s.clock.Now()).Format(booking.DateLayout)
    ids, err := s.rooms.OccupiedRoomsPastCheckout(ctx, today)
    if err != nil {
        log.Printf("room sweep: list occupied: %v", err)
        return
    }
    if len(ids) == 0 {
        return
    }
    tx, err := s.rentals.DB().BeginTx(ctx, nil)
    if err != nil {
        log.Printf("room sweep: begin: %v", err)
        return
    }
    defer func() { _ = tx.Rollback() }()
    if err := s.rooms.UpdateStatesTx(ctx, tx, ids, model.RoomMantenimiento); err != nil {
        log.Printf("room sweep: update states: %v", err)
        return
    }
    if err := tx.Commit(); err != nil {
        log.Printf("room sweep: commit: %v", err)
    }
}

// resolveClient finds the booking's client by primary key or, for
// walk-ins, by the identity card reception typed in.
func (s *RentalService) resolveClient(ctx context.Context, id uint64, identityCard string) (*model.Client, error) {
    if id != 0 {
        return s.clients.GetByID(ctx, id)
    }
    if identityCard != "" {
        return s.clients.GetByIdentityCard(ctx, identityCard)
    }
    ve := booking.NewValidationError()
    ve.Add("client_id", "a client is required")
    return nil, ve
}

// buildRental maps the request onto a model, defaulting walk-in arrival
// to right now and the payment state to reconciled for direct stays.
func (s *RentalService) buildRental(in CreateRentalInput, clientID uint64, now time.Time) (*model.Rental, error) {
    ve := booking.NewValidationError()
    today := booking.Midnight(now)

    r := &model.Rental{
        ClientID:    clientID,
        MoveID:      in.MoveID,
        Type:        in.Type,
        Reservation: in.Reservation,
        State:       in.State,
        Discount:    in.Discount,
    }
    if r.State == "" && !r.Reservation {
        r.State = model.StateConciliado
    }
    if r.Discount.IsNegative() {
        ve.Add("discount", "the discount cannot be negative")
    }

    switch {
    case in.ArrivalDate != "":
        r.ArrivalDate = parseDateField(ve, "arrival_date", in.ArrivalDate)
    case !in.Reservation:
        r.ArrivalDate = today
    }
    switch {
    case in.ArrivalTime != "":
        r.ArrivalTime = in.ArrivalTime
    case !in.Reservation:
        r.ArrivalTime = booking.FormatClock(now.Sub(today))
    }
    if in.DepartureDate != "" {
        d := parseDateField(ve, "departure_date", in.DepartureDate)
        r.DepartureDate = &d
    }
    if in.DepartureTime != "" {
        v := in.DepartureTime
        r.DepartureTime = &v
    }
    return r, ve.Err()
}

// buildAssignments creates the pivot rows for a rental.  A stay that
// begins immediately gets its check-in stamped; reservations stay
// unstamped until confirmation.
func (s *RentalService) buildAssignments(r *model.Rental, rooms []model.Room) []model.RoomAssignment {
    out := make([]model.RoomAssignment, 0, len(rooms))
    for _, rm := range rooms {
        a := model.RoomAssignment{
            RentalID:  r.ID,
            RoomID:    rm.ID,
            PriceBase: rm.Increment,
        }
        if !r.Reservation {
            checkIn := booking.Midnight(r.ArrivalDate)
            a.CheckIn = &checkIn
            if r.Type == model.TypeHours {
                v := r.ArrivalTime
                a.CheckTimeIn = &v
            }
        }
        out = append(out, a)
    }
    return out
}

// requireRooms loads the requested rooms, rejecting duplicates and
// unknown IDs before any write happens.
func (s *RentalService) requireRooms(ctx context.Context, ids []uint64) ([]model.Room, error) {
    seen := make(map[uint64]bool, len(ids))
    for _, id := range ids {
        if seen[id] {
            ve := booking.NewValidationError()
            ve.Add("room_ids", "a room was requested more than once")
            return nil, ve
        }
        seen[id] = true
    }
    rooms, err := s.rooms.ListByIDs(ctx, ids)
    if err != nil {
        return nil, err
    }
    if len(rooms) != len(ids) {
        ve := booking.NewValidationError()
        ve.Add("room_ids", "a requested room does not exist")
        return nil, ve
    }
    return rooms, nil
}

// reservationForUpdate loads a rental and checks it is still an
// unconfirmed reservation, the only state that may be rescheduled.
func (s *RentalService) reservationForUpdate(ctx context.Context, rentalID uint64) (*model.Rental, error) {
    r, err := s.rentals.GetByID(ctx, rentalID)
    if err != nil {
        return nil, err
    }
    if r.Checkout {
        return nil, booking.Rule("the rental has already checked out")
    }
    if !r.Reservation {
        return nil, booking.Rule("only unconfirmed reservations can be rescheduled")
    }
    return r, nil
}

// settleAmountsTx recomputes the rental's billing from the assignment
// rows this transaction can see and writes the derived fields back.
func (s *RentalService) settleAmountsTx(ctx context.Context, tx *sql.Tx, r *model.Rental, setting model.Setting) error {
    assigns, err := s.assignments.ListByRentalTx(ctx, tx, r.ID)
    if err != nil {
        return err
    }
    calc := booking.Calculator{Setting: setting}
    amounts := calc.Calculate(r, assigns)
    if err := s.rentals.UpdateAmountsTx(ctx, tx, r.ID, amounts.Amount, amounts.Impost, amounts.Total); err != nil {
        return err
    }
    r.Amount = amounts.Amount
    r.AmountImpost = amounts.Impost
    r.AmountTotal = amounts.Total
    return nil
}

// publish emits the rental-assigned event after a committed change.
// Failures are logged and swallowed; the billing is already durable.
func (s *RentalService) publish(ctx context.Context, r *model.Rental, roomIDs []uint64) {
    if s.publisher == nil {
        return
    }
    ev := q.RentalAssignedEvent{
        RentalID:     r.ID,
        ClientID:     r.ClientID,
        Type:         r.Type,
        Reservation:  r.Reservation,
        Checkout:     r.Checkout,
        RoomIDs:      roomIDs,
        Amount:       r.Amount.String(),
        AmountImpost: r.AmountImpost.String(),
        AmountTotal:  r.AmountTotal.String(),
        OccurredAt:   s.clock.Now().Format(time.RFC3339),
    }
    if err := s.publisher.PublishRentalAssigned(ctx, ev); err != nil {
        log.Printf("publish rental %d: %v", r.ID, err)
    }
}

// parseDateField parses a "2006-01-02" value, recording a field error
// on failure and returning the UTC midnight on success.
func parseDateField(ve *booking.ValidationError, field, value string) time.Time {
    if value == "" {
        ve.Add(field, "the "+label(field)+" is required")
        return time.Time{}
    }
    d, err := time.Parse(booking.DateLayout, value)
    if err != nil {
        ve.Add(field, "the "+label(field)+" is invalid")
        return time.Time{}
    }
    return booking.Midnight(d)
}

func label(field string) string {
    switch field {
    case "arrival_date":
        return "arrival date"
    case "departure_date":
        return "departure date"
    default:
        return field
    }
}

// parseRange parses a [from, to] date pair for list endpoints.
func parseRange(from, to string) (time.Time, time.Time, error) {
    ve := booking.NewValidationError()
    f := parseDateField(ve, "arrival_date", from)
    t := parseDateField(ve, "departure_date", to)
    if err := ve.Err(); err != nil {
        return time.Time{}, time.Time{}, err
    }
    return f, t, nil
}
