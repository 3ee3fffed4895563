// Package scheduler runs the periodic booking sweeps: expiring stale
// reservations, flipping overdue rentals to checked out, and moving
// vacated rooms into maintenance.
package scheduler

import (
    "context"
    "log"
    "time"

    "github.com/robfig/cron/v3"

    "github.com/hostaluna/room-rental/internal/service"
)

// Sweep schedules.  The expiry and checkout sweeps compare DATE columns
// against today, so running them shortly after midnight UTC is enough;
// the room sweep runs more often to keep housekeeping's queue fresh.
const (
    expireSpec   = "0 5 0 * * *"    // 00:05:00 UTC daily
    checkoutSpec = "0 10 0 * * *"   // 00:10:00 UTC daily
    roomSpec     = "0 */15 * * * *" // every 15 minutes
)

// Scheduler manages the cron jobs around a RentalService.
type Scheduler struct {
    cron    *cron.Cron
    rentals *service.RentalService
}

// New creates a scheduler with the sweeps registered.  All schedules
// run in UTC, matching the engine's date arithmetic.
func New(rentals *service.RentalService) *Scheduler {
    c := cron.New(
        cron.WithLocation(time.UTC),
        cron.WithSeconds(),
    )
    s := &Scheduler{cron: c, rentals: rentals}
    s.registerJobs()
    return s
}

func (s *Scheduler) registerJobs() {
    if _, err := s.cron.AddFunc(expireSpec, s.expireReservations); err != nil {
        log.Printf("scheduler: register expire sweep: %v", err)
    }
    if _, err := s.cron.AddFunc(checkoutSpec, s.markCheckouts); err != nil {
        log.Printf("scheduler: register checkout sweep: %v", err)
    }
    if _, err := s.cron.AddFunc(roomSpec, s.releaseRooms); err != nil {
        log.Printf("scheduler: register room sweep: %v", err)
    }
}

func (s *Scheduler) expireReservations() {
    ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
    defer cancel()
    s.rentals.ExpireReservations(ctx)
}

func (s *Scheduler) markCheckouts() {
    ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
    defer cancel()
    s.rentals.MarkCheckouts(ctx)
}

func (s *Scheduler) releaseRooms() {
    ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
    defer cancel()
    s.rentals.ReleaseRooms(ctx)
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
    s.cron.Start()
    log.Printf("scheduler: sweeps registered and running")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
    ctx := s.cron.Stop()
    <-ctx.Done()
}
