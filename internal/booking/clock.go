// Package booking contains the room booking and billing engine: the
// interval-overlap availability checker, the rental lifecycle rules and
// the payment calculator.  Everything in this package is pure with
// respect to storage; persistence lives in the repository layer and
// orchestration in the service layer.
package booking

import "time"

// Clock supplies the current instant.  Components never call time.Now
// directly; injecting a Clock makes date-boundary behavior (expiry,
// confirmation gates, timeouts) deterministic under test.
type Clock interface {
    Now() time.Time
}

// UTCClock is the production Clock.  All stored timestamps are UTC, so
// the engine works in UTC throughout.
type UTCClock struct{}

// Now returns the current UTC time.
func (UTCClock) Now() time.Time { return time.Now().UTC() }

// Midnight truncates an instant to the start of its UTC day, matching
// how DATE columns come back from the driver.
func Midnight(t time.Time) time.Time {
    return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
