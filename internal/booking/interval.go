package booking

import (
    "fmt"
    "strconv"
    "strings"
    "time"
)

// Wire layouts for DATE and TIME columns.
const (
    DateLayout  = "2006-01-02"
    ClockLayout = "15:04:05"
)

// Noon is the departure time forced onto reservations that are
// switched to day billing.
const Noon = "12:00:00"

// Span is a half-open time interval [Start, End).  A nil End means the
// occupancy is still open and extends to +infinity.  Half-open
// semantics let a departure and an arrival share the exact same
// boundary instant without conflicting, which is what allows
// back-to-back room turnover.
type Span struct {
    Start time.Time
    End   *time.Time
}

// endsAfter reports whether the span is still running at instant t.
func (s Span) endsAfter(t time.Time) bool {
    return s.End == nil || s.End.After(t)
}

// Overlaps reports whether two half-open spans share any instant.
// For bounded spans this is the classic a.Start < b.End && b.Start < a.End.
func Overlaps(a, b Span) bool {
    return a.endsAfter(b.Start) && b.endsAfter(a.Start)
}

// ParseClock converts an "HH:MM:SS" time of day into an offset from
// midnight.  It rejects malformed strings and out-of-range components.
func ParseClock(s string) (time.Duration, error) {
    parts := strings.Split(s, ":")
    if len(parts) != 3 {
        return 0, fmt.Errorf("invalid time of day %q", s)
    }
    hh, err1 := strconv.Atoi(parts[0])
    mm, err2 := strconv.Atoi(parts[1])
    ss, err3 := strconv.Atoi(parts[2])
    if err1 != nil || err2 != nil || err3 != nil ||
        hh < 0 || hh > 23 || mm < 0 || mm > 59 || ss < 0 || ss > 59 {
        return 0, fmt.Errorf("invalid time of day %q", s)
    }
    return time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute + time.Duration(ss)*time.Second, nil
}

// FormatClock renders an offset from midnight as "HH:MM:SS".  The
// offset must already be inside one day.
func FormatClock(d time.Duration) string {
    hh := int(d / time.Hour)
    mm := int(d/time.Minute) % 60
    ss := int(d/time.Second) % 60
    return fmt.Sprintf("%02d:%02d:%02d", hh, mm, ss)
}

// ValidClock reports whether s is a well-formed "HH:MM:SS" string.
func ValidClock(s string) bool {
    _, err := ParseClock(s)
    return err == nil
}

// At combines a DATE value with an "HH:MM:SS" time of day into an
// absolute UTC instant.  Callers validate the clock string first; on a
// malformed clock the date's midnight is returned.
func At(date time.Time, clock string) time.Time {
    d, err := ParseClock(clock)
    if err != nil {
        return Midnight(date)
    }
    return Midnight(date).Add(d)
}

// AddClock adds a duration-like "HH:MM:SS" value to a time of day and
// returns the resulting clock plus whether the sum rolled past
// midnight into the next day.
func AddClock(clock, extra string) (string, bool, error) {
    a, err := ParseClock(clock)
    if err != nil {
        return "", false, err
    }
    b, err := ParseClock(extra)
    if err != nil {
        return "", false, err
    }
    sum := a + b
    wrapped := sum >= 24*time.Hour
    if wrapped {
        sum -= 24 * time.Hour
    }
    return FormatClock(sum), wrapped, nil
}

// ClockHours returns the whole-hours component of an "HH:MM:SS"
// duration.  Extra-hour renewals are billed on this component only.
func ClockHours(s string) int64 {
    d, err := ParseClock(s)
    if err != nil {
        return 0
    }
    return int64(d / time.Hour)
}

// WholeDays returns the number of complete days between two dates,
// regardless of order.
func WholeDays(from, to time.Time) int64 {
    d := to.Sub(from)
    if d < 0 {
        d = -d
    }
    return int64(d / (24 * time.Hour))
}
