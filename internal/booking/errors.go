package booking

import (
    "errors"
    "fmt"
    "sort"
    "strings"
)

// ErrNotFound is returned when a referenced rental, room or client does
// not exist.  Handlers translate it into a 404 response.
var ErrNotFound = errors.New("not found")

// ValidationError collects user-correctable field problems.  All fields
// are checked before any mutating write, so a request either fails with
// the full field map or succeeds atomically.
type ValidationError struct {
    Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready to collect
// field messages.
func NewValidationError() *ValidationError {
    return &ValidationError{Fields: map[string]string{}}
}

// Add records a message for a field.  The first message per field wins,
// mirroring how the HTTP layer reports one problem per input.
func (e *ValidationError) Add(field, message string) {
    if _, ok := e.Fields[field]; !ok {
        e.Fields[field] = message
    }
}

// Err returns the error itself when any field failed, or nil so callers
// can `return ve.Err()` directly.
func (e *ValidationError) Err() error {
    if len(e.Fields) == 0 {
        return nil
    }
    return e
}

func (e *ValidationError) Error() string {
    keys := make([]string, 0, len(e.Fields))
    for k := range e.Fields {
        keys = append(keys, k)
    }
    sort.Strings(keys)
    parts := make([]string, 0, len(keys))
    for _, k := range keys {
        parts = append(parts, k+": "+e.Fields[k])
    }
    return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError reports the first room whose requested window overlaps
// an existing active assignment.  Room IDs are checked in the order the
// caller supplied them, so the reported room is deterministic.
type ConflictError struct {
    RoomID   uint64
    RentalID uint64
}

func (e *ConflictError) Error() string {
    return fmt.Sprintf("room %d is already occupied by rental %d", e.RoomID, e.RentalID)
}

// BusinessRuleError signals an operation that is well-formed but not
// allowed in the rental's current state, such as confirming a
// reservation before its arrival date.
type BusinessRuleError struct {
    Msg string
}

func (e *BusinessRuleError) Error() string { return e.Msg }

// Rule builds a BusinessRuleError from a message.
func Rule(msg string) *BusinessRuleError { return &BusinessRuleError{Msg: msg} }
