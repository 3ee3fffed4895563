// Package repository implements persistence for the booking engine on
// top of database/sql.  Methods ending in Tx operate inside a
// caller-owned transaction; the caller commits or rolls back.  Sentinel
// errors let handlers distinguish failure kinds without inspecting SQL
// driver errors.
package repository

import "errors"

// ErrRentalNotFound is returned when a rental ID does not exist.
var ErrRentalNotFound = errors.New("rental not found")

// ErrRoomNotFound is returned when a room ID does not exist.
var ErrRoomNotFound = errors.New("room not found")

// ErrClientNotFound is returned when a client ID or identity card does
// not match any client.
var ErrClientNotFound = errors.New("client not found")

// ErrTypeNotFound is returned when a room type ID does not exist.
var ErrTypeNotFound = errors.New("room type not found")

// ErrUserNotFound is returned when login cannot find the email.
var ErrUserNotFound = errors.New("user not found")

// ErrTypeInUse is returned when deleting a room type that rooms still
// reference.  Handlers translate it into a 409 response.
var ErrTypeInUse = errors.New("room type still has rooms assigned")
