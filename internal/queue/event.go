// Package queue defines message payloads exchanged over the message broker.
package queue

// RentalAssignedEvent is published after a rental's rooms or window
// changed and billing was recomputed.  Delivery to the broker happens
// after the transaction commits and at most once per save; the billing
// numbers themselves are already durable, so consumers only log,
// notify or feed analytics.
type RentalAssignedEvent struct {
    RentalID     uint64   `json:"rental_id"`
    ClientID     uint64   `json:"client_id"`
    Type         string   `json:"type"`
    Reservation  bool     `json:"reservation"`
    Checkout     bool     `json:"checkout"`
    RoomIDs      []uint64 `json:"room_ids"`
    Amount       string   `json:"amount"`
    AmountImpost string   `json:"amount_impost"`
    AmountTotal  string   `json:"amount_total"`
    OccurredAt   string   `json:"occurred_at"`
}
