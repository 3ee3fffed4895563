package model

import "time"

// Client is a guest that rentals are booked for.  Clients may be found
// either by primary key or by identity card, since reception usually
// types the card number straight from the document.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – full name of the guest.
//  IdentityCard – national identity card number (unique).
//  Phone        – optional contact phone.
type Client struct {
    ID           uint64    // clients.id
    Name         string    // clients.name
    IdentityCard string    // clients.identity_card
    Phone        *string   // clients.phone (nullable)
    CreatedAt    time.Time // clients.created_at
    UpdatedAt    time.Time // clients.updated_at
}
