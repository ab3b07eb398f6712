package model

import "time"

// Reservation is a user's atomic booking. It exists only together with at
// least one ticket: the transaction that creates it inserts the reservation
// row and every ticket row, or nothing at all.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who owns the booking.
//  CreatedAt – set once by the database at commit time, immutable.
//  Tickets   – seat claims belonging to this reservation.
type Reservation struct {
	ID        uint64    `json:"id"`         // reservations.id
	UserID    uint64    `json:"user_id"`    // reservations.user_id
	CreatedAt time.Time `json:"created_at"` // reservations.created_at
	Tickets   []Ticket  `json:"tickets"`    // tickets.reservation_id = id
}
