// Package queue defines the message payloads exchanged over the broker
// and the background consumer that processes them.
package queue

// TicketInfo is one booked seat inside a ReservationConfirmedEvent.
type TicketInfo struct {
	PerformanceID uint64 `json:"performance_id"`
	Row           int    `json:"row"`
	Seat          int    `json:"seat"`
}

// ReservationConfirmedEvent is published after a reservation transaction
// commits. It carries enough detail for downstream consumers to log or
// notify without touching the primary database. EventID makes redelivered
// messages detectable.
type ReservationConfirmedEvent struct {
	EventID       string       `json:"event_id"`
	ReservationID uint64       `json:"reservation_id"`
	UserID        uint64       `json:"user_id"`
	Tickets       []TicketInfo `json:"tickets"`
	ConfirmedAt   string       `json:"confirmed_at"`
}
