package model

// Ticket is a single seat claim (row, seat) for one performance, owned by
// exactly one reservation. The tuple (performance, row, seat) is unique
// across the whole system; the database enforces it with the uq_ticket_seat
// index so two racing bookings can never both commit the same seat.
type Ticket struct {
	ID            uint64 `json:"id"`             // tickets.id
	Row           int    `json:"row"`            // tickets.row_no (1-based)
	Seat          int    `json:"seat"`           // tickets.seat_no (1-based)
	PerformanceID uint64 `json:"performance_id"` // tickets.performance_id
	ReservationID uint64 `json:"reservation_id"` // tickets.reservation_id
}
