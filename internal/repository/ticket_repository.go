package repository

import (
	"context"
	"database/sql"
)

// TicketRepo exposes read-only queries over committed tickets. Writes go
// through ReservationRepo so that every ticket is created inside a
// reservation transaction.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// CountByPerformance returns the number of committed tickets for the
// performance. It implements booking.TicketCounter; availability is
// derived as hall capacity minus this count on every read.
func (r *TicketRepo) CountByPerformance(ctx context.Context, performanceID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE performance_id = ?`, performanceID).Scan(&n)
	return n, err
}

// TakenPlace is an occupied (row, seat) pair for a performance.
type TakenPlace struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

// ListTakenPlaces returns the occupied seats of a performance ordered by
// row then seat, for rendering the seat map in performance details.
func (r *TicketRepo) ListTakenPlaces(ctx context.Context, performanceID uint64) ([]TakenPlace, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT row_no, seat_no FROM tickets WHERE performance_id = ? ORDER BY row_no, seat_no`, performanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	places := make([]TakenPlace, 0)
	for rows.Next() {
		var p TakenPlace
		if err := rows.Scan(&p.Row, &p.Seat); err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return places, nil
}
