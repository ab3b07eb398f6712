package model

import "time"

// TheatreHall describes a physical hall in which performances are staged.
// The seat grid is rectangular: Rows counts the seating rows and SeatsInRow
// counts the seats in every row. Both must be at least 1. Capacity is
// derived and never stored.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – human readable hall name.
//  Rows       – number of seating rows (>= 1).
//  SeatsInRow – number of seats per row (>= 1).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type TheatreHall struct {
	ID         uint64    `json:"id"`           // theatre_halls.id
	Name       string    `json:"name"`         // theatre_halls.name
	Rows       int       `json:"rows"`         // theatre_halls.seat_rows
	SeatsInRow int       `json:"seats_in_row"` // theatre_halls.seats_in_row
	CreatedAt  time.Time `json:"created_at"`   // theatre_halls.created_at
	UpdatedAt  time.Time `json:"updated_at"`   // theatre_halls.updated_at
}

// Capacity returns the total number of sellable seats for any performance
// held in this hall.
func (h TheatreHall) Capacity() int {
	return h.Rows * h.SeatsInRow
}
