package model

import "time"

// Performance is a scheduled showing of a play in a theatre hall at a
// given time. Tickets reference performances, so deleting a performance
// cascades to its tickets.
//
// Fields:
//  ID            – primary key identifier.
//  PlayID        – play being staged.
//  TheatreHallID – hall the performance takes place in.
//  ShowTime      – when the performance starts (UTC).
//  Image         – optional poster path.
type Performance struct {
	ID            uint64    `json:"id"`              // performances.id
	PlayID        uint64    `json:"play_id"`         // performances.play_id
	TheatreHallID uint64    `json:"theatre_hall_id"` // performances.theatre_hall_id
	ShowTime      time.Time `json:"show_time"`       // performances.show_time (UTC)
	Image         *string   `json:"image,omitempty"` // performances.image (nullable)
	CreatedAt     time.Time `json:"created_at"`      // performances.created_at
	UpdatedAt     time.Time `json:"updated_at"`      // performances.updated_at
}
