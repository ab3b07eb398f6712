// Package booking implements the seat-reservation core: seat bounds
// validation, live availability and the atomic creation of a reservation
// with all of its tickets. It operates on plain model records through
// narrow storage interfaces so the transactional SQL implementation stays
// in the repository layer.
package booking

import (
	"errors"
	"fmt"
)

// ErrEmptyReservation is returned when a reservation is requested with no
// tickets. Nothing is written in that case.
var ErrEmptyReservation = errors.New("reservation requires at least one ticket")

// ErrStorageUnavailable signals that the reservation transaction could not
// be attempted at all (connection or begin failure). It is safe to retry.
// Repositories wrap the underlying driver error around this sentinel so
// handlers can translate it into a 503.
var ErrStorageUnavailable = errors.New("storage unavailable")

// SeatOutOfRangeError reports a row or seat coordinate outside the hall
// grid. Coordinate is "row" or "seat"; Max is the inclusive upper bound of
// the violated dimension. The lower bound is always 1.
type SeatOutOfRangeError struct {
	Coordinate string
	Value      int
	Max        int
}

func (e *SeatOutOfRangeError) Error() string {
	return fmt.Sprintf("%s %d out of range: must be within [1, %d]", e.Coordinate, e.Value, e.Max)
}

// SeatTakenError reports that the requested seat is already claimed by a
// committed ticket for the same performance, or appears twice in one
// request. The caller should pick a different seat; retrying with the same
// one will fail again.
type SeatTakenError struct {
	PerformanceID uint64
	Row           int
	Seat          int
}

func (e *SeatTakenError) Error() string {
	return fmt.Sprintf("seat already taken: performance %d, row %d, seat %d", e.PerformanceID, e.Row, e.Seat)
}
