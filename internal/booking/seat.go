package booking

import "github.com/iliyamo/theatre-reservation/internal/model"

// ValidateSeat checks that (row, seat) lies inside the hall's physical
// grid. It is pure and is called once per requested ticket before any
// write. On violation it returns a *SeatOutOfRangeError naming the
// offending coordinate and the valid bound.
func ValidateSeat(row, seat int, hall model.TheatreHall) error {
	if row < 1 || row > hall.Rows {
		return &SeatOutOfRangeError{Coordinate: "row", Value: row, Max: hall.Rows}
	}
	if seat < 1 || seat > hall.SeatsInRow {
		return &SeatOutOfRangeError{Coordinate: "seat", Value: seat, Max: hall.SeatsInRow}
	}
	return nil
}
