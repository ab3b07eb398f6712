package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/theatre-reservation/internal/model"
)

// ErrHallNotFound is returned when a theatre hall lookup fails.
var ErrHallNotFound = errors.New("theatre hall not found")

// HallRepo provides persistence for theatre halls.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

// Create inserts a new hall and populates the generated ID and
// timestamps. Callers must have validated rows >= 1 and seats_in_row >= 1;
// the repository stores whatever grid it is given.
func (r *HallRepo) Create(ctx context.Context, h *model.TheatreHall) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO theatre_halls (name, seat_rows, seats_in_row) VALUES (?, ?, ?)`,
		h.Name, h.Rows, h.SeatsInRow)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM theatre_halls WHERE id = ?`, h.ID).
		Scan(&h.CreatedAt, &h.UpdatedAt)
}

// GetByID retrieves a hall by its ID. It returns ErrHallNotFound when no
// row exists.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.TheatreHall, error) {
	var h model.TheatreHall
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, seat_rows, seats_in_row, created_at, updated_at FROM theatre_halls WHERE id = ?`, id).
		Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsInRow, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &h, nil
}

// ListAll returns every hall ordered by name.
func (r *HallRepo) ListAll(ctx context.Context) ([]model.TheatreHall, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, seat_rows, seats_in_row, created_at, updated_at FROM theatre_halls ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	halls := make([]model.TheatreHall, 0)
	for rows.Next() {
		var h model.TheatreHall
		if err := rows.Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsInRow, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		halls = append(halls, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return halls, nil
}
