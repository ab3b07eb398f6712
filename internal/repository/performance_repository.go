package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/theatre-reservation/internal/model"
)

// ErrPerformanceNotFound indicates that a performance was not located.
var ErrPerformanceNotFound = errors.New("performance not found")

// PerformanceRepo manages persistence for performances (scheduled
// showings of a play in a hall). Its GetWithHall method implements
// booking.PerformanceCatalog.
type PerformanceRepo struct {
	db *sql.DB
}

// NewPerformanceRepo constructs a PerformanceRepo with the given DB handle.
func NewPerformanceRepo(db *sql.DB) *PerformanceRepo {
	return &PerformanceRepo{db: db}
}

// Create inserts a new performance. PlayID, TheatreHallID and ShowTime
// must be set; the generated ID and timestamps are populated on success.
func (r *PerformanceRepo) Create(ctx context.Context, p *model.Performance) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO performances (play_id, theatre_hall_id, show_time) VALUES (?, ?, ?)`,
		p.PlayID, p.TheatreHallID, p.ShowTime.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM performances WHERE id = ?`, p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID retrieves a performance by its ID. It returns
// ErrPerformanceNotFound when no row exists.
func (r *PerformanceRepo) GetByID(ctx context.Context, id uint64) (*model.Performance, error) {
	var p model.Performance
	var image sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, play_id, theatre_hall_id, show_time, image, created_at, updated_at FROM performances WHERE id = ?`, id).
		Scan(&p.ID, &p.PlayID, &p.TheatreHallID, &p.ShowTime, &image, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPerformanceNotFound
		}
		return nil, err
	}
	if image.Valid {
		img := image.String
		p.Image = &img
	}
	return &p, nil
}

// GetWithHall resolves a performance together with the hall it is staged
// in, in one query. The booking service uses the hall's grid bounds to
// validate requested seats and its capacity for availability.
func (r *PerformanceRepo) GetWithHall(ctx context.Context, id uint64) (*model.Performance, *model.TheatreHall, error) {
	var p model.Performance
	var h model.TheatreHall
	var image sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT p.id, p.play_id, p.theatre_hall_id, p.show_time, p.image,
		        h.id, h.name, h.seat_rows, h.seats_in_row
		 FROM performances p
		 JOIN theatre_halls h ON h.id = p.theatre_hall_id
		 WHERE p.id = ?`, id).
		Scan(&p.ID, &p.PlayID, &p.TheatreHallID, &p.ShowTime, &image,
			&h.ID, &h.Name, &h.Rows, &h.SeatsInRow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrPerformanceNotFound
		}
		return nil, nil, err
	}
	if image.Valid {
		img := image.String
		p.Image = &img
	}
	return &p, &h, nil
}

// Update rewrites the play, hall and show time of a performance. It
// returns ErrPerformanceNotFound when the performance does not exist.
// Nothing prevents moving a performance to a smaller hall after tickets
// were sold; existing tickets keep their coordinates.
// TODO: reject hall changes that would strand sold tickets outside the new grid.
func (r *PerformanceRepo) Update(ctx context.Context, p *model.Performance) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE performances SET play_id = ?, theatre_hall_id = ?, show_time = ? WHERE id = ?`,
		p.PlayID, p.TheatreHallID, p.ShowTime.UTC(), p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either missing or unchanged; distinguish by existence.
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM performances WHERE id = ?`, p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// UpdateImage stores the uploaded poster path for a performance.
func (r *PerformanceRepo) UpdateImage(ctx context.Context, id uint64, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE performances SET image = ? WHERE id = ?`, path, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a performance; the FK cascade deletes its tickets. It
// returns ErrPerformanceNotFound when no row was deleted.
func (r *PerformanceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM performances WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPerformanceNotFound
	}
	return nil
}

// PerformanceFilter defines filters and pagination for performance
// listings. PlayID limits results to one play; Date limits them to
// showings on that calendar day (UTC).
type PerformanceFilter struct {
	PlayID   *uint64
	Date     *time.Time
	Page     int
	PageSize int
}

// PerformanceRow is one row of the performance listing. TicketsAvailable
// is computed in SQL as hall capacity minus committed tickets, so every
// listing read reflects the latest bookings.
type PerformanceRow struct {
	ID               uint64    `json:"id"`
	ShowTime         time.Time `json:"show_time"`
	PlayID           uint64    `json:"play_id"`
	PlayTitle        string    `json:"play_title"`
	Image            *string   `json:"image,omitempty"`
	HallID           uint64    `json:"theatre_hall_id"`
	HallName         string    `json:"theatre_hall_name"`
	HallCapacity     int       `json:"theatre_hall_capacity"`
	TicketsAvailable int       `json:"tickets_available"`
}

// List returns performances matching the filter, soonest first, plus the
// total match count for pagination.
func (r *PerformanceRepo) List(ctx context.Context, f PerformanceFilter) ([]PerformanceRow, int64, error) {
	where := []string{}
	args := []any{}
	if f.PlayID != nil {
		where = append(where, "p.play_id = ?")
		args = append(args, *f.PlayID)
	}
	if f.Date != nil {
		where = append(where, "DATE(p.show_time) = ?")
		args = append(args, f.Date.UTC().Format("2006-01-02"))
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*) FROM performances p WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listSQL := `SELECT p.id, p.show_time, p.play_id, pl.title, p.image,
	                   h.id, h.name, h.seat_rows * h.seats_in_row,
	                   h.seat_rows * h.seats_in_row - COUNT(t.id)
	            FROM performances p
	            JOIN plays pl ON pl.id = p.play_id
	            JOIN theatre_halls h ON h.id = p.theatre_hall_id
	            LEFT JOIN tickets t ON t.performance_id = p.id
	            WHERE ` + cond + `
	            GROUP BY p.id, p.show_time, p.play_id, pl.title, p.image, h.id, h.name, h.seat_rows, h.seats_in_row
	            ORDER BY p.show_time, p.id
	            LIMIT ? OFFSET ?`
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)
	rows, err := r.db.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]PerformanceRow, 0)
	for rows.Next() {
		var row PerformanceRow
		var image sql.NullString
		if err := rows.Scan(&row.ID, &row.ShowTime, &row.PlayID, &row.PlayTitle, &image,
			&row.HallID, &row.HallName, &row.HallCapacity, &row.TicketsAvailable); err != nil {
			return nil, 0, err
		}
		if image.Valid {
			img := image.String
			row.Image = &img
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
