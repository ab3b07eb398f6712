package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/theatre-reservation/internal/booking"
	"github.com/iliyamo/theatre-reservation/internal/model"
)

// ErrReservationNotFound is returned when a reservation lookup fails.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo persists reservations and their tickets. It implements
// booking.ReservationStore: the reservation row and every ticket row are
// committed in one transaction, with the uq_ticket_seat unique index
// checked atomically by each ticket insert.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// CreateWithTickets inserts the reservation and all tickets as a single
// all-or-nothing unit. On success the generated IDs, commit timestamp and
// ticket list are populated on res. A duplicate-key violation on any
// ticket insert aborts the whole transaction and is returned as a
// *booking.SeatTakenError naming the offending seat. Failure to begin the
// transaction is wrapped with booking.ErrStorageUnavailable since nothing
// was attempted and the caller may safely retry.
func (r *ReservationRepo) CreateWithTickets(ctx context.Context, res *model.Reservation, tickets []model.Ticket) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", booking.ErrStorageUnavailable, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx, `INSERT INTO reservations (user_id) VALUES (?)`, res.UserID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	// Insert in a fixed (performance, row, seat) order so two overlapping
	// reservations acquire the unique-index locks in the same sequence and
	// cannot deadlock each other; the loser sees 1062, never 1213.
	ordered := make([]model.Ticket, len(tickets))
	copy(ordered, tickets)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.PerformanceID != b.PerformanceID {
			return a.PerformanceID < b.PerformanceID
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Seat < b.Seat
	})

	inserted := make([]model.Ticket, 0, len(ordered))
	for _, t := range ordered {
		t.ReservationID = res.ID
		ticketResult, err := tx.ExecContext(ctx,
			`INSERT INTO tickets (row_no, seat_no, performance_id, reservation_id) VALUES (?, ?, ?, ?)`,
			t.Row, t.Seat, t.PerformanceID, t.ReservationID)
		if err != nil {
			if isDuplicate(err) {
				return &booking.SeatTakenError{PerformanceID: t.PerformanceID, Row: t.Row, Seat: t.Seat}
			}
			return err
		}
		tid, err := ticketResult.LastInsertId()
		if err != nil {
			return err
		}
		t.ID = uint64(tid)
		inserted = append(inserted, t)
	}

	// Read back the commit timestamp set by the database default.
	if err := tx.QueryRowContext(ctx,
		`SELECT created_at FROM reservations WHERE id = ?`, res.ID).Scan(&res.CreatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	res.Tickets = inserted
	return nil
}

// TicketDetail is one booked seat enriched with performance context for
// display in reservation listings.
type TicketDetail struct {
	ID            uint64    `json:"id"`
	Row           int       `json:"row"`
	Seat          int       `json:"seat"`
	PerformanceID uint64    `json:"performance_id"`
	PlayTitle     string    `json:"play_title"`
	HallName      string    `json:"theatre_hall_name"`
	ShowTime      time.Time `json:"show_time"`
}

// ReservationDetail is a reservation with its tickets, as returned to the
// owning user.
type ReservationDetail struct {
	ID        uint64         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Tickets   []TicketDetail `json:"tickets"`
}

// ListByUser returns the user's reservations, newest first, with nested
// ticket, play and hall details. Pagination is LIMIT/OFFSET based; total
// counts all reservations of the user. When none exist an empty slice is
// returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]ReservationDetail, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM reservations WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	details := make([]ReservationDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(&d.ID, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		d.Tickets = []TicketDetail{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(details) == 0 {
		return details, total, nil
	}

	// Load tickets for the whole page in one query.
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	ticketQuery := `SELECT t.reservation_id, t.id, t.row_no, t.seat_no, t.performance_id, pl.title, h.name, pf.show_time
	                FROM tickets t
	                JOIN performances pf ON pf.id = t.performance_id
	                JOIN plays pl ON pl.id = pf.play_id
	                JOIN theatre_halls h ON h.id = pf.theatre_hall_id
	                WHERE t.reservation_id IN (` + strings.Join(placeholders, ",") + `)
	                ORDER BY t.reservation_id, t.row_no, t.seat_no`
	trows, err := r.db.QueryContext(ctx, ticketQuery, ids...)
	if err != nil {
		return nil, 0, err
	}
	defer trows.Close()
	for trows.Next() {
		var rid uint64
		var td TicketDetail
		if err := trows.Scan(&rid, &td.ID, &td.Row, &td.Seat, &td.PerformanceID, &td.PlayTitle, &td.HallName, &td.ShowTime); err != nil {
			return nil, 0, err
		}
		idx, ok := index[rid]
		if !ok {
			continue
		}
		details[idx].Tickets = append(details[idx].Tickets, td)
	}
	if err := trows.Err(); err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// GetByIDForUser returns a single reservation with ticket details,
// restricted to the owning user. It returns ErrReservationNotFound when no
// reservation with the ID exists for that user.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, reservationID, userID uint64) (*ReservationDetail, error) {
	var d ReservationDetail
	err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM reservations WHERE id = ? AND user_id = ?`,
		reservationID, userID).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	d.Tickets = []TicketDetail{}
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.row_no, t.seat_no, t.performance_id, pl.title, h.name, pf.show_time
		 FROM tickets t
		 JOIN performances pf ON pf.id = t.performance_id
		 JOIN plays pl ON pl.id = pf.play_id
		 JOIN theatre_halls h ON h.id = pf.theatre_hall_id
		 WHERE t.reservation_id = ?
		 ORDER BY t.row_no, t.seat_no`, d.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var td TicketDetail
		if err := rows.Scan(&td.ID, &td.Row, &td.Seat, &td.PerformanceID, &td.PlayTitle, &td.HallName, &td.ShowTime); err != nil {
			return nil, err
		}
		d.Tickets = append(d.Tickets, td)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteByIDForUser cancels a reservation owned by the user. The FK
// cascade removes its tickets, which frees the seats for rebooking. It
// returns ErrReservationNotFound when the reservation does not exist and
// ErrForbidden when it belongs to a different user.
func (r *ReservationRepo) DeleteByIDForUser(ctx context.Context, reservationID, userID uint64) error {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM reservations WHERE id = ?`, reservationID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReservationNotFound
		}
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, reservationID)
	return err
}
