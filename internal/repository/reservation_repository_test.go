package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-reservation/internal/booking"
	"github.com/iliyamo/theatre-reservation/internal/model"
)

const (
	insertReservationSQL = `INSERT INTO reservations (user_id) VALUES (?)`
	insertTicketSQL      = `INSERT INTO tickets (row_no, seat_no, performance_id, reservation_id) VALUES (?, ?, ?, ?)`
	selectCreatedAtSQL   = `SELECT created_at FROM reservations WHERE id = ?`
)

func newMockRepo(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReservationRepo(db), mock
}

func duplicateKeyErr() error {
	return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1-2-3' for key 'tickets.uq_ticket_seat'"}
}

// Every ticket insert runs inside the one transaction that also creates
// the reservation row, and the whole batch commits together.
func TestCreateWithTicketsCommitsReservationAndTicketsTogether(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 8, 1, 19, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertReservationSQL)).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(7, 1))
	// Tickets go in sorted (performance, row, seat) order regardless of
	// request order, so concurrent overlapping reservations take index
	// locks in the same sequence.
	mock.ExpectExec(regexp.QuoteMeta(insertTicketSQL)).
		WithArgs(1, 2, uint64(1), uint64(7)).
		WillReturnResult(sqlmock.NewResult(101, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertTicketSQL)).
		WithArgs(2, 1, uint64(1), uint64(7)).
		WillReturnResult(sqlmock.NewResult(102, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertTicketSQL)).
		WithArgs(1, 1, uint64(3), uint64(7)).
		WillReturnResult(sqlmock.NewResult(103, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectCreatedAtSQL)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()

	res := &model.Reservation{UserID: 42}
	err := repo.CreateWithTickets(context.Background(), res, []model.Ticket{
		{PerformanceID: 3, Row: 1, Seat: 1},
		{PerformanceID: 1, Row: 2, Seat: 1},
		{PerformanceID: 1, Row: 1, Seat: 2},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, uint64(7), res.ID)
	assert.Equal(t, now, res.CreatedAt)
	require.Len(t, res.Tickets, 3)
	for _, tk := range res.Tickets {
		assert.Equal(t, uint64(7), tk.ReservationID)
		assert.NotZero(t, tk.ID)
	}
}

// A duplicate-key violation on any ticket insert surfaces as a
// *booking.SeatTakenError naming the seat, and the transaction rolls back
// so neither the reservation row nor earlier tickets survive.
func TestCreateWithTicketsTranslatesDuplicateKeyAndRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertReservationSQL)).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertTicketSQL)).
		WithArgs(1, 1, uint64(1), uint64(7)).
		WillReturnResult(sqlmock.NewResult(101, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertTicketSQL)).
		WithArgs(2, 3, uint64(1), uint64(7)).
		WillReturnError(duplicateKeyErr())
	mock.ExpectRollback()

	res := &model.Reservation{UserID: 42}
	err := repo.CreateWithTickets(context.Background(), res, []model.Ticket{
		{PerformanceID: 1, Row: 1, Seat: 1},
		{PerformanceID: 1, Row: 2, Seat: 3},
	})

	var taken *booking.SeatTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, uint64(1), taken.PerformanceID)
	assert.Equal(t, 2, taken.Row)
	assert.Equal(t, 3, taken.Seat)
	// rollback must have run; no commit, no created_at read
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, res.Tickets)
}

// Two writers for one seat: the first transaction commits, the second
// hits the unique index and is rolled back with the seat named.
func TestCreateWithTicketsSecondWriterLosesSeatRace(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 8, 1, 19, 30, 0, 0, time.UTC)

	// winner
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertReservationSQL)).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertTicketSQL)).
		WithArgs(2, 3, uint64(1), uint64(10)).
		WillReturnResult(sqlmock.NewResult(201, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectCreatedAtSQL)).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()

	// loser: same seat, insert trips the index
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertReservationSQL)).
		WithArgs(uint64(2)).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertTicketSQL)).
		WithArgs(2, 3, uint64(1), uint64(11)).
		WillReturnError(duplicateKeyErr())
	mock.ExpectRollback()

	seat := []model.Ticket{{PerformanceID: 1, Row: 2, Seat: 3}}

	winner := &model.Reservation{UserID: 1}
	require.NoError(t, repo.CreateWithTickets(context.Background(), winner, seat))
	require.Len(t, winner.Tickets, 1)

	loser := &model.Reservation{UserID: 2}
	err := repo.CreateWithTickets(context.Background(), loser, seat)
	var taken *booking.SeatTakenError
	require.ErrorAs(t, err, &taken)

	require.NoError(t, mock.ExpectationsWereMet())
}

// Failure to even begin the transaction is wrapped with the retryable
// storage sentinel.
func TestCreateWithTicketsBeginFailureIsStorageUnavailable(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin().WillReturnError(errors.New("dial tcp: connection refused"))

	err := repo.CreateWithTickets(context.Background(), &model.Reservation{UserID: 1},
		[]model.Ticket{{PerformanceID: 1, Row: 1, Seat: 1}})
	assert.ErrorIs(t, err, booking.ErrStorageUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, isDuplicate(duplicateKeyErr()))
	assert.True(t, isDuplicate(errors.New("Error 1062: Duplicate entry")))
	assert.False(t, isDuplicate(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}))
	assert.False(t, isDuplicate(errors.New("some other failure")))
	assert.False(t, isDuplicate(nil))
}
