package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-reservation/internal/model"
)

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) GetWithHall(ctx context.Context, id uint64) (*model.Performance, *model.TheatreHall, error) {
	args := m.Called(ctx, id)
	var p *model.Performance
	var h *model.TheatreHall
	if v := args.Get(0); v != nil {
		p = v.(*model.Performance)
	}
	if v := args.Get(1); v != nil {
		h = v.(*model.TheatreHall)
	}
	return p, h, args.Error(2)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) CreateWithTickets(ctx context.Context, res *model.Reservation, tickets []model.Ticket) error {
	args := m.Called(ctx, res, tickets)
	return args.Error(0)
}

type mockCounter struct{ mock.Mock }

func (m *mockCounter) CountByPerformance(ctx context.Context, performanceID uint64) (int, error) {
	args := m.Called(ctx, performanceID)
	return args.Int(0), args.Error(1)
}

func newTestService(t *testing.T) (*Service, *mockCatalog, *mockStore, *mockCounter) {
	t.Helper()
	catalog := &mockCatalog{}
	store := &mockStore{}
	counter := &mockCounter{}
	return NewService(catalog, store, counter), catalog, store, counter
}

func perfInHall(rows, seats int) (*model.Performance, *model.TheatreHall) {
	return &model.Performance{ID: 1, TheatreHallID: 7},
		&model.TheatreHall{ID: 7, Rows: rows, SeatsInRow: seats}
}

func TestCreateReservationEmpty(t *testing.T) {
	svc, _, store, _ := newTestService(t)

	_, err := svc.CreateReservation(context.Background(), 42, nil)
	assert.ErrorIs(t, err, ErrEmptyReservation)
	// nothing may reach storage
	store.AssertNotCalled(t, "CreateWithTickets", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReservationSeatOutOfRange(t *testing.T) {
	svc, catalog, store, _ := newTestService(t)
	p, h := perfInHall(10, 15)
	catalog.On("GetWithHall", mock.Anything, uint64(1)).Return(p, h, nil)

	_, err := svc.CreateReservation(context.Background(), 42, []TicketRequest{
		{PerformanceID: 1, Row: 11, Seat: 1},
	})
	var oor *SeatOutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "row", oor.Coordinate)
	assert.Equal(t, 11, oor.Value)
	store.AssertNotCalled(t, "CreateWithTickets", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReservationDuplicateSeatInRequest(t *testing.T) {
	svc, catalog, store, _ := newTestService(t)
	p, h := perfInHall(5, 5)
	catalog.On("GetWithHall", mock.Anything, uint64(1)).Return(p, h, nil)

	_, err := svc.CreateReservation(context.Background(), 42, []TicketRequest{
		{PerformanceID: 1, Row: 2, Seat: 3},
		{PerformanceID: 1, Row: 2, Seat: 3},
	})
	var taken *SeatTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, 2, taken.Row)
	assert.Equal(t, 3, taken.Seat)
	store.AssertNotCalled(t, "CreateWithTickets", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReservationSeatAlreadySold(t *testing.T) {
	svc, catalog, store, _ := newTestService(t)
	p, h := perfInHall(5, 5)
	catalog.On("GetWithHall", mock.Anything, uint64(1)).Return(p, h, nil)
	store.On("CreateWithTickets", mock.Anything, mock.Anything, mock.Anything).
		Return(&SeatTakenError{PerformanceID: 1, Row: 1, Seat: 1})

	_, err := svc.CreateReservation(context.Background(), 42, []TicketRequest{
		{PerformanceID: 1, Row: 1, Seat: 1},
	})
	var taken *SeatTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, uint64(1), taken.PerformanceID)
}

func TestCreateReservationCommitsAllTicketsAtOnce(t *testing.T) {
	svc, catalog, store, _ := newTestService(t)
	p, h := perfInHall(10, 15)
	catalog.On("GetWithHall", mock.Anything, uint64(1)).Return(p, h, nil)

	var got []model.Ticket
	store.On("CreateWithTickets", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Reservation).ID = 99
			got = args.Get(2).([]model.Ticket)
		}).
		Return(nil)

	res, err := svc.CreateReservation(context.Background(), 42, []TicketRequest{
		{PerformanceID: 1, Row: 1, Seat: 1},
		{PerformanceID: 1, Row: 1, Seat: 2},
		{PerformanceID: 1, Row: 2, Seat: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(99), res.ID)
	assert.Equal(t, uint64(42), res.UserID)
	// one store call carrying every ticket
	store.AssertNumberOfCalls(t, "CreateWithTickets", 1)
	require.Len(t, got, 3)
	assert.Equal(t, uint64(1), got[0].PerformanceID)
	// the hall is resolved once per performance, not per ticket
	catalog.AssertNumberOfCalls(t, "GetWithHall", 1)
}

func TestCreateReservationUnknownPerformance(t *testing.T) {
	svc, catalog, store, _ := newTestService(t)
	wantErr := assert.AnError
	catalog.On("GetWithHall", mock.Anything, uint64(404)).Return(nil, nil, wantErr)

	_, err := svc.CreateReservation(context.Background(), 42, []TicketRequest{
		{PerformanceID: 404, Row: 1, Seat: 1},
	})
	assert.ErrorIs(t, err, wantErr)
	store.AssertNotCalled(t, "CreateWithTickets", mock.Anything, mock.Anything, mock.Anything)
}

func TestAvailableSeats(t *testing.T) {
	svc, catalog, _, counter := newTestService(t)
	p, h := perfInHall(10, 5) // capacity 50
	catalog.On("GetWithHall", mock.Anything, uint64(1)).Return(p, h, nil)
	counter.On("CountByPerformance", mock.Anything, uint64(1)).Return(0, nil).Once()
	counter.On("CountByPerformance", mock.Anything, uint64(1)).Return(3, nil).Once()

	free, err := svc.AvailableSeats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 50, free)

	// after three seats sold the count drops on the next read
	free, err = svc.AvailableSeats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 47, free)
}

func TestAvailableSeatsSoldOut(t *testing.T) {
	svc, catalog, _, counter := newTestService(t)
	p, h := perfInHall(2, 2)
	catalog.On("GetWithHall", mock.Anything, uint64(1)).Return(p, h, nil)
	counter.On("CountByPerformance", mock.Anything, uint64(1)).Return(4, nil)

	free, err := svc.AvailableSeats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, free)
}

func TestNewServicePanicsOnNilDependency(t *testing.T) {
	assert.Panics(t, func() { NewService(nil, &mockStore{}, &mockCounter{}) })
	assert.Panics(t, func() { NewService(&mockCatalog{}, nil, &mockCounter{}) })
	assert.Panics(t, func() { NewService(&mockCatalog{}, &mockStore{}, nil) })
}
