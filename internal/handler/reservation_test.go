package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-reservation/internal/booking"
	"github.com/iliyamo/theatre-reservation/internal/model"
	"github.com/iliyamo/theatre-reservation/internal/repository"
)

type stubCatalog struct {
	hall model.TheatreHall
	err  error
}

func (s *stubCatalog) GetWithHall(ctx context.Context, id uint64) (*model.Performance, *model.TheatreHall, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	h := s.hall
	return &model.Performance{ID: id, TheatreHallID: h.ID}, &h, nil
}

type stubStore struct {
	err   error
	calls int
}

func (s *stubStore) CreateWithTickets(ctx context.Context, res *model.Reservation, tickets []model.Ticket) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	res.ID = 1
	res.Tickets = tickets
	return nil
}

type stubCounter struct{ n int }

func (s *stubCounter) CountByPerformance(ctx context.Context, performanceID uint64) (int, error) {
	return s.n, nil
}

func postReservation(t *testing.T, h *ReservationHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(42))
	require.NoError(t, h.Create(c))
	return rec
}

func newReservationHandler(catalog booking.PerformanceCatalog, store booking.ReservationStore) *ReservationHandler {
	svc := booking.NewService(catalog, store, &stubCounter{})
	return NewReservationHandler(svc, repository.NewReservationRepo(nil), nil)
}

func TestCreateReservationCreated(t *testing.T) {
	store := &stubStore{}
	h := newReservationHandler(&stubCatalog{hall: model.TheatreHall{ID: 7, Rows: 10, SeatsInRow: 15}}, store)

	rec := postReservation(t, h, `{"tickets":[{"performance_id":1,"row":2,"seat":3}]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, store.calls)

	var res model.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, uint64(42), res.UserID)
	require.Len(t, res.Tickets, 1)
	assert.Equal(t, 2, res.Tickets[0].Row)
	assert.Equal(t, 3, res.Tickets[0].Seat)
}

func TestCreateReservationEmptyBody(t *testing.T) {
	store := &stubStore{}
	h := newReservationHandler(&stubCatalog{hall: model.TheatreHall{Rows: 5, SeatsInRow: 5}}, store)

	rec := postReservation(t, h, `{"tickets":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, store.calls)
}

func TestCreateReservationSeatOutOfRange(t *testing.T) {
	store := &stubStore{}
	h := newReservationHandler(&stubCatalog{hall: model.TheatreHall{Rows: 10, SeatsInRow: 15}}, store)

	rec := postReservation(t, h, `{"tickets":[{"performance_id":1,"row":11,"seat":1}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "out of range")
	assert.Zero(t, store.calls)
}

func TestCreateReservationSeatTaken(t *testing.T) {
	store := &stubStore{err: &booking.SeatTakenError{PerformanceID: 1, Row: 2, Seat: 3}}
	h := newReservationHandler(&stubCatalog{hall: model.TheatreHall{Rows: 10, SeatsInRow: 15}}, store)

	rec := postReservation(t, h, `{"tickets":[{"performance_id":1,"row":2,"seat":3}]}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body["row"])
	assert.EqualValues(t, 3, body["seat"])
}

func TestCreateReservationUnknownPerformance(t *testing.T) {
	h := newReservationHandler(&stubCatalog{err: repository.ErrPerformanceNotFound}, &stubStore{})

	rec := postReservation(t, h, `{"tickets":[{"performance_id":404,"row":1,"seat":1}]}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReservationStorageUnavailable(t *testing.T) {
	store := &stubStore{err: booking.ErrStorageUnavailable}
	h := newReservationHandler(&stubCatalog{hall: model.TheatreHall{Rows: 10, SeatsInRow: 15}}, store)

	rec := postReservation(t, h, `{"tickets":[{"performance_id":1,"row":1,"seat":1}]}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateReservationUnauthorized(t *testing.T) {
	h := newReservationHandler(&stubCatalog{hall: model.TheatreHall{Rows: 5, SeatsInRow: 5}}, &stubStore{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec) // no user_id set
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
