package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-reservation/internal/booking"
	"github.com/iliyamo/theatre-reservation/internal/model"
	"github.com/iliyamo/theatre-reservation/internal/repository"
)

func getAvailability(t *testing.T, h *PerformanceHandler, id string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/performances/"+id+"/availability", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/performances/:id/availability")
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.Availability(c))
	return rec
}

func availabilityHandler(catalog booking.PerformanceCatalog, counter booking.TicketCounter) *PerformanceHandler {
	svc := booking.NewService(catalog, &stubStore{}, counter)
	return &PerformanceHandler{Booking: svc}
}

func TestAvailabilityReflectsSoldTickets(t *testing.T) {
	h := availabilityHandler(
		&stubCatalog{hall: model.TheatreHall{ID: 7, Rows: 10, SeatsInRow: 5}},
		&stubCounter{n: 3},
	)

	rec := getAvailability(t, h, "1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"performance_id":1,"tickets_available":47}`, rec.Body.String())
}

func TestAvailabilityUnknownPerformance(t *testing.T) {
	h := availabilityHandler(&stubCatalog{err: repository.ErrPerformanceNotFound}, &stubCounter{})

	rec := getAvailability(t, h, "404")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAvailabilityInvalidID(t *testing.T) {
	h := availabilityHandler(&stubCatalog{}, &stubCounter{})

	rec := getAvailability(t, h, "abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
