package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-reservation/internal/booking"
	"github.com/iliyamo/theatre-reservation/internal/handler"
	"github.com/iliyamo/theatre-reservation/internal/repository"
)

// publicTestServer registers the public routes with a marker middleware in
// the cache slot, recording which route paths pass through it. Handlers
// run against a mock DB with no expectations, so repository calls fail
// cleanly; only the middleware placement matters here.
func publicTestServer(t *testing.T) (*echo.Echo, map[string]bool) {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	genres := repository.NewGenreRepo(db)
	artists := repository.NewArtistRepo(db)
	plays := repository.NewPlayRepo(db)
	halls := repository.NewHallRepo(db)
	performances := repository.NewPerformanceRepo(db)
	tickets := repository.NewTicketRepo(db)
	reservations := repository.NewReservationRepo(db)
	svc := booking.NewService(performances, reservations, tickets)

	cached := make(map[string]bool)
	marker := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cached[c.Path()] = true
			return next(c)
		}
	}

	e := echo.New()
	RegisterPublic(e, marker,
		handler.NewGenreHandler(genres),
		handler.NewArtistHandler(artists, "uploads"),
		handler.NewPlayHandler(plays, genres, artists),
		handler.NewHallHandler(halls),
		handler.NewPerformanceHandler(performances, plays, halls, tickets, svc, "uploads"),
	)
	return e, cached
}

func TestPerformanceReadsBypassCache(t *testing.T) {
	e, cached := publicTestServer(t)

	for _, target := range []string{
		"/v1/genres",
		"/v1/plays",
		"/v1/theatre-halls",
		"/v1/performances",
		"/v1/performances/1",
		"/v1/performances/1/availability",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		e.ServeHTTP(httptest.NewRecorder(), req)
	}

	// static catalogue reads go through the cache
	assert.True(t, cached["/v1/genres"])
	assert.True(t, cached["/v1/plays"])
	assert.True(t, cached["/v1/theatre-halls"])

	// anything carrying live seat data must not
	assert.False(t, cached["/v1/performances"])
	assert.False(t, cached["/v1/performances/:id"])
	assert.False(t, cached["/v1/performances/:id/availability"])
}
