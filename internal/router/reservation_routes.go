package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-reservation/internal/handler"
	"github.com/iliyamo/theatre-reservation/internal/middleware"
)

// RegisterReservations registers the booking endpoints. Any authenticated
// user may book; ownership checks inside the repository keep users out of
// each other's reservations.
func RegisterReservations(e *echo.Echo, jwtSecret string, r *handler.ReservationHandler) {
	g := e.Group("/v1/reservations")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))

	g.POST("", r.Create)
	g.GET("", r.List)
	g.GET("/:id", r.Get)
	g.DELETE("/:id", r.Delete)
}
