// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-reservation/internal/handler"
	"github.com/iliyamo/theatre-reservation/internal/middleware"
)

// RegisterHealth exposes the liveness endpoint. No auth, no cache.
func RegisterHealth(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Check)
}

// RegisterAuth registers the auth endpoints. Register, login and refresh
// are open; logout and /me require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.POST("/auth/logout", a.Logout)
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints. The cache
// middleware wraps only the static catalogue reads. Performance responses
// stay uncached end to end: listings carry tickets_available, the detail
// view carries taken_places and the availability endpoint is the live
// count, so every one of them must be recomputed per read.
func RegisterPublic(e *echo.Echo, cache echo.MiddlewareFunc,
	g *handler.GenreHandler, a *handler.ArtistHandler, p *handler.PlayHandler,
	th *handler.HallHandler, pf *handler.PerformanceHandler) {

	pub := e.Group("/v1", cache)
	pub.GET("/genres", g.List)
	pub.GET("/artists", a.List)
	pub.GET("/artists/:id", a.Get)
	pub.GET("/plays", p.List)
	pub.GET("/plays/:id", p.Get)
	pub.GET("/theatre-halls", th.List)
	pub.GET("/theatre-halls/:id", th.Get)

	e.GET("/v1/performances", pf.List)
	e.GET("/v1/performances/:id", pf.Get)
	e.GET("/v1/performances/:id/availability", pf.Availability)
}
