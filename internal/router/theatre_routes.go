package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-reservation/internal/handler"
	"github.com/iliyamo/theatre-reservation/internal/middleware"
)

// RegisterAdmin registers catalogue write endpoints. Every route requires
// a valid access token carrying the ADMIN role; customers browse through
// the public routes only.
func RegisterAdmin(e *echo.Echo, jwtSecret string,
	g *handler.GenreHandler, a *handler.ArtistHandler, p *handler.PlayHandler,
	th *handler.HallHandler, pf *handler.PerformanceHandler) {

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))

	admin.POST("/genres", g.Create)
	admin.POST("/artists", a.Create)
	admin.POST("/artists/:id/image", a.UploadImage)
	admin.POST("/plays", p.Create)
	admin.POST("/theatre-halls", th.Create)
	admin.POST("/performances", pf.Create)
	admin.PUT("/performances/:id", pf.Update)
	admin.DELETE("/performances/:id", pf.Delete)
	admin.POST("/performances/:id/image", pf.UploadImage)
}
