package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-reservation/internal/model"
	"github.com/iliyamo/theatre-reservation/internal/repository"
)

// PlayHandler serves the play catalogue.
type PlayHandler struct {
	Plays   *repository.PlayRepo
	Genres  *repository.GenreRepo
	Artists *repository.ArtistRepo
}

func NewPlayHandler(p *repository.PlayRepo, g *repository.GenreRepo, a *repository.ArtistRepo) *PlayHandler {
	return &PlayHandler{Plays: p, Genres: g, Artists: a}
}

type createPlayReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Acts        int      `json:"acts"`
	GenreIDs    []uint64 `json:"genre_ids"`
	ArtistIDs   []uint64 `json:"artist_ids"`
}

// Create adds a play with its genre and artist links. Unknown genre or
// artist IDs fail the whole request up front so the junction inserts can
// not half-succeed.
func (h *PlayHandler) Create(c echo.Context) error {
	var req createPlayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	if req.Acts < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "acts must be >= 1"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if ok, err := h.Genres.ExistAll(ctx, req.GenreIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "validate genres failed"})
	} else if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown genre id"})
	}
	if ok, err := h.Artists.ExistAll(ctx, req.ArtistIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "validate artists failed"})
	} else if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown artist id"})
	}

	p := &model.Play{Title: req.Title, Description: req.Description, Acts: req.Acts}
	if err := h.Plays.Create(ctx, p, req.GenreIDs, req.ArtistIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create play failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// List returns plays filtered by ?title, ?genres and ?artists
// (comma-separated ID lists).
func (h *PlayHandler) List(c echo.Context) error {
	page, pageSize := pageParams(c)
	genreIDs, err := idList(c.QueryParam("genres"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genres filter"})
	}
	artistIDs, err := idList(c.QueryParam("artists"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artists filter"})
	}
	f := repository.PlayFilter{
		Title:     strings.TrimSpace(c.QueryParam("title")),
		GenreIDs:  genreIDs,
		ArtistIDs: artistIDs,
		Page:      page,
		PageSize:  pageSize,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	plays, total, err := h.Plays.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list plays failed"})
	}
	return c.JSON(http.StatusOK, listResponse{Items: plays, Total: total, Page: page, PageSize: pageSize})
}

// Get returns a play with its full genre and artist details.
func (h *PlayHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Plays.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrPlayNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "play not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load play failed"})
	}
	return c.JSON(http.StatusOK, p)
}
