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

// ArtistHandler serves artist reads and admin writes.
type ArtistHandler struct {
	Artists   *repository.ArtistRepo
	UploadDir string
}

func NewArtistHandler(a *repository.ArtistRepo, uploadDir string) *ArtistHandler {
	return &ArtistHandler{Artists: a, UploadDir: uploadDir}
}

type createArtistReq struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	About     *string `json:"about"`
}

// Create adds an artist.
func (h *ArtistHandler) Create(c echo.Context) error {
	var req createArtistReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name/last_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a := &model.Artist{FirstName: req.FirstName, LastName: req.LastName, About: req.About}
	if err := h.Artists.Create(ctx, a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create artist failed"})
	}
	return c.JSON(http.StatusCreated, a)
}

// List returns artists with optional ?search over first and last name.
func (h *ArtistHandler) List(c echo.Context) error {
	page, pageSize := pageParams(c)
	search := strings.TrimSpace(c.QueryParam("search"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	artists, total, err := h.Artists.List(ctx, search, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list artists failed"})
	}
	return c.JSON(http.StatusOK, listResponse{Items: artists, Total: total, Page: page, PageSize: pageSize})
}

// Get returns one artist together with the plays they appear in.
func (h *ArtistHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Artists.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrArtistNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load artist failed"})
	}
	plays, err := h.Artists.ListPlays(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load artist plays failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":         a.ID,
		"first_name": a.FirstName,
		"last_name":  a.LastName,
		"full_name":  a.FullName(),
		"about":      a.About,
		"image":      a.Image,
		"plays":      plays,
	})
}

// UploadImage stores a portrait for the artist and records its path.
// Expects multipart field "image".
func (h *ArtistHandler) UploadImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}
	path, err := saveImage(fh, h.UploadDir, "artists")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Artists.UpdateImage(ctx, id, path); err != nil {
		if err == repository.ErrArtistNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save image failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "image": path})
}
