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

// HallHandler manages theatre halls. Halls define the seat grid every
// performance in them inherits.
type HallHandler struct {
	Halls *repository.HallRepo
}

func NewHallHandler(h *repository.HallRepo) *HallHandler {
	return &HallHandler{Halls: h}
}

type createHallReq struct {
	Name       string `json:"name"`
	Rows       int    `json:"rows"`
	SeatsInRow int    `json:"seats_in_row"`
}

// Create adds a hall. Both grid dimensions must be at least 1, otherwise
// no valid seat coordinate could ever exist.
func (h *HallHandler) Create(c echo.Context) error {
	var req createHallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.Rows < 1 || req.SeatsInRow < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows and seats_in_row must be >= 1"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hall := &model.TheatreHall{Name: req.Name, Rows: req.Rows, SeatsInRow: req.SeatsInRow}
	if err := h.Halls.Create(ctx, hall); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create hall failed"})
	}
	return c.JSON(http.StatusCreated, hallResp(hall))
}

// List returns all halls with their derived capacity.
func (h *HallHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	halls, err := h.Halls.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list halls failed"})
	}
	items := make([]echo.Map, 0, len(halls))
	for i := range halls {
		items = append(items, hallResp(&halls[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get returns one hall by id.
func (h *HallHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hall, err := h.Halls.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrHallNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theatre hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load hall failed"})
	}
	return c.JSON(http.StatusOK, hallResp(hall))
}

func hallResp(hall *model.TheatreHall) echo.Map {
	return echo.Map{
		"id":           hall.ID,
		"name":         hall.Name,
		"rows":         hall.Rows,
		"seats_in_row": hall.SeatsInRow,
		"capacity":     hall.Capacity(),
	}
}
