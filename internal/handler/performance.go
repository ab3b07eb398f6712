package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-reservation/internal/booking"
	"github.com/iliyamo/theatre-reservation/internal/model"
	"github.com/iliyamo/theatre-reservation/internal/repository"
)

// PerformanceHandler serves scheduled performances: admin CRUD plus the
// public listing, detail and live availability reads.
type PerformanceHandler struct {
	Performances *repository.PerformanceRepo
	Plays        *repository.PlayRepo
	Halls        *repository.HallRepo
	Tickets      *repository.TicketRepo
	Booking      *booking.Service
	UploadDir    string
}

func NewPerformanceHandler(p *repository.PerformanceRepo, pl *repository.PlayRepo, ha *repository.HallRepo,
	t *repository.TicketRepo, b *booking.Service, uploadDir string) *PerformanceHandler {
	return &PerformanceHandler{Performances: p, Plays: pl, Halls: ha, Tickets: t, Booking: b, UploadDir: uploadDir}
}

type performanceReq struct {
	PlayID        uint64    `json:"play_id"`
	TheatreHallID uint64    `json:"theatre_hall_id"`
	ShowTime      time.Time `json:"show_time"`
}

func (h *PerformanceHandler) validateRefs(ctx context.Context, req performanceReq) (int, string) {
	if req.PlayID == 0 || req.TheatreHallID == 0 || req.ShowTime.IsZero() {
		return http.StatusBadRequest, "play_id, theatre_hall_id and show_time required"
	}
	if _, err := h.Plays.GetByID(ctx, req.PlayID); err != nil {
		if err == repository.ErrPlayNotFound {
			return http.StatusBadRequest, "unknown play id"
		}
		return http.StatusInternalServerError, "validate play failed"
	}
	if _, err := h.Halls.GetByID(ctx, req.TheatreHallID); err != nil {
		if err == repository.ErrHallNotFound {
			return http.StatusBadRequest, "unknown theatre hall id"
		}
		return http.StatusInternalServerError, "validate hall failed"
	}
	return 0, ""
}

// Create schedules a performance of a play in a hall.
func (h *PerformanceHandler) Create(c echo.Context) error {
	var req performanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if code, msg := h.validateRefs(ctx, req); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}
	p := &model.Performance{PlayID: req.PlayID, TheatreHallID: req.TheatreHallID, ShowTime: req.ShowTime.UTC()}
	if err := h.Performances.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create performance failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// Update reschedules a performance or moves it between plays and halls.
func (h *PerformanceHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req performanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if code, msg := h.validateRefs(ctx, req); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}
	p := &model.Performance{ID: id, PlayID: req.PlayID, TheatreHallID: req.TheatreHallID, ShowTime: req.ShowTime.UTC()}
	if err := h.Performances.Update(ctx, p); err != nil {
		if err == repository.ErrPerformanceNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update performance failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes a performance; its tickets go with it via FK cascade.
func (h *PerformanceHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Performances.Delete(ctx, id); err != nil {
		if err == repository.ErrPerformanceNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete performance failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns performances filtered by ?play and ?date (YYYY-MM-DD),
// each row carrying its live tickets_available count.
func (h *PerformanceHandler) List(c echo.Context) error {
	page, pageSize := pageParams(c)
	f := repository.PerformanceFilter{Page: page, PageSize: pageSize}
	if raw := c.QueryParam("play"); raw != "" {
		ids, err := idList(raw)
		if err != nil || len(ids) != 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid play filter"})
		}
		f.PlayID = &ids[0]
	}
	if raw := c.QueryParam("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date filter, want YYYY-MM-DD"})
		}
		f.Date = &d
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, total, err := h.Performances.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list performances failed"})
	}
	return c.JSON(http.StatusOK, listResponse{Items: rows, Total: total, Page: page, PageSize: pageSize})
}

// Get returns one performance with its play, hall grid and the seats
// already taken, so a client can render the seat map in one request.
func (h *PerformanceHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, hall, err := h.Performances.GetWithHall(ctx, id)
	if err != nil {
		if err == repository.ErrPerformanceNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load performance failed"})
	}
	play, err := h.Plays.GetByID(ctx, p.PlayID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load play failed"})
	}
	taken, err := h.Tickets.ListTakenPlaces(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load taken places failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":           p.ID,
		"show_time":    p.ShowTime,
		"image":        p.Image,
		"play":         play,
		"theatre_hall": hallResp(hall),
		"taken_places": taken,
	})
}

// Availability returns the number of seats still open for the
// performance, recomputed from committed tickets on every call.
func (h *PerformanceHandler) Availability(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	free, err := h.Booking.AvailableSeats(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPerformanceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		}
		if errors.Is(err, booking.ErrStorageUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"performance_id": id, "tickets_available": free})
}

// UploadImage stores a poster for the performance. Expects multipart
// field "image".
func (h *PerformanceHandler) UploadImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}
	path, err := saveImage(fh, h.UploadDir, "performances")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Performances.UpdateImage(ctx, id, path); err != nil {
		if err == repository.ErrPerformanceNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save image failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "image": path})
}
