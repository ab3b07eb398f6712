package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-reservation/internal/booking"
	"github.com/iliyamo/theatre-reservation/internal/queue"
	"github.com/iliyamo/theatre-reservation/internal/repository"
)

// ReservationHandler serves customer bookings. JWT authentication runs
// before every method; Publish, when set, is called after a successful
// booking and its failures never fail the request.
type ReservationHandler struct {
	Booking      *booking.Service
	Reservations *repository.ReservationRepo
	Publish      func(ctx context.Context, ev queue.ReservationConfirmedEvent) error
}

func NewReservationHandler(b *booking.Service, r *repository.ReservationRepo,
	publish func(ctx context.Context, ev queue.ReservationConfirmedEvent) error) *ReservationHandler {
	if b == nil || r == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Booking: b, Reservations: r, Publish: publish}
}

type createReservationReq struct {
	Tickets []booking.TicketRequest `json:"tickets"`
}

// Create books the requested seats atomically: either every ticket commits
// or none does. Domain failures map to precise status codes so clients can
// distinguish a lost seat race (409) from bad coordinates (400).
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Booking.CreateReservation(ctx, userID, req.Tickets)
	if err != nil {
		var oor *booking.SeatOutOfRangeError
		var taken *booking.SeatTakenError
		switch {
		case errors.Is(err, booking.ErrEmptyReservation):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.As(err, &oor):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": oor.Error()})
		case errors.As(err, &taken):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":          taken.Error(),
				"performance_id": taken.PerformanceID,
				"row":            taken.Row,
				"seat":           taken.Seat,
			})
		case errors.Is(err, repository.ErrPerformanceNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		case errors.Is(err, booking.ErrStorageUnavailable):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
		}
	}

	if h.Publish != nil {
		ev := queue.ReservationConfirmedEvent{
			EventID:       uuid.New().String(),
			ReservationID: res.ID,
			UserID:        res.UserID,
			ConfirmedAt:   res.CreatedAt.UTC().Format(time.RFC3339),
		}
		for _, t := range res.Tickets {
			ev.Tickets = append(ev.Tickets, queue.TicketInfo{
				PerformanceID: t.PerformanceID, Row: t.Row, Seat: t.Seat,
			})
		}
		go func() {
			pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pcancel()
			_ = h.Publish(pctx, ev) // best effort, logged inside
		}()
	}

	return c.JSON(http.StatusCreated, res)
}

// List returns the caller's reservations, newest first.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, pageSize := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Reservations.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, listResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}

// Get returns one reservation of the caller.
func (h *ReservationHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.GetByIDForUser(ctx, id, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your reservation"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
		}
	}
	return c.JSON(http.StatusOK, res)
}

// Delete cancels a reservation owned by the caller, releasing its seats.
func (h *ReservationHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reservations.DeleteByIDForUser(ctx, id, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your reservation"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete reservation failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
