package booking

import (
	"context"

	"github.com/iliyamo/theatre-reservation/internal/model"
)

// TicketRequest is one requested seat inside a reservation.
type TicketRequest struct {
	PerformanceID uint64 `json:"performance_id"`
	Row           int    `json:"row"`
	Seat          int    `json:"seat"`
}

// PerformanceCatalog resolves a performance together with the hall it is
// staged in. Implementations return the repository's not-found sentinel
// when the performance does not exist.
type PerformanceCatalog interface {
	GetWithHall(ctx context.Context, id uint64) (*model.Performance, *model.TheatreHall, error)
}

// ReservationStore persists a reservation and all of its tickets as a
// single all-or-nothing unit. Implementations must check the ticket
// uniqueness constraint atomically with each insert and return a
// *SeatTakenError naming the offending seat when it is violated, leaving
// no rows behind.
type ReservationStore interface {
	CreateWithTickets(ctx context.Context, res *model.Reservation, tickets []model.Ticket) error
}

// TicketCounter reports how many tickets have been committed for a
// performance. Aborted reservation attempts are never visible to it.
type TicketCounter interface {
	CountByPerformance(ctx context.Context, performanceID uint64) (int, error)
}

// Service is the reservation transaction manager. It validates every
// requested seat against the hall grid, rejects duplicates inside one
// request, and delegates the atomic commit to the store.
type Service struct {
	catalog PerformanceCatalog
	store   ReservationStore
	tickets TicketCounter
}

// NewService constructs a Service. All dependencies must be non-nil.
func NewService(catalog PerformanceCatalog, store ReservationStore, tickets TicketCounter) *Service {
	if catalog == nil || store == nil || tickets == nil {
		panic("nil dependency passed to booking.NewService")
	}
	return &Service{catalog: catalog, store: store, tickets: tickets}
}

// CreateReservation books the requested seats for the user. Either the
// reservation and all its tickets are committed, or nothing is. Validation
// stops at the first violation; no partial application.
//
// Failure modes: ErrEmptyReservation for an empty request list, the
// catalog's not-found error for an unknown performance, *SeatOutOfRangeError
// for a coordinate outside the hall grid, *SeatTakenError when a seat is
// duplicated in the request or already sold (including seats committed by a
// concurrent request in the same race window), and ErrStorageUnavailable
// when the transaction could not be attempted.
func (s *Service) CreateReservation(ctx context.Context, userID uint64, requests []TicketRequest) (*model.Reservation, error) {
	if len(requests) == 0 {
		return nil, ErrEmptyReservation
	}

	halls := make(map[uint64]model.TheatreHall, 1)
	claimed := make(map[TicketRequest]struct{}, len(requests))
	tickets := make([]model.Ticket, 0, len(requests))
	for _, req := range requests {
		hall, ok := halls[req.PerformanceID]
		if !ok {
			_, h, err := s.catalog.GetWithHall(ctx, req.PerformanceID)
			if err != nil {
				return nil, err
			}
			hall = *h
			halls[req.PerformanceID] = hall
		}
		if err := ValidateSeat(req.Row, req.Seat, hall); err != nil {
			return nil, err
		}
		// A request claiming the same seat twice would trip the unique
		// index mid-transaction anyway; reject it before touching storage.
		if _, dup := claimed[req]; dup {
			return nil, &SeatTakenError{PerformanceID: req.PerformanceID, Row: req.Row, Seat: req.Seat}
		}
		claimed[req] = struct{}{}
		tickets = append(tickets, model.Ticket{
			Row:           req.Row,
			Seat:          req.Seat,
			PerformanceID: req.PerformanceID,
		})
	}

	res := &model.Reservation{UserID: userID}
	if err := s.store.CreateWithTickets(ctx, res, tickets); err != nil {
		return nil, err
	}
	return res, nil
}

// AvailableSeats returns the number of unsold seats for a performance:
// hall capacity minus committed tickets. It is recomputed on every call so
// concurrent bookings are reflected on the next read.
func (s *Service) AvailableSeats(ctx context.Context, performanceID uint64) (int, error) {
	_, hall, err := s.catalog.GetWithHall(ctx, performanceID)
	if err != nil {
		return 0, err
	}
	sold, err := s.tickets.CountByPerformance(ctx, performanceID)
	if err != nil {
		return 0, err
	}
	return hall.Capacity() - sold, nil
}
