package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"flightdesk/internal/booking"
	"flightdesk/internal/flight"
	"flightdesk/pkg/logger"
)

var (
	ErrFlightUnavailable = errors.New("session: flight is not available for booking")
	ErrSessionNotFound   = errors.New("session: not found")
)

// Gateway is everything a session needs from the remote service.
type Gateway interface {
	flight.Gateway
	booking.Gateway
}

// Deps are shared by every session.
type Deps struct {
	Gateway     Gateway
	Airports    *flight.AirportCatalog
	Notifier    booking.Notifier
	Concurrency int
	Logger      logger.Logger
}

// Session is the server side of one UI. Searches and passenger selections are
// superseded per session, never across sessions.
type Session struct {
	ID string

	aggregator *flight.Aggregator
	booked     *booking.BookedFlightsQuery
	flow       *booking.Flow
	catalog    *flight.AirportCatalog
	logger     logger.Logger

	mu       sync.Mutex
	airports []flight.Airport
}

func New(id string, d Deps) *Session {
	log := logger.With(d.Logger, logger.Field{Key: "session_id", Value: id})

	agg := flight.NewAggregator(d.Gateway, d.Concurrency, log)
	catalog := d.Airports
	if catalog == nil {
		catalog = flight.NewAirportCatalog(d.Gateway, nil, 0, log)
	}
	return &Session{
		ID:         id,
		aggregator: agg,
		booked:     booking.NewBookedFlightsQuery(d.Gateway, log),
		flow:       booking.NewFlow(d.Gateway, agg, d.Notifier, log),
		catalog:    catalog,
		logger:     log,
	}
}

// Airports loads the airport list once per session and reuses it afterwards.
// A failed load is reported and retried on the next call.
func (s *Session) Airports(ctx context.Context) ([]flight.Airport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.airports != nil {
		return s.airports, nil
	}
	airports, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	s.airports = airports
	return airports, nil
}

func (s *Session) Search(ctx context.Context, filter flight.SearchFilter) (*flight.Snapshot, error) {
	return s.aggregator.Refresh(ctx, filter)
}

func (s *Session) Flights() *flight.Snapshot {
	return s.aggregator.Snapshot()
}

// Book only accepts flights the current snapshot shows as available, then
// runs the booking flow. When the booked passenger is the one selected in the
// booked-flights view, that view is reloaded too.
func (s *Session) Book(ctx context.Context, req booking.Request) (*booking.Result, error) {
	if id := strings.TrimSpace(req.FlightID); id != "" {
		f, ok := s.aggregator.Snapshot().Find(id)
		if !ok || !f.Available {
			return nil, ErrFlightUnavailable
		}
	}

	res, err := s.flow.Book(ctx, req)
	if err != nil {
		return nil, err
	}

	if sel := s.booked.Snapshot().Selection; sel.PassengerID != "" && sel.PassengerID == res.PassengerID {
		if _, err := s.booked.Reload(ctx); err != nil && !errors.Is(err, booking.ErrSuperseded) {
			s.logger.Warn("booked flights reload failed", logger.Err(err))
		}
	}
	return res, nil
}

func (s *Session) SelectPassenger(ctx context.Context, sel booking.Selection) (*booking.BookedSnapshot, error) {
	return s.booked.Select(ctx, sel)
}

func (s *Session) BookedFlights() *booking.BookedSnapshot {
	return s.booked.Snapshot()
}
