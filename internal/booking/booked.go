package booking

import (
	"context"
	"strings"
	"time"

	"flightdesk/pkg/latest"
	"flightdesk/pkg/logger"
)

// Selection is the passenger chosen in the booked-flights view. An empty
// PassengerID means nobody is selected.
type Selection struct {
	PassengerID string `json:"passengerId"`
}

type BookedStatus string

const (
	StatusNoSelection BookedStatus = "no_selection"
	StatusEmpty       BookedStatus = "empty"
	StatusLoaded      BookedStatus = "loaded"
	StatusFailed      BookedStatus = "failed"
)

type BookedSnapshot struct {
	Seq         uint64         `json:"seq"`
	Selection   Selection      `json:"selection"`
	Bookings    []BookedFlight `json:"bookings"`
	Err         error          `json:"-"`
	CompletedAt time.Time      `json:"completedAt"`
}

func (s *BookedSnapshot) Selected() bool {
	return s.Selection.PassengerID != ""
}

// Status tells "nobody selected" apart from "selected, no bookings"; both
// carry an empty list.
func (s *BookedSnapshot) Status() BookedStatus {
	switch {
	case !s.Selected():
		return StatusNoSelection
	case s.Err != nil:
		return StatusFailed
	case len(s.Bookings) == 0:
		return StatusEmpty
	default:
		return StatusLoaded
	}
}

type BookedFlightsSource interface {
	ListBookedFlights(ctx context.Context, passengerID string) ([]BookedFlight, error)
}

// BookedFlightsQuery fetches the selected passenger's bookings. A newer
// selection supersedes any fetch still in flight.
type BookedFlightsQuery struct {
	source BookedFlightsSource
	logger logger.Logger
	now    func() time.Time
	slot   latest.Slot[BookedSnapshot]
}

func NewBookedFlightsQuery(source BookedFlightsSource, log logger.Logger) *BookedFlightsQuery {
	return &BookedFlightsQuery{
		source: source,
		logger: log,
		now:    time.Now,
	}
}

func (q *BookedFlightsQuery) Snapshot() *BookedSnapshot {
	if s := q.slot.Load(); s != nil {
		return s
	}
	return &BookedSnapshot{Bookings: []BookedFlight{}}
}

// Select publishes the bookings of sel's passenger. With no passenger selected
// it publishes the no-selection state without calling the service. A failed
// fetch publishes an empty list carrying Err. The fetch is detached from ctx
// cancellation: only a newer selection discards it.
func (q *BookedFlightsQuery) Select(ctx context.Context, sel Selection) (*BookedSnapshot, error) {
	ctx = context.WithoutCancel(ctx)
	sel.PassengerID = strings.TrimSpace(sel.PassengerID)
	ticket := q.slot.Issue()

	if sel.PassengerID == "" {
		return q.publish(ticket, &BookedSnapshot{
			Seq:         uint64(ticket),
			Bookings:    []BookedFlight{},
			CompletedAt: q.now(),
		})
	}

	bookings, err := q.source.ListBookedFlights(ctx, sel.PassengerID)
	if err != nil {
		q.logger.Warn("booked flights lookup failed",
			logger.Err(err),
			logger.Field{Key: "passenger_id", Value: sel.PassengerID},
		)
		return q.publish(ticket, &BookedSnapshot{
			Seq:         uint64(ticket),
			Selection:   sel,
			Bookings:    []BookedFlight{},
			Err:         err,
			CompletedAt: q.now(),
		})
	}
	if bookings == nil {
		bookings = []BookedFlight{}
	}

	return q.publish(ticket, &BookedSnapshot{
		Seq:         uint64(ticket),
		Selection:   sel,
		Bookings:    bookings,
		CompletedAt: q.now(),
	})
}

// Reload repeats the query for the currently published selection.
func (q *BookedFlightsQuery) Reload(ctx context.Context) (*BookedSnapshot, error) {
	return q.Select(ctx, q.Snapshot().Selection)
}

func (q *BookedFlightsQuery) publish(ticket latest.Ticket, snap *BookedSnapshot) (*BookedSnapshot, error) {
	if !q.slot.Publish(ticket, snap) {
		q.logger.Debug("discarding superseded booked flights result",
			logger.Field{Key: "seq", Value: uint64(ticket)},
		)
		return nil, ErrSuperseded
	}
	return snap, nil
}
