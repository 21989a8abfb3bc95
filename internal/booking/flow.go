package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flightdesk/pkg/logger"
)

const defaultNotifyTimeout = 5 * time.Second

var (
	ErrInvalidRequest = errors.New("booking: invalid request")
	ErrSuperseded     = errors.New("booking: query superseded by a newer selection")
)

// Gateway is the subset of the remote data gateway the booking workflows use.
type Gateway interface {
	ListPassengers(ctx context.Context) ([]Passenger, error)
	CreatePassenger(ctx context.Context, input PassengerInput) (Passenger, error)
	CreateBooking(ctx context.Context, req NewBooking) (Booking, error)
	ListBookedFlights(ctx context.Context, passengerID string) ([]BookedFlight, error)
}

// Refresher re-runs the flight aggregation so published availability
// reflects a booking that was just made.
type Refresher interface {
	Rerun(ctx context.Context) error
}

// Notifier is told about every confirmed booking.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b Booking) error
}

type State int

const (
	StateIdle State = iota
	StatePassengerResolving
	StatePassengerResolved
	StateBookingCreating
	StateBookingConfirmed
	StateBookingFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePassengerResolving:
		return "passenger_resolving"
	case StatePassengerResolved:
		return "passenger_resolved"
	case StateBookingCreating:
		return "booking_creating"
	case StateBookingConfirmed:
		return "booking_confirmed"
	case StateBookingFailed:
		return "booking_failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Request books FlightID for either an existing passenger (PassengerID) or a
// new one (Passenger). Exactly one of the two must be set.
type Request struct {
	FlightID    string          `json:"flightId"`
	PassengerID string          `json:"passengerId,omitempty"`
	Passenger   *PassengerInput `json:"passenger,omitempty"`
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.FlightID) == "" {
		return fmt.Errorf("%w: flight id is required", ErrInvalidRequest)
	}
	existing := strings.TrimSpace(r.PassengerID) != ""
	switch {
	case existing && r.Passenger != nil:
		return fmt.Errorf("%w: choose an existing passenger or enter a new one, not both", ErrInvalidRequest)
	case !existing && r.Passenger == nil:
		return fmt.Errorf("%w: a passenger is required", ErrInvalidRequest)
	case r.Passenger != nil:
		return r.Passenger.Validate()
	}
	return nil
}

type Result struct {
	Booking          Booking `json:"booking"`
	PassengerID      string  `json:"passengerId"`
	PassengerCreated bool    `json:"passengerCreated"`
	Trace            []State `json:"trace"`
}

// StageError reports where a booking attempt stopped. When the passenger was
// created before the booking call failed, the passenger record remains on the
// service and PassengerID identifies it.
type StageError struct {
	Stage            State
	PassengerID      string
	PassengerCreated bool
	Trace            []State
	Err              error
}

func (e *StageError) Error() string {
	switch e.Stage {
	case StatePassengerResolving:
		return fmt.Sprintf("booking: passenger creation failed: %v", e.Err)
	default:
		return fmt.Sprintf("booking: booking creation failed: %v", e.Err)
	}
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type attempt struct {
	trace []State
}

func (a *attempt) to(s State) {
	a.trace = append(a.trace, s)
}

func (a *attempt) snapshot() []State {
	out := make([]State, len(a.trace))
	copy(out, a.trace)
	return out
}

// Flow resolves or creates a passenger and then creates the booking. The steps
// are strictly ordered and nothing is compensated on failure.
type Flow struct {
	gateway       Gateway
	refresher     Refresher
	notifier      Notifier
	notifyTimeout time.Duration
	logger        logger.Logger
}

// NewFlow builds a Flow. refresher and notifier may be nil.
func NewFlow(gateway Gateway, refresher Refresher, notifier Notifier, log logger.Logger) *Flow {
	return &Flow{
		gateway:       gateway,
		refresher:     refresher,
		notifier:      notifier,
		notifyTimeout: defaultNotifyTimeout,
		logger:        log,
	}
}

func (f *Flow) Book(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	at := &attempt{}
	at.to(StateIdle)

	flightID := strings.TrimSpace(req.FlightID)
	passengerID := strings.TrimSpace(req.PassengerID)
	created := false

	if passengerID == "" {
		at.to(StatePassengerResolving)
		p, err := f.gateway.CreatePassenger(ctx, req.Passenger.trimmed())
		if err == nil && p.ID == "" {
			err = errors.New("service returned a passenger without an id")
		}
		if err != nil {
			at.to(StateBookingFailed)
			f.logger.Warn("passenger creation failed",
				logger.Err(err),
				logger.Field{Key: "flight_id", Value: flightID},
			)
			return nil, &StageError{
				Stage: StatePassengerResolving,
				Trace: at.snapshot(),
				Err:   err,
			}
		}
		passengerID = p.ID
		created = true
	}
	at.to(StatePassengerResolved)

	// Once issued the booking call runs to completion; only the gateway
	// timeout bounds it.
	at.to(StateBookingCreating)
	b, err := f.gateway.CreateBooking(context.WithoutCancel(ctx), NewBooking{
		PassengerID: passengerID,
		FlightID:    flightID,
	})
	if err != nil {
		at.to(StateBookingFailed)
		f.logger.Warn("booking creation failed",
			logger.Err(err),
			logger.Field{Key: "flight_id", Value: flightID},
			logger.Field{Key: "passenger_id", Value: passengerID},
			logger.Field{Key: "passenger_created", Value: created},
		)
		return nil, &StageError{
			Stage:            StateBookingCreating,
			PassengerID:      passengerID,
			PassengerCreated: created,
			Trace:            at.snapshot(),
			Err:              err,
		}
	}
	at.to(StateBookingConfirmed)

	if b.PassengerID == "" {
		b.PassengerID = passengerID
	}
	if b.FlightID == "" {
		b.FlightID = flightID
	}

	f.logger.Info("booking confirmed",
		logger.Field{Key: "booking_id", Value: b.BookingID},
		logger.Field{Key: "flight_id", Value: b.FlightID},
		logger.Field{Key: "passenger_id", Value: b.PassengerID},
	)
	f.afterConfirm(ctx, b)

	return &Result{
		Booking:          b,
		PassengerID:      passengerID,
		PassengerCreated: created,
		Trace:            at.snapshot(),
	}, nil
}

// afterConfirm refreshes availability and sends the confirmation. Neither can
// undo a confirmed booking, so failures are only logged. Both run detached
// from the caller; the notification is bounded by notifyTimeout.
func (f *Flow) afterConfirm(ctx context.Context, b Booking) {
	ctx = context.WithoutCancel(ctx)

	if f.refresher != nil {
		if err := f.refresher.Rerun(ctx); err != nil {
			f.logger.Warn("availability refresh after booking failed",
				logger.Err(err),
				logger.Field{Key: "booking_id", Value: b.BookingID},
			)
		}
	}
	if f.notifier != nil {
		nctx, cancel := context.WithTimeout(ctx, f.notifyTimeout)
		defer cancel()
		if err := f.notifier.BookingConfirmed(nctx, b); err != nil {
			f.logger.Warn("booking notification failed",
				logger.Err(err),
				logger.Field{Key: "booking_id", Value: b.BookingID},
			)
		}
	}
}
