package flight

import (
	"context"
	"errors"
	"sync"
	"time"

	"flightdesk/pkg/latest"
	"flightdesk/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// ErrSuperseded is returned when a newer search was issued before this pass
// could publish. The pass's result was discarded.
var ErrSuperseded = errors.New("flight: aggregation superseded by a newer search")

var tracer = otel.Tracer("flightdesk/flight")

// Gateway is the subset of the remote data gateway the flight workflows use.
type Gateway interface {
	ListAirports(ctx context.Context) ([]Airport, error)
	SearchFlights(ctx context.Context, filter SearchFilter) ([]Flight, error)
	GetAvailableSeats(ctx context.Context, flightID string) (SeatAvailability, error)
}

type aggregatorMetrics struct {
	passes               metric.Int64Counter
	superseded           metric.Int64Counter
	availabilityFailures metric.Int64Counter
}

// Aggregator searches flights and enriches every result with live seat
// availability, publishing each pass as one Snapshot. Only the pass for the
// most recent filter may publish.
type Aggregator struct {
	gateway     Gateway
	logger      logger.Logger
	concurrency int
	metrics     aggregatorMetrics
	now         func() time.Time

	slot latest.Slot[Snapshot]

	mu         sync.Mutex // orders ticket issue with lastFilter
	lastFilter SearchFilter
}

func NewAggregator(gateway Gateway, concurrency int, log logger.Logger) *Aggregator {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Aggregator{
		gateway:     gateway,
		logger:      log,
		concurrency: concurrency,
		metrics:     newAggregatorMetrics(),
		now:         time.Now,
	}
}

func newAggregatorMetrics() aggregatorMetrics {
	meter := otel.Meter("flightdesk/flight")
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			return noop.Int64Counter{}
		}
		return c
	}
	return aggregatorMetrics{
		passes:               counter("aggregation.passes", "Aggregation passes started"),
		superseded:           counter("aggregation.superseded", "Aggregation passes discarded by a newer search"),
		availabilityFailures: counter("availability.failures", "Seat availability lookups that failed closed"),
	}
}

// Snapshot returns the currently published pass. Before the first publish it
// returns an empty snapshot.
func (a *Aggregator) Snapshot() *Snapshot {
	if s := a.slot.Load(); s != nil {
		return s
	}
	return &Snapshot{Flights: []Flight{}}
}

// Refresh runs one aggregation pass for filter. If a newer Refresh or Rerun is
// issued before this pass completes, the result is discarded and
// ErrSuperseded is returned. A failed search is not an error here: it is
// published as an empty snapshot carrying Err.
func (a *Aggregator) Refresh(ctx context.Context, filter SearchFilter) (*Snapshot, error) {
	filter = filter.Normalize()

	a.mu.Lock()
	ticket := a.slot.Issue()
	a.lastFilter = filter
	a.mu.Unlock()

	return a.run(ctx, ticket, filter)
}

// Rerun repeats the pass for the most recently requested filter so published
// availability reflects changes such as a new booking.
func (a *Aggregator) Rerun(ctx context.Context) error {
	a.mu.Lock()
	ticket := a.slot.Issue()
	filter := a.lastFilter
	a.mu.Unlock()

	snap, err := a.run(ctx, ticket, filter)
	if errors.Is(err, ErrSuperseded) {
		// a newer pass already covers this refresh
		return nil
	}
	if err != nil {
		return err
	}
	return snap.Err
}

// run is detached from ctx cancellation so a pass either completes with what
// the service answered or is discarded by a newer ticket; the gateway's
// client timeout bounds it.
func (a *Aggregator) run(ctx context.Context, ticket latest.Ticket, filter SearchFilter) (*Snapshot, error) {
	ctx, span := tracer.Start(context.WithoutCancel(ctx), "flight.aggregate")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("flight.pass", int64(ticket)),
		attribute.String("flight.filter.from", filter.FromAirportID),
		attribute.String("flight.filter.to", filter.ToAirportID),
		attribute.String("flight.filter.date", filter.Date),
	)
	a.metrics.passes.Add(ctx, 1)
	startTime := a.now()

	flights, err := a.gateway.SearchFlights(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		a.logger.Warn("flight search failed",
			logger.Err(err),
			logger.Field{Key: "pass", Value: uint64(ticket)},
		)
		return a.publish(ctx, ticket, &Snapshot{
			Seq:         uint64(ticket),
			Filter:      filter,
			Flights:     []Flight{},
			Err:         err,
			CompletedAt: a.now(),
		})
	}

	if !a.slot.IsLatest(ticket) {
		a.metrics.superseded.Add(ctx, 1)
		return nil, ErrSuperseded
	}

	merged := a.attachAvailability(ctx, flights)
	span.SetAttributes(attribute.Int("flight.results", len(merged)))

	a.logger.Debug("aggregation pass complete",
		logger.Field{Key: "pass", Value: uint64(ticket)},
		logger.Field{Key: "results", Value: len(merged)},
		logger.Field{Key: "elapsed", Value: a.now().Sub(startTime)},
	)

	return a.publish(ctx, ticket, &Snapshot{
		Seq:         uint64(ticket),
		Filter:      filter,
		Flights:     merged,
		CompletedAt: a.now(),
	})
}

// attachAvailability fans out one seat lookup per flight and waits for all of
// them. A failed lookup marks that flight unavailable.
func (a *Aggregator) attachAvailability(ctx context.Context, flights []Flight) []Flight {
	merged := make([]Flight, len(flights))
	copy(merged, flights)

	var g errgroup.Group
	g.SetLimit(a.concurrency)

	for i := range merged {
		g.Go(func() error {
			seats, err := a.gateway.GetAvailableSeats(ctx, merged[i].ID)
			if err != nil {
				a.metrics.availabilityFailures.Add(ctx, 1)
				a.logger.Warn("seat availability lookup failed",
					logger.Err(err),
					logger.Field{Key: "flight_id", Value: merged[i].ID},
				)
				merged[i].Available = false
				return nil
			}
			merged[i].Available = seats.AvailableSeats > 0
			return nil
		})
	}
	_ = g.Wait()

	return merged
}

func (a *Aggregator) publish(ctx context.Context, ticket latest.Ticket, snap *Snapshot) (*Snapshot, error) {
	if !a.slot.Publish(ticket, snap) {
		a.metrics.superseded.Add(ctx, 1)
		a.logger.Debug("discarding superseded aggregation pass",
			logger.Field{Key: "pass", Value: uint64(ticket)},
		)
		return nil, ErrSuperseded
	}
	return snap, nil
}
