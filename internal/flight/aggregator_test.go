package flight

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"flightdesk/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListAirports(ctx context.Context) ([]Airport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Airport), args.Error(1)
}

func (m *MockGateway) SearchFlights(ctx context.Context, filter SearchFilter) ([]Flight, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Flight), args.Error(1)
}

func (m *MockGateway) GetAvailableSeats(ctx context.Context, flightID string) (SeatAvailability, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).(SeatAvailability), args.Error(1)
}

func testLogger() logger.Logger {
	return logger.NewWithWriter("test", io.Discard)
}

func TestAggregator_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("merges availability for every flight", func(t *testing.T) {
		// Arrange
		gw := new(MockGateway)
		filter := SearchFilter{FromAirportID: "JFK", ToAirportID: "LAX", Date: "2025-03-15"}
		gw.On("SearchFlights", mock.Anything, filter).Return([]Flight{
			{ID: "F1", FlightNumber: "SW1234"},
			{ID: "F2", FlightNumber: "OA5678"},
		}, nil)
		gw.On("GetAvailableSeats", mock.Anything, "F1").Return(SeatAvailability{AvailableSeats: 0}, nil)
		gw.On("GetAvailableSeats", mock.Anything, "F2").Return(SeatAvailability{AvailableSeats: 3}, nil)
		agg := NewAggregator(gw, 4, testLogger())

		// Act
		snap, err := agg.Refresh(ctx, filter)

		// Assert
		require.NoError(t, err)
		require.Len(t, snap.Flights, 2)
		assert.Equal(t, "F1", snap.Flights[0].ID)
		assert.False(t, snap.Flights[0].Available)
		assert.Equal(t, "F2", snap.Flights[1].ID)
		assert.True(t, snap.Flights[1].Available)
		assert.Equal(t, filter, snap.Filter)
		assert.NoError(t, snap.Err)
		assert.Same(t, snap, agg.Snapshot())
		gw.AssertExpectations(t)
	})

	t.Run("cancelled caller keeps fetched availability", func(t *testing.T) {
		// Arrange
		gw := new(MockGateway)
		live := mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil })
		gw.On("SearchFlights", live, SearchFilter{}).Return([]Flight{
			{ID: "F1", FlightNumber: "SW1234"},
			{ID: "F2", FlightNumber: "OA5678"},
		}, nil)
		gw.On("GetAvailableSeats", live, "F1").Return(SeatAvailability{AvailableSeats: 2}, nil)
		gw.On("GetAvailableSeats", live, "F2").Return(SeatAvailability{AvailableSeats: 3}, nil)
		agg := NewAggregator(gw, 4, testLogger())
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		// Act
		snap, err := agg.Refresh(cctx, SearchFilter{})

		// Assert
		require.NoError(t, err)
		assert.NoError(t, snap.Err)
		require.Len(t, snap.Flights, 2)
		assert.True(t, snap.Flights[0].Available)
		assert.True(t, snap.Flights[1].Available)
		assert.Same(t, snap, agg.Snapshot())
		gw.AssertExpectations(t)
	})

	t.Run("failed availability lookup fails closed", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("SearchFlights", mock.Anything, SearchFilter{}).Return([]Flight{
			{ID: "F1"}, {ID: "F2"}, {ID: "F3"},
		}, nil)
		gw.On("GetAvailableSeats", mock.Anything, "F1").Return(SeatAvailability{AvailableSeats: 5}, nil)
		gw.On("GetAvailableSeats", mock.Anything, "F2").Return(SeatAvailability{}, errors.New("connection reset"))
		gw.On("GetAvailableSeats", mock.Anything, "F3").Return(SeatAvailability{AvailableSeats: 1}, nil)
		agg := NewAggregator(gw, 2, testLogger())

		snap, err := agg.Refresh(ctx, SearchFilter{})

		require.NoError(t, err)
		assert.NoError(t, snap.Err)
		available := map[string]bool{}
		for _, f := range snap.Flights {
			available[f.ID] = f.Available
		}
		assert.Equal(t, map[string]bool{"F1": true, "F2": false, "F3": true}, available)
	})

	t.Run("no matching flights publishes an empty list", func(t *testing.T) {
		gw := new(MockGateway)
		filter := SearchFilter{FromAirportID: "ORD", Date: "2030-01-01"}
		gw.On("SearchFlights", mock.Anything, filter).Return(nil, nil)
		agg := NewAggregator(gw, 4, testLogger())

		snap, err := agg.Refresh(ctx, filter)

		require.NoError(t, err)
		assert.NotNil(t, snap.Flights)
		assert.Empty(t, snap.Flights)
		assert.NoError(t, snap.Err)
		gw.AssertNotCalled(t, "GetAvailableSeats", mock.Anything, mock.Anything)
	})

	t.Run("search failure replaces stale flights with an empty list and an error", func(t *testing.T) {
		gw := new(MockGateway)
		first := SearchFilter{FromAirportID: "JFK"}
		second := SearchFilter{FromAirportID: "SFO"}
		searchErr := errors.New("service down")
		gw.On("SearchFlights", mock.Anything, first).Return([]Flight{{ID: "F1"}}, nil)
		gw.On("GetAvailableSeats", mock.Anything, "F1").Return(SeatAvailability{AvailableSeats: 1}, nil)
		gw.On("SearchFlights", mock.Anything, second).Return(nil, searchErr)
		agg := NewAggregator(gw, 4, testLogger())

		_, err := agg.Refresh(ctx, first)
		require.NoError(t, err)

		snap, err := agg.Refresh(ctx, second)

		require.NoError(t, err)
		assert.Empty(t, snap.Flights)
		assert.ErrorIs(t, snap.Err, searchErr)
		assert.Equal(t, second, agg.Snapshot().Filter)
		assert.Empty(t, agg.Snapshot().Flights)
	})

	t.Run("destination is ignored until an origin is set", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("SearchFlights", mock.Anything, SearchFilter{Date: "2025-03-15"}).Return([]Flight{}, nil)
		agg := NewAggregator(gw, 4, testLogger())

		_, err := agg.Refresh(ctx, SearchFilter{ToAirportID: "LAX", Date: " 2025-03-15 "})

		require.NoError(t, err)
		gw.AssertExpectations(t)
	})
}

func TestAggregator_SnapshotBeforeFirstPass(t *testing.T) {
	agg := NewAggregator(new(MockGateway), 0, testLogger())

	snap := agg.Snapshot()

	assert.Equal(t, uint64(0), snap.Seq)
	assert.NotNil(t, snap.Flights)
	assert.Empty(t, snap.Flights)
}

func TestAggregator_Rerun(t *testing.T) {
	ctx := context.Background()

	t.Run("repeats the last requested filter", func(t *testing.T) {
		gw := new(MockGateway)
		filter := SearchFilter{FromAirportID: "JFK", ToAirportID: "LAX"}
		gw.On("SearchFlights", mock.Anything, filter).Return([]Flight{{ID: "F1"}}, nil).Twice()
		gw.On("GetAvailableSeats", mock.Anything, "F1").Return(SeatAvailability{AvailableSeats: 1}, nil).Once()
		gw.On("GetAvailableSeats", mock.Anything, "F1").Return(SeatAvailability{AvailableSeats: 0}, nil).Once()
		agg := NewAggregator(gw, 4, testLogger())

		first, err := agg.Refresh(ctx, filter)
		require.NoError(t, err)
		require.True(t, first.Flights[0].Available)

		require.NoError(t, agg.Rerun(ctx))

		snap := agg.Snapshot()
		assert.Greater(t, snap.Seq, first.Seq)
		assert.False(t, snap.Flights[0].Available)
		gw.AssertExpectations(t)
	})

	t.Run("reports a failed search", func(t *testing.T) {
		gw := new(MockGateway)
		searchErr := errors.New("timeout")
		gw.On("SearchFlights", mock.Anything, SearchFilter{}).Return(nil, searchErr)
		agg := NewAggregator(gw, 4, testLogger())

		err := agg.Rerun(ctx)

		assert.ErrorIs(t, err, searchErr)
	})
}

// gatedGateway blocks searches for selected origins until their gate is
// closed, so tests can choose the order in which passes complete.
type gatedGateway struct {
	mu       sync.Mutex
	results  map[string][]Flight
	gates    map[string]chan struct{}
	started  map[string]chan struct{}
	seats    map[string]int
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	seatWait time.Duration
}

func newGatedGateway() *gatedGateway {
	return &gatedGateway{
		results: map[string][]Flight{},
		gates:   map[string]chan struct{}{},
		started: map[string]chan struct{}{},
		seats:   map[string]int{},
	}
}

func (g *gatedGateway) gate(origin string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	gate := make(chan struct{})
	g.gates[origin] = gate
	g.started[origin] = make(chan struct{})
	return gate
}

func (g *gatedGateway) waitStarted(t *testing.T, origin string) {
	t.Helper()
	g.mu.Lock()
	started := g.started[origin]
	g.mu.Unlock()
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("search for %s never started", origin)
	}
}

func (g *gatedGateway) ListAirports(context.Context) ([]Airport, error) {
	return nil, nil
}

func (g *gatedGateway) SearchFlights(ctx context.Context, filter SearchFilter) ([]Flight, error) {
	g.mu.Lock()
	gate := g.gates[filter.FromAirportID]
	started := g.started[filter.FromAirportID]
	results := g.results[filter.FromAirportID]
	g.mu.Unlock()

	if started != nil {
		close(started)
	}
	if gate != nil {
		<-gate
	}
	return results, nil
}

func (g *gatedGateway) GetAvailableSeats(ctx context.Context, flightID string) (SeatAvailability, error) {
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		seen := g.maxSeen.Load()
		if n <= seen || g.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if g.seatWait > 0 {
		time.Sleep(g.seatWait)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return SeatAvailability{AvailableSeats: g.seats[flightID]}, nil
}

func TestAggregator_LastFilterWins(t *testing.T) {
	ctx := context.Background()

	t.Run("stale pass arriving after the newer one is discarded", func(t *testing.T) {
		// Arrange
		gw := newGatedGateway()
		gw.results["JFK"] = []Flight{{ID: "A1"}}
		gw.results["ORD"] = []Flight{{ID: "B1"}}
		gw.seats["A1"] = 4
		gw.seats["B1"] = 2
		release := gw.gate("JFK")
		agg := NewAggregator(gw, 4, testLogger())

		firstErr := make(chan error, 1)
		go func() {
			_, err := agg.Refresh(ctx, SearchFilter{FromAirportID: "JFK"})
			firstErr <- err
		}()
		gw.waitStarted(t, "JFK")

		// Act
		second, err := agg.Refresh(ctx, SearchFilter{FromAirportID: "ORD"})
		require.NoError(t, err)
		close(release)

		// Assert
		assert.ErrorIs(t, <-firstErr, ErrSuperseded)
		published := agg.Snapshot()
		assert.Same(t, second, published)
		require.Len(t, published.Flights, 1)
		assert.Equal(t, "B1", published.Flights[0].ID)
		assert.Equal(t, "ORD", published.Filter.FromAirportID)
	})

	t.Run("stale pass finishing first never publishes", func(t *testing.T) {
		gw := newGatedGateway()
		gw.results["JFK"] = []Flight{{ID: "A1"}}
		gw.results["ORD"] = []Flight{{ID: "B1"}}
		release := gw.gate("ORD")
		agg := NewAggregator(gw, 4, testLogger())

		gw.gate("JFK")
		firstErr := make(chan error, 1)
		go func() {
			_, err := agg.Refresh(ctx, SearchFilter{FromAirportID: "JFK"})
			firstErr <- err
		}()
		gw.waitStarted(t, "JFK")

		secondDone := make(chan *Snapshot, 1)
		go func() {
			snap, _ := agg.Refresh(ctx, SearchFilter{FromAirportID: "ORD"})
			secondDone <- snap
		}()
		gw.waitStarted(t, "ORD")

		gw.mu.Lock()
		close(gw.gates["JFK"])
		gw.mu.Unlock()
		assert.ErrorIs(t, <-firstErr, ErrSuperseded)
		assert.Equal(t, uint64(0), agg.Snapshot().Seq, "nothing published yet")

		close(release)
		second := <-secondDone
		require.NotNil(t, second)
		assert.Same(t, second, agg.Snapshot())
		assert.Equal(t, "B1", agg.Snapshot().Flights[0].ID)
	})
}

func TestAggregator_BoundedFanOut(t *testing.T) {
	gw := newGatedGateway()
	flights := make([]Flight, 12)
	for i := range flights {
		flights[i] = Flight{ID: string(rune('a' + i))}
		gw.seats[flights[i].ID] = i % 2
	}
	gw.results[""] = flights
	gw.seatWait = 10 * time.Millisecond
	agg := NewAggregator(gw, 3, testLogger())

	snap, err := agg.Refresh(context.Background(), SearchFilter{})

	require.NoError(t, err)
	require.Len(t, snap.Flights, 12)
	assert.LessOrEqual(t, gw.maxSeen.Load(), int32(3))
	assert.Greater(t, gw.maxSeen.Load(), int32(1), "lookups should overlap")
	for i, f := range snap.Flights {
		assert.Equal(t, flights[i].ID, f.ID, "order is preserved")
		assert.Equal(t, i%2 == 1, f.Available)
	}
}
