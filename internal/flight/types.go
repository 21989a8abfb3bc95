package flight

import (
	"strings"
	"time"
)

type Airport struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Flight is a flight as returned by the remote service, plus the Available
// flag the Aggregator attaches. Available is a point-in-time read and may be
// stale by the time a booking is attempted.
type Flight struct {
	ID               string    `json:"id"`
	FlightNumber     string    `json:"flightNumber"`
	DepartureAirport string    `json:"departureAirport"`
	ArrivalAirport   string    `json:"arrivalAirport"`
	DepartureCity    string    `json:"departureCity"`
	ArrivalCity      string    `json:"arrivalCity"`
	Price            float64   `json:"price"`
	DepartureTime    time.Time `json:"departureTime"`
	ArrivalTime      time.Time `json:"arrivalTime"`
	Available        bool      `json:"available"`
}

// SeatAvailability is the live seat count for one flight.
type SeatAvailability struct {
	AvailableSeats int `json:"availableSeats"`
}

// SearchFilter is the user's current search criteria. Every field is optional.
type SearchFilter struct {
	FromAirportID string `json:"fromAirportId,omitempty"`
	ToAirportID   string `json:"toAirportId,omitempty"`
	Date          string `json:"date,omitempty"` // YYYY-MM-DD
}

// Normalize trims the filter and drops the destination while no origin is
// set, mirroring the UI where the destination picker stays disabled until an
// origin is chosen.
func (f SearchFilter) Normalize() SearchFilter {
	out := SearchFilter{
		FromAirportID: strings.TrimSpace(f.FromAirportID),
		ToAirportID:   strings.TrimSpace(f.ToAirportID),
		Date:          strings.TrimSpace(f.Date),
	}
	if out.FromAirportID == "" {
		out.ToAirportID = ""
	}
	return out
}

// Snapshot is one published aggregation pass. Snapshots are immutable once
// published; a new pass replaces the whole value.
type Snapshot struct {
	Seq         uint64       `json:"seq"`
	Filter      SearchFilter `json:"filter"`
	Flights     []Flight     `json:"flights"`
	Err         error        `json:"-"`
	CompletedAt time.Time    `json:"completedAt"`
}

// Find returns the flight with the given id from the snapshot.
func (s *Snapshot) Find(flightID string) (Flight, bool) {
	if s == nil {
		return Flight{}, false
	}
	for _, f := range s.Flights {
		if f.ID == flightID {
			return f, true
		}
	}
	return Flight{}, false
}
