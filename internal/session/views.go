package session

import (
	"time"

	"flightdesk/internal/booking"
	"flightdesk/internal/flight"
	"flightdesk/pkg/format"
)

type FlightView struct {
	flight.Flight
	DepartureDate  string `json:"departureDate"`
	DepartureClock string `json:"departureClock"`
	ArrivalClock   string `json:"arrivalClock"`
	Duration       string `json:"duration"`
	Bookable       bool   `json:"bookable"`
}

type FlightsResponse struct {
	Seq         uint64              `json:"seq"`
	Filter      flight.SearchFilter `json:"filter"`
	Flights     []FlightView        `json:"flights"`
	CompletedAt time.Time           `json:"completedAt"`
	Error       *ErrorBody          `json:"error,omitempty"`
}

type BookedFlightView struct {
	booking.BookedFlight
	DepartureDate  string `json:"departureDate"`
	DepartureClock string `json:"departureClock"`
	ArrivalClock   string `json:"arrivalClock"`
	Duration       string `json:"duration"`
}

type BookedFlightsResponse struct {
	Seq         uint64               `json:"seq"`
	Status      booking.BookedStatus `json:"status"`
	Selection   booking.Selection    `json:"selection"`
	Bookings    []BookedFlightView   `json:"bookings"`
	CompletedAt time.Time            `json:"completedAt"`
	Error       *ErrorBody           `json:"error,omitempty"`
}

type SessionResponse struct {
	SessionID string          `json:"sessionId"`
	Flights   FlightsResponse `json:"flights"`
}

func newFlightsResponse(snap *flight.Snapshot) FlightsResponse {
	views := make([]FlightView, 0, len(snap.Flights))
	for _, f := range snap.Flights {
		views = append(views, FlightView{
			Flight:         f,
			DepartureDate:  format.Date(f.DepartureTime),
			DepartureClock: format.Clock(f.DepartureTime),
			ArrivalClock:   format.Clock(f.ArrivalTime),
			Duration:       format.Duration(f.DepartureTime, f.ArrivalTime),
			Bookable:       f.Available,
		})
	}
	return FlightsResponse{
		Seq:         snap.Seq,
		Filter:      snap.Filter,
		Flights:     views,
		CompletedAt: snap.CompletedAt,
		Error:       errorBody(snap.Err),
	}
}

func newBookedFlightsResponse(snap *booking.BookedSnapshot) BookedFlightsResponse {
	views := make([]BookedFlightView, 0, len(snap.Bookings))
	for _, b := range snap.Bookings {
		views = append(views, BookedFlightView{
			BookedFlight:   b,
			DepartureDate:  format.Date(b.DepartureTime),
			DepartureClock: format.Clock(b.DepartureTime),
			ArrivalClock:   format.Clock(b.ArrivalTime),
			Duration:       format.Duration(b.DepartureTime, b.ArrivalTime),
		})
	}
	return BookedFlightsResponse{
		Seq:         snap.Seq,
		Status:      snap.Status(),
		Selection:   snap.Selection,
		Bookings:    views,
		CompletedAt: snap.CompletedAt,
		Error:       errorBody(snap.Err),
	}
}
