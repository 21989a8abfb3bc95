package main

import (
	"strings"
	"sync"
)

type Airport struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

type Flight struct {
	FlightID             int     `json:"FLIGHTID"`
	FlightNumber         string  `json:"FLIGHTNUMBER"`
	DepartureAirportID   int     `json:"-"`
	ArrivalAirportID     int     `json:"-"`
	DepartureAirport     string  `json:"DEPARTUREAIRPORT"`
	DepartureAirportCode string  `json:"DEPARTUREAIRPORTCODE"`
	ArrivalAirport       string  `json:"ARRIVALAIRPORT"`
	ArrivalAirportCode   string  `json:"ARRIVALAIRPORTCODE"`
	DepartureCity        string  `json:"DEPARTURECITY"`
	ArrivalCity          string  `json:"ARRIVALCITY"`
	Price                float64 `json:"PRICE"`
	DepartureDateTime    string  `json:"DEPARTUREDATETIME"`
	ArrivalDateTime      string  `json:"ARRIVALDATETIME"`
	Seats                int     `json:"-"`
}

type Passenger struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Passport string `json:"passport"`
}

type Booking struct {
	BookingID   int    `json:"BOOKINGID"`
	PassengerID int    `json:"PASSENGERID"`
	FlightID    int    `json:"FLIGHTID"`
	Status      string `json:"STATUS"`
}

type BookedFlight struct {
	Booking
	FlightNumber      string `json:"FLIGHTNUMBER"`
	DepartureCity     string `json:"DEPARTURECITY"`
	ArrivalCity       string `json:"ARRIVALCITY"`
	DepartureDateTime string `json:"DEPARTUREDATETIME"`
	ArrivalDateTime   string `json:"ARRIVALDATETIME"`
}

// Store is the in-memory state of the mock service.
type Store struct {
	mu         sync.Mutex
	airports   []Airport
	flights    []Flight
	passengers []Passenger
	bookings   []Booking
}

func NewStore() *Store {
	return &Store{
		airports: []Airport{
			{ID: 1, Label: "New York (JFK)"},
			{ID: 2, Label: "Los Angeles (LAX)"},
			{ID: 3, Label: "Chicago (ORD)"},
			{ID: 4, Label: "Miami (MIA)"},
		},
		flights: []Flight{
			{FlightID: 1, FlightNumber: "SW1234", DepartureAirportID: 1, ArrivalAirportID: 2,
				DepartureAirport: "New York (JFK)", DepartureAirportCode: "JFK",
				ArrivalAirport: "Los Angeles (LAX)", ArrivalAirportCode: "LAX",
				DepartureCity: "New York", ArrivalCity: "Los Angeles", Price: 199,
				DepartureDateTime: "2025-03-15T06:30:00", ArrivalDateTime: "2025-03-15T10:20:00", Seats: 0},
			{FlightID: 2, FlightNumber: "OA5678", DepartureAirportID: 1, ArrivalAirportID: 2,
				DepartureAirport: "New York (JFK)", DepartureAirportCode: "JFK",
				ArrivalAirport: "Los Angeles (LAX)", ArrivalAirportCode: "LAX",
				DepartureCity: "New York", ArrivalCity: "Los Angeles", Price: 249,
				DepartureDateTime: "2025-03-15T14:15:00", ArrivalDateTime: "2025-03-15T18:15:00", Seats: 3},
			{FlightID: 3, FlightNumber: "OA9012", DepartureAirportID: 3, ArrivalAirportID: 4,
				DepartureAirport: "Chicago (ORD)", DepartureAirportCode: "ORD",
				ArrivalAirport: "Miami (MIA)", ArrivalAirportCode: "MIA",
				DepartureCity: "Chicago", ArrivalCity: "Miami", Price: 179,
				DepartureDateTime: "2025-03-16T14:15:00", ArrivalDateTime: "2025-03-16T16:45:00", Seats: 12},
		},
		passengers: []Passenger{
			{ID: 1, Name: "John Smith", Email: "john@example.com", Phone: "555-0101", Passport: "A1234567"},
		},
	}
}

func (s *Store) Airports() []Airport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Airport(nil), s.airports...)
}

func (s *Store) Search(departureID, arrivalID int, date string) []Flight {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Flight, 0)
	for _, f := range s.flights {
		if departureID != 0 && f.DepartureAirportID != departureID {
			continue
		}
		if arrivalID != 0 && f.ArrivalAirportID != arrivalID {
			continue
		}
		if date != "" && !strings.HasPrefix(f.DepartureDateTime, date) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (s *Store) Seats(flightID int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.flights {
		if f.FlightID == flightID {
			return f.Seats, true
		}
	}
	return 0, false
}

func (s *Store) Passengers() []Passenger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Passenger(nil), s.passengers...)
}

func (s *Store) AddPassenger(p Passenger) Passenger {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = len(s.passengers) + 1
	s.passengers = append(s.passengers, p)
	return p
}

// Book takes one seat. It fails when the passenger or flight is unknown or
// the flight is full.
func (s *Store) Book(passengerID, flightID int) (Booking, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if passengerID <= 0 || passengerID > len(s.passengers) {
		return Booking{}, "passenger not found"
	}
	for i := range s.flights {
		if s.flights[i].FlightID != flightID {
			continue
		}
		if s.flights[i].Seats <= 0 {
			return Booking{}, "no seats available"
		}
		s.flights[i].Seats--
		b := Booking{
			BookingID:   len(s.bookings) + 1,
			PassengerID: passengerID,
			FlightID:    flightID,
			Status:      "Confirmed",
		}
		s.bookings = append(s.bookings, b)
		return b, ""
	}
	return Booking{}, "flight not found"
}

func (s *Store) BookedFlights(passengerID int) []BookedFlight {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]BookedFlight, 0)
	for _, b := range s.bookings {
		if b.PassengerID != passengerID {
			continue
		}
		for _, f := range s.flights {
			if f.FlightID == b.FlightID {
				out = append(out, BookedFlight{
					Booking:           b,
					FlightNumber:      f.FlightNumber,
					DepartureCity:     f.DepartureCity,
					ArrivalCity:       f.ArrivalCity,
					DepartureDateTime: f.DepartureDateTime,
					ArrivalDateTime:   f.ArrivalDateTime,
				})
			}
		}
	}
	return out
}
