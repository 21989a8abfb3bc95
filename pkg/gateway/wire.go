package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"flightdesk/internal/booking"
	"flightdesk/internal/flight"
)

// FlexibleID decodes an id sent either as a JSON number or a string.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as JSON numbers so the service sees the
// same type it handed out.
func (id FlexibleID) MarshalJSON() ([]byte, error) {
	s := string(id)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// FlexibleTime decodes the timestamp layouts the service is known to emit.
// Timestamps without an offset are read as UTC.
type FlexibleTime struct {
	time.Time
}

func (t *FlexibleTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

// FlexibleFloat decodes a price sent either as a JSON number or a numeric string.
type FlexibleFloat float64

func (f *FlexibleFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("price %q is not numeric", s)
		}
		*f = FlexibleFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = FlexibleFloat(v)
	return nil
}

// Records below mirror the service's JSON. Flight and booking records use
// upper-snake keys; encoding/json matches keys case-insensitively so the
// camelCase variants some endpoints return decode too.

type airportRecord struct {
	ID    FlexibleID `json:"id"`
	Label string     `json:"label"`
}

type flightRecord struct {
	FlightID             FlexibleID    `json:"FLIGHTID"`
	FlightNumber         string        `json:"FLIGHTNUMBER"`
	DepartureAirport     string        `json:"DEPARTUREAIRPORT"`
	DepartureAirportCode string        `json:"DEPARTUREAIRPORTCODE"`
	ArrivalAirport       string        `json:"ARRIVALAIRPORT"`
	ArrivalAirportCode   string        `json:"ARRIVALAIRPORTCODE"`
	DepartureCity        string        `json:"DEPARTURECITY"`
	ArrivalCity          string        `json:"ARRIVALCITY"`
	Price                FlexibleFloat `json:"PRICE"`
	DepartureDateTime    FlexibleTime  `json:"DEPARTUREDATETIME"`
	ArrivalDateTime      FlexibleTime  `json:"ARRIVALDATETIME"`
}

type seatsRecord struct {
	AvailableSeats *int `json:"availableSeats"`
}

type passengerRecord struct {
	ID       FlexibleID `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	Passport string     `json:"passport"`
}

type bookingRecord struct {
	BookingID   FlexibleID `json:"BOOKINGID"`
	PassengerID FlexibleID `json:"PASSENGERID"`
	FlightID    FlexibleID `json:"FLIGHTID"`
	Status      string     `json:"STATUS"`
}

type bookedFlightRecord struct {
	BookingID         FlexibleID   `json:"BOOKINGID"`
	PassengerID       FlexibleID   `json:"PASSENGERID"`
	FlightID          FlexibleID   `json:"FLIGHTID"`
	FlightNumber      string       `json:"FLIGHTNUMBER"`
	DepartureCity     string       `json:"DEPARTURECITY"`
	ArrivalCity       string       `json:"ARRIVALCITY"`
	DepartureDateTime FlexibleTime `json:"DEPARTUREDATETIME"`
	ArrivalDateTime   FlexibleTime `json:"ARRIVALDATETIME"`
	Status            string       `json:"STATUS"`
}

type newPassengerPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Passport string `json:"passport"`
}

type newBookingPayload struct {
	PassengerID FlexibleID `json:"passengerId"`
	FlightID    FlexibleID `json:"flightId"`
}

func mapAirports(records []airportRecord) []flight.Airport {
	mapped := make([]flight.Airport, 0, len(records))
	for _, r := range records {
		mapped = append(mapped, flight.Airport{ID: string(r.ID), Label: r.Label})
	}
	return mapped
}

func mapFlights(records []flightRecord) []flight.Flight {
	mapped := make([]flight.Flight, 0, len(records))
	for _, r := range records {
		mapped = append(mapped, flight.Flight{
			ID:               string(r.FlightID),
			FlightNumber:     r.FlightNumber,
			DepartureAirport: firstNonEmpty(r.DepartureAirport, r.DepartureAirportCode),
			ArrivalAirport:   firstNonEmpty(r.ArrivalAirport, r.ArrivalAirportCode),
			DepartureCity:    r.DepartureCity,
			ArrivalCity:      r.ArrivalCity,
			Price:            float64(r.Price),
			DepartureTime:    r.DepartureDateTime.Time,
			ArrivalTime:      r.ArrivalDateTime.Time,
		})
	}
	return mapped
}

func mapPassenger(r passengerRecord) booking.Passenger {
	return booking.Passenger{
		ID:       string(r.ID),
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Passport: r.Passport,
	}
}

func mapPassengers(records []passengerRecord) []booking.Passenger {
	mapped := make([]booking.Passenger, 0, len(records))
	for _, r := range records {
		mapped = append(mapped, mapPassenger(r))
	}
	return mapped
}

func mapBooking(r bookingRecord) booking.Booking {
	return booking.Booking{
		BookingID:   string(r.BookingID),
		PassengerID: string(r.PassengerID),
		FlightID:    string(r.FlightID),
		Status:      r.Status,
	}
}

func mapBookedFlights(records []bookedFlightRecord) []booking.BookedFlight {
	mapped := make([]booking.BookedFlight, 0, len(records))
	for _, r := range records {
		mapped = append(mapped, booking.BookedFlight{
			BookingID:     string(r.BookingID),
			PassengerID:   string(r.PassengerID),
			FlightID:      string(r.FlightID),
			FlightNumber:  r.FlightNumber,
			DepartureCity: r.DepartureCity,
			ArrivalCity:   r.ArrivalCity,
			DepartureTime: r.DepartureDateTime.Time,
			ArrivalTime:   r.ArrivalDateTime.Time,
			Status:        r.Status,
		})
	}
	return mapped
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
