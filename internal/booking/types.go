package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Passenger struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Passport string `json:"passport"`
}

// PassengerInput holds the contact fields for a passenger the service has not
// seen yet. The service assigns the id.
type PassengerInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Passport string `json:"passport" validate:"required"`
}

func (p PassengerInput) trimmed() PassengerInput {
	return PassengerInput{
		Name:     strings.TrimSpace(p.Name),
		Email:    strings.TrimSpace(p.Email),
		Phone:    strings.TrimSpace(p.Phone),
		Passport: strings.TrimSpace(p.Passport),
	}
}

// Validate requires every contact field and a well-formed email address.
func (p PassengerInput) Validate() error {
	err := validate.Struct(p.trimmed())
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: invalid passenger %s", ErrInvalidRequest, strings.Join(problems, ", "))
}

type Booking struct {
	BookingID   string `json:"bookingId"`
	PassengerID string `json:"passengerId"`
	FlightID    string `json:"flightId"`
	Status      string `json:"status"`
}

// NewBooking is the payload of a booking creation call.
type NewBooking struct {
	PassengerID string `json:"passengerId"`
	FlightID    string `json:"flightId"`
}

// BookedFlight is one of a passenger's bookings joined with its flight.
type BookedFlight struct {
	BookingID     string    `json:"bookingId"`
	PassengerID   string    `json:"passengerId"`
	FlightID      string    `json:"flightId"`
	FlightNumber  string    `json:"flightNumber"`
	DepartureCity string    `json:"departureCity"`
	ArrivalCity   string    `json:"arrivalCity"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
	Status        string    `json:"status"`
}
