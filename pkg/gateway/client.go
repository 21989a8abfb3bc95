package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"flightdesk/internal/booking"
	"flightdesk/internal/flight"
	"flightdesk/pkg/idgen"
	"flightdesk/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxBodyBytes = 4 << 20

var tracer = otel.Tracer("flightdesk/gateway")

// Client is the typed HTTP client for the remote flight service. It makes one
// attempt per call; retrying is left to the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     logger.Logger
	ids        idgen.Generator
}

// NewClient builds a Client. The http.Client carries the request timeout.
// ids may be nil, in which case no X-Request-ID header is sent.
func NewClient(httpClient *http.Client, baseURL string, log logger.Logger, ids idgen.Generator) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     log,
		ids:        ids,
	}
}

var (
	_ flight.Gateway  = (*Client)(nil)
	_ booking.Gateway = (*Client)(nil)
)

func (c *Client) ListAirports(ctx context.Context) ([]flight.Airport, error) {
	var records []airportRecord
	if err := c.do(ctx, "list_airports", http.MethodGet, "/airports", nil, nil, &records); err != nil {
		return nil, err
	}
	return mapAirports(records), nil
}

// SearchFlights sends only the filter keys that are set; an empty filter
// sends no query at all.
func (c *Client) SearchFlights(ctx context.Context, filter flight.SearchFilter) ([]flight.Flight, error) {
	q := url.Values{}
	if filter.FromAirportID != "" {
		q.Set("departureId", filter.FromAirportID)
	}
	if filter.ToAirportID != "" {
		q.Set("arrivalId", filter.ToAirportID)
	}
	if filter.Date != "" {
		q.Set("date", filter.Date)
	}

	var records []flightRecord
	if err := c.do(ctx, "search_flights", http.MethodGet, "/search-flights", q, nil, &records); err != nil {
		return nil, err
	}
	return mapFlights(records), nil
}

func (c *Client) GetAvailableSeats(ctx context.Context, flightID string) (flight.SeatAvailability, error) {
	path := "/flights/" + url.PathEscape(flightID) + "/available-seats"

	var record seatsRecord
	if err := c.do(ctx, "get_available_seats", http.MethodGet, path, nil, nil, &record); err != nil {
		return flight.SeatAvailability{}, err
	}
	if record.AvailableSeats == nil {
		return flight.SeatAvailability{}, &GatewayError{
			Op:   "get_available_seats",
			Kind: KindMalformed,
			Err:  errors.New("availableSeats missing from response"),
		}
	}
	return flight.SeatAvailability{AvailableSeats: *record.AvailableSeats}, nil
}

func (c *Client) ListPassengers(ctx context.Context) ([]booking.Passenger, error) {
	var records []passengerRecord
	if err := c.do(ctx, "list_passengers", http.MethodGet, "/passengers", nil, nil, &records); err != nil {
		return nil, err
	}
	return mapPassengers(records), nil
}

func (c *Client) CreatePassenger(ctx context.Context, input booking.PassengerInput) (booking.Passenger, error) {
	payload := newPassengerPayload{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Passport: input.Passport,
	}

	var record passengerRecord
	if err := c.do(ctx, "create_passenger", http.MethodPost, "/passengers", nil, payload, &record); err != nil {
		return booking.Passenger{}, err
	}
	return mapPassenger(record), nil
}

func (c *Client) CreateBooking(ctx context.Context, req booking.NewBooking) (booking.Booking, error) {
	payload := newBookingPayload{
		PassengerID: FlexibleID(req.PassengerID),
		FlightID:    FlexibleID(req.FlightID),
	}

	var record bookingRecord
	if err := c.do(ctx, "create_booking", http.MethodPost, "/bookings", nil, payload, &record); err != nil {
		return booking.Booking{}, err
	}
	return mapBooking(record), nil
}

func (c *Client) ListBookedFlights(ctx context.Context, passengerID string) ([]booking.BookedFlight, error) {
	q := url.Values{}
	q.Set("passengerId", passengerID)

	var records []bookedFlightRecord
	if err := c.do(ctx, "list_booked_flights", http.MethodGet, "/booked-flights", q, nil, &records); err != nil {
		return nil, err
	}
	return mapBookedFlights(records), nil
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) (err error) {
	ctx, span := tracer.Start(ctx, "gateway."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.logger.Warn("gateway call failed",
				logger.Err(err),
				logger.Field{Key: "op", Value: op},
				logger.Field{Key: "path", Value: path},
			)
		}
		span.End()
	}()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, merr := json.Marshal(body)
		if merr != nil {
			return fmt.Errorf("gateway: %s: failed to marshal request: %w", op, merr)
		}
		reqBody = bytes.NewReader(encoded)
	}

	r, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("gateway: %s: failed to build request: %w", op, err)
	}
	r.Header.Set("Accept", "application/json")
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if c.ids != nil {
		requestID := c.ids.GenerateString()
		r.Header.Set("X-Request-ID", requestID)
		span.SetAttributes(attribute.String("request.id", requestID))
	}

	resp, err := c.httpClient.Do(r)
	if err != nil {
		return &GatewayError{Op: op, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &GatewayError{Op: op, Kind: KindNetwork, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serviceMessage(payload, resp.StatusCode)
		return &GatewayError{
			Op:      op,
			Kind:    KindService,
			Status:  resp.StatusCode,
			Message: msg,
			Err:     errors.New(msg),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &GatewayError{Op: op, Kind: KindMalformed, Status: resp.StatusCode, Err: err}
	}
	return nil
}

// serviceMessage pulls a human readable message out of an error body,
// falling back to the status text.
func serviceMessage(payload []byte, status int) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(payload, &body) == nil {
		if m := strings.TrimSpace(body.Message); m != "" {
			return m
		}
		if m := strings.TrimSpace(body.Error); m != "" {
			return m
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}
