package session

import (
	"errors"
	"net/http"

	"flightdesk/internal/booking"
	"flightdesk/pkg/gateway"
)

type ErrorCode string

const (
	ErrorCodeValidation          ErrorCode = "VALIDATION"
	ErrorCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrorCodeUpstreamError       ErrorCode = "UPSTREAM_ERROR"
	ErrorCodeUpstreamMalformed   ErrorCode = "UPSTREAM_MALFORMED"
	ErrorCodeFlightUnavailable   ErrorCode = "FLIGHT_UNAVAILABLE"
	ErrorCodeSessionNotFound     ErrorCode = "SESSION_NOT_FOUND"
	ErrorCodeInternalFailure     ErrorCode = "INTERNAL_FAILURE"
)

type AppError struct {
	Status  int
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrorBody is the error object returned to clients, either as the whole
// response or embedded in a snapshot that carries a failure.
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Stage and PassengerID are set when a booking attempt failed part way.
	Stage       string `json:"stage,omitempty"`
	PassengerID string `json:"passengerId,omitempty"`
}

// ToAppError maps domain and gateway failures onto HTTP statuses and codes.
func ToAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var gwErr *gateway.GatewayError
	switch {
	case errors.Is(err, booking.ErrInvalidRequest):
		return &AppError{Status: http.StatusBadRequest, Code: ErrorCodeValidation, Message: err.Error(), Err: err}
	case errors.Is(err, ErrFlightUnavailable):
		return &AppError{Status: http.StatusConflict, Code: ErrorCodeFlightUnavailable, Message: "Flight is not available for booking", Err: err}
	case errors.Is(err, ErrSessionNotFound):
		return &AppError{Status: http.StatusNotFound, Code: ErrorCodeSessionNotFound, Message: "Session not found or expired", Err: err}
	case errors.As(err, &gwErr):
		switch gwErr.Kind {
		case gateway.KindNetwork:
			return &AppError{Status: http.StatusServiceUnavailable, Code: ErrorCodeUpstreamUnavailable, Message: "Flight service is unreachable", Err: err}
		case gateway.KindService:
			return &AppError{Status: http.StatusBadGateway, Code: ErrorCodeUpstreamError, Message: gwErr.Message, Err: err}
		default:
			return &AppError{Status: http.StatusBadGateway, Code: ErrorCodeUpstreamMalformed, Message: "Flight service sent an unreadable response", Err: err}
		}
	}
	return &AppError{Status: http.StatusInternalServerError, Code: ErrorCodeInternalFailure, Message: "Internal Server Error", Err: err}
}

// errorBody renders err for embedding in a 200 response; nil stays nil.
func errorBody(err error) *ErrorBody {
	if err == nil {
		return nil
	}
	appErr := ToAppError(err)
	body := &ErrorBody{Code: appErr.Code, Message: appErr.Message}

	var stageErr *booking.StageError
	if errors.As(err, &stageErr) {
		body.Stage = stageErr.Stage.String()
		body.PassengerID = stageErr.PassengerID
	}
	return body
}
