package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"flightdesk/internal/booking"
	"flightdesk/internal/flight"
	"flightdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	HeaderSessionID = "X-Session-ID"
	sessionKey      = "session"
)

type PassengerLister interface {
	ListPassengers(ctx context.Context) ([]booking.Passenger, error)
}

type Handler struct {
	store      *Store
	passengers PassengerLister
	logger     logger.Logger
}

func NewHandler(store *Store, passengers PassengerLister, log logger.Logger) *Handler {
	return &Handler{
		store:      store,
		passengers: passengers,
		logger:     log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.POST("/v1/sessions", h.CreateSessionHandler)
	router.GET("/v1/passengers", h.ListPassengersHandler)

	scoped := router.Group("/v1", h.requireSession)
	scoped.GET("/airports", h.ListAirportsHandler)
	scoped.PUT("/search", h.SearchHandler)
	scoped.GET("/flights", h.FlightsHandler)
	scoped.POST("/bookings", h.BookHandler)
	scoped.PUT("/selection", h.SelectPassengerHandler)
	scoped.GET("/booked-flights", h.BookedFlightsHandler)
}

func (h *Handler) requireSession(c *gin.Context) {
	s, err := h.store.Get(c.GetHeader(HeaderSessionID))
	if err != nil {
		h.sendError(c, err)
		c.Abort()
		return
	}
	c.Set(sessionKey, s)
	c.Next()
}

func current(c *gin.Context) *Session {
	return c.MustGet(sessionKey).(*Session)
}

// CreateSessionHandler godoc
// @Summary      Start a session
// @Description  Creates the server-side state for one UI and loads the unfiltered flight list. Pass the id in the X-Session-ID header afterwards.
// @Tags         sessions
// @Produce      json
// @Success      201 {object} SessionResponse
// @Router       /v1/sessions [post]
func (h *Handler) CreateSessionHandler(c *gin.Context) {
	s := h.store.Create()

	// a failed load is published in the snapshot, like any search
	snap, err := s.Search(c.Request.Context(), flight.SearchFilter{})
	if err != nil {
		snap = s.Flights()
	}
	c.JSON(http.StatusCreated, SessionResponse{SessionID: s.ID, Flights: newFlightsResponse(snap)})
}

// ListPassengersHandler godoc
// @Summary      List passengers
// @Tags         passengers
// @Produce      json
// @Success      200 {array} booking.Passenger
// @Failure      502 {object} ErrorBody
// @Failure      503 {object} ErrorBody
// @Router       /v1/passengers [get]
func (h *Handler) ListPassengersHandler(c *gin.Context) {
	passengers, err := h.passengers.ListPassengers(c.Request.Context())
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, passengers)
}

// ListAirportsHandler godoc
// @Summary      List airports
// @Description  Loaded once per session and reused for both airport pickers.
// @Tags         flights
// @Produce      json
// @Param        X-Session-ID header string true "Session id"
// @Success      200 {array} flight.Airport
// @Failure      503 {object} ErrorBody
// @Router       /v1/airports [get]
func (h *Handler) ListAirportsHandler(c *gin.Context) {
	airports, err := current(c).Airports(c.Request.Context())
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, airports)
}

type searchRequest struct {
	FromAirportID string `json:"fromAirportId"`
	ToAirportID   string `json:"toAirportId"`
	Date          string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// SearchHandler godoc
// @Summary      Change the search filter
// @Description  Searches flights and attaches live seat availability. A failed search returns 200 with an empty list and an error object.
// @Tags         flights
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string true "Session id"
// @Param        request body searchRequest true "Search filter"
// @Success      200 {object} FlightsResponse
// @Failure      400 {object} ErrorBody
// @Router       /v1/search [put]
func (h *Handler) SearchHandler(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, invalidBody(err))
		return
	}

	s := current(c)
	snap, err := s.Search(c.Request.Context(), flight.SearchFilter{
		FromAirportID: req.FromAirportID,
		ToAirportID:   req.ToAirportID,
		Date:          req.Date,
	})
	if errors.Is(err, flight.ErrSuperseded) {
		// a newer search owns the published state
		snap, err = s.Flights(), nil
	}
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFlightsResponse(snap))
}

// FlightsHandler godoc
// @Summary      Current flight results
// @Tags         flights
// @Produce      json
// @Param        X-Session-ID header string true "Session id"
// @Success      200 {object} FlightsResponse
// @Router       /v1/flights [get]
func (h *Handler) FlightsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, newFlightsResponse(current(c).Flights()))
}

// BookHandler godoc
// @Summary      Book a flight
// @Description  Uses an existing passenger id or creates the passenger first. The flight must be available in the current results.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string true "Session id"
// @Param        request body booking.Request true "Booking request"
// @Success      201 {object} booking.Result
// @Failure      400 {object} ErrorBody
// @Failure      409 {object} ErrorBody
// @Failure      502 {object} ErrorBody
// @Failure      503 {object} ErrorBody
// @Router       /v1/bookings [post]
func (h *Handler) BookHandler(c *gin.Context) {
	var req booking.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, invalidBody(err))
		return
	}

	res, err := current(c).Book(c.Request.Context(), req)
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// SelectPassengerHandler godoc
// @Summary      Select the passenger whose bookings are shown
// @Description  An empty passengerId clears the selection.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string true "Session id"
// @Param        request body booking.Selection true "Selection"
// @Success      200 {object} BookedFlightsResponse
// @Router       /v1/selection [put]
func (h *Handler) SelectPassengerHandler(c *gin.Context) {
	var sel booking.Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		h.sendError(c, invalidBody(err))
		return
	}

	s := current(c)
	snap, err := s.SelectPassenger(c.Request.Context(), sel)
	if errors.Is(err, booking.ErrSuperseded) {
		snap, err = s.BookedFlights(), nil
	}
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookedFlightsResponse(snap))
}

// BookedFlightsHandler godoc
// @Summary      Current booked flights
// @Tags         bookings
// @Produce      json
// @Param        X-Session-ID header string true "Session id"
// @Success      200 {object} BookedFlightsResponse
// @Router       /v1/booked-flights [get]
func (h *Handler) BookedFlightsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, newBookedFlightsResponse(current(c).BookedFlights()))
}

func invalidBody(err error) error {
	return fmt.Errorf("%w: invalid request body: %v", booking.ErrInvalidRequest, err)
}

func (h *Handler) sendError(c *gin.Context, err error) {
	appErr := ToAppError(err)
	if appErr.Status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			logger.Err(err),
			logger.Field{Key: "path", Value: c.FullPath()},
		)
	}
	c.JSON(appErr.Status, errorBody(err))
}
