package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type server struct {
	store *Store
	// seatFailureRate is the share of seat lookups answered with a 500.
	seatFailureRate float64
}

func main() {
	// Default port
	port := "3000"

	// Check if port is provided as command line argument
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	s := &server{store: NewStore()}
	if rate, err := strconv.ParseFloat(os.Getenv("MOCK_SEAT_FAILURE_RATE"), 64); err == nil {
		s.seatFailureRate = rate
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/airports", s.airports)
	mux.HandleFunc("GET /api/search-flights", s.searchFlights)
	mux.HandleFunc("GET /api/flights/{id}/available-seats", s.availableSeats)
	mux.HandleFunc("GET /api/passengers", s.listPassengers)
	mux.HandleFunc("POST /api/passengers", s.createPassenger)
	mux.HandleFunc("POST /api/bookings", s.createBooking)
	mux.HandleFunc("GET /api/booked-flights", s.bookedFlights)

	addr := fmt.Sprintf(":%s", port)
	fmt.Printf("Go Mock Server running on port %s...\n", port)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}

func (s *server) airports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Airports())
}

func (s *server) searchFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	departureID, _ := strconv.Atoi(q.Get("departureId"))
	arrivalID, _ := strconv.Atoi(q.Get("arrivalId"))

	// Simulate random delay (100-300ms)
	time.Sleep(time.Duration(100+rand.Intn(201)) * time.Millisecond)

	writeJSON(w, http.StatusOK, s.store.Search(departureID, arrivalID, q.Get("date")))
}

func (s *server) availableSeats(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid flight id")
		return
	}

	time.Sleep(time.Duration(20+rand.Intn(81)) * time.Millisecond)
	if rand.Float64() < s.seatFailureRate {
		writeError(w, http.StatusInternalServerError, "seat inventory unavailable")
		return
	}

	seats, ok := s.store.Seats(id)
	if !ok {
		writeError(w, http.StatusNotFound, "flight not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"availableSeats": seats})
}

func (s *server) listPassengers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Passengers())
}

func (s *server) createPassenger(w http.ResponseWriter, r *http.Request) {
	var p Passenger
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid passenger")
		return
	}
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Email) == "" {
		writeError(w, http.StatusBadRequest, "name and email are required")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.AddPassenger(p))
}

func (s *server) createBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PassengerID json.Number `json:"passengerId"`
		FlightID    json.Number `json:"flightId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking")
		return
	}
	passengerID, _ := strconv.Atoi(req.PassengerID.String())
	flightID, _ := strconv.Atoi(req.FlightID.String())

	b, problem := s.store.Book(passengerID, flightID)
	if problem != "" {
		writeError(w, http.StatusConflict, problem)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *server) bookedFlights(w http.ResponseWriter, r *http.Request) {
	passengerID, err := strconv.Atoi(r.URL.Query().Get("passengerId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "passengerId is required")
		return
	}
	writeJSON(w, http.StatusOK, s.store.BookedFlights(passengerID))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
