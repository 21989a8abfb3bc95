package events

import (
	"context"
	"time"

	"flightdesk/internal/booking"
)

const TypeBookingConfirmed = "booking.confirmed"

type BookingEvent struct {
	Type        string    `json:"type"`
	BookingID   string    `json:"booking_id"`
	PassengerID string    `json:"passenger_id"`
	FlightID    string    `json:"flight_id"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

// BookingNotifier emits an event for every confirmed booking, keyed by
// booking id.
type BookingNotifier struct {
	publisher Publisher
	topic     string
	now       func() time.Time
}

func NewBookingNotifier(publisher Publisher, topic string) *BookingNotifier {
	return &BookingNotifier{
		publisher: publisher,
		topic:     topic,
		now:       time.Now,
	}
}

var _ booking.Notifier = (*BookingNotifier)(nil)

func (n *BookingNotifier) BookingConfirmed(ctx context.Context, b booking.Booking) error {
	event := BookingEvent{
		Type:        TypeBookingConfirmed,
		BookingID:   b.BookingID,
		PassengerID: b.PassengerID,
		FlightID:    b.FlightID,
		Status:      b.Status,
		OccurredAt:  n.now().UTC(),
	}
	return n.publisher.Publish(ctx, n.topic, b.BookingID, event)
}
