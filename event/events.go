package event

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jevinjosh/event-management/entity"
)

type header struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func newHeader(idempotencyKey string) header {
	return header{
		ID:             watermill.NewUUID(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

type BookingPlaced struct {
	Header           header    `json:"header"`
	BookingID        string    `json:"booking_id"`
	EventID          string    `json:"event_id"`
	EventTitle       string    `json:"event_title"`
	UserID           string    `json:"user_id"`
	GuestCount       int       `json:"guest_count"`
	TotalPrice       int       `json:"total_price"`
	PaymentReference string    `json:"payment_reference"`
	BookedAt         time.Time `json:"booked_at"`
}

func NewBookingPlaced(idempotencyKey, paymentReference string, booking entity.Booking) BookingPlaced {
	return BookingPlaced{
		Header:           newHeader(idempotencyKey),
		BookingID:        booking.ID,
		EventID:          booking.EventID,
		EventTitle:       booking.EventTitle,
		UserID:           booking.UserID,
		GuestCount:       booking.GuestCount,
		TotalPrice:       booking.TotalPrice,
		PaymentReference: paymentReference,
		BookedAt:         booking.CreatedAt,
	}
}

func (e BookingPlaced) Booking() entity.Booking {
	return entity.Booking{
		ID:            e.BookingID,
		EventID:       e.EventID,
		UserID:        e.UserID,
		EventSnapshot: entity.EventSnapshot{EventTitle: e.EventTitle},
		GuestCount:    e.GuestCount,
		TotalPrice:    e.TotalPrice,
		Status:        entity.StatusConfirmed,
		CreatedAt:     e.BookedAt,
	}
}

type BookingCanceled struct {
	Header     header `json:"header"`
	BookingID  string `json:"booking_id"`
	EventID    string `json:"event_id"`
	UserID     string `json:"user_id"`
	GuestCount int    `json:"guest_count"`
	TotalPrice int    `json:"total_price"`
}

func NewBookingCanceled(idempotencyKey string, booking entity.Booking) BookingCanceled {
	return BookingCanceled{
		Header:     newHeader(idempotencyKey),
		BookingID:  booking.ID,
		EventID:    booking.EventID,
		UserID:     booking.UserID,
		GuestCount: booking.GuestCount,
		TotalPrice: booking.TotalPrice,
	}
}
