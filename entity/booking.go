package entity

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// EventSnapshot is a copy of the event taken when the booking is made. It is
// never refreshed from the catalog.
type EventSnapshot struct {
	EventTitle string `json:"eventTitle"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Location   string `json:"location"`
	Image      string `json:"image"`
}

func NewEventSnapshot(e Event) EventSnapshot {
	return EventSnapshot{
		EventTitle: e.Title,
		Date:       e.Date,
		Time:       e.Time,
		Location:   e.Location,
		Image:      e.Image,
	}
}

type Booking struct {
	ID      string `json:"id"`
	EventID string `json:"eventId"`
	UserID  string `json:"userId"`
	EventSnapshot
	GuestCount         int           `json:"guestCount"`
	TotalPrice         int           `json:"totalPrice"`
	CustomRequirements string        `json:"customRequirements,omitempty"`
	PaymentMethod      string        `json:"paymentMethod"`
	Status             BookingStatus `json:"status"`
	CreatedAt          time.Time     `json:"createdAt"`
}

// BookingDraft is a booking before the server has assigned its id and
// creation time.
type BookingDraft struct {
	EventID string `json:"eventId"`
	UserID  string `json:"userId"`
	EventSnapshot
	GuestCount         int           `json:"guestCount"`
	TotalPrice         int           `json:"totalPrice"`
	CustomRequirements string        `json:"customRequirements,omitempty"`
	PaymentMethod      string        `json:"paymentMethod"`
	Status             BookingStatus `json:"status"`
}
