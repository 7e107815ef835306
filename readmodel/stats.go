// Package readmodel builds the admin dashboard figures from booking events.
package readmodel

import (
	"context"
	"sync"
	"time"

	"github.com/jevinjosh/event-management/event"
)

type Stats struct {
	TotalBookings     int            `json:"totalBookings"`
	ConfirmedBookings int            `json:"confirmedBookings"`
	CancelledBookings int            `json:"cancelledBookings"`
	Revenue           int            `json:"revenue"`
	GuestsByEvent     map[string]int `json:"guestsByEvent"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

type bookingRecord struct {
	eventID   string
	guests    int
	price     int
	cancelled bool
}

// BookingStats is safe for concurrent use. Redelivered events are applied
// once per booking.
type BookingStats struct {
	lock      sync.RWMutex
	bookings  map[string]*bookingRecord
	updatedAt time.Time
}

func NewBookingStats() *BookingStats {
	return &BookingStats{
		bookings: make(map[string]*bookingRecord),
	}
}

func (s *BookingStats) OnBookingPlaced(_ context.Context, e *event.BookingPlaced) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	r, ok := s.bookings[e.BookingID]
	if !ok {
		s.bookings[e.BookingID] = &bookingRecord{
			eventID: e.EventID,
			guests:  e.GuestCount,
			price:   e.TotalPrice,
		}
	} else if r.eventID == "" {
		// cancellation arrived first
		r.eventID = e.EventID
		r.guests = e.GuestCount
		r.price = e.TotalPrice
	}
	s.updatedAt = e.Header.PublishedAt

	return nil
}

func (s *BookingStats) OnBookingCanceled(_ context.Context, e *event.BookingCanceled) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	r, ok := s.bookings[e.BookingID]
	if !ok {
		r = &bookingRecord{}
		s.bookings[e.BookingID] = r
	}
	r.cancelled = true
	s.updatedAt = e.Header.PublishedAt

	return nil
}

func (s *BookingStats) Stats() Stats {
	s.lock.RLock()
	defer s.lock.RUnlock()

	stats := Stats{
		GuestsByEvent: make(map[string]int),
		UpdatedAt:     s.updatedAt,
	}

	for _, r := range s.bookings {
		if r.eventID == "" {
			continue
		}
		stats.TotalBookings++
		if r.cancelled {
			stats.CancelledBookings++
			continue
		}
		stats.ConfirmedBookings++
		stats.Revenue += r.price
		stats.GuestsByEvent[r.eventID] += r.guests
	}

	return stats
}
