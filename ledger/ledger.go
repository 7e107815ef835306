// Package ledger holds the bookings of the signed-in user as the remote API
// last reported them.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jevinjosh/event-management/entity"
	"github.com/jevinjosh/event-management/observe"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrBookingNotFound        = errors.New("booking not found")
)

type BookingsAPI interface {
	ListUserBookings(ctx context.Context, token, userID string) ([]entity.Booking, error)
	CreateBooking(ctx context.Context, token string, draft entity.BookingDraft) (entity.Booking, error)
	CancelBooking(ctx context.Context, token, bookingID string) error
}

type SessionReader interface {
	Snapshot() entity.Session
}

type State struct {
	Bookings []entity.Booking
	Loading  bool
	Error    string
}

type Store struct {
	api     BookingsAPI
	session SessionReader

	lock     sync.RWMutex
	bookings []entity.Booking
	loading  bool
	err      string
	subs     observe.Subscribers[State]
}

func New(api BookingsAPI, session SessionReader) *Store {
	return &Store{
		api:     api,
		session: session,
	}
}

func (s *Store) Snapshot() State {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.snapshot()
}

func (s *Store) snapshot() State {
	bookings := make([]entity.Booking, len(s.bookings))
	copy(bookings, s.bookings)
	return State{
		Bookings: bookings,
		Loading:  s.loading,
		Error:    s.err,
	}
}

func (s *Store) Subscribe(fn func(State)) func() {
	return s.subs.Add(fn)
}

func (s *Store) Bookings() []entity.Booking {
	return s.Snapshot().Bookings
}

func (s *Store) Get(id string) (entity.Booking, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	for _, b := range s.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return entity.Booking{}, false
}

func (s *Store) credentials() (token, userID string, ok bool) {
	sess := s.session.Snapshot()
	if !sess.IsAuthenticated || sess.User == nil || sess.Token == "" {
		return "", "", false
	}
	return sess.Token, sess.User.ID, true
}

// Load replaces the list with the server's. It does nothing while signed
// out. On failure the previous list is kept.
func (s *Store) Load(ctx context.Context) error {
	token, userID, ok := s.credentials()
	if !ok {
		return nil
	}

	s.update(func() {
		s.loading = true
	})

	bookings, err := s.api.ListUserBookings(ctx, token, userID)
	if err != nil {
		log.FromContext(ctx).WithError(err).Warn("Failed to load bookings")
		s.update(func() {
			s.loading = false
			s.err = "failed to load bookings"
		})
		return fmt.Errorf("loading bookings: %w", err)
	}

	s.update(func() {
		s.bookings = bookings
		s.loading = false
		s.err = ""
	})

	return nil
}

// Create submits draft for the signed-in user and appends the server's
// booking. Slot accounting is left to the caller.
func (s *Store) Create(ctx context.Context, draft entity.BookingDraft) (entity.Booking, error) {
	token, userID, ok := s.credentials()
	if !ok {
		return entity.Booking{}, ErrAuthenticationRequired
	}
	draft.UserID = userID

	booking, err := s.api.CreateBooking(ctx, token, draft)
	if err != nil {
		return entity.Booking{}, fmt.Errorf("creating booking: %w", err)
	}

	s.update(func() {
		s.bookings = append(s.bookings, booking)
	})

	return booking, nil
}

// Cancel cancels the booking on the server and drops it from the list. The
// removed booking is returned when it was in the list.
func (s *Store) Cancel(ctx context.Context, id string) (entity.Booking, error) {
	token, _, ok := s.credentials()
	if !ok {
		return entity.Booking{}, ErrAuthenticationRequired
	}

	if err := s.api.CancelBooking(ctx, token, id); err != nil {
		return entity.Booking{}, fmt.Errorf("cancelling booking %s: %w", id, err)
	}

	var removed entity.Booking
	s.update(func() {
		kept := make([]entity.Booking, 0, len(s.bookings))
		for _, b := range s.bookings {
			if b.ID == id {
				removed = b
				continue
			}
			kept = append(kept, b)
		}
		s.bookings = kept
	})

	return removed, nil
}

// Reset empties the list, for when the session ends.
func (s *Store) Reset() {
	s.update(func() {
		s.bookings = nil
		s.loading = false
		s.err = ""
	})
}

func (s *Store) update(fn func()) {
	s.lock.Lock()
	fn()
	snapshot := s.snapshot()
	s.lock.Unlock()

	s.subs.Notify(snapshot)
}
