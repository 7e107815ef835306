package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jevinjosh/event-management/clients"
	"github.com/jevinjosh/event-management/entity"
	"github.com/jevinjosh/event-management/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockBookingsAPI struct {
	lock     sync.Mutex
	bookings []entity.Booking
	next     int
	err      error
	calls    int
}

func (m *MockBookingsAPI) ListUserBookings(_ context.Context, _, userID string) ([]entity.Booking, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.calls++

	if m.err != nil {
		return nil, m.err
	}

	var out []entity.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MockBookingsAPI) CreateBooking(_ context.Context, _ string, draft entity.BookingDraft) (entity.Booking, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.calls++

	if m.err != nil {
		return entity.Booking{}, m.err
	}

	m.next++
	b := entity.Booking{
		ID:            fmt.Sprintf("b%d", m.next),
		EventID:       draft.EventID,
		UserID:        draft.UserID,
		EventSnapshot: draft.EventSnapshot,
		GuestCount:    draft.GuestCount,
		TotalPrice:    draft.TotalPrice,
		Status:        entity.StatusConfirmed,
	}
	m.bookings = append(m.bookings, b)
	return b, nil
}

func (m *MockBookingsAPI) CancelBooking(_ context.Context, _, id string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.calls++

	return m.err
}

func (m *MockBookingsAPI) Calls() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.calls
}

type staticSession struct {
	session entity.Session
}

func (s *staticSession) Snapshot() entity.Session {
	return s.session
}

func signedIn() *staticSession {
	return &staticSession{session: entity.Session{
		User:            &entity.User{ID: "u1", Name: "Asha"},
		Token:           "t1",
		IsAuthenticated: true,
	}}
}

func draft(eventID string, guests int) entity.BookingDraft {
	return entity.BookingDraft{
		EventID:       eventID,
		EventSnapshot: entity.EventSnapshot{EventTitle: "Jazz Night"},
		GuestCount:    guests,
		TotalPrice:    guests * 100,
		PaymentMethod: "card",
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	api := &MockBookingsAPI{bookings: []entity.Booking{
		{ID: "x1", UserID: "u1"},
		{ID: "x2", UserID: "someone-else"},
		{ID: "x3", UserID: "u1"},
	}}

	t.Run("signed out is a no-op", func(t *testing.T) {
		s := ledger.New(api, &staticSession{})
		require.NoError(t, s.Load(ctx))
		assert.Empty(t, s.Bookings())
		assert.Equal(t, 0, api.Calls())
	})

	t.Run("replaces the list", func(t *testing.T) {
		s := ledger.New(api, signedIn())
		require.NoError(t, s.Load(ctx))

		bookings := s.Bookings()
		require.Len(t, bookings, 2)
		assert.Equal(t, "x1", bookings[0].ID)
		assert.Equal(t, "x3", bookings[1].ID)

		require.NoError(t, s.Load(ctx))
		assert.Len(t, s.Bookings(), 2)
	})

	t.Run("failure keeps the list", func(t *testing.T) {
		s := ledger.New(api, signedIn())
		require.NoError(t, s.Load(ctx))

		failing := &MockBookingsAPI{err: &clients.RemoteError{StatusCode: 500, Message: "boom"}}
		s2 := ledger.New(failing, signedIn())
		err := s2.Load(ctx)
		require.Error(t, err)
		assert.True(t, clients.IsRemoteError(err))
		assert.Equal(t, "failed to load bookings", s2.Snapshot().Error)
		assert.Empty(t, s2.Bookings())
		assert.Len(t, s.Bookings(), 2)
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("signed out", func(t *testing.T) {
		api := &MockBookingsAPI{}
		s := ledger.New(api, &staticSession{})

		_, err := s.Create(ctx, draft("e1", 2))
		assert.ErrorIs(t, err, ledger.ErrAuthenticationRequired)
		assert.Empty(t, s.Bookings())
		assert.Equal(t, 0, api.Calls())
	})

	t.Run("appends the server booking", func(t *testing.T) {
		api := &MockBookingsAPI{}
		s := ledger.New(api, signedIn())

		b, err := s.Create(ctx, draft("e1", 2))
		require.NoError(t, err)
		assert.Equal(t, "b1", b.ID)
		assert.Equal(t, "u1", b.UserID)

		got, ok := s.Get("b1")
		require.True(t, ok)
		assert.Equal(t, b, got)
		assert.Len(t, s.Bookings(), 1)
	})

	t.Run("remote failure leaves the list untouched", func(t *testing.T) {
		api := &MockBookingsAPI{}
		s := ledger.New(api, signedIn())
		_, err := s.Create(ctx, draft("e1", 1))
		require.NoError(t, err)

		api.lock.Lock()
		api.err = errors.New("connection reset")
		api.lock.Unlock()

		_, err = s.Create(ctx, draft("e1", 1))
		require.Error(t, err)
		assert.Len(t, s.Bookings(), 1)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("signed out", func(t *testing.T) {
		api := &MockBookingsAPI{}
		s := ledger.New(api, &staticSession{})

		_, err := s.Cancel(ctx, "b1")
		assert.ErrorIs(t, err, ledger.ErrAuthenticationRequired)
		assert.Equal(t, 0, api.Calls())
	})

	t.Run("removes the booking", func(t *testing.T) {
		api := &MockBookingsAPI{}
		s := ledger.New(api, signedIn())
		b1, err := s.Create(ctx, draft("e1", 1))
		require.NoError(t, err)
		b2, err := s.Create(ctx, draft("e2", 3))
		require.NoError(t, err)

		removed, err := s.Cancel(ctx, b1.ID)
		require.NoError(t, err)
		assert.Equal(t, b1, removed)
		assert.Equal(t, []entity.Booking{b2}, s.Bookings())
	})

	t.Run("remote failure keeps the booking", func(t *testing.T) {
		api := &MockBookingsAPI{}
		s := ledger.New(api, signedIn())
		b, err := s.Create(ctx, draft("e1", 1))
		require.NoError(t, err)

		api.lock.Lock()
		api.err = &clients.RemoteError{StatusCode: 404, Message: "Booking not found"}
		api.lock.Unlock()

		_, err = s.Cancel(ctx, b.ID)
		require.Error(t, err)
		assert.Len(t, s.Bookings(), 1)
	})
}

func TestReset(t *testing.T) {
	s := ledger.New(&MockBookingsAPI{}, signedIn())
	_, err := s.Create(context.Background(), draft("e1", 1))
	require.NoError(t, err)

	var last ledger.State
	s.Subscribe(func(st ledger.State) { last = st })

	s.Reset()
	assert.Empty(t, s.Bookings())
	assert.Empty(t, last.Bookings)
}
