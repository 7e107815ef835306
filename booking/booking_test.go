package booking_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jevinjosh/event-management/booking"
	"github.com/jevinjosh/event-management/catalog"
	"github.com/jevinjosh/event-management/clients"
	"github.com/jevinjosh/event-management/entity"
	"github.com/jevinjosh/event-management/event"
	"github.com/jevinjosh/event-management/kv"
	"github.com/jevinjosh/event-management/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSession struct {
	session entity.Session
}

func (s *staticSession) Snapshot() entity.Session {
	return s.session
}

type eventsAPI []entity.Event

func (e eventsAPI) ListEvents(context.Context) ([]entity.Event, error) {
	return e, nil
}

func (e eventsAPI) GetEvent(_ context.Context, id string) (entity.Event, error) {
	for _, ev := range e {
		if ev.ID == id {
			return ev, nil
		}
	}
	return entity.Event{}, catalog.ErrEventNotFound
}

type MockBookingsAPI struct {
	lock sync.Mutex
	next int
	err  error
}

func (m *MockBookingsAPI) ListUserBookings(context.Context, string, string) ([]entity.Booking, error) {
	return nil, nil
}

func (m *MockBookingsAPI) CreateBooking(_ context.Context, _ string, draft entity.BookingDraft) (entity.Booking, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.err != nil {
		return entity.Booking{}, m.err
	}
	m.next++
	return entity.Booking{
		ID:                 fmt.Sprintf("b%d", m.next),
		EventID:            draft.EventID,
		UserID:             draft.UserID,
		EventSnapshot:      draft.EventSnapshot,
		GuestCount:         draft.GuestCount,
		TotalPrice:         draft.TotalPrice,
		CustomRequirements: draft.CustomRequirements,
		PaymentMethod:      draft.PaymentMethod,
		Status:             draft.Status,
	}, nil
}

func (m *MockBookingsAPI) CancelBooking(context.Context, string, string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.err
}

func (m *MockBookingsAPI) Fail(err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.err = err
}

type MockPublisher struct {
	lock   sync.Mutex
	Events []any
}

func (m *MockPublisher) Publish(_ context.Context, e any) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.Events = append(m.Events, e)
	return nil
}

type fixture struct {
	session   *staticSession
	catalog   *catalog.Store
	ledger    *ledger.Store
	api       *MockBookingsAPI
	payments  *clients.SimulatedPayments
	publisher *MockPublisher
	service   *booking.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	f := fixture{
		session: &staticSession{session: entity.Session{
			User:            &entity.User{ID: "u1"},
			Token:           "t1",
			IsAuthenticated: true,
		}},
		api:       &MockBookingsAPI{},
		payments:  clients.NewSimulatedPayments(),
		publisher: &MockPublisher{},
	}

	f.catalog = catalog.New(eventsAPI{
		{ID: "e1", Title: "Jazz Night", Price: 500, Date: "2024-09-01", Location: "Pune", Capacity: 20, AvailableSlots: 10},
	}, kv.NewMemory())
	require.NoError(t, f.catalog.Load(context.Background()))

	f.ledger = ledger.New(f.api, f.session)
	f.service = booking.NewService(f.session, f.catalog, f.ledger, f.payments, f.publisher)

	return f
}

func request(guests int) booking.Request {
	return booking.Request{
		EventID:       "e1",
		GuestCount:    guests,
		PaymentMethod: "card",
	}
}

func TestBook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	b, err := f.service.Book(ctx, request(3))
	require.NoError(t, err)

	assert.Equal(t, "u1", b.UserID)
	assert.Equal(t, 1500, b.TotalPrice)
	assert.Equal(t, entity.StatusConfirmed, b.Status)
	assert.Equal(t, entity.EventSnapshot{EventTitle: "Jazz Night", Date: "2024-09-01", Location: "Pune"}, b.EventSnapshot)

	assert.Equal(t, []entity.Booking{b}, f.ledger.Bookings())
	assert.Equal(t, 7, f.catalog.AvailableSlots("e1"))

	require.Len(t, f.publisher.Events, 1)
	placed, ok := f.publisher.Events[0].(event.BookingPlaced)
	require.True(t, ok)
	assert.Equal(t, b.ID, placed.BookingID)
	assert.Equal(t, 3, placed.GuestCount)
	assert.NotEmpty(t, placed.PaymentReference)
	assert.NotEmpty(t, placed.Header.IdempotencyKey)
}

func TestBook_Rejected(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name    string
		req     booking.Request
		signOut bool
		check   func(t *testing.T, err error)
	}{
		{
			name:    "signed out",
			req:     request(1),
			signOut: true,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ledger.ErrAuthenticationRequired)
			},
		},
		{
			name: "zero guests",
			req:  request(0),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, booking.ErrInvalidRequest)
			},
		},
		{
			name: "missing payment method",
			req:  booking.Request{EventID: "e1", GuestCount: 1},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, booking.ErrInvalidRequest)
			},
		},
		{
			name: "unknown event",
			req:  booking.Request{EventID: "nope", GuestCount: 1, PaymentMethod: "card"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, catalog.ErrEventNotFound)
			},
		},
		{
			name: "more guests than available",
			req:  request(11),
			check: func(t *testing.T, err error) {
				assert.True(t, catalog.IsInsufficientSlots(err))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			if tc.signOut {
				f.session.session = entity.Session{}
			}

			_, err := f.service.Book(ctx, tc.req)
			require.Error(t, err)
			tc.check(t, err)

			assert.Empty(t, f.ledger.Bookings())
			assert.Equal(t, 10, f.catalog.AvailableSlots("e1"))
			assert.Empty(t, f.publisher.Events)
		})
	}
}

func TestBook_RemoteFailureRefunds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.api.Fail(&clients.RemoteError{StatusCode: 500, Message: "Something went wrong"})

	_, err := f.service.Book(ctx, request(2))
	require.Error(t, err)
	assert.True(t, clients.IsRemoteError(err))

	assert.Empty(t, f.ledger.Bookings())
	assert.Equal(t, 10, f.catalog.AvailableSlots("e1"))
	assert.Equal(t, []clients.Refund{{Amount: 1000}}, f.payments.Refunds())
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	b, err := f.service.Book(ctx, request(4))
	require.NoError(t, err)
	assert.Equal(t, 6, f.catalog.AvailableSlots("e1"))

	cancelled, err := f.service.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)

	assert.Empty(t, f.ledger.Bookings())
	assert.Equal(t, 10, f.catalog.AvailableSlots("e1"))

	require.Len(t, f.publisher.Events, 2)
	canceled, ok := f.publisher.Events[1].(event.BookingCanceled)
	require.True(t, ok)
	assert.Equal(t, b.ID, canceled.BookingID)
	assert.Equal(t, 2000, canceled.TotalPrice)
}

func TestCancel_Rejected(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Cancel(ctx, "missing")
		assert.ErrorIs(t, err, ledger.ErrBookingNotFound)
	})

	t.Run("signed out", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.service.Book(ctx, request(1))
		require.NoError(t, err)

		f.session.session = entity.Session{}
		_, err = f.service.Cancel(ctx, b.ID)
		assert.ErrorIs(t, err, ledger.ErrAuthenticationRequired)
		assert.Equal(t, 9, f.catalog.AvailableSlots("e1"))
	})

	t.Run("remote failure keeps slots booked", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.service.Book(ctx, request(2))
		require.NoError(t, err)

		f.api.Fail(errors.New("timeout"))
		_, err = f.service.Cancel(ctx, b.ID)
		require.Error(t, err)
		assert.Len(t, f.ledger.Bookings(), 1)
		assert.Equal(t, 8, f.catalog.AvailableSlots("e1"))
	})
}

func TestBookAndCancel_ConserveSlots(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var ids []string
	for _, guests := range []int{1, 2, 3} {
		b, err := f.service.Book(ctx, request(guests))
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}
	assert.Equal(t, 4, f.catalog.AvailableSlots("e1"))

	for _, id := range ids {
		_, err := f.service.Cancel(ctx, id)
		require.NoError(t, err)
	}
	assert.Equal(t, 10, f.catalog.AvailableSlots("e1"))
	assert.Equal(t, 0, f.catalog.Snapshot().Adjustments["e1"])
}

func TestBook_RetryAfterFailureWithSameKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := request(2)
	req.IdempotencyKey = "retry-key"

	f.api.Fail(&clients.RemoteError{StatusCode: 503, Message: "Service unavailable"})
	_, err := f.service.Book(ctx, req)
	require.Error(t, err)
	assert.Equal(t, 0, f.payments.NetCharged())

	f.api.Fail(nil)
	b, err := f.service.Book(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, []entity.Booking{b}, f.ledger.Bookings())
	assert.Equal(t, 8, f.catalog.AvailableSlots("e1"))
	assert.Equal(t, 1000, f.payments.NetCharged())
}

func TestBook_SameKeyReturnsExistingBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := request(2)
	req.IdempotencyKey = "once"

	first, err := f.service.Book(ctx, req)
	require.NoError(t, err)
	second, err := f.service.Book(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	different := request(5)
	different.IdempotencyKey = "once"
	_, err = f.service.Book(ctx, different)
	assert.ErrorIs(t, err, booking.ErrIdempotencyKeyReused)

	assert.Len(t, f.ledger.Bookings(), 1)
	assert.Equal(t, 8, f.catalog.AvailableSlots("e1"))
	assert.Equal(t, 1000, f.payments.NetCharged())
	assert.Len(t, f.publisher.Events, 1)
}

func TestBook_KeysAreScopedToUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := request(1)
	req.IdempotencyKey = "shared"

	first, err := f.service.Book(ctx, req)
	require.NoError(t, err)

	f.session.session = entity.Session{
		User:            &entity.User{ID: "u2"},
		Token:           "t2",
		IsAuthenticated: true,
	}
	second, err := f.service.Book(ctx, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 8, f.catalog.AvailableSlots("e1"))
	assert.Equal(t, 1000, f.payments.NetCharged())
}
