// Package booking places and cancels bookings, keeping the catalog's slot
// accounting in step with the ledger.
package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jevinjosh/event-management/catalog"
	"github.com/jevinjosh/event-management/entity"
	"github.com/jevinjosh/event-management/event"
	"github.com/jevinjosh/event-management/ledger"
)

var (
	ErrInvalidRequest       = errors.New("invalid booking request")
	ErrIdempotencyKeyReused = errors.New("idempotency key reused with a different booking request")
)

type SessionReader interface {
	Snapshot() entity.Session
}

type Catalog interface {
	GetByID(id string) (entity.Event, bool)
	CheckGuestCount(id string, requested int) error
	AdjustSlots(ctx context.Context, id string, delta int)
	ReleaseSlots(ctx context.Context, id string, n int)
}

type Ledger interface {
	Get(id string) (entity.Booking, bool)
	Create(ctx context.Context, draft entity.BookingDraft) (entity.Booking, error)
	Cancel(ctx context.Context, id string) (entity.Booking, error)
}

type Payments interface {
	Charge(ctx context.Context, idempotencyKey string, amount int, paymentMethod string) (string, error)
	RefundPayment(ctx context.Context, idempotencyKey, bookingID string, amount int) error
}

type Publisher interface {
	Publish(ctx context.Context, event any) error
}

type Request struct {
	EventID            string `json:"eventId" validate:"required"`
	GuestCount         int    `json:"guestCount" validate:"min=1"`
	CustomRequirements string `json:"customRequirements"`
	PaymentMethod      string `json:"paymentMethod" validate:"required"`

	// IdempotencyKey makes Book safe to retry: a repeated key returns the
	// booking it created. Generated when empty.
	IdempotencyKey string `json:"-"`
}

func (r Request) sameAs(other Request) bool {
	return r.EventID == other.EventID &&
		r.GuestCount == other.GuestCount &&
		r.CustomRequirements == other.CustomRequirements &&
		r.PaymentMethod == other.PaymentMethod
}

type keyedBooking struct {
	req     Request
	booking entity.Booking
}

type Service struct {
	session   SessionReader
	catalog   Catalog
	ledger    Ledger
	payments  Payments
	publisher Publisher
	validate  *validator.Validate

	keyLock sync.Mutex
	byKey   map[string]keyedBooking
}

func NewService(
	session SessionReader,
	catalog Catalog,
	ledger Ledger,
	payments Payments,
	publisher Publisher,
) *Service {
	return &Service{
		session:   session,
		catalog:   catalog,
		ledger:    ledger,
		payments:  payments,
		publisher: publisher,
		validate:  validator.New(),
		byKey:     make(map[string]keyedBooking),
	}
}

// Book charges the guest, records the booking remotely and then takes the
// guests out of the event's live availability.
func (s *Service) Book(ctx context.Context, req Request) (entity.Booking, error) {
	if err := s.validate.Struct(req); err != nil {
		return entity.Booking{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	sess := s.session.Snapshot()
	if !sess.IsAuthenticated || sess.User == nil {
		return entity.Booking{}, ledger.ErrAuthenticationRequired
	}

	if req.IdempotencyKey == "" {
		return s.book(ctx, req, uuid.NewString())
	}

	// keys are per user
	key := sess.User.ID + ":" + req.IdempotencyKey

	s.keyLock.Lock()
	defer s.keyLock.Unlock()

	if prev, ok := s.byKey[key]; ok {
		if !prev.req.sameAs(req) {
			return entity.Booking{}, ErrIdempotencyKeyReused
		}
		return prev.booking, nil
	}

	b, err := s.book(ctx, req, key)
	if err != nil {
		return entity.Booking{}, err
	}
	s.byKey[key] = keyedBooking{req: req, booking: b}

	return b, nil
}

func (s *Service) book(ctx context.Context, req Request, idempotencyKey string) (entity.Booking, error) {
	e, ok := s.catalog.GetByID(req.EventID)
	if !ok {
		return entity.Booking{}, fmt.Errorf("booking event %s: %w", req.EventID, catalog.ErrEventNotFound)
	}

	if err := s.catalog.CheckGuestCount(req.EventID, req.GuestCount); err != nil {
		return entity.Booking{}, err
	}

	total := e.Price * req.GuestCount
	paymentRef, err := s.payments.Charge(ctx, idempotencyKey, total, req.PaymentMethod)
	if err != nil {
		return entity.Booking{}, fmt.Errorf("charging payment: %w", err)
	}

	draft := entity.BookingDraft{
		EventID:            e.ID,
		EventSnapshot:      entity.NewEventSnapshot(e),
		GuestCount:         req.GuestCount,
		TotalPrice:         total,
		CustomRequirements: req.CustomRequirements,
		PaymentMethod:      req.PaymentMethod,
		Status:             entity.StatusConfirmed,
	}

	b, err := s.ledger.Create(ctx, draft)
	if err != nil {
		if refundErr := s.payments.RefundPayment(ctx, idempotencyKey, "", total); refundErr != nil {
			log.FromContext(ctx).WithError(refundErr).Error("Could not refund payment for failed booking")
		}
		return entity.Booking{}, err
	}

	s.catalog.AdjustSlots(ctx, b.EventID, b.GuestCount)

	if err := s.publisher.Publish(ctx, event.NewBookingPlaced(idempotencyKey, paymentRef, b)); err != nil {
		log.FromContext(ctx).WithError(err).Warn("Could not publish BookingPlaced")
	}

	return b, nil
}

// Cancel cancels one of the signed-in user's bookings and gives its guests
// back to the event.
func (s *Service) Cancel(ctx context.Context, id string) (entity.Booking, error) {
	if !s.session.Snapshot().IsAuthenticated {
		return entity.Booking{}, ledger.ErrAuthenticationRequired
	}

	b, ok := s.ledger.Get(id)
	if !ok {
		return entity.Booking{}, ledger.ErrBookingNotFound
	}

	if _, err := s.ledger.Cancel(ctx, id); err != nil {
		return entity.Booking{}, err
	}

	s.catalog.ReleaseSlots(ctx, b.EventID, b.GuestCount)

	b.Status = entity.StatusCancelled
	if err := s.publisher.Publish(ctx, event.NewBookingCanceled(uuid.NewString(), b)); err != nil {
		log.FromContext(ctx).WithError(err).Warn("Could not publish BookingCanceled")
	}

	return b, nil
}
