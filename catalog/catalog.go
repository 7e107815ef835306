// Package catalog serves the event list and the live slot availability
// derived from it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jevinjosh/event-management/clients"
	"github.com/jevinjosh/event-management/entity"
	"github.com/jevinjosh/event-management/kv"
	"github.com/jevinjosh/event-management/observe"
)

type EventsAPI interface {
	ListEvents(ctx context.Context) ([]entity.Event, error)
	GetEvent(ctx context.Context, id string) (entity.Event, error)
}

// State is a copy of the catalog. Adjustments maps event id to the number of
// slots booked locally and not yet reflected in the events' baseline.
type State struct {
	Events      []entity.Event
	Adjustments map[string]int
	Loading     bool
	Error       string
}

type Store struct {
	api EventsAPI
	kv  kv.Store

	lock        sync.RWMutex
	events      []entity.Event
	adjustments map[string]int
	loading     bool
	err         string
	subs        observe.Subscribers[State]
}

func New(api EventsAPI, store kv.Store) *Store {
	return &Store{
		api:         api,
		kv:          store,
		adjustments: make(map[string]int),
		loading:     true,
	}
}

func (s *Store) Snapshot() State {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.snapshot()
}

func (s *Store) snapshot() State {
	events := make([]entity.Event, len(s.events))
	copy(events, s.events)

	adjustments := make(map[string]int, len(s.adjustments))
	for k, v := range s.adjustments {
		adjustments[k] = v
	}

	return State{
		Events:      events,
		Adjustments: adjustments,
		Loading:     s.loading,
		Error:       s.err,
	}
}

func (s *Store) Subscribe(fn func(State)) func() {
	return s.subs.Add(fn)
}

// Load restores the persisted slot adjustments and fetches the event list.
// An empty or failed fetch falls back to the built-in seed events; the fetch
// error is still returned so the caller can report it.
func (s *Store) Load(ctx context.Context) error {
	logger := log.FromContext(ctx)

	adjustments := s.readAdjustments(ctx)

	s.lock.Lock()
	s.adjustments = adjustments
	s.loading = true
	snapshot := s.snapshot()
	s.lock.Unlock()

	s.subs.Notify(snapshot)

	events, err := s.api.ListEvents(ctx)
	if err != nil {
		logger.WithError(err).Warn("Failed to load events, using seed events")
		s.setEvents(entity.SeedEvents(), "failed to load events")
		return fmt.Errorf("loading events: %w", err)
	}

	if len(events) == 0 {
		logger.Warn("No events returned, using seed events")
		events = entity.SeedEvents()
	}

	s.setEvents(events, "")
	return nil
}

func (s *Store) readAdjustments(ctx context.Context) map[string]int {
	adjustments := make(map[string]int)

	err := kv.GetJSON(ctx, s.kv, kv.KeyEventSlots, &adjustments)
	switch {
	case err == nil:
	case errors.Is(err, kv.ErrNotFound):
	case errors.Is(err, kv.ErrCorrupt):
		log.FromContext(ctx).WithError(err).Warn("Discarding persisted slot adjustments")
		if err := s.kv.Remove(ctx, kv.KeyEventSlots); err != nil {
			log.FromContext(ctx).WithError(err).Warn("Could not clear slot adjustments")
		}
		adjustments = make(map[string]int)
	default:
		log.FromContext(ctx).WithError(err).Warn("Could not read slot adjustments")
	}

	for id, n := range adjustments {
		if n < 0 {
			adjustments[id] = 0
		}
	}

	return adjustments
}

func (s *Store) setEvents(events []entity.Event, errMsg string) {
	s.lock.Lock()
	s.events = make([]entity.Event, len(events))
	copy(s.events, events)
	s.loading = false
	s.err = errMsg
	snapshot := s.snapshot()
	s.lock.Unlock()

	s.subs.Notify(snapshot)
}

func (s *Store) Events() []entity.Event {
	return s.Snapshot().Events
}

func (s *Store) GetByID(id string) (entity.Event, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.getByID(id)
}

func (s *Store) getByID(id string) (entity.Event, bool) {
	for _, e := range s.events {
		if e.ID == id {
			return e, true
		}
	}
	return entity.Event{}, false
}

// WithAvailability returns the event with AvailableSlots replaced by the live
// value.
func (s *Store) WithAvailability(id string) (entity.Event, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	e, ok := s.getByID(id)
	if !ok {
		return entity.Event{}, false
	}
	e.AvailableSlots = s.availableSlots(e)
	return e, true
}

// Lookup returns the event with live availability. An id missing from the
// list is fetched from the API and added to it.
func (s *Store) Lookup(ctx context.Context, id string) (entity.Event, error) {
	if e, ok := s.WithAvailability(id); ok {
		return e, nil
	}

	e, err := s.api.GetEvent(ctx, id)
	if err != nil {
		var remoteErr *clients.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.StatusCode == http.StatusNotFound {
			return entity.Event{}, ErrEventNotFound
		}
		return entity.Event{}, fmt.Errorf("fetching event %s: %w", id, err)
	}

	s.lock.Lock()
	if _, ok := s.getByID(e.ID); !ok {
		s.events = append(s.events, e)
	}
	e.AvailableSlots = s.availableSlots(e)
	snapshot := s.snapshot()
	s.lock.Unlock()

	s.subs.Notify(snapshot)

	return e, nil
}

// AvailableSlots is the server baseline minus local bookings, never below
// zero. Unknown events have no slots.
func (s *Store) AvailableSlots(id string) int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	e, ok := s.getByID(id)
	if !ok {
		return 0
	}
	return s.availableSlots(e)
}

func (s *Store) availableSlots(e entity.Event) int {
	return max(0, e.AvailableSlots-s.adjustments[e.ID])
}

// ValidateSlotAvailability reports whether requested fits in the live
// availability. It does not reject non-positive requests; CheckGuestCount
// does.
func (s *Store) ValidateSlotAvailability(id string, requested int) bool {
	return requested <= s.AvailableSlots(id)
}

// CheckGuestCount is the strict booking pre-flight: the event must exist and
// requested must be positive, within capacity and within availability.
func (s *Store) CheckGuestCount(id string, requested int) error {
	s.lock.RLock()
	defer s.lock.RUnlock()

	e, ok := s.getByID(id)
	if !ok {
		return ErrEventNotFound
	}
	if requested <= 0 {
		return ErrInvalidGuestCount
	}

	available := s.availableSlots(e)
	if requested > e.Capacity || requested > available {
		return InsufficientSlotsError{
			EventID:   id,
			Available: min(available, e.Capacity),
			Requested: requested,
		}
	}

	return nil
}

// AdjustSlots adds delta to the event's local booked total, clamping at zero,
// and persists the map. A failed write is logged; the in-memory value stands.
func (s *Store) AdjustSlots(ctx context.Context, id string, delta int) {
	s.lock.Lock()
	s.adjustments[id] = max(0, s.adjustments[id]+delta)
	if err := kv.SetJSON(ctx, s.kv, kv.KeyEventSlots, s.adjustments); err != nil {
		log.FromContext(ctx).WithError(err).Warn("Could not persist slot adjustments")
	}
	snapshot := s.snapshot()
	s.lock.Unlock()

	s.subs.Notify(snapshot)
}

func (s *Store) ReleaseSlots(ctx context.Context, id string, n int) {
	s.AdjustSlots(ctx, id, -n)
}

func (s *Store) Categories() []entity.Category {
	return entity.SeedCategories()
}
