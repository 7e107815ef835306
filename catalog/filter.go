package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/jevinjosh/event-management/entity"
)

// List returns the events matching filter, ordered by it, each carrying its
// live availability.
func (s *Store) List(filter entity.EventFilter) []entity.Event {
	filter = filter.WithDefaults()

	s.lock.RLock()
	events := make([]entity.Event, 0, len(s.events))
	for _, e := range s.events {
		if !matches(filter, e) {
			continue
		}
		e.AvailableSlots = s.availableSlots(e)
		events = append(events, e)
	}
	s.lock.RUnlock()

	sort.SliceStable(events, func(i, j int) bool {
		c := compare(filter.SortBy, events[i], events[j])
		if filter.SortOrder == entity.SortDesc {
			return c > 0
		}
		return c < 0
	})

	return events
}

func matches(f entity.EventFilter, e entity.Event) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Title), q) &&
			!strings.Contains(strings.ToLower(e.Description), q) &&
			!strings.Contains(strings.ToLower(e.Location), q) {
			return false
		}
	}
	if f.MinPrice > 0 && e.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && e.Price > f.MaxPrice {
		return false
	}
	if f.Date != "" && e.Date != f.Date {
		return false
	}
	return true
}

func compare(by entity.SortField, a, b entity.Event) int {
	switch by {
	case entity.SortByPrice:
		return a.Price - b.Price
	case entity.SortByRating:
		switch {
		case a.Rating < b.Rating:
			return -1
		case a.Rating > b.Rating:
			return 1
		}
		return 0
	default:
		return compareDates(a.Date, b.Date)
	}
}

func compareDates(a, b string) int {
	ta, errA := time.Parse(time.DateOnly, a)
	tb, errB := time.Parse(time.DateOnly, b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return ta.Compare(tb)
}
