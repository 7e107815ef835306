package catalog_test

import (
	"context"
	"testing"

	"github.com/jevinjosh/event-management/entity"
	"github.com/jevinjosh/event-management/kv"
	"github.com/stretchr/testify/assert"
)

func ids(events []entity.Event) []string {
	var out []string
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestList(t *testing.T) {
	s := loadedStore(t, kv.NewMemory())
	s.AdjustSlots(context.Background(), "e1", 3)

	testCases := []struct {
		name   string
		filter entity.EventFilter
		want   []string
	}{
		{name: "defaults sort by date ascending", filter: entity.EventFilter{}, want: []string{"e2", "e3", "e1"}},
		{name: "date descending", filter: entity.EventFilter{SortOrder: entity.SortDesc}, want: []string{"e1", "e3", "e2"}},
		{name: "price", filter: entity.EventFilter{SortBy: entity.SortByPrice}, want: []string{"e2", "e1", "e3"}},
		{name: "rating descending", filter: entity.EventFilter{SortBy: entity.SortByRating, SortOrder: entity.SortDesc}, want: []string{"e2", "e3", "e1"}},
		{name: "category", filter: entity.EventFilter{Category: "Weddings"}, want: []string{"e3"}},
		{name: "search matches description and title", filter: entity.EventFilter{Search: "JAZZ"}, want: []string{"e3", "e1"}},
		{name: "search matches location", filter: entity.EventFilter{Search: "bangalore"}, want: []string{"e2"}},
		{name: "search combines with price", filter: entity.EventFilter{Search: "jazz", MaxPrice: 1000}, want: []string{"e1"}},
		{name: "min price", filter: entity.EventFilter{MinPrice: 500}, want: []string{"e3", "e1"}},
		{name: "date", filter: entity.EventFilter{Date: "2024-07-10"}, want: []string{"e2"}},
		{name: "no match", filter: entity.EventFilter{Category: "DJ Events"}, want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(s.List(tc.filter)))
		})
	}

	for _, e := range s.List(entity.EventFilter{Category: "Music"}) {
		assert.Equal(t, 7, e.AvailableSlots)
	}
}
