package entity

type SortField string

const (
	SortByDate   SortField = "date"
	SortByPrice  SortField = "price"
	SortByRating SortField = "rating"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// EventFilter narrows and orders the event list. Zero values mean "no
// constraint"; SortBy defaults to date and SortOrder to ascending.
type EventFilter struct {
	Category  string    `query:"category"`
	Search    string    `query:"search"`
	MinPrice  int       `query:"minPrice"`
	MaxPrice  int       `query:"maxPrice"`
	Date      string    `query:"date"`
	SortBy    SortField `query:"sortBy"`
	SortOrder SortOrder `query:"sortOrder"`
}

func (f EventFilter) WithDefaults() EventFilter {
	switch f.SortBy {
	case SortByDate, SortByPrice, SortByRating:
	default:
		f.SortBy = SortByDate
	}
	if f.SortOrder != SortDesc {
		f.SortOrder = SortAsc
	}
	return f
}
