package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jevinjosh/event-management/entity"
)

type apiBooking struct {
	entity.Booking
	MongoID string `json:"_id"`
}

func (b apiBooking) normalize() entity.Booking {
	booking := b.Booking
	if b.MongoID != "" {
		booking.ID = b.MongoID
	}
	return booking
}

func (c *Client) ListUserBookings(ctx context.Context, token, userID string) ([]entity.Booking, error) {
	var res []apiBooking
	path := "/bookings/user/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &res); err != nil {
		return nil, err
	}

	bookings := make([]entity.Booking, 0, len(res))
	for _, b := range res {
		bookings = append(bookings, b.normalize())
	}

	return bookings, nil
}

func (c *Client) CreateBooking(ctx context.Context, token string, draft entity.BookingDraft) (entity.Booking, error) {
	var res apiBooking
	if err := c.do(ctx, http.MethodPost, "/bookings", token, draft, &res); err != nil {
		return entity.Booking{}, err
	}

	return res.normalize(), nil
}

func (c *Client) CancelBooking(ctx context.Context, token, bookingID string) error {
	return c.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(bookingID), token, nil, nil)
}
