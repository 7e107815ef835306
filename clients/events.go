package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jevinjosh/event-management/entity"
)

type apiEvent struct {
	entity.Event
	MongoID string `json:"_id"`
}

// normalize prefers the backend's _id over id. Nothing above this package
// sees _id.
func (e apiEvent) normalize() entity.Event {
	event := e.Event
	if e.MongoID != "" {
		event.ID = e.MongoID
	}
	return event
}

func (c *Client) ListEvents(ctx context.Context) ([]entity.Event, error) {
	var res []apiEvent
	if err := c.do(ctx, http.MethodGet, "/events", "", nil, &res); err != nil {
		return nil, err
	}

	events := make([]entity.Event, 0, len(res))
	for _, e := range res {
		events = append(events, e.normalize())
	}

	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, eventID string) (entity.Event, error) {
	var res apiEvent
	if err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(eventID), "", nil, &res); err != nil {
		return entity.Event{}, err
	}

	return res.normalize(), nil
}
