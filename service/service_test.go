package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/jevinjosh/event-management/clients"
	"github.com/jevinjosh/event-management/clients/clientstest"
	"github.com/jevinjosh/event-management/config"
	"github.com/jevinjosh/event-management/entity"
	"github.com/lithammer/shortuuid/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

type testClient struct {
	baseURL string
}

func (c testClient) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(log.CorrelationIDHttpHeader, shortuuid.New())
	req.Header.Set("Idempotency-Key", shortuuid.New())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func startService(t *testing.T, backend *clientstest.Backend) (*Service, testClient) {
	t.Helper()

	cfg := config.Config{
		HTTPAddr:      freeAddr(t),
		APIBaseURL:    backend.URL(),
		StoreBackend:  config.BackendMemory,
		StoreScope:    "test",
		PubSubBackend: config.BackendGoChannel,
		LogLevel:      "info",
		SessionTTL:    48 * time.Hour,
	}

	api, err := clients.New(cfg.APIBaseURL, 5*time.Second)
	require.NoError(t, err)

	svc, err := New(cfg, watermill.NopLogger{}, api, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, svc.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	client := testClient{baseURL: "http://" + cfg.HTTPAddr}

	require.EventuallyWithT(t, func(t *assert.CollectT) {
		resp, err := http.Get(client.baseURL + "/health")
		if !assert.NoError(t, err) {
			return
		}
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}, 10*time.Second, 50*time.Millisecond)

	return svc, client
}

func TestComponent(t *testing.T) {
	backend := clientstest.NewBackend()
	t.Cleanup(backend.Close)

	backend.AddUser(entity.User{ID: "admin-1", Name: "Admin", Email: "admin@example.com", Role: entity.RoleAdmin}, "secret1")
	backend.SetEvents([]entity.Event{
		{ID: "e1", Title: "Summer DJ Festival", Category: "DJ Events", Price: 800, Date: "2024-06-15", Capacity: 300, AvailableSlots: 200},
	})

	svc, client := startService(t, backend)

	var session map[string]any
	status := client.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "admin@example.com", "password": "secret1"}, &session)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "authenticated", session["status"])

	var placed entity.Booking
	status = client.do(t, http.MethodPost, "/bookings", map[string]any{
		"eventId":       "e1",
		"guestCount":    2,
		"paymentMethod": "card",
	}, &placed)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 1600, placed.TotalPrice)
	assert.Equal(t, 198, svc.catalog.AvailableSlots("e1"))

	assertStats(t, client, func(t *assert.CollectT, stats map[string]any) {
		assert.EqualValues(t, 1, stats["confirmedBookings"])
		assert.EqualValues(t, 1600, stats["revenue"])
	})

	var cancelled entity.Booking
	status = client.do(t, http.MethodDelete, "/bookings/"+placed.ID, nil, &cancelled)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 200, svc.catalog.AvailableSlots("e1"))

	assertStats(t, client, func(t *assert.CollectT, stats map[string]any) {
		assert.EqualValues(t, 1, stats["cancelledBookings"])
		assert.EqualValues(t, 0, stats["revenue"])
	})

	require.EventuallyWithT(t, func(t *assert.CollectT) {
		assert.Equal(t, []clients.Refund{{BookingID: placed.ID, Amount: 1600}}, svc.payments.Refunds())
	}, 10*time.Second, 100*time.Millisecond)

	t.Run("logout clears the ledger and login reloads it", func(t *testing.T) {
		status := client.do(t, http.MethodPost, "/bookings", map[string]any{
			"eventId":       "e1",
			"guestCount":    1,
			"paymentMethod": "upi",
		}, nil)
		require.Equal(t, http.StatusCreated, status)
		require.Len(t, svc.ledger.Bookings(), 1)

		status = client.do(t, http.MethodPost, "/auth/logout", nil, nil)
		require.Equal(t, http.StatusNoContent, status)
		assert.Empty(t, svc.ledger.Bookings())

		status = client.do(t, http.MethodGet, "/bookings", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, status)

		status = client.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "admin@example.com", "password": "secret1"}, nil)
		require.Equal(t, http.StatusOK, status)

		var bookings []entity.Booking
		status = client.do(t, http.MethodGet, "/bookings", nil, &bookings)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, bookings, 1)
	})
}

func assertStats(t *testing.T, client testClient, check func(*assert.CollectT, map[string]any)) {
	t.Helper()

	require.EventuallyWithT(t, func(collectT *assert.CollectT) {
		var stats map[string]any
		status := client.do(t, http.MethodGet, "/admin/stats", nil, &stats)
		if !assert.Equal(collectT, http.StatusOK, status) {
			return
		}
		check(collectT, stats)
	}, 10*time.Second, 100*time.Millisecond)
}
