// Package clientstest provides an in-memory implementation of the remote
// booking API for tests.
package clientstest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jevinjosh/event-management/entity"
	"github.com/labstack/echo/v4"
)

type account struct {
	user     entity.User
	password string
}

type Backend struct {
	lock     sync.Mutex
	accounts map[string]account
	tokens   map[string]string
	events   []entity.Event
	bookings map[string]entity.Booking
	failCode int
	failMsg  string

	server *httptest.Server
}

func NewBackend() *Backend {
	b := &Backend{
		accounts: make(map[string]account),
		tokens:   make(map[string]string),
		bookings: make(map[string]entity.Booking),
	}

	e := echo.New()
	e.Use(b.failureMiddleware)
	e.POST("/api/auth/login", b.login)
	e.POST("/api/auth/register", b.register)
	e.GET("/api/events", b.listEvents)
	e.GET("/api/events/:id", b.getEvent)
	e.GET("/api/bookings/user/:userID", b.listUserBookings, b.requireToken)
	e.POST("/api/bookings", b.createBooking, b.requireToken)
	e.DELETE("/api/bookings/:id", b.cancelBooking, b.requireToken)

	b.server = httptest.NewServer(e)
	return b
}

// URL is the API base URL, including the /api prefix.
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

func (b *Backend) Close() {
	b.server.Close()
}

func (b *Backend) AddUser(user entity.User, password string) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.accounts[user.Email] = account{user: user, password: password}
}

func (b *Backend) SetEvents(events []entity.Event) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.events = events
}

// FailWith makes every request fail with the given status and message until
// Recover is called.
func (b *Backend) FailWith(status int, message string) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.failCode = status
	b.failMsg = message
}

func (b *Backend) Recover() {
	b.FailWith(0, "")
}

func (b *Backend) Bookings() []entity.Booking {
	b.lock.Lock()
	defer b.lock.Unlock()

	bookings := make([]entity.Booking, 0, len(b.bookings))
	for _, bk := range b.bookings {
		bookings = append(bookings, bk)
	}
	return bookings
}

func (b *Backend) failureMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.lock.Lock()
		code, msg := b.failCode, b.failMsg
		b.lock.Unlock()

		if code != 0 {
			return c.JSON(code, map[string]string{"message": msg})
		}
		return next(c)
	}
}

func (b *Backend) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")

		b.lock.Lock()
		userID, ok := b.tokens[token]
		b.lock.Unlock()

		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Not authorized, token failed"})
		}
		c.Set("userID", userID)
		return next(c)
	}
}

type wireUser struct {
	MongoID   string      `json:"_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone,omitempty"`
	Role      entity.Role `json:"role"`
	CreatedAt string      `json:"createdAt"`
}

func toWireUser(u entity.User) wireUser {
	return wireUser{
		MongoID:   u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func (b *Backend) issueToken(user entity.User) string {
	token := "token-" + uuid.NewString()
	b.tokens[token] = user.ID
	return token
}

func (b *Backend) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	acc, ok := b.accounts[req.Email]
	if !ok || acc.password != req.Password {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"token": b.issueToken(acc.user),
		"user":  toWireUser(acc.user),
	})
}

func (b *Backend) register(c echo.Context) error {
	var req entity.RegisterInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if _, exists := b.accounts[req.Email]; exists {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "User already exists"})
	}

	user := entity.User{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	b.accounts[user.Email] = account{user: user, password: req.Password}

	return c.JSON(http.StatusCreated, map[string]any{
		"token": b.issueToken(user),
		"user":  toWireUser(user),
	})
}

type wireEvent struct {
	entity.Event
	ID      string `json:"id,omitempty"`
	MongoID string `json:"_id"`
}

func (b *Backend) listEvents(c echo.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	res := make([]wireEvent, 0, len(b.events))
	for _, e := range b.events {
		res = append(res, wireEvent{Event: e, MongoID: e.ID})
	}
	return c.JSON(http.StatusOK, res)
}

func (b *Backend) getEvent(c echo.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	for _, e := range b.events {
		if e.ID == c.Param("id") {
			return c.JSON(http.StatusOK, wireEvent{Event: e, MongoID: e.ID})
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"message": "Event not found"})
}

type wireBooking struct {
	entity.Booking
	ID      string `json:"id,omitempty"`
	MongoID string `json:"_id"`
}

func (b *Backend) listUserBookings(c echo.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	res := []wireBooking{}
	for _, bk := range b.bookings {
		if bk.UserID == c.Param("userID") {
			res = append(res, wireBooking{Booking: bk, MongoID: bk.ID})
		}
	}
	return c.JSON(http.StatusOK, res)
}

func (b *Backend) createBooking(c echo.Context) error {
	var draft entity.BookingDraft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}

	booking := entity.Booking{
		ID:                 uuid.NewString(),
		EventID:            draft.EventID,
		UserID:             c.Get("userID").(string),
		EventSnapshot:      draft.EventSnapshot,
		GuestCount:         draft.GuestCount,
		TotalPrice:         draft.TotalPrice,
		CustomRequirements: draft.CustomRequirements,
		PaymentMethod:      draft.PaymentMethod,
		Status:             draft.Status,
		CreatedAt:          time.Now().UTC().Truncate(time.Millisecond),
	}
	if booking.Status == "" {
		booking.Status = entity.StatusConfirmed
	}

	b.lock.Lock()
	b.bookings[booking.ID] = booking
	b.lock.Unlock()

	return c.JSON(http.StatusCreated, wireBooking{Booking: booking, MongoID: booking.ID})
}

func (b *Backend) cancelBooking(c echo.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	booking, ok := b.bookings[c.Param("id")]
	if !ok || booking.UserID != c.Get("userID").(string) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Booking not found"})
	}
	delete(b.bookings, booking.ID)

	return c.JSON(http.StatusOK, map[string]string{"message": "Booking cancelled"})
}
