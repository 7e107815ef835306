package http

import (
	"fmt"
	"net/http"

	"github.com/jevinjosh/event-management/booking"
	"github.com/jevinjosh/event-management/entity"
	"github.com/jevinjosh/event-management/readmodel"
	"github.com/labstack/echo/v4"
)

type handler struct {
	session Session
	catalog Catalog
	ledger  Ledger
	booker  Booker
	stats   StatsReader
}

func badRequest(err error) *echo.HTTPError {
	return &echo.HTTPError{
		Code:     http.StatusBadRequest,
		Message:  "failed to parse request",
		Internal: fmt.Errorf("failed to bind request: %w", err),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	entity.Session
	Status entity.SessionStatus `json:"status"`
}

func newSessionResponse(s entity.Session) sessionResponse {
	return sessionResponse{Session: s, Status: s.Status()}
}

func (h handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}

	if !h.session.Login(c.Request().Context(), req.Email, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, newSessionResponse(h.session.Snapshot()))
}

func (h handler) Register(c echo.Context) error {
	var req entity.RegisterInput
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}

	if !h.session.Register(c.Request().Context(), req) {
		return echo.NewHTTPError(http.StatusBadRequest, "Registration failed")
	}

	return c.JSON(http.StatusCreated, newSessionResponse(h.session.Snapshot()))
}

func (h handler) Logout(c echo.Context) error {
	h.session.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

func (h handler) GetSession(c echo.Context) error {
	return c.JSON(http.StatusOK, newSessionResponse(h.session.Snapshot()))
}

func (h handler) ListEvents(c echo.Context) error {
	var filter entity.EventFilter
	if err := c.Bind(&filter); err != nil {
		return badRequest(err)
	}

	return c.JSON(http.StatusOK, h.catalog.List(filter))
}

func (h handler) GetEvent(c echo.Context) error {
	e, err := h.catalog.Lookup(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, e)
}

func (h handler) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Categories())
}

func (h handler) ListBookings(c echo.Context) error {
	if c.QueryParam("refresh") == "true" {
		if err := h.ledger.Load(c.Request().Context()); err != nil {
			return toHTTPError(err)
		}
	}

	return c.JSON(http.StatusOK, h.ledger.Bookings())
}

func (h handler) CreateBooking(c echo.Context) error {
	var req booking.Request
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	req.IdempotencyKey = c.Request().Header.Get("Idempotency-Key")

	b, err := h.booker.Book(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, b)
}

func (h handler) CancelBooking(c echo.Context) error {
	b, err := h.booker.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, b)
}

type statsResponse struct {
	readmodel.Stats
	TotalEvents int `json:"totalEvents"`
}

func (h handler) GetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, statsResponse{
		Stats:       h.stats.Stats(),
		TotalEvents: len(h.catalog.Events()),
	})
}
