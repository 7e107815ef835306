package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h handler) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.session.Snapshot().IsAuthenticated {
			return echo.NewHTTPError(http.StatusUnauthorized, "Please login to continue")
		}
		return next(c)
	}
}

func (h handler) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s := h.session.Snapshot()
		if s.User == nil || !s.User.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
		}
		return next(c)
	}
}
