package http

import (
	"errors"
	"net/http"

	"github.com/jevinjosh/event-management/booking"
	"github.com/jevinjosh/event-management/catalog"
	"github.com/jevinjosh/event-management/clients"
	"github.com/jevinjosh/event-management/ledger"
	"github.com/labstack/echo/v4"
)

func toHTTPError(err error) *echo.HTTPError {
	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var remoteErr *clients.RemoteError
	switch {
	case errors.Is(err, ledger.ErrAuthenticationRequired):
		code, msg = http.StatusUnauthorized, "Please login to continue"
	case catalog.IsInsufficientSlots(err),
		errors.Is(err, booking.ErrIdempotencyKeyReused),
		errors.Is(err, clients.ErrIdempotencyKeyReused):
		code, msg = http.StatusConflict, err.Error()
	case errors.Is(err, catalog.ErrEventNotFound), errors.Is(err, ledger.ErrBookingNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, booking.ErrInvalidRequest),
		errors.Is(err, catalog.ErrInvalidGuestCount),
		errors.Is(err, clients.ErrPaymentMethodRequired):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.As(err, &remoteErr):
		code, msg = http.StatusBadGateway, remoteErr.Message
	}

	return &echo.HTTPError{
		Code:     code,
		Message:  msg,
		Internal: err,
	}
}
