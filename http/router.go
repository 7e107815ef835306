package http

import (
	"context"
	"net/http"

	commonHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/jevinjosh/event-management/booking"
	"github.com/jevinjosh/event-management/entity"
	"github.com/jevinjosh/event-management/readmodel"
	"github.com/labstack/echo/v4"
)

var ErrServerClosed = http.ErrServerClosed

type Session interface {
	Snapshot() entity.Session
	Login(ctx context.Context, email, password string) bool
	Register(ctx context.Context, input entity.RegisterInput) bool
	Logout(ctx context.Context)
}

type Catalog interface {
	List(filter entity.EventFilter) []entity.Event
	Events() []entity.Event
	Lookup(ctx context.Context, id string) (entity.Event, error)
	Categories() []entity.Category
}

type Ledger interface {
	Bookings() []entity.Booking
	Load(ctx context.Context) error
}

type Booker interface {
	Book(ctx context.Context, req booking.Request) (entity.Booking, error)
	Cancel(ctx context.Context, id string) (entity.Booking, error)
}

type StatsReader interface {
	Stats() readmodel.Stats
}

type Deps struct {
	Session Session
	Catalog Catalog
	Ledger  Ledger
	Booker  Booker
	Stats   StatsReader
}

func NewRouter(deps Deps) *echo.Echo {
	server := commonHTTP.NewEcho()

	server.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	h := handler{
		session: deps.Session,
		catalog: deps.Catalog,
		ledger:  deps.Ledger,
		booker:  deps.Booker,
		stats:   deps.Stats,
	}

	server.POST("/auth/login", h.Login)
	server.POST("/auth/register", h.Register)
	server.POST("/auth/logout", h.Logout)
	server.GET("/auth/session", h.GetSession)

	server.GET("/events", h.ListEvents)
	server.GET("/events/:id", h.GetEvent)
	server.GET("/categories", h.ListCategories)

	server.GET("/bookings", h.ListBookings, h.requireSession)
	server.POST("/bookings", h.CreateBooking, h.requireSession)
	server.DELETE("/bookings/:id", h.CancelBooking, h.requireSession)

	server.GET("/admin/stats", h.GetStats, h.requireSession, h.requireAdmin)

	return server
}
