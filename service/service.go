package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/jevinjosh/event-management/booking"
	"github.com/jevinjosh/event-management/catalog"
	"github.com/jevinjosh/event-management/clients"
	"github.com/jevinjosh/event-management/config"
	"github.com/jevinjosh/event-management/db"
	"github.com/jevinjosh/event-management/entity"
	"github.com/jevinjosh/event-management/http"
	"github.com/jevinjosh/event-management/kv"
	"github.com/jevinjosh/event-management/ledger"
	"github.com/jevinjosh/event-management/message"
	"github.com/jevinjosh/event-management/readmodel"
	"github.com/jevinjosh/event-management/session"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	httpAddr   string
	msgRouter  *message.Router
	httpRouter *echo.Echo

	session  *session.Store
	catalog  *catalog.Store
	ledger   *ledger.Store
	payments *clients.SimulatedPayments
	stats    *readmodel.BookingStats
}

// New wires the stores and transports selected by cfg. redisClient and
// dbConn may be nil when no configured backend needs them.
func New(
	cfg config.Config,
	logger watermill.LoggerAdapter,
	api *clients.Client,
	redisClient *redis.Client,
	dbConn *sqlx.DB,
) (*Service, error) {
	store, err := newKVStore(cfg, redisClient, dbConn)
	if err != nil {
		return nil, err
	}

	pubSub, err := newPubSub(cfg, redisClient, logger)
	if err != nil {
		return nil, err
	}

	eventBus, err := message.NewEventBus(pubSub.Publisher, logger)
	if err != nil {
		return nil, fmt.Errorf("creating event bus: %w", err)
	}

	commandBus, err := message.NewCommandBus(pubSub.Publisher, logger)
	if err != nil {
		return nil, fmt.Errorf("creating command bus: %w", err)
	}

	stats := readmodel.NewBookingStats()
	payments := clients.NewSimulatedPayments()

	deps := message.RouterDeps{
		Logger:     logger,
		PubSub:     pubSub,
		CommandBus: commandBus,
		Stats:      stats,
		Payments:   payments,
	}
	if dbConn != nil {
		deps.ActivityRepo = db.NewBookingActivityRepo(dbConn)
	}

	msgRouter, err := message.NewRouter(deps)
	if err != nil {
		return nil, fmt.Errorf("creating message router: %w", err)
	}

	sessions := session.New(api, store, session.WithFreshnessWindow(cfg.SessionTTL))
	events := catalog.New(api, store)
	bookings := ledger.New(api, sessions)
	booker := booking.NewService(sessions, events, bookings, payments, eventBus)

	sessions.Subscribe(followSession(bookings))

	httpRouter := http.NewRouter(http.Deps{
		Session: sessions,
		Catalog: events,
		Ledger:  bookings,
		Booker:  booker,
		Stats:   stats,
	})

	return &Service{
		httpAddr:   cfg.HTTPAddr,
		msgRouter:  msgRouter,
		httpRouter: httpRouter,
		session:    sessions,
		catalog:    events,
		ledger:     bookings,
		payments:   payments,
		stats:      stats,
	}, nil
}

func newKVStore(cfg config.Config, redisClient *redis.Client, dbConn *sqlx.DB) (kv.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		if redisClient == nil {
			return nil, errors.New("redis store backend needs a redis client")
		}
		return kv.NewRedis(redisClient, cfg.StoreScope), nil
	case config.BackendPostgres:
		if dbConn == nil {
			return nil, errors.New("postgres store backend needs a db connection")
		}
		return db.NewKVStore(dbConn, cfg.StoreScope), nil
	default:
		return kv.NewMemory(), nil
	}
}

func newPubSub(cfg config.Config, redisClient *redis.Client, logger watermill.LoggerAdapter) (message.PubSub, error) {
	if cfg.PubSubBackend != config.BackendRedis {
		return message.NewGoChannelPubSub(logger), nil
	}
	if redisClient == nil {
		return message.PubSub{}, errors.New("redis pubsub backend needs a redis client")
	}
	return message.NewRedisPubSub(redisClient, logger)
}

// followSession reloads the ledger whenever a new identity signs in and
// empties it when the session ends.
func followSession(bookings *ledger.Store) func(entity.Session) {
	var (
		lock  sync.Mutex
		token string
	)

	return func(s entity.Session) {
		if s.Loading {
			return
		}

		lock.Lock()
		defer lock.Unlock()

		if !s.IsAuthenticated {
			if token != "" {
				token = ""
				bookings.Reset()
			}
			return
		}

		if s.Token == token {
			return
		}
		token = s.Token

		ctx := log.ContextWithCorrelationID(context.Background(), "session-"+s.User.ID)
		if err := bookings.Load(ctx); err != nil {
			log.FromContext(ctx).WithError(err).Warn("Could not load bookings for new session")
		}
	}
}

func (s *Service) Run(ctx context.Context) error {
	restored := s.session.Restore(ctx)
	logrus.WithField("status", restored.Status()).Info("Session restored")

	if err := s.catalog.Load(ctx); err != nil {
		logrus.WithError(err).Warn("Serving seed events")
	}

	g, runCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.msgRouter.Run(runCtx); err != nil {
			return fmt.Errorf("running messaging router: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		select {
		case <-s.msgRouter.Running():
		case <-runCtx.Done():
			return nil
		}

		logrus.WithField("addr", s.httpAddr).Info("Starting HTTP server...")
		err := s.httpRouter.Start(s.httpAddr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-runCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		logrus.Info("Shutting down HTTP server...")
		if err := s.httpRouter.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("waiting for shutdown: %w", err)
	}
	logrus.Info("Shutdown complete.")

	return nil
}
