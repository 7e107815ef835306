package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/jevinjosh/event-management/clients"
	"github.com/jevinjosh/event-management/config"
	"github.com/jevinjosh/event-management/db"
	"github.com/jevinjosh/event-management/service"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	log.Init(logrus.InfoLevel)
	logger := watermill.NewStdLogger(false, false)

	if err := run(logger); err != nil {
		logger.Error("failed to run", err, nil)
		os.Exit(1)
	}
}

func run(logger watermill.LoggerAdapter) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logrus.SetLevel(cfg.Level())

	api, err := clients.New(cfg.APIBaseURL, cfg.HTTPTimeout)
	if err != nil {
		return fmt.Errorf("creating api client: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var rdb *redis.Client
	if cfg.NeedsRedis() {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error("failed to close redis connection", err, nil)
			}
		}()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
	}

	var dbConn *sqlx.DB
	if cfg.PostgresURL != "" {
		dbConn, err = sqlx.Open("postgres", cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("connecting to db: %w", err)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close db connection", err, nil)
			}
		}()

		if err := db.InitialiseDB(ctx, dbConn); err != nil {
			return fmt.Errorf("initialising db: %w", err)
		}
	}

	svc, err := service.New(cfg, logger, api, rdb, dbConn)
	if err != nil {
		return fmt.Errorf("creating service: %w", err)
	}

	return svc.Run(ctx)
}
