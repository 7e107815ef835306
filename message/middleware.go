package message

import (
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"
)

const (
	retryMaxAttempts = 5
	retryMaxElapsed  = 10 * time.Second
)

func addMiddlewares(router *message.Router, logger watermill.LoggerAdapter) {
	router.AddMiddleware(withMessageContext)
	router.AddMiddleware(logOutcome)
	router.AddMiddleware(middleware.Retry{
		MaxRetries:      retryMaxAttempts,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2,
		MaxElapsedTime:  retryMaxElapsed,
		OnRetryHook: func(retryNum int, delay time.Duration) {
			logger.Info("Retrying booking message", watermill.LogFields{
				"attempt": retryNum,
				"delay":   delay,
			})
		},
		Logger: logger,
	}.Middleware)
}

// withMessageContext carries the publisher's correlation id into the handler
// context, together with a logger tagged with the message identity. Messages
// published without one get a generated id.
func withMessageContext(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		correlationID := middleware.MessageCorrelationID(msg)
		if correlationID == "" {
			correlationID = "gen_" + shortuuid.New()
			middleware.SetCorrelationID(correlationID, msg)
		}

		ctx := log.ContextWithCorrelationID(msg.Context(), correlationID)
		ctx = log.ToContext(ctx, logrus.WithFields(logrus.Fields{
			"message_uuid":   msg.UUID,
			"message_name":   msg.Metadata.Get("name"),
			"handler":        message.HandlerNameFromCtx(msg.Context()),
			"correlation_id": correlationID,
		}))
		msg.SetContext(ctx)

		return next(msg)
	}
}

func logOutcome(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		logger := log.FromContext(msg.Context())
		start := time.Now()

		msgs, err := next(msg)

		logger = logger.WithField("duration", time.Since(start))
		if err != nil {
			logger.WithError(err).Error("Booking message failed")
		} else {
			logger.Debug("Booking message handled")
		}

		return msgs, err
	}
}
