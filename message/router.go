package message

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

type RouterDeps struct {
	Logger       watermill.LoggerAdapter
	PubSub       PubSub
	CommandBus   CommandSender
	Stats        StatsRecorder
	Payments     PaymentRefunder
	ActivityRepo ActivityRepo
}

type Router struct {
	*message.Router
}

func NewRouter(deps RouterDeps) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}

	addMiddlewares(router, deps.Logger)

	ep, err := cqrs.NewEventProcessorWithConfig(router, cqrs.EventProcessorConfig{
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return deps.PubSub.NewSubscriber("svc-events." + params.HandlerName)
		},
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return params.EventName, nil
		},
		Marshaler: marshaler,
		Logger:    deps.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating event processor: %w", err)
	}

	eventHandlers := []cqrs.EventHandler{
		cqrs.NewEventHandler("record-booking-placed", handleRecordPlaced(deps.Stats)),
		cqrs.NewEventHandler("record-booking-canceled", handleRecordCanceled(deps.Stats)),
		cqrs.NewEventHandler("request-refund", handleRequestRefund(deps.CommandBus)),
	}
	if deps.ActivityRepo != nil {
		eventHandlers = append(eventHandlers,
			cqrs.NewEventHandler("store-activity", handleStoreActivity(deps.ActivityRepo)),
			cqrs.NewEventHandler("mark-activity-cancelled", handleMarkActivityCancelled(deps.ActivityRepo)),
		)
	}

	if err := ep.AddHandlers(eventHandlers...); err != nil {
		return nil, fmt.Errorf("adding event handlers: %w", err)
	}

	cp, err := cqrs.NewCommandProcessorWithConfig(router, cqrs.CommandProcessorConfig{
		SubscriberConstructor: func(params cqrs.CommandProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return deps.PubSub.NewSubscriber("svc-commands." + params.HandlerName)
		},
		GenerateSubscribeTopic: func(params cqrs.CommandProcessorGenerateSubscribeTopicParams) (string, error) {
			return commandTopicPrefix + params.CommandName, nil
		},
		Marshaler: marshaler,
		Logger:    deps.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating command processor: %w", err)
	}

	if err := cp.AddHandlers(
		cqrs.NewCommandHandler("refund-payment", handleRefundPayment(deps.Payments)),
	); err != nil {
		return nil, fmt.Errorf("adding command handlers: %w", err)
	}

	return &Router{router}, nil
}
