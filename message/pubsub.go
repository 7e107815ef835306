package message

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

// PubSub is the transport events and commands travel over. NewSubscriber is
// called once per handler with the handler's consumer group.
type PubSub struct {
	Publisher     message.Publisher
	NewSubscriber func(consumerGroup string) (message.Subscriber, error)
}

// NewGoChannelPubSub keeps messages in process. Every handler receives every
// message published after the router started.
func NewGoChannelPubSub(logger watermill.LoggerAdapter) PubSub {
	ch := gochannel.NewGoChannel(gochannel.Config{}, logger)

	return PubSub{
		Publisher: ch,
		NewSubscriber: func(string) (message.Subscriber, error) {
			return ch, nil
		},
	}
}

func NewRedisPubSub(rdb *redis.Client, logger watermill.LoggerAdapter) (PubSub, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: rdb,
	}, logger)
	if err != nil {
		return PubSub{}, fmt.Errorf("creating redis publisher: %w", err)
	}

	return PubSub{
		Publisher: publisher,
		NewSubscriber: func(consumerGroup string) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        rdb,
				ConsumerGroup: consumerGroup,
			}, logger)
		},
	}, nil
}
