package events

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
)

// NewRedisStreamPublisher publishes account events to Redis streams over the
// shared cache connection
func NewRedisStreamPublisher(client redis.UniversalClient, topic string, logger watermill.LoggerAdapter) (*WatermillPublisher, error) {
	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: client,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis stream publisher: %w", err)
	}

	return NewWatermillPublisher(publisher, topic).(*WatermillPublisher), nil
}

// Close releases the underlying publisher
func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}
