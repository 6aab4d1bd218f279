package events

import (
	"context"
	"encoding/json"
	"time"

	goRedis "github.com/redis/go-redis/v9"
)

// DefaultChannel is the Redis pub/sub channel carrying task changes.
const DefaultChannel = "td:changes"

// NewRedisClient creates a Redis client from a redis:// URL and performs a health check.
func NewRedisClient(ctx context.Context, url string) (*goRedis.Client, error) {
	opts, err := goRedis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := goRedis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// RedisPublisher publishes changes as JSON messages on a Redis channel.
type RedisPublisher struct {
	client  goRedis.UniversalClient
	channel string
}

// NewRedisPublisher creates a publisher for channel, or DefaultChannel when empty.
func NewRedisPublisher(client goRedis.UniversalClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

// Publish implements Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

// Channel returns the channel name messages are published on.
func (p *RedisPublisher) Channel() string {
	return p.channel
}

// DecodeChange parses a message published by RedisPublisher.
func DecodeChange(payload string) (Change, error) {
	var change Change
	err := json.Unmarshal([]byte(payload), &change)
	return change, err
}

// Relay subscribes to the Redis channel and republishes every change on the
// local hub until ctx ends. Forward publishers of the hub are not invoked.
func Relay(ctx context.Context, client goRedis.UniversalClient, channel string, hub *Hub) error {
	if channel == "" {
		channel = DefaultChannel
	}
	sub := client.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			change, err := DecodeChange(msg.Payload)
			if err != nil {
				hub.logger.Warn("ignoring malformed change message")
				continue
			}
			hub.deliver(change)
		}
	}
}
