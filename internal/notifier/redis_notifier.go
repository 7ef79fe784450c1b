package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/localmarket/commercehub/pkg/logger"
)

// Alert is the wire format published to the ops channel. The external relay
// subscribed to the channel forwards it to the admin chat.
type Alert struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// RedisNotifier publishes alerts to a redis pub/sub channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	ctx     context.Context
}

func NewRedisNotifier(redisURL, channel string) (*RedisNotifier, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisNotifier{
		client:  client,
		channel: channel,
		ctx:     ctx,
	}, nil
}

// Notify publishes asynchronously. Publish errors are logged and dropped.
func (n *RedisNotifier) Notify(message string) {
	go func() {
		data, err := json.Marshal(Alert{Message: message, At: time.Now()})
		if err != nil {
			return
		}
		if err := n.client.Publish(n.ctx, n.channel, data).Err(); err != nil {
			logger.Log.Warn("Failed to publish ops alert",
				zap.String("channel", n.channel),
				zap.Error(err),
			)
		}
	}()
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
