package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shipshape/backend/internal/domain/notification"
	"github.com/shipshape/backend/internal/infrastructure/config"
)

const channelPrefix = "notifications:"

// RedisPublisher pushes notifications onto per-recipient Redis channels.
// Frontend gateways subscribe to notifications:<recipient id> and forward
// the payload over their live connections. Delivery is at-least-once;
// consumers dedupe by notification ID.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a publisher with its own Redis connection
func NewRedisPublisher(cfg config.RedisConfig) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPublisher{client: client}, nil
}

// NewRedisPublisherWithClient creates a publisher with an existing client,
// useful for testing or when sharing a client across components
func NewRedisPublisherWithClient(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// payload is the wire shape pushed to subscribers
type payload struct {
	ID          string  `json:"id"`
	RecipientID string  `json:"recipient_id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	RelatedID   *string `json:"related_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// Publish pushes a notification to the recipient's channel
func (p *RedisPublisher) Publish(ctx context.Context, n *notification.Notification) error {
	msg := payload{
		ID:          n.ID.String(),
		RecipientID: n.RecipientID.String(),
		Type:        n.Type.String(),
		Title:       n.Title,
		Message:     n.Message,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
	}
	if n.RelatedID != nil {
		related := n.RelatedID.String()
		msg.RelatedID = &related
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	channel := channelPrefix + n.RecipientID.String()
	return p.client.Publish(ctx, channel, data).Err()
}

// Close closes the underlying Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

var _ notification.Publisher = (*RedisPublisher)(nil)
