package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/onurcolak/chuck-norris-sms/environments"
	"github.com/onurcolak/chuck-norris-sms/pkg/logger"
)

type Client struct {
	client valkey.Client
	ttl    time.Duration
}

const (
	processedEventKeyPrefix = "chuck:event:"
	defaultDedupTTL         = time.Hour
)

func NewRedisClient(cfg environments.RedisConfig) (*Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Infof("Connected to Redis (via Valkey client)")

	ttl := cfg.DedupTTL
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}

	return &Client{client: client, ttl: ttl}, nil
}

// MarkProcessed records key and reports whether this is the first time it was
// seen within the dedup window.
func (c *Client) MarkProcessed(ctx context.Context, key string) (bool, error) {
	cmd := c.client.B().Set().
		Key(processedEventKeyPrefix + key).
		Value(time.Now().UTC().Format(time.RFC3339)).
		Nx().
		Ex(c.ttl).
		Build()

	err := c.client.Do(ctx, cmd).Error()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			logger.Debugf("Event %s already processed", key)
			return false, nil
		}
		return false, fmt.Errorf("failed to mark event as processed: %w", err)
	}

	return true, nil
}

func (c *Client) Close() error {
	c.client.Close()
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}
