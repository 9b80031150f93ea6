package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/ecinar/unified-inbox/environments"
	"github.com/ecinar/unified-inbox/pkg/logger"
)

// Client caches inbound dedup lookups ahead of the database. The unique
// index on provider_sid remains the source of truth; the cache only
// short-circuits the common redelivery case.
type Client struct {
	client valkey.Client
}

const (
	inboundSidKeyPrefix = "inbound_sid:"
	inboundSidTTL       = 24 * time.Hour
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

	return &Client{client: client}, nil
}

// CacheInboundSid records that a provider message id has been ingested,
// mapping it to the stored message id.
func (c *Client) CacheInboundSid(ctx context.Context, providerSid, messageID string) error {
	key := inboundSidKeyPrefix + providerSid

	err := c.client.Do(ctx, c.client.B().Set().Key(key).Value(messageID).Ex(inboundSidTTL).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to cache inbound sid: %w", err)
	}

	logger.Debugf("Cached inbound sid %s -> %s in Redis", providerSid, messageID)

	return nil
}

// GetInboundMessageID returns the message id previously ingested for a
// provider sid, or "" when the sid has not been seen (or has expired).
func (c *Client) GetInboundMessageID(ctx context.Context, providerSid string) (string, error) {
	key := inboundSidKeyPrefix + providerSid

	result := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if result.Error() != nil {
		if valkey.IsValkeyNil(result.Error()) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get cached inbound sid: %w", result.Error())
	}

	messageID, err := result.ToString()
	if err != nil {
		return "", fmt.Errorf("failed to read cached inbound sid: %w", err)
	}

	return messageID, nil
}

func (c *Client) Close() error {
	c.client.Close()
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}
