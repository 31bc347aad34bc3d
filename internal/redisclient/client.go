package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medicine-service/internal/store"

	"github.com/go-redis/redis/v8"
)

// Client persists ledgers as Redis lists and settings as plain keys
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and checks the connection
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func ledgerKey(key string) string {
	return fmt.Sprintf("ledger:%s", key)
}

func settingKey(key string) string {
	return fmt.Sprintf("setting:%s", key)
}

// Append pushes a record onto the tail of a ledger list. RPUSH is atomic so
// concurrent appends never interleave within a record.
func (c *Client) Append(ctx context.Context, key string, record interface{}) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	if err := c.rdb.RPush(ctx, ledgerKey(key), payload).Err(); err != nil {
		return fmt.Errorf("failed to append to %s: %w", key, err)
	}
	return nil
}

// List reads a whole ledger list in append order
func (c *Client) List(ctx context.Context, key string, dest interface{}) error {
	result, err := c.rdb.LRange(ctx, ledgerKey(key), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", key, err)
	}

	payloads := make([][]byte, len(result))
	for i, r := range result {
		payloads[i] = []byte(r)
	}
	return store.DecodeSequence(payloads, dest)
}

// Count returns the length of a ledger list
func (c *Client) Count(ctx context.Context, key string) (int, error) {
	n, err := c.rdb.LLen(ctx, ledgerKey(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", key, err)
	}
	return int(n), nil
}

// Get retrieves a setting
func (c *Client) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	payload, err := c.rdb.Get(ctx, settingKey(key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Put stores a setting without expiry
func (c *Client) Put(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return c.rdb.Set(ctx, settingKey(key), payload, 0).Err()
}
