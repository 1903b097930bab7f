package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pharmaflow/internal/models"

	"github.com/go-redis/redis/v8"
)

const medicineTTL = 5 * time.Minute

// Client caches medicine snapshots for display-path lookups. The cache is
// advisory only; billing correctness never reads from it.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
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

func medicineKey(refNo string) string {
	return "medicine:" + strings.ToLower(refNo)
}

// GetMedicine returns a cached medicine, or ErrNotFound on a cache miss.
func (c *Client) GetMedicine(ctx context.Context, refNo string) (*models.Medicine, error) {
	raw, err := c.rdb.Get(ctx, medicineKey(refNo)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("cache miss for %s: %w", refNo, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var med models.Medicine
	if err := json.Unmarshal(raw, &med); err != nil {
		return nil, fmt.Errorf("corrupt cache entry for %s: %w", refNo, err)
	}
	return &med, nil
}

// SetMedicine caches a medicine snapshot with a short TTL.
func (c *Client) SetMedicine(ctx context.Context, med *models.Medicine) error {
	raw, err := json.Marshal(med)
	if err != nil {
		return fmt.Errorf("failed to marshal medicine: %w", err)
	}
	return c.rdb.Set(ctx, medicineKey(med.RefNo), raw, medicineTTL).Err()
}

// InvalidateMedicine drops the cache entry for a ref. Called on every
// catalog write, including stock decrements.
func (c *Client) InvalidateMedicine(ctx context.Context, refNo string) error {
	return c.rdb.Del(ctx, medicineKey(refNo)).Err()
}
