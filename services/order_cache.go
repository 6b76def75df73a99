package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/uni10/storefront-api/models"
)

const (
	// RecentOrdersLimit caps the cached summaries per owner
	RecentOrdersLimit = 20
	// RecentOrdersTTL is how long an owner's list lives after its last push
	RecentOrdersTTL = 30 * 24 * time.Hour
)

// OrderSummary is the cached view of an order. It is never read back by the
// order workflow and may lag the database.
type OrderSummary struct {
	ID            string               `json:"id"`
	Total         float64              `json:"total"`
	Status        models.OrderStatus   `json:"status"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// SummaryOf builds the cache entry for an order
func SummaryOf(order *models.Order) OrderSummary {
	return OrderSummary{
		ID:            order.ID,
		Total:         order.Total,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt,
	}
}

// UserCacheKey keys the list of an authenticated customer
func UserCacheKey(auth0ID string) string {
	return "user:" + auth0ID
}

// ClientCacheKey keys the list of a guest device (X-Client-ID)
func ClientCacheKey(clientID string) string {
	return "client:" + clientID
}

// OrderCache keeps the most recent order summaries per owner, newest first
type OrderCache interface {
	Push(ctx context.Context, key string, summary OrderSummary) error
	Recent(ctx context.Context, key string) ([]OrderSummary, error)
}

var orderCacheInstance OrderCache

// InitOrderCache selects Redis when redisURL is set and memory otherwise
func InitOrderCache(redisURL string) (OrderCache, error) {
	if redisURL == "" {
		orderCacheInstance = NewMemoryOrderCache(time.Now)
		return orderCacheInstance, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	orderCacheInstance = NewRedisOrderCache(redis.NewClient(opts))
	return orderCacheInstance, nil
}

// GetOrderCache returns the initialized order cache
func GetOrderCache() OrderCache {
	return orderCacheInstance
}

// SetOrderCache sets the order cache instance (primarily for testing)
func SetOrderCache(cache OrderCache) {
	orderCacheInstance = cache
}

// RedisOrderCache stores each owner's summaries as a capped Redis list
type RedisOrderCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisOrderCache wraps a redis client
func NewRedisOrderCache(client redis.UniversalClient) *RedisOrderCache {
	return &RedisOrderCache{client: client, prefix: "recent-orders:"}
}

func (c *RedisOrderCache) Push(ctx context.Context, key string, summary OrderSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	listKey := c.prefix + key
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, listKey, payload)
		pipe.LTrim(ctx, listKey, 0, RecentOrdersLimit-1)
		pipe.Expire(ctx, listKey, RecentOrdersTTL)
		return nil
	})
	return err
}

func (c *RedisOrderCache) Recent(ctx context.Context, key string) ([]OrderSummary, error) {
	raw, err := c.client.LRange(ctx, c.prefix+key, 0, RecentOrdersLimit-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]OrderSummary, 0, len(raw))
	for _, item := range raw {
		var summary OrderSummary
		if err := json.Unmarshal([]byte(item), &summary); err != nil {
			continue
		}
		out = append(out, summary)
	}
	return out, nil
}

// MemoryOrderCache is the in-process fallback used without Redis
type MemoryOrderCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]*memoryOrderList
}

type memoryOrderList struct {
	summaries []OrderSummary
	expiresAt time.Time
}

// NewMemoryOrderCache creates an empty in-process cache
func NewMemoryOrderCache(now func() time.Time) *MemoryOrderCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryOrderCache{now: now, entries: make(map[string]*memoryOrderList)}
}

func (c *MemoryOrderCache) Push(_ context.Context, key string, summary OrderSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	list, ok := c.entries[key]
	if !ok || now.After(list.expiresAt) {
		list = &memoryOrderList{}
		c.entries[key] = list
	}
	list.summaries = append([]OrderSummary{summary}, list.summaries...)
	if len(list.summaries) > RecentOrdersLimit {
		list.summaries = list.summaries[:RecentOrdersLimit]
	}
	list.expiresAt = now.Add(RecentOrdersTTL)
	return nil
}

func (c *MemoryOrderCache) Recent(_ context.Context, key string) ([]OrderSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, ok := c.entries[key]
	if !ok {
		return []OrderSummary{}, nil
	}
	if c.now().After(list.expiresAt) {
		delete(c.entries, key)
		return []OrderSummary{}, nil
	}
	out := make([]OrderSummary, len(list.summaries))
	copy(out, list.summaries)
	return out, nil
}
