package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/taskcache/internal/domain"
	"github.com/phrazzld/taskcache/internal/platform/logger"
	"github.com/phrazzld/taskcache/internal/redact"
	"github.com/phrazzld/taskcache/internal/store"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// KeyPrefix namespaces urgent task snapshots.
	KeyPrefix = "task_"

	// TTL is applied to every snapshot write and reset on each rewrite.
	TTL = time.Hour

	// scanCount is the COUNT hint passed to SCAN while enumerating keys.
	scanCount = 100
)

// Key returns the cache key for a task.
func Key(id primitive.ObjectID) string {
	return KeyPrefix + id.Hex()
}

// UrgentCache implements store.UrgentCache using Redis.
type UrgentCache struct {
	opts   *goredis.Options
	logger *slog.Logger

	mu     sync.Mutex
	client *goredis.Client
	closed bool
}

// Ensure UrgentCache implements store.UrgentCache interface
var _ store.UrgentCache = (*UrgentCache)(nil)

// NewUrgentCache creates a cache for the given redis:// URL. No connection is
// made until the first operation.
func NewUrgentCache(url string, logger *slog.Logger) (*UrgentCache, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url %q: %w", redact.String(url), err)
	}
	return NewUrgentCacheWithOptions(opts, logger), nil
}

// NewUrgentCacheWithOptions creates a cache from explicit client options.
func NewUrgentCacheWithOptions(opts *goredis.Options, logger *slog.Logger) *UrgentCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &UrgentCache{
		opts:   opts,
		logger: logger.With(slog.String("component", "urgent_cache")),
	}
}

// EnsureConnected makes sure a live client exists and answers PING. A client
// that was closed, or that reports itself closed, is replaced by a new one.
// Every cache operation calls this first; it is also usable as a health probe.
func (c *UrgentCache) EnsureConnected(ctx context.Context) error {
	_, err := c.connected(ctx)
	return err
}

// connected implements EnsureConnected and hands back the client to use.
// The lock covers only the client swap; the ping runs unlocked.
func (c *UrgentCache) connected(ctx context.Context) (*goredis.Client, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	client := c.currentClient(log)
	err := client.Ping(ctx).Err()
	if errors.Is(err, goredis.ErrClosed) {
		log.Info("redis client closed underneath us, reconnecting")
		client = c.replaceClient(client)
		err = client.Ping(ctx).Err()
	}
	if err != nil {
		log.Warn("redis unreachable", slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("%w: redis ping failed: %w", store.ErrUnavailable, err)
	}

	return client, nil
}

func (c *UrgentCache) currentClient(log *slog.Logger) *goredis.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil || c.closed {
		if c.client != nil {
			log.Info("reconnecting to redis")
		}
		c.client = goredis.NewClient(c.opts)
		c.closed = false
	}
	return c.client
}

// replaceClient swaps in a fresh client unless another caller already
// replaced stale.
func (c *UrgentCache) replaceClient(stale *goredis.Client) *goredis.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == stale {
		c.client = goredis.NewClient(c.opts)
		c.closed = false
	}
	return c.client
}

// Put implements store.UrgentCache.Put
func (c *UrgentCache) Put(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID.IsZero() {
		return store.NewStoreError("urgent_task", "put", "task has no identifier", nil)
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return store.NewStoreError("urgent_task", "put", "failed to encode snapshot", err)
	}

	client, err := c.connected(ctx)
	if err != nil {
		return store.NewStoreError("urgent_task", "put", "not connected", err)
	}

	if err := client.Set(ctx, Key(task.ID), payload, TTL).Err(); err != nil {
		return store.NewStoreError("urgent_task", "put", "SET failed", unavailable(err))
	}

	logger.FromContextOrDefault(ctx, c.logger).Debug("urgent task snapshot written",
		slog.String("key", Key(task.ID)),
		slog.Duration("ttl", TTL))
	return nil
}

// Delete implements store.UrgentCache.Delete
func (c *UrgentCache) Delete(ctx context.Context, id primitive.ObjectID) error {
	client, err := c.connected(ctx)
	if err != nil {
		return store.NewStoreError("urgent_task", "delete", "not connected", err)
	}

	n, err := client.Del(ctx, Key(id)).Result()
	if err != nil {
		return store.NewStoreError("urgent_task", "delete", "DEL failed", unavailable(err))
	}

	logger.FromContextOrDefault(ctx, c.logger).Debug("urgent task snapshot deleted",
		slog.String("key", Key(id)),
		slog.Int64("removed", n))
	return nil
}

// List implements store.UrgentCache.List
//
// Keys are enumerated with SCAN rather than KEYS so a large cache does not
// block the server. Entries that expire between the scan and the read are
// skipped; entries that cannot be decoded are logged and skipped.
func (c *UrgentCache) List(ctx context.Context) ([]*domain.Task, error) {
	client, err := c.connected(ctx)
	if err != nil {
		return nil, store.NewStoreError("urgent_task", "list", "not connected", err)
	}

	keys, err := c.scanKeys(ctx, client)
	if err != nil {
		return nil, store.NewStoreError("urgent_task", "list", "SCAN failed", unavailable(err))
	}

	tasks := make([]*domain.Task, 0, len(keys))
	if len(keys) == 0 {
		return tasks, nil
	}

	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, store.NewStoreError("urgent_task", "list", "MGET failed", unavailable(err))
	}

	log := logger.FromContextOrDefault(ctx, c.logger)
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// expired after SCAN
			continue
		}
		var task domain.Task
		if err := json.Unmarshal([]byte(raw), &task); err != nil {
			log.Warn("skipping undecodable urgent task snapshot",
				slog.String("key", keys[i]),
				slog.String("error", err.Error()))
			continue
		}
		tasks = append(tasks, &task)
	}

	return tasks, nil
}

func (c *UrgentCache) scanKeys(ctx context.Context, client *goredis.Client) ([]string, error) {
	seen := make(map[string]struct{})
	keys := make([]string, 0)

	var cursor uint64
	for {
		batch, next, err := client.Scan(ctx, cursor, KeyPrefix+"*", scanCount).Result()
		if err != nil {
			return nil, err
		}
		for _, k := range batch {
			// SCAN may return a key more than once
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

// Close releases the connection. A later operation reconnects.
func (c *UrgentCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil || c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
}
