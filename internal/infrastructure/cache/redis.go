package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/events"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/config"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/logger"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.NewLogger()

var (
	ErrCacheNotFound   = errors.New("cache: key not found")
	ErrCacheConnection = errors.New("cache: connection error")
	ErrInvalidConfig   = errors.New("cache: invalid configuration")
)

// DashboardEventChannel carries dashboard invalidation/update events.
const DashboardEventChannel = "dashboard:events"

const healthProbeInterval = 10 * time.Second

// Config controls the Redis connection and key handling.
type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	OpTimeout    time.Duration
	DefaultTTL   time.Duration
	KeyPrefix    string
	MaxKeyLength int
}

// NewConfigFromEnv derives the Redis config from application configuration.
func NewConfigFromEnv(cfg *config.Config) *Config {
	return &Config{
		Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     100,
		MinIdleConns: 10,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		OpTimeout:    cfg.Server.Timeout,
		DefaultTTL:   30 * time.Minute,
		KeyPrefix:    "focusflow:",
		MaxKeyLength: 256,
	}
}

// ttlTable maps cache types to how long their entries may live. Lists
// churn faster than single entities, the dashboard fastest of all.
var ttlTable = map[string]time.Duration{
	"habit":      time.Hour,
	"task":       time.Hour,
	"goal":       time.Hour,
	"focus":      30 * time.Minute,
	"user":       2 * time.Hour,
	"habit_list": 10 * time.Minute,
	"task_list":  10 * time.Minute,
	"goal_list":  10 * time.Minute,
	"dashboard":  5 * time.Minute,
}

type typeCounters struct {
	hits   atomic.Int64
	misses atomic.Int64
}

// RedisClient wraps go-redis with key prefixing, per-type TTLs, hit/miss
// accounting and dashboard pub/sub.
type RedisClient struct {
	client *redis.Client
	cfg    *Config

	hits      atomic.Int64
	misses    atomic.Int64
	perType   sync.Map // cache type -> *typeCounters
	unhealthy atomic.Bool

	closeOnce sync.Once
}

// NewRedisClient connects, verifies the connection, and starts the
// background health probe.
func NewRedisClient(cfg *Config) (*RedisClient, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidConfig)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	r := &RedisClient{client: client, cfg: cfg}
	go r.probeHealth()
	return r, nil
}

func (r *RedisClient) probeHealth() {
	ticker := time.NewTicker(healthProbeInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.OpTimeout)
		err := r.HealthCheck(ctx)
		cancel()
		r.unhealthy.Store(err != nil)
		if err != nil {
			log.Error("Redis health check failed", zap.Error(err))
		}
	}
}

// IsHealthy reports the result of the most recent health probe.
func (r *RedisClient) IsHealthy() bool {
	return !r.unhealthy.Load()
}

// TTLFor returns the TTL configured for a cache type.
func (r *RedisClient) TTLFor(cacheType string) time.Duration {
	if d, ok := ttlTable[cacheType]; ok {
		return d
	}
	return r.cfg.DefaultTTL
}

func (r *RedisClient) checkKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidConfig)
	}
	if len(key) > r.cfg.MaxKeyLength {
		return fmt.Errorf("%w: key exceeds %d characters", ErrInvalidConfig, r.cfg.MaxKeyLength)
	}
	return nil
}

func (r *RedisClient) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.OpTimeout)
}

// Get fetches a cached value. Returns ErrCacheNotFound on a miss.
func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	if err := r.checkKey(key); err != nil {
		return "", err
	}
	if !r.IsHealthy() {
		return "", ErrCacheConnection
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	val, err := r.client.Get(ctx, r.cfg.KeyPrefix+key).Result()
	switch {
	case err == redis.Nil:
		return "", fmt.Errorf("%w: %s", ErrCacheNotFound, key)
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}
	return val, nil
}

// Set stores a value under the prefixed key.
func (r *RedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.checkKey(key); err != nil {
		return err
	}
	if !r.IsHealthy() {
		return ErrCacheConnection
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()
	return r.client.Set(ctx, r.cfg.KeyPrefix+key, value, ttl).Err()
}

// Delete removes the given keys.
func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if !r.IsHealthy() {
		return ErrCacheConnection
	}

	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := r.checkKey(key); err != nil {
			return err
		}
		prefixed = append(prefixed, r.cfg.KeyPrefix+key)
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()
	return r.client.Del(ctx, prefixed...).Err()
}

// ClearByPattern deletes every key matching the pattern (prefix applied).
func (r *RedisClient) ClearByPattern(ctx context.Context, pattern string) error {
	if !r.IsHealthy() {
		return ErrCacheConnection
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()
	return r.deleteScan(ctx, r.cfg.KeyPrefix+pattern)
}

func (r *RedisClient) deleteScan(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// TrackHit records a cache hit for the given cache type.
func (r *RedisClient) TrackHit(cacheType string) { r.track(cacheType, true) }

// TrackMiss records a cache miss for the given cache type.
func (r *RedisClient) TrackMiss(cacheType string) { r.track(cacheType, false) }

func (r *RedisClient) track(cacheType string, hit bool) {
	v, _ := r.perType.LoadOrStore(cacheType, &typeCounters{})
	tc := v.(*typeCounters)
	if hit {
		r.hits.Add(1)
		tc.hits.Add(1)
	} else {
		r.misses.Add(1)
		tc.misses.Add(1)
	}
}

// GetMetrics snapshots hit/miss counters and pool state for the health
// endpoint.
func (r *RedisClient) GetMetrics() map[string]interface{} {
	byType := make(map[string]interface{})
	r.perType.Range(func(k, v interface{}) bool {
		tc := v.(*typeCounters)
		byType[k.(string)] = map[string]interface{}{
			"hits":   tc.hits.Load(),
			"misses": tc.misses.Load(),
		}
		return true
	})

	hits, misses := r.hits.Load(), r.misses.Load()
	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses)
	}

	pool := r.client.PoolStats()
	return map[string]interface{}{
		"hits":     hits,
		"misses":   misses,
		"hit_rate": hitRate,
		"by_type":  byType,
		"health":   r.IsHealthy(),
		"pool_stats": map[string]interface{}{
			"total_conns": pool.TotalConns,
			"idle_conns":  pool.IdleConns,
			"stale_conns": pool.StaleConns,
		},
	}
}

// HealthCheck pings Redis.
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// GetClient exposes the underlying go-redis client, used by the rate
// limiter which runs its own pipeline.
func (r *RedisClient) GetClient() *redis.Client {
	return r.client
}

// Close shuts the connection pool down once.
func (r *RedisClient) Close() error {
	var err error
	r.closeOnce.Do(func() {
		err = r.client.Close()
	})
	return err
}

// PublishDashboardEvent broadcasts a dashboard event to all instances.
func (r *RedisClient) PublishDashboardEvent(ctx context.Context, event *events.DashboardEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, DashboardEventChannel, payload).Err()
}

// SubscribeToDashboardEvents blocks, feeding decoded events to the
// callback until the context is cancelled or the callback errors.
func (r *RedisClient) SubscribeToDashboardEvents(ctx context.Context, callback func(*events.DashboardEvent) error) error {
	pubsub := r.client.Subscribe(ctx, DashboardEventChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg := <-ch:
			var event events.DashboardEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				return err
			}
			if err := callback(&event); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// InvalidateDashboardCache drops every dashboard key belonging to a user.
func (r *RedisClient) InvalidateDashboardCache(ctx context.Context, userID uuid.UUID) error {
	pattern := fmt.Sprintf("%sdashboard:*:%v", r.cfg.KeyPrefix, userID)
	return r.deleteScan(ctx, pattern)
}
