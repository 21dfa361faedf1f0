package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smarttransit/seat-booking-backend/internal/models"
)

// ErrCacheMiss is returned when no entry exists for the key
var ErrCacheMiss = errors.New("cache miss")

// ScheduleCache caches the schedules of one travel date
type ScheduleCache interface {
	GetSchedules(ctx context.Context, date string) ([]models.Schedule, error)
	SetSchedules(ctx context.Context, date string, schedules []models.Schedule) error
	Invalidate(ctx context.Context, date string) error
}

// Config holds Redis connection configuration
type Config struct {
	Address  string // Redis server address (host:port)
	Password string // Redis password (empty if no password)
	DB       int    // Redis database number (0-15)
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg Config) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return client, nil
}

// RedisScheduleCache stores schedules as JSON under one key per date
type RedisScheduleCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisScheduleCache creates a schedule cache backed by client
func NewRedisScheduleCache(client redis.Cmdable, ttl time.Duration) *RedisScheduleCache {
	return &RedisScheduleCache{client: client, ttl: ttl}
}

// ScheduleKey is the cache key of one travel date
func ScheduleKey(date string) string {
	return "schedules:by-date:" + date
}

func (c *RedisScheduleCache) GetSchedules(ctx context.Context, date string) ([]models.Schedule, error) {
	val, err := c.client.Get(ctx, ScheduleKey(date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	var schedules []models.Schedule
	if err := json.Unmarshal(val, &schedules); err != nil {
		return nil, fmt.Errorf("cache unmarshal error: %w", err)
	}
	return schedules, nil
}

func (c *RedisScheduleCache) SetSchedules(ctx context.Context, date string, schedules []models.Schedule) error {
	data, err := json.Marshal(schedules)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := c.client.Set(ctx, ScheduleKey(date), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

func (c *RedisScheduleCache) Invalidate(ctx context.Context, date string) error {
	if err := c.client.Del(ctx, ScheduleKey(date)).Err(); err != nil {
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

// NoopScheduleCache never stores anything
type NoopScheduleCache struct{}

func (NoopScheduleCache) GetSchedules(ctx context.Context, date string) ([]models.Schedule, error) {
	return nil, ErrCacheMiss
}

func (NoopScheduleCache) SetSchedules(ctx context.Context, date string, schedules []models.Schedule) error {
	return nil
}

func (NoopScheduleCache) Invalidate(ctx context.Context, date string) error { return nil }
