package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"lg/macrocoach-go-api/internal/coach"

	"github.com/redis/go-redis/v9"
)

const (
	stateCacheKeyPrefix  = "coach:state:"
	cyclesCacheKeyPrefix = "coach:cycles:"
)

// DefaultCacheTTL is used when NewCached is given a zero ttl.
const DefaultCacheTTL = 10 * time.Minute

// Cached puts a Redis read-through cache in front of another coach.Store.
// Loads are served from Redis when possible; every write goes to the wrapped
// store first and then drops the user's cached keys. Redis failures are logged
// and never fail an operation.
type Cached struct {
	next coach.Store
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCached(next coach.Store, rdb *redis.Client, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{next: next, rdb: rdb, ttl: ttl}
}

// NewRedisClient parses redisURL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func stateKey(userID int) string  { return fmt.Sprintf("%s%d", stateCacheKeyPrefix, userID) }
func cyclesKey(userID int) string { return fmt.Sprintf("%s%d", cyclesCacheKeyPrefix, userID) }

func (c *Cached) Load(ctx context.Context, userID int) (coach.Snapshot, error) {
	var snap coach.Snapshot
	if c.get(ctx, stateKey(userID), &snap) {
		return snap, nil
	}
	snap, err := c.next.Load(ctx, userID)
	if err != nil {
		return snap, err
	}
	c.set(ctx, stateKey(userID), snap)
	return snap, nil
}

func (c *Cached) Save(ctx context.Context, userID int, doc coach.Document) error {
	defer c.invalidate(ctx, stateKey(userID))
	return c.next.Save(ctx, userID, doc)
}

func (c *Cached) AppendEntry(ctx context.Context, userID, cycle int, kind coach.EntryKind, e coach.Entry) error {
	defer c.invalidate(ctx, stateKey(userID))
	return c.next.AppendEntry(ctx, userID, cycle, kind, e)
}

func (c *Cached) DeleteEntry(ctx context.Context, userID int, kind coach.EntryKind, id string) error {
	defer c.invalidate(ctx, stateKey(userID))
	return c.next.DeleteEntry(ctx, userID, kind, id)
}

func (c *Cached) AppendCycle(ctx context.Context, userID int, rec coach.CycleRecord) error {
	defer c.invalidate(ctx, cyclesKey(userID))
	return c.next.AppendCycle(ctx, userID, rec)
}

func (c *Cached) ListCycles(ctx context.Context, userID int) ([]coach.CycleRecord, error) {
	var cycles []coach.CycleRecord
	if c.get(ctx, cyclesKey(userID), &cycles) {
		return cycles, nil
	}
	cycles, err := c.next.ListCycles(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, cyclesKey(userID), cycles)
	return cycles, nil
}

// get reports whether key was cached and decoded into dst.
func (c *Cached) get(ctx context.Context, key string, dst any) bool {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[Cached.get] %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("[Cached.get] Failed to unmarshal %s: %v", key, err)
		return false
	}
	return true
}

func (c *Cached) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[Cached.set] Failed to marshal %s: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("[Cached.set] Failed to cache %s: %v", key, err)
	}
}

func (c *Cached) invalidate(ctx context.Context, key string) {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		log.Printf("[Cached.invalidate] %s: %v", key, err)
	}
}
