package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// snapshotKey is the redis key holding the facility snapshot.
const snapshotKey = "catalog:facilities"

// Store persists the facility listing between restarts so the bot can answer
// searches before the first refresh completes.
type Store interface {
	// Load returns the stored snapshot. The bool is false when nothing is stored.
	Load(ctx context.Context) ([]Facility, bool, error)
	Save(ctx context.Context, facilities []Facility) error
}

// MemoryStore keeps the snapshot in process memory.
type MemoryStore struct {
	mu         sync.RWMutex
	facilities []Facility
	saved      bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context) ([]Facility, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return nil, false, nil
	}
	return append([]Facility(nil), s.facilities...), true, nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, facilities []Facility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facilities = append([]Facility(nil), facilities...)
	s.saved = true
	return nil
}

// RedisStore keeps the snapshot as a JSON document in redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to redis at addr. Snapshots expire after ttl; zero keeps them forever.
func NewRedisStore(addr string, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisStore{
		client: rdb,
		ttl:    ttl,
	}
}

// Ping checks that redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context) ([]Facility, bool, error) {
	val, err := s.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read catalog snapshot: %w", err)
	}

	var facilities []Facility
	if err := json.Unmarshal(val, &facilities); err != nil {
		return nil, false, fmt.Errorf("failed to decode catalog snapshot: %w", err)
	}
	return facilities, true, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, facilities []Facility) error {
	data, err := json.Marshal(facilities)
	if err != nil {
		return fmt.Errorf("failed to encode catalog snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write catalog snapshot: %w", err)
	}
	return nil
}

// Close releases the redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
