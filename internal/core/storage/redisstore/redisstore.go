// Package redisstore keeps the snapshot as one JSON value in Redis.
// Saves overwrite the whole value, so one dashboard instance should own a key.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
	"github.com/aevon-lab/nrega-dashboard/internal/core/storage"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis key holding the snapshot.
const DefaultKey = "nrega:store:snapshot"

const connectPingTimeout = 5 * time.Second

// Connect parses a redis:// URL and verifies the server answers.
func Connect(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// SnapshotStore implements storage.SnapshotStore on a single Redis string key.
type SnapshotStore struct {
	client *redis.Client
	key    string
}

// Option configures a SnapshotStore.
type Option func(*SnapshotStore)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *SnapshotStore) {
		if key != "" {
			s.key = key
		}
	}
}

// New wraps an existing client.
func New(client *redis.Client, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{client: client, key: DefaultKey}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load reads the snapshot. A missing key is an empty cache, not an error.
func (s *SnapshotStore) Load(ctx context.Context) (*storage.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		slog.Info("[RedisStore] No snapshot yet", "key", s.key)
		return &storage.Snapshot{Records: []v1.Record{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return decodeSnapshot(data)
}

// Save overwrites the snapshot. SET on one key is atomic so readers never see a partial write.
func (s *SnapshotStore) Save(ctx context.Context, snap *storage.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *SnapshotStore) Close() error {
	return s.client.Close()
}

func encodeSnapshot(snap *storage.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (*storage.Snapshot, error) {
	var snap storage.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot value: %w", err)
	}
	if snap.Records == nil {
		snap.Records = []v1.Record{}
	}
	return &snap, nil
}
