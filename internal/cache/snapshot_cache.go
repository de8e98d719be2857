package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"shespeaks/internal/table"
)

// SnapshotKey holds the shared table snapshot
const SnapshotKey = "dashboard:table:snapshot"

// SnapshotCache shares built tables between server replicas through Redis
type SnapshotCache interface {
	Get(ctx context.Context) (*table.ResponseTable, error)
	Set(ctx context.Context, t *table.ResponseTable) error
	Delete(ctx context.Context) error
}

type snapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache creates a new snapshot cache
func NewSnapshotCache(client *redis.Client, ttl time.Duration) SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &snapshotCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *snapshotCache) Get(ctx context.Context) (*table.ResponseTable, error) {
	data, err := c.client.Get(ctx, SnapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var t table.ResponseTable
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *snapshotCache) Set(ctx context.Context, t *table.ResponseTable) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, SnapshotKey, data, c.ttl).Err()
}

func (c *snapshotCache) Delete(ctx context.Context) error {
	return c.client.Del(ctx, SnapshotKey).Err()
}
