package syncstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix     = "sync:status:"
	redisChannelPrefix = "sync:status:events:"
)

// RedisMirror keeps the latest snapshot of each scope in redis and publishes
// every transition on a per-user channel.
type RedisMirror struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Loader = (*RedisMirror)(nil)

func NewRedisMirror(client *redis.Client, ttl time.Duration) *RedisMirror {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisMirror{client: client, ttl: ttl}
}

// NewRedisClient connects to addr, which may be a redis:// URL or host:port.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	opt, err := redis.ParseURL(addr)
	if err != nil {
		opt = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func RedisKey(scope Scope) string {
	return redisKeyPrefix + scope.String()
}

func RedisChannel(userID string) string {
	return redisChannelPrefix + userID
}

func (r *RedisMirror) Publish(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal status snapshot: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, RedisKey(snap.Scope()), data, r.ttl)
	pipe.Publish(ctx, RedisChannel(snap.UserID), data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mirror status %s: %w", snap.Scope(), err)
	}
	return nil
}

// Load reads the mirrored snapshot of scope. ok is false when nothing is stored.
func (r *RedisMirror) Load(ctx context.Context, scope Scope) (Snapshot, bool, error) {
	data, err := r.client.Get(ctx, RedisKey(scope)).Bytes()
	if err == redis.Nil {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("load status %s: %w", scope, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("unmarshal status %s: %w", scope, err)
	}
	return snap, true, nil
}
