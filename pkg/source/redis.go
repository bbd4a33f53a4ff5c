package source

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PreferenceKey is the fixed key the active source is persisted under.
const PreferenceKey = "pollbase:data-source"

// RedisStore persists the preference in Redis so it survives restarts and
// is shared by every replica of the query service.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an already-connected client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (r *RedisStore) Load(ctx context.Context) (Source, bool, error) {
	v, err := r.rdb.Get(ctx, PreferenceKey).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load data source preference: %w", err)
	}
	return Source(v), true, nil
}

func (r *RedisStore) Save(ctx context.Context, s Source) error {
	if !s.Valid() {
		return fmt.Errorf("refusing to persist unknown source %q", s)
	}
	if err := r.rdb.Set(ctx, PreferenceKey, string(s), 0).Err(); err != nil {
		return fmt.Errorf("save data source preference: %w", err)
	}
	return nil
}
