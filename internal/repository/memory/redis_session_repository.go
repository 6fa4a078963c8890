package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	chatmem "cloess-chatbot-be/pkg/assistant/memory"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "chat:session:"

// RedisSessionRepository shares conversation memory between instances.
type RedisSessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ chatmem.Store = &RedisSessionRepository{}

func NewRedisSessionRepository(rdb *redis.Client, ttl time.Duration) *RedisSessionRepository {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisSessionRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionRepository) Load(ctx context.Context, sessionID string) (*chatmem.Session, error) {
	data, err := r.rdb.Get(ctx, redisKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	var s chatmem.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &s, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, session *chatmem.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	if err := r.rdb.Set(ctx, redisKeyPrefix+session.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}
	return nil
}
