package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ai-assistant-be/pkg/chatflow"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "chat:session:"

// RedisStore keeps session snapshots as JSON values with a TTL, so suspended
// conversations survive process restarts. Handle locks remain process-local:
// they serialize calls within one instance, not across a fleet.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	locks  *handleLocks
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		locks:  newHandleLocks(),
	}
}

func (s *RedisStore) key(handle string) string {
	return redisKeyPrefix + handle
}

func (s *RedisStore) Put(ctx context.Context, handle string, state *chatflow.ConversationState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", handle, err)
	}
	if err := s.client.Set(ctx, s.key(handle), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session %s: %w", handle, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, handle string) (*chatflow.ConversationState, error) {
	payload, err := s.client.Get(ctx, s.key(handle)).Bytes()
	if errors.Is(err, redis.Nil) {
		// Reclaim the lock entry taken before this Get; unknown and
		// TTL-expired handles would otherwise accumulate mutexes.
		s.locks.drop(handle)
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", handle, err)
	}
	var state chatflow.ConversationState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", handle, err)
	}
	return &state, nil
}

func (s *RedisStore) Remove(ctx context.Context, handle string) error {
	if err := s.client.Del(ctx, s.key(handle)).Err(); err != nil {
		return fmt.Errorf("remove session %s: %w", handle, err)
	}
	s.locks.drop(handle)
	return nil
}

func (s *RedisStore) Lock(handle string) *sync.Mutex {
	return s.locks.get(handle)
}
