package session

import (
	"context"
	"sync"
	"time"

	"ai-assistant-be/pkg/chatflow"

	"github.com/patrickmn/go-cache"
)

// MemoryStore is the default single-process backing: a TTL cache of state
// snapshots. Entries expire after the configured TTL, which bounds leakage
// from abandoned sessions.
type MemoryStore struct {
	cache *cache.Cache
	locks *handleLocks
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a memory store whose entries expire after ttl and
// are purged at twice-per-TTL cadence. A non-positive ttl means no expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	purge := ttl / 2
	if ttl <= 0 {
		ttl = cache.NoExpiration
		purge = 10 * time.Minute
	}
	c := cache.New(ttl, purge)
	locks := newHandleLocks()
	// TTL expiry must release the handle lock too, not only explicit Remove.
	c.OnEvicted(func(handle string, _ interface{}) {
		locks.drop(handle)
	})
	return &MemoryStore{
		cache: c,
		locks: locks,
	}
}

func (s *MemoryStore) Put(_ context.Context, handle string, state *chatflow.ConversationState) error {
	s.cache.Set(handle, state.Clone(), cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, handle string) (*chatflow.ConversationState, error) {
	if x, found := s.cache.Get(handle); found {
		return x.(*chatflow.ConversationState).Clone(), nil
	}
	// Unknown and expired handles must not leave a lock entry behind:
	// entry points take the lock before Get, so a miss is the last chance
	// to reclaim it.
	s.locks.drop(handle)
	return nil, ErrSessionNotFound
}

func (s *MemoryStore) Remove(_ context.Context, handle string) error {
	s.cache.Delete(handle)
	s.locks.drop(handle)
	return nil
}

func (s *MemoryStore) Lock(handle string) *sync.Mutex {
	return s.locks.get(handle)
}
