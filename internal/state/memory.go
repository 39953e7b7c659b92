package state

import (
	"strconv"
	"time"

	"faturabot/internal/cache"
)

// MemoryStore keeps pending selections in a TTL cache so abandoned
// selections expire instead of pinning a keyboard forever.
type MemoryStore struct {
	entries *cache.TTL[Pending]
	janitor *cache.Janitor
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store whose entries expire after ttl. The
// background sweep runs until Close.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	entries := cache.NewTTL[Pending](ttl)
	janitor := cache.NewJanitor(entries)
	janitor.Start(ttl)
	return &MemoryStore{entries: entries, janitor: janitor}
}

func (s *MemoryStore) Get(userID int64) (Pending, bool) {
	return s.entries.Get(key(userID))
}

func (s *MemoryStore) Set(userID int64, p Pending) {
	s.entries.Set(key(userID), p)
}

func (s *MemoryStore) Clear(userID int64) {
	s.entries.Delete(key(userID))
}

func (s *MemoryStore) Close() {
	s.janitor.Stop()
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
