package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/file-tagger/internal/types"
)

type storedBatch struct {
	batch     types.BatchResult
	expiresAt time.Time
}

// batchStore keeps rendered batches downloadable for a limited time.
type batchStore struct {
	mu    sync.Mutex
	items map[string]storedBatch
	ttl   time.Duration
	now   func() time.Time
}

func newBatchStore(ttl time.Duration) *batchStore {
	return &batchStore{
		items: make(map[string]storedBatch),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *batchStore) put(batch types.BatchResult) (id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	id = uuid.NewString()
	s.items[id] = storedBatch{
		batch:     batch,
		expiresAt: now.Add(s.ttl),
	}
	return id
}

func (s *batchStore) get(id string) (types.BatchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	v, ok := s.items[id]
	if !ok {
		return types.BatchResult{}, false
	}
	return v.batch, true
}

func (s *batchStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *batchStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}
