package assessmentcache

import (
	"container/list"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/yanqian/growth-monitor/internal/domain/assessment"
	apperrors "github.com/yanqian/growth-monitor/pkg/errors"
	"github.com/yanqian/growth-monitor/pkg/util"
)

// DefaultMaxEntries caps a memory store built without an explicit limit.
const DefaultMaxEntries = 10000

type entry struct {
	payload   []byte
	expiresAt time.Time
	order     *list.Element
}

// MemoryStore keeps encoded assessments in process memory for tests/dev.
// Entries are stored as JSON so callers never share slices with the cache.
// Once full, expired entries are swept and then the oldest insert goes.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]entry
	order      *list.List
	maxEntries int
	now        util.Clock
}

// NewMemoryStore constructs a store holding at most maxEntries results.
// Non-positive values fall back to DefaultMaxEntries.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		entries:    make(map[string]entry),
		order:      list.New(),
		maxEntries: maxEntries,
		now:        util.NowUTC,
	}
}

// Get implements assessment.Cache.
func (s *MemoryStore) Get(_ context.Context, key string) (assessment.Result, bool, error) {
	s.mu.RLock()
	record, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return assessment.Result{}, false, nil
	}
	if s.hasExpired(record.expiresAt) {
		s.mu.Lock()
		if current, ok := s.entries[key]; ok && s.hasExpired(current.expiresAt) {
			s.removeLocked(key, current)
		}
		s.mu.Unlock()
		return assessment.Result{}, false, nil
	}
	var res assessment.Result
	if err := json.Unmarshal(record.payload, &res); err != nil {
		return assessment.Result{}, false, apperrors.Wrap(apperrors.CodeCache, "decode cached assessment", err)
	}
	return res, true, nil
}

// Set caches the result with optional TTL.
func (s *MemoryStore) Set(_ context.Context, key string, res assessment.Result, ttl time.Duration) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeCache, "encode assessment", err)
	}
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.entries[key]; ok {
		s.order.MoveToBack(current.order)
		s.entries[key] = entry{payload: payload, expiresAt: exp, order: current.order}
		return nil
	}
	if len(s.entries) >= s.maxEntries {
		s.sweepLocked()
	}
	for len(s.entries) >= s.maxEntries {
		oldest := s.order.Front()
		k := oldest.Value.(string)
		s.removeLocked(k, s.entries[k])
	}
	s.entries[key] = entry{payload: payload, expiresAt: exp, order: s.order.PushBack(key)}
	return nil
}

// Len reports the number of live and expired entries held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) sweepLocked() {
	for k, e := range s.entries {
		if s.hasExpired(e.expiresAt) {
			s.removeLocked(k, e)
		}
	}
}

func (s *MemoryStore) removeLocked(key string, e entry) {
	if e.order != nil {
		s.order.Remove(e.order)
	}
	delete(s.entries, key)
}

func (s *MemoryStore) hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var _ assessment.Cache = (*MemoryStore)(nil)
