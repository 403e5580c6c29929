package dataset

import (
	"errors"
	"sync"
	"time"

	"energy-insights/insights"
	"energy-insights/models"
)

// ErrNotLoaded is returned while the first load has not completed.
var ErrNotLoaded = errors.New("dataset not loaded")

const defaultCacheEntries = 128

type cacheKey struct {
	filters models.FilterSelection
	version uint64
}

// Snapshot is an immutable view of the dataset at one version.
type Snapshot struct {
	Records  []models.InsightRecord
	Version  uint64
	LoadedAt time.Time
	Options  models.FilterOptions
	Summary  insights.Summary
}

// Store holds the current dataset. Aggregations are memoized per
// (filters, version); a Replace starts a new version and drops the memo.
type Store struct {
	mu         sync.RWMutex
	snap       *Snapshot
	version    uint64
	cache      map[cacheKey]insights.Result
	cacheLimit int
}

func NewStore(cacheEntries int) *Store {
	if cacheEntries <= 0 {
		cacheEntries = defaultCacheEntries
	}
	return &Store{
		cache:      make(map[cacheKey]insights.Result),
		cacheLimit: cacheEntries,
	}
}

// Replace installs records as the new dataset and returns its version.
func (s *Store) Replace(records []models.InsightRecord) uint64 {
	snap := &Snapshot{
		Records:  records,
		LoadedAt: time.Now(),
		Options:  insights.Options(records),
		Summary:  insights.Summarize(records),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	snap.Version = s.version
	s.snap = snap
	s.cache = make(map[cacheKey]insights.Result)
	return snap.Version
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap != nil
}

func (s *Store) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotLoaded
	}
	return s.snap, nil
}

// Aggregate runs the pipeline for sel against the current dataset.
func (s *Store) Aggregate(sel models.FilterSelection) (insights.Result, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return insights.Result{}, err
	}
	return s.AggregateAt(snap, sel), nil
}

// AggregateAt runs the pipeline for sel against snap, so a caller that already
// holds a snapshot stays on its version across a concurrent Replace. Results
// are memoized only while snap is still current.
func (s *Store) AggregateAt(snap *Snapshot, sel models.FilterSelection) insights.Result {
	sel = sel.Normalized()
	key := cacheKey{filters: sel, version: snap.Version}

	s.mu.RLock()
	res, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return res
	}

	res = insights.Aggregate(snap.Records, sel)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap != nil && s.snap.Version == key.version {
		if len(s.cache) >= s.cacheLimit {
			s.cache = make(map[cacheKey]insights.Result)
		}
		s.cache[key] = res
	}
	return res
}

// CachedEntries reports the number of memoized results.
func (s *Store) CachedEntries() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}
