package store

import (
	"sort"
	"sync"
	"time"

	"github.com/waterbuddy/internal/db"
)

// MemoryEntryStore 是 EntryStore 的内存参考实现，主要用于测试。
type MemoryEntryStore struct {
	mu      sync.RWMutex
	entries map[string]db.WaterEntry
}

// NewMemoryEntryStore 构造空的内存存储。
func NewMemoryEntryStore() *MemoryEntryStore {
	return &MemoryEntryStore{entries: make(map[string]db.WaterEntry)}
}

func (s *MemoryEntryStore) Add(entry *db.WaterEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = *entry
	return nil
}

func (s *MemoryEntryStore) Get(id string) (*db.WaterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return &entry, nil
}

func (s *MemoryEntryStore) Update(entry db.WaterEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entry.ID]; !ok {
		return ErrEntryNotFound
	}
	s.entries[entry.ID] = entry
	return nil
}

func (s *MemoryEntryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ErrEntryNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *MemoryEntryStore) ListForDay(day time.Time) ([]db.WaterEntry, error) {
	start := normalizeToDate(day)
	return s.listBetween(start, start.AddDate(0, 0, 1)), nil
}

func (s *MemoryEntryStore) ListForRange(start, end time.Time) ([]db.WaterEntry, error) {
	return s.listBetween(normalizeToDate(start), normalizeToDate(end).AddDate(0, 0, 1)), nil
}

func (s *MemoryEntryStore) ListAll() ([]db.WaterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]db.WaterEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	sortByTimestampDesc(entries)
	return entries, nil
}

func (s *MemoryEntryStore) TotalForDay(day time.Time) (float64, error) {
	entries, _ := s.ListForDay(day)
	var total float64
	for _, entry := range entries {
		total += entry.Amount
	}
	return total, nil
}

func (s *MemoryEntryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]db.WaterEntry)
	return nil
}

func (s *MemoryEntryStore) listBetween(start, end time.Time) []db.WaterEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]db.WaterEntry, 0)
	for _, entry := range s.entries {
		if !entry.Timestamp.Before(start) && entry.Timestamp.Before(end) {
			entries = append(entries, entry)
		}
	}
	sortByTimestampDesc(entries)
	return entries
}

func sortByTimestampDesc(entries []db.WaterEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}

// MemoryProfileStore 是 ProfileStore 的内存参考实现。
type MemoryProfileStore struct {
	mu      sync.Mutex
	profile *db.Profile
}

// NewMemoryProfileStore 构造空的内存档案存储。
func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{}
}

func (s *MemoryProfileStore) Get() (*db.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		s.profile = db.DefaultProfile(time.Now())
	}
	copied := *s.profile
	return &copied, nil
}

func (s *MemoryProfileStore) Save(profile *db.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile.DataVersion = db.ProfileDataVersion
	copied := *profile
	s.profile = &copied
	return nil
}

func (s *MemoryProfileStore) Reset() (*db.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = db.DefaultProfile(time.Now())
	copied := *s.profile
	return &copied, nil
}

// MemoryCelebrationTracker 是 CelebrationTracker 的内存参考实现。
type MemoryCelebrationTracker struct {
	mu    sync.Mutex
	date  string
	level float64
	set   bool
}

// NewMemoryCelebrationTracker 构造未记录任何庆祝的内存追踪器。
func NewMemoryCelebrationTracker() *MemoryCelebrationTracker {
	return &MemoryCelebrationTracker{}
}

func (t *MemoryCelebrationTracker) ShouldCelebrate(now time.Time, intake float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.set {
		return true
	}
	if t.date != now.Format(celebrationDateFormat) {
		return true
	}
	return intake > t.level
}

func (t *MemoryCelebrationTracker) MarkCelebrated(now time.Time, intake float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.date = now.Format(celebrationDateFormat)
	t.level = intake
	t.set = true
	return nil
}

func (t *MemoryCelebrationTracker) ResetLevel(now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.date = now.Format(celebrationDateFormat)
	t.level = 0
	t.set = true
	return nil
}
