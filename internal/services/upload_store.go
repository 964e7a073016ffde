package services

import (
	"sort"
	"sync"
	"time"
)

// uploadStore retains processed uploads in memory, keyed by upload ID.
// Retention is bounded: when capacity is exceeded the oldest entry is
// evicted. Safe for concurrent use.
type uploadStore struct {
	mu       sync.RWMutex
	entries  map[string]*Upload
	capacity int
}

func newUploadStore(capacity int) *uploadStore {
	if capacity <= 0 {
		capacity = 100
	}
	return &uploadStore{
		entries:  make(map[string]*Upload),
		capacity: capacity,
	}
}

func (s *uploadStore) put(upload *Upload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[upload.ID] = upload

	for len(s.entries) > s.capacity {
		oldestID := ""
		var oldest time.Time
		for id, entry := range s.entries {
			if oldestID == "" || entry.ProcessedAt.Before(oldest) {
				oldestID = id
				oldest = entry.ProcessedAt
			}
		}
		delete(s.entries, oldestID)
	}
}

func (s *uploadStore) get(id string) (*Upload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	upload, ok := s.entries[id]
	return upload, ok
}

func (s *uploadStore) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// list returns all retained uploads, newest first.
func (s *uploadStore) list() []*Upload {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uploads := make([]*Upload, 0, len(s.entries))
	for _, upload := range s.entries {
		uploads = append(uploads, upload)
	}
	sort.Slice(uploads, func(i, j int) bool {
		return uploads[i].ProcessedAt.After(uploads[j].ProcessedAt)
	})
	return uploads
}

func (s *uploadStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
