// Package history records completed exports.
//
// An [Entry] carries what an export produced (size, quality, engine, timing)
// and a hash of the record, never the record's fields. Stores:
//   - [FileStore]: JSON lines in a local file (CLI default)
//   - [MongoStore]: a MongoDB collection
//   - [MemoryStore]: in-process, for tests
//   - [NullStore]: history disabled
package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one completed export.
type Entry struct {
	ID         string        `json:"id" bson:"_id"`
	RecordHash string        `json:"record_hash" bson:"record_hash"`
	Engine     string        `json:"engine" bson:"engine"`
	Size       int           `json:"size" bson:"size"`
	Quality    float64       `json:"quality" bson:"quality"`
	Iterations int           `json:"iterations" bson:"iterations"`
	InWindow   bool          `json:"in_window" bson:"in_window"`
	Cached     bool          `json:"cached" bson:"cached"`
	Duration   time.Duration `json:"duration" bson:"duration"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
}

// NewEntry returns an entry with a fresh ID and timestamp.
func NewEntry() Entry {
	return Entry{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
}

// Store persists export entries.
type Store interface {
	// Add records an entry.
	Add(ctx context.Context, e Entry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Close releases the store.
	Close() error
}

// newestFirst sorts entries by creation time, newest first, and truncates to
// limit (limit <= 0 keeps everything).
func newestFirst(entries []Entry, limit int) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// =============================================================================
// MemoryStore
// =============================================================================

// MemoryStore keeps entries in memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add implements Store.
func (s *MemoryStore) Add(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

// Recent implements Store.
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	out := append([]Entry(nil), s.entries...)
	s.mu.Unlock()
	return newestFirst(out, limit), nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

// =============================================================================
// NullStore
// =============================================================================

// NullStore discards entries.
type NullStore struct{}

// Add implements Store.
func (NullStore) Add(context.Context, Entry) error { return nil }

// Recent implements Store.
func (NullStore) Recent(context.Context, int) ([]Entry, error) { return nil, nil }

// Close implements Store.
func (NullStore) Close() error { return nil }

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = NullStore{}
)
