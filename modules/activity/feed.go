package activity

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is how many entries are kept per user.
const DefaultCapacity = 50

// Entry is one recorded task event.
type Entry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	TaskID    uint      `json:"taskId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Feed keeps the most recent entries for each user.
type Feed struct {
	mu       sync.RWMutex
	entries  map[uint][]Entry
	capacity int
}

// NewFeed creates a feed holding at most capacity entries per user.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{
		entries:  make(map[uint][]Entry),
		capacity: capacity,
	}
}

// Record appends an entry to a user's feed, evicting the oldest one when full.
func (f *Feed) Record(userID uint, e Entry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	list := append(f.entries[userID], e)
	if len(list) > f.capacity {
		list = list[len(list)-f.capacity:]
	}
	f.entries[userID] = list
}

// Recent returns up to limit entries for a user, newest first. A limit of zero returns all of them.
func (f *Feed) Recent(userID uint, limit int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	list := f.entries[userID]
	n := len(list)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]Entry, 0, n)
	for i := len(list) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, list[i])
	}
	return out
}

// Users returns how many users have at least one entry.
func (f *Feed) Users() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}
