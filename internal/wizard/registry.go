package wizard

import (
	"sync"
	"time"
)

// DefaultIdleTTL bounds how long an untouched live wizard is kept.
const DefaultIdleTTL = 2 * time.Hour

type liveEntry struct {
	wizard   *Wizard
	recorder *Recorder
	seen     time.Time
}

// Registry holds the live wizard of each visitor. Photos only exist here, so a
// wizard evicted or replaced by a new mount loses them while the draft fields
// survive in the store.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*liveEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Registry{entries: map[string]*liveEntry{}, ttl: ttl, now: time.Now}
}

// Put replaces the visitor's live wizard and sweeps idle ones.
func (r *Registry) Put(visitorID string, w *Wizard, rec *Recorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, entry := range r.entries {
		if now.Sub(entry.seen) > r.ttl {
			delete(r.entries, id)
		}
	}
	r.entries[visitorID] = &liveEntry{wizard: w, recorder: rec, seen: now}
}

// Get returns the visitor's live wizard and its effect recorder.
func (r *Registry) Get(visitorID string) (*Wizard, *Recorder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[visitorID]
	if !ok {
		return nil, nil, false
	}
	if r.now().Sub(entry.seen) > r.ttl {
		delete(r.entries, visitorID)
		return nil, nil, false
	}
	entry.seen = r.now()
	return entry.wizard, entry.recorder, true
}

func (r *Registry) Delete(visitorID string) {
	r.mu.Lock()
	delete(r.entries, visitorID)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
