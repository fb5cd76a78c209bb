package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/five82/runlog/internal/logparse"
)

// ErrUnknownDocument is returned for IDs the store has never seen or has
// invalidated.
var ErrUnknownDocument = errors.New("unknown document")

// Entry is one cached document and its fetch history.
type Entry struct {
	ID                  string
	Name                string
	Doc                 *logparse.Document // nil until the first successful fetch
	Hash                uint64
	FetchedAt           time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive fetch failures
}

// IsOffline returns true when the source has failed repeatedly.
func (e Entry) IsOffline() bool {
	return e.ConsecutiveFailures >= 2
}

// Ready reports whether the entry has a parsed document.
func (e Entry) Ready() bool {
	return e.Doc != nil
}

// Snapshot is a consistent copy of the store for rendering.
type Snapshot struct {
	Entries     []Entry // in the order IDs were first seen
	Generation  uint64  // bumped on every change
	LastUpdated time.Time
}

// Find returns the entry with id.
func (s Snapshot) Find(id string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Store caches parsed documents keyed by a stable per-source ID. Documents
// are immutable, so entries share them with every snapshot.
type Store struct {
	mu          sync.RWMutex
	entries     map[string]*Entry
	order       []string
	generation  uint64
	lastUpdated time.Time
}

// Put records a successful fetch of src. Identical text keeps the previous
// parse and only refreshes FetchedAt; anything else is parsed again and
// replaces the entry. It reports whether the document changed.
func (s *Store) Put(src logparse.Source) bool {
	sum := xxhash.Sum64String(src.Text)

	s.mu.RLock()
	prev, ok := s.entries[src.ID]
	same := ok && prev.Doc != nil && prev.Hash == sum
	s.mu.RUnlock()

	var doc *logparse.Document
	if !same {
		// Parse outside the lock; large logs take a while.
		doc = logparse.Parse(src)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(src.ID)
	e.Name = src.Name
	now := time.Now()
	changed := doc != nil && (e.Doc == nil || e.Hash != sum)
	if changed {
		e.Doc = doc
		e.Hash = sum
	}
	e.FetchedAt = now
	e.LastError = nil
	e.ConsecutiveFailures = 0
	s.touchLocked(now)
	return changed
}

// Track registers id ahead of its first fetch so concurrent loads keep the
// caller's order. Known IDs are left alone.
func (s *Store) Track(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; ok {
		return
	}
	e := s.entryLocked(id)
	e.Name = name
	s.touchLocked(time.Now())
}

// Fail records a failed fetch. The previous document, if any, is kept.
func (s *Store) Fail(id, name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(id)
	if e.Name == "" {
		e.Name = name
	}
	e.LastError = err
	e.ConsecutiveFailures++
	s.touchLocked(time.Now())
}

// Get returns a copy of the entry for id.
func (s *Store) Get(id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("%s: %w", id, ErrUnknownDocument)
	}
	return cloneEntry(e), nil
}

// Invalidate drops the entry for id.
func (s *Store) Invalidate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrUnknownDocument)
	}
	delete(s.entries, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	s.touchLocked(time.Now())
	return nil
}

// IDs lists known document IDs in first-seen order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return nil
	}
	dup := make([]string, len(s.order))
	copy(dup, s.order)
	return dup
}

// Snapshot returns a copy of every entry.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Generation: s.generation, LastUpdated: s.lastUpdated}
	if len(s.order) == 0 {
		return snap
	}
	snap.Entries = make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		snap.Entries = append(snap.Entries, cloneEntry(s.entries[id]))
	}
	return snap
}

// Generation changes whenever the store does; the UI compares it to skip
// redundant re-renders.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Store) entryLocked(id string) *Entry {
	if s.entries == nil {
		s.entries = make(map[string]*Entry)
	}
	e, ok := s.entries[id]
	if !ok {
		e = &Entry{ID: id}
		s.entries[id] = e
		s.order = append(s.order, id)
	}
	return e
}

func (s *Store) touchLocked(now time.Time) {
	s.generation++
	s.lastUpdated = now
}

func cloneEntry(e *Entry) Entry {
	dup := *e
	if e.LastError != nil {
		dup.LastError = fmt.Errorf("%w", e.LastError)
	}
	return dup
}
