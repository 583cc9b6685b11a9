package journal

import (
	"sync"
)

// MemoryJournal keeps entries in memory. Entries are lost when the process
// exits.
type MemoryJournal struct {
	mu      sync.RWMutex
	entries []Entry
	closed  bool
}

// NewMemoryJournal creates an empty in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// Record implements Journal.
func (m *MemoryJournal) Record(entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.entries = append(m.entries, entry)
	return nil
}

// List implements Journal.
func (m *MemoryJournal) List(event string, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	var out []Entry
	for _, e := range m.entries {
		if event != "" && e.Event != event {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Count implements Journal.
func (m *MemoryJournal) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrClosed
	}
	return len(m.entries), nil
}

// Close implements Journal.
func (m *MemoryJournal) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
