// Package journal keeps an audit trail of dispatched invocations.
//
// A journal is write-mostly diagnostic output. Nothing in it is ever fed
// back into a broker.
package journal

import (
	"errors"
	"time"
)

// Journal records dispatched invocations.
// Implementations must be safe for concurrent use.
type Journal interface {
	// Record appends an entry.
	Record(entry Entry) error

	// List returns entries for event in record order. An empty event
	// matches every entry and limit <= 0 means no limit.
	List(event string, limit int) ([]Entry, error)

	// Count returns the number of recorded entries.
	Count() (int, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Entry describes one dispatched publish.
type Entry struct {
	BrokerID     string
	InvocationID uint64
	Event        string
	MessageType  string
	Lifetime     string
	Handlers     int
	Timestamp    time.Time
}

// ErrClosed indicates the journal has been closed.
var ErrClosed = errors.New("journal closed")
