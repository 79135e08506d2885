// Package journal keeps an append-only record of the emissions of an
// event.Emitter.
//
// The journal is an audit trail. It observes emissions through the global
// channel and never delivers them again.
//
//	store, err := journal.NewSQLiteStore("./emissions.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	rec := journal.Attach(emitter, store, logger)
//	defer rec.Detach()
//
//	entries, err := store.List(ctx, journal.Query{Event: "order.created"})
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Entry is one recorded emission.
type Entry struct {
	Sequence  int64           `json:"sequence"` // Assigned by the store, increasing
	ID        string          `json:"id"`
	EmitterID string          `json:"emitter_id"`
	Event     string          `json:"event"`
	Args      json.RawMessage `json:"args"` // JSON array of the emitted arguments
	Timestamp time.Time       `json:"timestamp"`
}

// Query filters List results. Zero fields do not filter.
type Query struct {
	EmitterID     string
	Event         string
	AfterSequence int64
	Limit         int
}

func (q Query) matches(e Entry) bool {
	if q.EmitterID != "" && e.EmitterID != q.EmitterID {
		return false
	}
	if q.Event != "" && e.Event != q.Event {
		return false
	}
	return e.Sequence > q.AfterSequence
}

// Store persists journal entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores entry and sets its Sequence.
	Append(ctx context.Context, entry *Entry) error

	// List returns matching entries ordered by sequence.
	// Returns an empty slice (not error) when nothing matches.
	List(ctx context.Context, q Query) ([]Entry, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Close releases any resources (connections, files).
	Close() error
}

// ErrStoreClosed indicates the store has been closed.
var ErrStoreClosed = errors.New("journal store closed")
