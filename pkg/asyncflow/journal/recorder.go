package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/asyncflow/pkg/asyncflow/event"
)

// Recorder appends every emission of one emitter to a Store.
type Recorder struct {
	store     Store
	emitterID string
	logger    *slog.Logger
	sub       event.Subscription
}

// Attach starts recording the emissions of e into store. Recording runs as
// a global listener, so a store failure stops the dispatch that triggered
// it and is returned from Emit. A nil logger disables logging.
func Attach(e *event.Emitter, store Store, logger *slog.Logger) *Recorder {
	r := &Recorder{
		store:     store,
		emitterID: e.ID(),
		logger:    logger,
	}
	r.sub = e.SubscribeAll(r.record)
	return r
}

func (r *Recorder) record(name string, args ...any) error {
	entry := &Entry{
		ID:        uuid.New().String(),
		EmitterID: r.emitterID,
		Event:     name,
		Args:      encodeArgs(args),
		Timestamp: time.Now().UTC(),
	}
	if err := r.store.Append(context.Background(), entry); err != nil {
		if r.logger != nil {
			r.logger.Warn("journal append failed",
				slog.String("event", name),
				slog.String("error", err.Error()),
			)
		}
		return fmt.Errorf("journal %s: %w", name, err)
	}
	return nil
}

// Pause stops recording until Resume is called.
func (r *Recorder) Pause() {
	r.sub.Pause()
}

// Resume continues recording after Pause.
func (r *Recorder) Resume() {
	r.sub.Resume()
}

// Detach stops recording. The store stays open.
func (r *Recorder) Detach() {
	r.sub.Unsubscribe()
}

// encodeArgs renders args as a JSON array. Values that cannot be encoded
// are stored as their fmt %v text.
func encodeArgs(args []any) json.RawMessage {
	if len(args) == 0 {
		return json.RawMessage("[]")
	}
	if data, err := json.Marshal(args); err == nil {
		return data
	}

	safe := make([]any, len(args))
	for i, a := range args {
		if _, err := json.Marshal(a); err != nil {
			safe[i] = fmt.Sprintf("%v", a)
			continue
		}
		safe[i] = a
	}
	data, _ := json.Marshal(safe)
	return data
}
