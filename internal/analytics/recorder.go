package analytics

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// Recorder queues events and writes them to the store from a single worker
// goroutine. Record never blocks: when the queue is full the event is
// dropped, because analytics must never slow down or fail the operation it
// observes. The session id is injected at construction so nothing here
// depends on ambient global state.
type Recorder struct {
	store     *Store
	sessionID string
	queue     chan Event
	done      chan struct{}
}

// NewRecorder starts the background writer. Close releases it.
func NewRecorder(store *Store, sessionID string) *Recorder {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	r := &Recorder{
		store:     store,
		sessionID: sessionID,
		queue:     make(chan Event, 64),
		done:      make(chan struct{}),
	}
	go r.run()
	return r
}

// SessionID returns the id stamped on every recorded event.
func (r *Recorder) SessionID() string { return r.sessionID }

// Record enqueues an event. Fire-and-forget: it returns immediately and
// reports nothing to the caller.
func (r *Recorder) Record(event string, properties map[string]any) {
	e := Event{
		ID:         uuid.New(),
		Event:      event,
		Timestamp:  time.Now().UTC(),
		SessionID:  r.sessionID,
		Properties: properties,
	}
	select {
	case r.queue <- e:
	default:
		// Queue full; dropping beats blocking the caller.
	}
}

// Close drains the queue and stops the worker.
func (r *Recorder) Close() {
	close(r.queue)
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for e := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.store.Insert(ctx, []Event{e}); err != nil {
			log.Printf("[ANALYTICS] failed to store %s event: %v", e.Event, err)
		}
		cancel()
	}
}
