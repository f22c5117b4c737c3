package analysis

import (
	"sync"
	"time"
)

// Event types published on session transitions.
const (
	EventQuestion      = "question"      // a new step is awaiting an answer
	EventClarification = "clarification" // the current step was re-asked
	EventComplete      = "complete"      // terminal result reached
	EventDeleted       = "deleted"       // session removed
)

// Event is one session transition, as delivered to watchers.
type Event struct {
	SessionID            string    `json:"session_id"`
	Type                 string    `json:"type"`
	Step                 int       `json:"step,omitempty"`
	Question             string    `json:"question,omitempty"`
	Status               Status    `json:"status,omitempty"`
	ClarificationMessage string    `json:"clarification_message,omitempty"`
	RootCause            string    `json:"root_cause,omitempty"`
	Timestamp            time.Time `json:"timestamp"`
}

// Broker fans session events out to watchers. Delivery is best effort: a
// watcher that stops draining its channel loses events rather than blocking
// the interview.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

// NewBroker creates an empty event broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a watcher for one session id. The returned cancel
// function must be called when the watcher goes away.
func (b *Broker) Subscribe(sessionID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan Event]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if set, ok := b.subs[sessionID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(b.subs, sessionID)
			}
		}
	}
	return ch, cancel
}

// Publish delivers ev to every watcher of its session.
func (b *Broker) Publish(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[ev.SessionID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
