package server

import (
	"encoding/json"
	"sync"
)

// Event is the payload published to session subscribers.
type Event struct {
	Type     string `json:"type"`
	Category int    `json:"category"`
	Question int    `json:"question"`
	Team     int    `json:"team"`
	Value    int    `json:"value"`
	Correct  bool   `json:"correct"`
	Message  string `json:"message,omitempty"`
}

// Event types published over SSE.
const (
	EventBoardReady         = "board_ready"
	EventGenerationFailed   = "generation_failed"
	EventQuestionSelected   = "question_selected"
	EventAnswerRevealed     = "answer_revealed"
	EventQuestionResolved   = "question_resolved"
	EventSelectionCancelled = "selection_cancelled"
	EventSessionReset       = "session_reset"
)

// Broker is an in-process pub/sub for SSE events, keyed by session ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the
// given session.
func (b *Broker) Subscribe(sessionID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan []byte]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the session's subscribers.
func (b *Broker) Unsubscribe(sessionID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[sessionID], ch)
	if len(b.subs[sessionID]) == 0 {
		delete(b.subs, sessionID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given session.
func (b *Broker) Publish(sessionID string, event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[sessionID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
