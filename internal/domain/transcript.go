package domain

import (
	"sync"
	"time"
)

// Transcript is the ordered, append-only log of one session's turns.
// Message ids are derived from the transcript length at append time.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
	feedback map[string]Feedback
}

func NewTranscript() *Transcript {
	return &Transcript{feedback: make(map[string]Feedback)}
}

// Append assigns the message id and creation time and stores the message.
func (t *Transcript) Append(m Message) Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	m.ID = messageID(m.Role, len(t.messages))
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	t.messages = append(t.messages, m)
	return m
}

func (t *Transcript) All() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

func (t *Transcript) Get(id string) (Message, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, m := range t.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return Message{}, ErrMessageNotFound
}

// Reset discards all messages and feedback. Ids restart from zero.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = nil
	t.feedback = make(map[string]Feedback)
}

// AnnotateFeedback records feedback for an existing message. Last write wins.
func (t *Transcript) AnnotateFeedback(id string, f Feedback) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, m := range t.messages {
		if m.ID == id {
			t.feedback[id] = f
			return nil
		}
	}
	return ErrMessageNotFound
}

func (t *Transcript) Feedback(id string) (Feedback, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	f, ok := t.feedback[id]
	return f, ok
}

func (t *Transcript) FeedbackCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.feedback)
}
