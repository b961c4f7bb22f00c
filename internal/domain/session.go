package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the state of one interactive visit. It lives in memory only.
type Session struct {
	ID         uuid.UUID
	ChatID     int64
	Transcript *Transcript
	CreatedAt  time.Time

	mu            sync.Mutex
	authenticated bool
	credential    string
	draft         Draft
	busy          bool
	lastActivity  time.Time
	// generation counts resets. Message ids restart after a reset, so a
	// reference to a message is only valid together with its generation.
	generation uint64
}

func NewSession(chatID int64) *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.New(),
		ChatID:       chatID,
		Transcript:   NewTranscript(),
		CreatedAt:    now,
		lastActivity: now,
	}
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *Session) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

// SetCredential stores an already validated credential and marks the
// session authenticated.
func (s *Session) SetCredential(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
	s.authenticated = true
}

// ClearCredential forgets the credential. It refuses while an action is in
// flight, since that action is still using it.
func (s *Session) ClearCredential() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrActiveRequest
	}
	s.credential = ""
	s.authenticated = false
	return nil
}

func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *Session) SetDraft(d Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d
}

// TakeDraft returns the pending draft and clears it.
func (s *Session) TakeDraft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft
	s.draft = Draft{}
	return d
}

// TryBegin marks the session busy. It returns false if another action is
// still in flight.
func (s *Session) TryBegin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	s.lastActivity = time.Now()
	return true
}

func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.lastActivity = time.Now()
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Reset empties the transcript, feedback and draft and starts a new
// generation. Authentication is kept. A busy session is not reset: the
// pending answer would land in the fresh transcript without its question.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrActiveRequest
	}
	s.Transcript.Reset()
	s.draft = Draft{}
	s.generation++
	return nil
}

func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Message looks up a message shown under generation gen. A message from
// before the last reset is not found, even if its id was reused.
func (s *Session) Message(gen uint64, id string) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return Message{}, ErrMessageNotFound
	}
	return s.Transcript.Get(id)
}

// AnnotateFeedback records feedback on a message shown under generation gen.
func (s *Session) AnnotateFeedback(gen uint64, id string, f Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrMessageNotFound
	}
	return s.Transcript.AnnotateFeedback(id, f)
}
