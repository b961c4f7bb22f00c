package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/set-night/pediabot/internal/domain"
)

// SessionService keeps one in-memory session per chat. Sessions never
// leave the process; an idle session is dropped by CleanupIdle.
type SessionService struct {
	mu          sync.RWMutex
	sessions    map[int64]*domain.Session
	idleTimeout time.Duration
}

func NewSessionService(idleTimeout time.Duration) *SessionService {
	return &SessionService{
		sessions:    make(map[int64]*domain.Session),
		idleTimeout: idleTimeout,
	}
}

func (s *SessionService) FindOrCreate(chatID int64) *domain.Session {
	s.mu.RLock()
	session, ok := s.sessions[chatID]
	s.mu.RUnlock()
	if ok {
		return session
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[chatID]; ok {
		return session
	}
	session = domain.NewSession(chatID)
	s.sessions[chatID] = session
	return session
}

func (s *SessionService) Get(chatID int64) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[chatID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Reset clears the chat's transcript, feedback and draft. A chat with a
// consultation in flight is not reset (ErrActiveRequest).
func (s *SessionService) Reset(chatID int64) (*domain.Session, error) {
	session, err := s.Get(chatID)
	if err != nil {
		return nil, err
	}
	if err := session.Reset(); err != nil {
		return nil, fmt.Errorf("reset chat %d: %w", chatID, err)
	}
	return session, nil
}

func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CleanupIdle drops sessions with no activity for longer than the idle
// timeout. Busy sessions are kept. It returns the number removed.
func (s *SessionService) CleanupIdle(now time.Time) int {
	if s.idleTimeout <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for chatID, session := range s.sessions {
		if session.Busy() {
			continue
		}
		if now.Sub(session.LastActivity()) > s.idleTimeout {
			delete(s.sessions, chatID)
			removed++
		}
	}
	return removed
}
