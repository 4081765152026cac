package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wanjiku/cortex-avatar/backend/internal/model/chat"
)

// MemoryStore is an in-memory Store used in tests and early iterations.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*chat.Session
}

// NewMemoryStore bootstraps an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*chat.Session)}
}

func (s *MemoryStore) FindSession(_ context.Context, chatID string) (*chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *session
	copied.Messages = append([]chat.Turn(nil), session.Messages...)
	return &copied, nil
}

func (s *MemoryStore) AppendTurn(_ context.Context, chatID, ownerID string, turn chat.Turn) error {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		session = &chat.Session{
			ChatID:    chatID,
			OwnerID:   ownerID,
			CreatedAt: turn.Timestamp,
		}
		s.sessions[chatID] = session
	}
	session.Messages = append(session.Messages, turn)
	session.LastInteraction = turn.Timestamp
	return nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[chatID]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, chatID)
	return nil
}

func (s *MemoryStore) AllSessions(_ context.Context) ([]chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(*chat.Session) bool { return true }, 0), nil
}

func (s *MemoryStore) RecentSessions(_ context.Context, ownerID string, limit int) ([]chat.Session, error) {
	if limit < 1 {
		limit = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(sess *chat.Session) bool { return sess.OwnerID == ownerID }, limit), nil
}

func (s *MemoryStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, session := range s.sessions {
		if session.LastInteraction.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Collections(_ context.Context) ([]string, error) {
	return []string{"chats", "turns"}, nil
}

func (s *MemoryStore) Close() error { return nil }

// snapshot copies matching sessions sorted by lastInteraction descending.
// Callers hold at least a read lock.
func (s *MemoryStore) snapshot(match func(*chat.Session) bool, limit int) []chat.Session {
	sessions := make([]chat.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		if !match(session) {
			continue
		}
		copied := *session
		copied.Messages = append([]chat.Turn(nil), session.Messages...)
		sessions = append(sessions, copied)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastInteraction.After(sessions[j].LastInteraction)
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions
}
