package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/wanjiku/cortex-avatar/backend/internal/model/chat"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cortex.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendCreatesSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	turn := chat.Turn{You: "hello", Cortex: "hi there", Timestamp: time.Now().UTC()}
	if err := s.AppendTurn(ctx, "chat-1", "amina", turn); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}

	session, err := s.FindSession(ctx, "chat-1")
	if err != nil {
		t.Fatalf("FindSession: %v", err)
	}
	if session.OwnerID != "amina" {
		t.Fatalf("unexpected owner: %s", session.OwnerID)
	}
	if len(session.Messages) != 1 || session.Messages[0].Cortex != "hi there" {
		t.Fatalf("unexpected messages: %+v", session.Messages)
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, text := range []string{"first", "second", "third"} {
		turn := chat.Turn{You: text, Cortex: "reply to " + text, Timestamp: base.Add(time.Duration(i) * time.Second)}
		if err := s.AppendTurn(ctx, "chat-1", "amina", turn); err != nil {
			t.Fatalf("AppendTurn(%s): %v", text, err)
		}
	}

	session, err := s.FindSession(ctx, "chat-1")
	if err != nil {
		t.Fatalf("FindSession: %v", err)
	}
	if len(session.Messages) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(session.Messages))
	}
	for i, want := range []string{"first", "second", "third"} {
		if session.Messages[i].You != want {
			t.Fatalf("turn %d out of order: %+v", i, session.Messages)
		}
	}
}

func TestFindSessionNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.FindSession(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AppendTurn(ctx, "chat-1", "amina", chat.Turn{You: "hi", Cortex: "hello"}); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if err := s.DeleteSession(ctx, "chat-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := s.FindSession(ctx, "chat-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteSession(ctx, "chat-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestRecentSessionsFiltersByOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	s.AppendTurn(ctx, "a", "amina", chat.Turn{You: "x", Cortex: "y", Timestamp: now.Add(-2 * time.Hour)})
	s.AppendTurn(ctx, "b", "amina", chat.Turn{You: "x", Cortex: "y", Timestamp: now})
	s.AppendTurn(ctx, "c", "kofi", chat.Turn{You: "x", Cortex: "y", Timestamp: now})

	sessions, err := s.RecentSessions(ctx, "amina", 10)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ChatID != "b" {
		t.Fatalf("expected newest first, got %s", sessions[0].ChatID)
	}
}

func TestListingsIncludeMessages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	s.AppendTurn(ctx, "a", "amina", chat.Turn{You: "first", Cortex: "one", Timestamp: now.Add(-time.Hour)})
	s.AppendTurn(ctx, "a", "amina", chat.Turn{You: "second", Cortex: "two", Timestamp: now})
	s.AppendTurn(ctx, "b", "kofi", chat.Turn{You: "hi", Cortex: "hello", Timestamp: now})

	sessions, err := s.AllSessions(ctx)
	if err != nil {
		t.Fatalf("AllSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	for _, session := range sessions {
		if len(session.Messages) == 0 {
			t.Fatalf("session %s listed without messages", session.ChatID)
		}
	}

	recent, err := s.RecentSessions(ctx, "amina", 10)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(recent) != 1 || len(recent[0].Messages) != 2 {
		t.Fatalf("expected full history in listing, got %+v", recent)
	}
	if recent[0].Messages[0].You != "first" || recent[0].Messages[1].You != "second" {
		t.Fatalf("turns out of order: %+v", recent[0].Messages)
	}
}

func TestDeleteOlderThan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	s.AppendTurn(ctx, "old", "amina", chat.Turn{You: "x", Cortex: "y", Timestamp: now.Add(-40 * 24 * time.Hour)})
	s.AppendTurn(ctx, "fresh", "amina", chat.Turn{You: "x", Cortex: "y", Timestamp: now})

	removed, err := s.DeleteOlderThan(ctx, now.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := s.FindSession(ctx, "fresh"); err != nil {
		t.Fatalf("fresh session must survive: %v", err)
	}
}

func TestCollections(t *testing.T) {
	s := newTestStore(t)
	names, err := s.Collections(context.Background())
	if err != nil {
		t.Fatalf("Collections: %v", err)
	}
	found := map[string]bool{}
	for _, name := range names {
		found[name] = true
	}
	if !found["chats"] || !found["turns"] {
		t.Fatalf("expected chats and turns tables, got %v", names)
	}
}
