// Package store persists chat sessions as append-only turn logs keyed by
// an opaque chat ID.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/wanjiku/cortex-avatar/backend/internal/model/chat"
)

// ErrNotFound reports that no session exists under the requested chat ID.
var ErrNotFound = errors.New("chat not found")

// Store is the history collaborator used by the request pipeline.
//
// Concurrent turns on the same chat ID may interleave their
// read-then-append cycles; individual appends are atomic but no
// optimistic locking is applied across a whole turn.
type Store interface {
	// FindSession returns the session with all turns in chronological
	// order, or ErrNotFound.
	FindSession(ctx context.Context, chatID string) (*chat.Session, error)

	// AppendTurn adds a turn to the session, creating the session when it
	// does not exist yet, and bumps lastInteraction.
	AppendTurn(ctx context.Context, chatID, ownerID string, turn chat.Turn) error

	// DeleteSession removes the session and its turns entirely.
	DeleteSession(ctx context.Context, chatID string) error

	// AllSessions lists every session ordered by lastInteraction
	// descending.
	AllSessions(ctx context.Context) ([]chat.Session, error)

	// RecentSessions lists an owner's sessions, newest interaction first,
	// capped at limit.
	RecentSessions(ctx context.Context, ownerID string, limit int) ([]chat.Session, error)

	// DeleteOlderThan removes sessions whose last interaction predates
	// cutoff and reports how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Collections lists the backing collection (table) names.
	Collections(ctx context.Context) ([]string, error)

	Close() error
}
