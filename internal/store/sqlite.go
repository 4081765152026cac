package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wanjiku/cortex-avatar/backend/internal/model/chat"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chats (
		chat_id          TEXT PRIMARY KEY,
		owner_id         TEXT NOT NULL,
		last_interaction TEXT NOT NULL,
		created_at       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chats_owner ON chats(owner_id);
	CREATE INDEX IF NOT EXISTS idx_chats_last_interaction ON chats(last_interaction DESC);

	CREATE TABLE IF NOT EXISTS turns (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id TEXT NOT NULL REFERENCES chats(chat_id) ON DELETE CASCADE,
		you     TEXT NOT NULL,
		cortex  TEXT NOT NULL,
		ts      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_turns_chat ON turns(chat_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// FindSession returns the session with all turns in chronological order.
func (s *SQLiteStore) FindSession(ctx context.Context, chatID string) (*chat.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT chat_id, owner_id, last_interaction, created_at FROM chats WHERE chat_id = ?`, chatID)

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find chat: %w", err)
	}

	if err := s.loadTurns(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *SQLiteStore) loadTurns(ctx context.Context, session *chat.Session) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT you, cortex, ts FROM turns WHERE chat_id = ? ORDER BY id`, session.ChatID)
	if err != nil {
		return fmt.Errorf("load turns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var turn chat.Turn
		var ts string
		if err := rows.Scan(&turn.You, &turn.Cortex, &ts); err != nil {
			return fmt.Errorf("scan turn: %w", err)
		}
		turn.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		session.Messages = append(session.Messages, turn)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate turns: %w", err)
	}
	return nil
}

// AppendTurn inserts the turn and the session row when missing, in one
// transaction so a half-written turn is never observable.
func (s *SQLiteStore) AppendTurn(ctx context.Context, chatID, ownerID string, turn chat.Turn) error {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}
	now := turn.Timestamp.Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chats (chat_id, owner_id, last_interaction, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET last_interaction = excluded.last_interaction`,
		chatID, ownerID, now, now); err != nil {
		return fmt.Errorf("upsert chat: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO turns (chat_id, you, cortex, ts) VALUES (?, ?, ?, ?)`,
		chatID, turn.You, turn.Cortex, now); err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

// DeleteSession removes the session and, via cascade, its turns.
func (s *SQLiteStore) DeleteSession(ctx context.Context, chatID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chats WHERE chat_id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AllSessions lists every session, most recent interaction first.
func (s *SQLiteStore) AllSessions(ctx context.Context) ([]chat.Session, error) {
	return s.querySessions(ctx,
		`SELECT chat_id, owner_id, last_interaction, created_at FROM chats ORDER BY last_interaction DESC`)
}

// RecentSessions lists an owner's sessions, newest first, capped at limit.
func (s *SQLiteStore) RecentSessions(ctx context.Context, ownerID string, limit int) ([]chat.Session, error) {
	if limit < 1 {
		limit = 10
	}
	return s.querySessions(ctx,
		`SELECT chat_id, owner_id, last_interaction, created_at FROM chats
		 WHERE owner_id = ? ORDER BY last_interaction DESC LIMIT ?`, ownerID, limit)
}

// DeleteOlderThan removes sessions whose last interaction predates cutoff.
func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM chats WHERE last_interaction < ?`, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("delete old chats: %w", err)
	}
	return res.RowsAffected()
}

// Collections lists the user tables backing the store.
func (s *SQLiteStore) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) querySessions(ctx context.Context, query string, args ...any) ([]chat.Session, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var sessions []chat.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}

	// Listings carry full histories, same as FindSession.
	for i := range sessions {
		if err := s.loadTurns(ctx, &sessions[i]); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*chat.Session, error) {
	var session chat.Session
	var last, created string
	if err := row.Scan(&session.ChatID, &session.OwnerID, &last, &created); err != nil {
		return nil, err
	}
	session.LastInteraction, _ = time.Parse(time.RFC3339Nano, last)
	session.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return &session, nil
}
