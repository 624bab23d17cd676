// Package conversation persists per-session chat logs in SQLite.
package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ameympatil/AI-Chatbot/internal/domain"
)

// seedTurns is returned when a session has no history yet, so the query
// rewriter always has non-empty context. The seed is never persisted.
var seedTurns = []domain.Turn{
	{Role: domain.RoleUser, Content: "Hi"},
	{Role: domain.RoleAssistant, Content: "Hello, how can I help you?"},
}

// Store implements domain.ConversationStore on SQLite. Appends for one
// session are serialized through a per-session mutex so concurrent turns
// cannot interleave their turn-pairs within the log.
type Store struct {
	db *sql.DB

	mu       sync.Mutex
	sessions map[string]*sync.Mutex
}

var _ domain.ConversationStore = (*Store)(nil)

// NewStore opens (or creates) the database at dsn and runs migrations.
// Use ":memory:" for an ephemeral store in tests.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open conversation db: %w", err)
	}
	s := &Store{db: db, sessions: make(map[string]*sync.Mutex)}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate conversation db: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS turns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, id)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Recent returns the most recent limit turns in chronological order, or the
// synthetic seed pair when the session has no history.
func (s *Store) Recent(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	if limit <= 0 {
		limit = 2
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM (
			SELECT id, role, content FROM turns
			WHERE session_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("read recent turns: %w", err)
	}
	turns, err := scanTurns(rows)
	if err != nil {
		return nil, err
	}
	if len(turns) == 0 {
		seed := make([]domain.Turn, len(seedTurns))
		copy(seed, seedTurns)
		return seed, nil
	}
	return turns, nil
}

// History returns the full persisted log for a session, oldest first.
// Unlike Recent it returns an empty slice for an unknown session.
func (s *Store) History(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM turns WHERE session_id = ? ORDER BY id ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("read conversation: %w", err)
	}
	return scanTurns(rows)
}

// Append extends the session log with turns, creating the log implicitly on
// first append. The whole batch is written in one transaction under the
// session's lock, so pairs from concurrent turns never interleave.
func (s *Store) Append(ctx context.Context, sessionID string, turns []domain.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append turns: %w", err)
	}
	for _, t := range turns {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO turns (session_id, role, content) VALUES (?, ?, ?)`,
			sessionID, string(t.Role), t.Content); err != nil {
			tx.Rollback()
			return fmt.Errorf("append turns: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append turns: %w", err)
	}
	return nil
}

// ListSessions enumerates session ids that have persisted history.
func (s *Store) ListSessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT session_id FROM turns ORDER BY session_id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.sessions[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.sessions[sessionID] = l
	}
	return l
}

func scanTurns(rows *sql.Rows) ([]domain.Turn, error) {
	defer rows.Close()
	var turns []domain.Turn
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, err
		}
		turns = append(turns, domain.Turn{Role: domain.Role(role), Content: content})
	}
	return turns, rows.Err()
}
