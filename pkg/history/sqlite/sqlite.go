// Package sqlite implements history.Store on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/S2thend/cursor-history-mcp/pkg/history"
	"github.com/S2thend/cursor-history-mcp/pkg/internalerr"
)

// sqliteStore implements the Store interface using SQLite.
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// schema if needed.
func OpenSQLite(ctx context.Context, path string) (history.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Cascade deletes from sessions to messages need this
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	workspace TEXT NOT NULL DEFAULT '',
	title TEXT,
	started_at TEXT NOT NULL,
	last_activity TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	role TEXT NOT NULL,
	text TEXT NOT NULL,
	created_at TEXT NOT NULL,
	FOREIGN KEY(session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at);
CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at, role);
CREATE INDEX IF NOT EXISTS idx_sessions_workspace ON sessions(workspace, last_activity);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertSession inserts or updates a session.
func (s *sqliteStore) UpsertSession(ctx context.Context, sess history.Session) error {
	if sess.ID == "" {
		return fmt.Errorf("session ID required: %w", internalerr.ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (id, workspace, title, started_at, last_activity)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	workspace=excluded.workspace,
	title=excluded.title,
	started_at=excluded.started_at,
	last_activity=excluded.last_activity;
`, sess.ID, sess.Workspace, sess.Title, encodeTime(sess.StartedAt), encodeTime(sess.LastActivity))
	return err
}

// GetSession retrieves a session by ID.
func (s *sqliteStore) GetSession(ctx context.Context, id string) (history.Session, bool, error) {
	var (
		sess         history.Session
		started      string
		lastActivity string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, workspace, title, started_at, last_activity
FROM sessions
WHERE id = ?;
`, id).Scan(&sess.ID, &sess.Workspace, &sess.Title, &started, &lastActivity)
	if err == sql.ErrNoRows {
		return history.Session{}, false, nil
	}
	if err != nil {
		return history.Session{}, false, err
	}

	sess.StartedAt = decodeTime(started)
	sess.LastActivity = decodeTime(lastActivity)
	return sess, true, nil
}

// ListSessions returns sessions ordered by most recent activity.
func (s *sqliteStore) ListSessions(ctx context.Context, opts history.ListOptions) ([]history.Session, error) {
	var (
		where []string
		args  []interface{}
	)
	if opts.Workspace != "" {
		where = append(where, "workspace = ?")
		args = append(args, opts.Workspace)
	}

	query := `SELECT id, workspace, title, started_at, last_activity FROM sessions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY last_activity DESC, id LIMIT ? OFFSET ?`
	args = append(args, sqlLimit(opts.Limit), sqlOffset(opts.Offset))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []history.Session
	for rows.Next() {
		var (
			sess         history.Session
			started      string
			lastActivity string
		)
		if err := rows.Scan(&sess.ID, &sess.Workspace, &sess.Title, &started, &lastActivity); err != nil {
			return nil, err
		}
		sess.StartedAt = decodeTime(started)
		sess.LastActivity = decodeTime(lastActivity)
		result = append(result, sess)
	}
	return result, rows.Err()
}

// DeleteSession removes a session; the schema cascades to its messages.
func (s *sqliteStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// AppendMessage stores a message under an existing session.
func (s *sqliteStore) AppendMessage(ctx context.Context, m history.Message) error {
	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM sessions WHERE id = ?)`, m.SessionID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("session %q: %w", m.SessionID, internalerr.ErrNotFound)
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO messages (session_id, role, text, created_at)
VALUES (?, ?, ?, ?);
`, m.SessionID, m.Role, m.Text, encodeTime(m.CreatedAt))
	return err
}

// ListMessages returns one session's messages in creation order.
func (s *sqliteStore) ListMessages(ctx context.Context, sessionID string, limit, offset int) ([]history.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, session_id, role, text, created_at
FROM messages
WHERE session_id = ?
ORDER BY created_at, id
LIMIT ? OFFSET ?;
`, sessionID, sqlLimit(limit), sqlOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// MessagesByYear returns messages created in the given UTC calendar year.
// RFC3339 UTC strings sort lexicographically, so the year filter is a plain
// text range.
func (s *sqliteStore) MessagesByYear(ctx context.Context, q history.YearQuery) ([]history.Message, error) {
	start := time.Date(q.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	where := []string{"m.created_at >= ?", "m.created_at < ?"}
	args := []interface{}{encodeTime(start), encodeTime(end)}

	query := `SELECT m.id, m.session_id, m.role, m.text, m.created_at FROM messages m`
	if q.Workspace != "" {
		query += ` JOIN sessions s ON s.id = m.session_id`
		where = append(where, "s.workspace = ?")
		args = append(args, q.Workspace)
	}
	if q.Role != "" {
		where = append(where, "m.role = ?")
		args = append(args, q.Role)
	}

	query += " WHERE " + strings.Join(where, " AND ")
	query += ` ORDER BY m.created_at, m.id LIMIT ? OFFSET ?`
	args = append(args, sqlLimit(q.Limit), sqlOffset(q.Offset))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]history.Message, error) {
	var result []history.Message
	for rows.Next() {
		var (
			m       history.Message
			created string
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Text, &created); err != nil {
			return nil, err
		}
		m.CreatedAt = decodeTime(created)
		result = append(result, m)
	}
	return result, rows.Err()
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func decodeTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// sqlLimit maps the interface's "non-positive means unlimited" convention to
// SQLite's LIMIT -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func sqlOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
