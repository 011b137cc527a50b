package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"scanmask/internal/modules/session/domain"
	sessionout "scanmask/internal/modules/session/port/out"
	apperrors "scanmask/internal/platform/errors"

	_ "modernc.org/sqlite"
)

type SQLiteSessionStore struct {
	db *sql.DB
}

var _ sessionout.SessionStore = (*SQLiteSessionStore)(nil)

func NewSQLiteSessionStore(dbPath string) (*SQLiteSessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
PRAGMA busy_timeout = 5000;
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  pattern_id TEXT NOT NULL,
  pattern_name TEXT NOT NULL,
  profile_id TEXT NOT NULL,
  profile_name TEXT NOT NULL,
  start_time INTEGER NOT NULL,
  end_time INTEGER,
  comfort_rating INTEGER,
  volume_level REAL NOT NULL,
  completed INTEGER NOT NULL DEFAULT 0,
  outcome TEXT NOT NULL DEFAULT '',
  note_path TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON sessions(start_time);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Save(ctx context.Context, session domain.Session) error {
	var endTime sql.NullInt64
	if session.Ended() {
		endTime = sql.NullInt64{Int64: session.EndTime.UnixMilli(), Valid: true}
	}
	var rating sql.NullInt64
	if session.ComfortRating != nil {
		rating = sql.NullInt64{Int64: int64(*session.ComfortRating), Valid: true}
	}
	const stmt = `
INSERT INTO sessions (id, pattern_id, pattern_name, profile_id, profile_name, start_time, end_time, comfort_rating, volume_level, completed, outcome, note_path)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  end_time=excluded.end_time,
  comfort_rating=excluded.comfort_rating,
  volume_level=excluded.volume_level,
  completed=excluded.completed,
  outcome=excluded.outcome,
  note_path=excluded.note_path;
`
	_, err := s.db.ExecContext(ctx, stmt,
		session.ID, session.PatternID, session.PatternName, session.ProfileID, session.ProfileName,
		session.StartTime.UnixMilli(), endTime, rating, session.VolumeLevel,
		boolToInt(session.Completed), string(session.Outcome), session.NotePath,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

const sessionColumns = `id, pattern_id, pattern_name, profile_id, profile_name, start_time, end_time, comfort_rating, volume_level, completed, outcome, note_path`

func (s *SQLiteSessionStore) Find(ctx context.Context, id string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("find session: %w", err)
	}
	return session, nil
}

// List returns sessions newest first.
func (s *SQLiteSessionStore) List(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY start_time DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	var out []domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var (
		session   domain.Session
		start     int64
		end       sql.NullInt64
		rating    sql.NullInt64
		completed int
		outcome   string
	)
	err := row.Scan(&session.ID, &session.PatternID, &session.PatternName, &session.ProfileID, &session.ProfileName,
		&start, &end, &rating, &session.VolumeLevel, &completed, &outcome, &session.NotePath)
	if err != nil {
		return domain.Session{}, err
	}
	session.StartTime = time.UnixMilli(start)
	if end.Valid {
		session.EndTime = time.UnixMilli(end.Int64)
	}
	if rating.Valid {
		r := int(rating.Int64)
		session.ComfortRating = &r
	}
	session.Completed = completed != 0
	session.Outcome = domain.Outcome(outcome)
	return session, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
