package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"scanmask/internal/modules/catalog/domain"
	catalogout "scanmask/internal/modules/catalog/port/out"
	apperrors "scanmask/internal/platform/errors"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type SQLiteCatalogStore struct {
	db *sql.DB
}

var (
	_ catalogout.PatternStore = (*SQLiteCatalogStore)(nil)
	_ catalogout.ProfileStore = (*SQLiteCatalogStore)(nil)
)

func NewSQLiteCatalogStore(dbPath string) (*SQLiteCatalogStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	store := &SQLiteCatalogStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteCatalogStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteCatalogStore) ensureSchema(ctx context.Context) error {
	const ddl = `
PRAGMA busy_timeout = 5000;
CREATE TABLE IF NOT EXISTS scan_patterns (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  duration_minutes INTEGER NOT NULL,
  noise_frequency_hz INTEGER NOT NULL,
  noise_intensity_db INTEGER NOT NULL,
  sequence_json TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sound_profiles (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  base_frequency_hz INTEGER NOT NULL,
  effectiveness_json TEXT NOT NULL,
  file_path TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create catalog tables: %w", err)
	}
	return nil
}

func (s *SQLiteCatalogStore) SavePattern(ctx context.Context, p domain.Pattern) error {
	sequence, err := json.Marshal(p.Sequence)
	if err != nil {
		return fmt.Errorf("marshal sequence: %w", err)
	}
	const stmt = `
INSERT INTO scan_patterns (id, name, duration_minutes, noise_frequency_hz, noise_intensity_db, sequence_json, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  duration_minutes=excluded.duration_minutes,
  noise_frequency_hz=excluded.noise_frequency_hz,
  noise_intensity_db=excluded.noise_intensity_db,
  sequence_json=excluded.sequence_json;
`
	if _, err := s.db.ExecContext(ctx, stmt, p.ID, p.Name, p.DurationMinutes, p.NoiseFrequencyHz, p.NoiseIntensityDB, string(sequence), p.CreatedAt.Format(timeLayout)); err != nil {
		return fmt.Errorf("save pattern: %w", err)
	}
	return nil
}

const patternColumns = `id, name, duration_minutes, noise_frequency_hz, noise_intensity_db, sequence_json, created_at`

func (s *SQLiteCatalogStore) FindPattern(ctx context.Context, id string) (domain.Pattern, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+patternColumns+` FROM scan_patterns WHERE id = ?`, id)
	p, err := scanPattern(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Pattern{}, fmt.Errorf("pattern %s: %w", id, apperrors.ErrNotFound)
	}
	return p, err
}

func (s *SQLiteCatalogStore) ListPatterns(ctx context.Context) ([]domain.Pattern, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+patternColumns+` FROM scan_patterns ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	defer rows.Close()
	var out []domain.Pattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	return out, nil
}

func (s *SQLiteCatalogStore) CountPatterns(ctx context.Context) (int, error) {
	return s.count(ctx, "scan_patterns")
}

func (s *SQLiteCatalogStore) SaveProfile(ctx context.Context, p domain.Profile) error {
	effectiveness, err := json.Marshal(p.Effectiveness)
	if err != nil {
		return fmt.Errorf("marshal effectiveness: %w", err)
	}
	const stmt = `
INSERT INTO sound_profiles (id, name, type, base_frequency_hz, effectiveness_json, file_path, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  type=excluded.type,
  base_frequency_hz=excluded.base_frequency_hz,
  effectiveness_json=excluded.effectiveness_json,
  file_path=excluded.file_path;
`
	if _, err := s.db.ExecContext(ctx, stmt, p.ID, p.Name, string(p.Type), p.BaseFrequencyHz, string(effectiveness), p.FilePath, p.CreatedAt.Format(timeLayout)); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

const profileColumns = `id, name, type, base_frequency_hz, effectiveness_json, file_path, created_at`

func (s *SQLiteCatalogStore) FindProfile(ctx context.Context, id string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM sound_profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", id, apperrors.ErrNotFound)
	}
	return p, err
}

func (s *SQLiteCatalogStore) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM sound_profiles ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	var out []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

func (s *SQLiteCatalogStore) CountProfiles(ctx context.Context) (int, error) {
	return s.count(ctx, "sound_profiles")
}

func (s *SQLiteCatalogStore) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPattern(row scanner) (domain.Pattern, error) {
	var (
		p        domain.Pattern
		sequence string
		created  string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.DurationMinutes, &p.NoiseFrequencyHz, &p.NoiseIntensityDB, &sequence, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Pattern{}, err
		}
		return domain.Pattern{}, fmt.Errorf("scan pattern: %w", err)
	}
	if err := json.Unmarshal([]byte(sequence), &p.Sequence); err != nil {
		return domain.Pattern{}, fmt.Errorf("decode sequence for %s: %w", p.ID, err)
	}
	p.CreatedAt, _ = time.Parse(timeLayout, created)
	return p, nil
}

func scanProfile(row scanner) (domain.Profile, error) {
	var (
		p             domain.Profile
		soundType     string
		effectiveness string
		created       string
	)
	if err := row.Scan(&p.ID, &p.Name, &soundType, &p.BaseFrequencyHz, &effectiveness, &p.FilePath, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Profile{}, err
		}
		return domain.Profile{}, fmt.Errorf("scan profile: %w", err)
	}
	p.Type = domain.SoundType(soundType)
	if err := json.Unmarshal([]byte(effectiveness), &p.Effectiveness); err != nil {
		return domain.Profile{}, fmt.Errorf("decode effectiveness for %s: %w", p.ID, err)
	}
	p.CreatedAt, _ = time.Parse(timeLayout, created)
	return p, nil
}
