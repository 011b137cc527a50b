package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scanmask/internal/modules/session/domain"
	sessionout "scanmask/internal/modules/session/port/out"
	"scanmask/internal/platform/markdown"
	"scanmask/internal/platform/slug"
)

type noteMeta struct {
	SchemaVersion   int     `yaml:"schema_version"`
	ID              string  `yaml:"id"`
	PatternID       string  `yaml:"pattern_id"`
	Pattern         string  `yaml:"pattern"`
	ProfileID       string  `yaml:"profile_id"`
	Profile         string  `yaml:"profile"`
	StartTime       string  `yaml:"start_time"`
	EndTime         string  `yaml:"end_time,omitempty"`
	DurationSeconds int     `yaml:"duration_seconds"`
	VolumeLevel     float64 `yaml:"volume_level"`
	Outcome         string  `yaml:"outcome,omitempty"`
	Completed       bool    `yaml:"completed"`
	ComfortRating   *int    `yaml:"comfort_rating,omitempty"`
}

// MarkdownNoteStore writes one note per session under
// <root>/sessions/YYYY/MM/DD/, named after the start time and pattern.
type MarkdownNoteStore struct {
	root string
}

func NewMarkdownNoteStore(root string) sessionout.NoteStore {
	return &MarkdownNoteStore{root: root}
}

func (s *MarkdownNoteStore) WriteNote(_ context.Context, session domain.Session) (string, error) {
	start := session.StartTime
	dir := filepath.Join(s.root, "sessions", start.Format("2006"), start.Format("01"), start.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create note dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s-%s.md", start.Format("150405"), slug.Make(session.PatternName), shortID(session.ID)))

	meta := noteMeta{
		SchemaVersion:   domain.SchemaVersion,
		ID:              session.ID,
		PatternID:       session.PatternID,
		Pattern:         session.PatternName,
		ProfileID:       session.ProfileID,
		Profile:         session.ProfileName,
		StartTime:       start.Format(time.RFC3339),
		DurationSeconds: session.DurationSeconds(),
		VolumeLevel:     session.VolumeLevel,
		Outcome:         string(session.Outcome),
		Completed:       session.Completed,
		ComfortRating:   session.ComfortRating,
	}
	if session.Ended() {
		meta.EndTime = session.EndTime.Format(time.RFC3339)
	}
	rendered, err := markdown.Render(meta, noteBody(session))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, rendered, 0o644); err != nil {
		return "", fmt.Errorf("write session note: %w", err)
	}
	return path, nil
}

func (s *MarkdownNoteStore) ReadNote(_ context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read session note: %w", err)
	}
	return markdown.Parse(raw, nil)
}

func noteBody(session domain.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s with %s\n\n", session.PatternName, session.ProfileName)
	fmt.Fprintf(&b, "- Started: %s\n", session.StartTime.Format("2006-01-02 15:04:05"))
	if session.Ended() {
		fmt.Fprintf(&b, "- Duration: %s\n", (time.Duration(session.DurationSeconds()) * time.Second).String())
	}
	fmt.Fprintf(&b, "- Volume: %.0f%%\n", session.VolumeLevel*100)
	outcome := string(session.Outcome)
	if outcome == "" {
		outcome = "in progress"
	}
	fmt.Fprintf(&b, "- Outcome: %s\n", outcome)
	if session.ComfortRating != nil {
		fmt.Fprintf(&b, "- Comfort: %d/%d\n", *session.ComfortRating, domain.MaxComfortRating)
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
