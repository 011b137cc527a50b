package out

import (
	"context"

	"scanmask/internal/modules/session/domain"
)

type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Find(ctx context.Context, id string) (domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
}

// NoteStore keeps one human readable note per session. WriteNote overwrites
// the note for the same session and returns its path.
type NoteStore interface {
	WriteNote(ctx context.Context, session domain.Session) (string, error)
	ReadNote(ctx context.Context, path string) (string, error)
}

type ActiveSessionStore interface {
	SaveActive(ctx context.Context, session domain.ActiveSession) error
	LoadActive(ctx context.Context) (domain.ActiveSession, error)
	ClearActive(ctx context.Context) error
}
