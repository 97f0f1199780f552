package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/language-enforcer/internal/auth"
)

type Repository interface {
	CreateWord(ctx context.Context, draft WordDraft, now time.Time) (*Word, *Card, error)
	GetWord(ctx context.Context, wordID uuid.UUID) (*Word, error)
	WordExists(ctx context.Context, text, language string) (bool, error)
	ListChapters(ctx context.Context) ([]string, error)
	LastGroupForChapter(ctx context.Context, chapter string) (*string, error)
	CorrectContent(ctx context.Context, wordID uuid.UUID, text, translation Field) (*Word, error)
	DeleteWord(ctx context.Context, wordID uuid.UUID) error
	DeleteAll(ctx context.Context) error

	GetCard(ctx context.Context, cardID uuid.UUID) (*Card, error)
	GetDueCards(ctx context.Context, before time.Time, limit int) ([]*CardView, error)
	ApplyGrade(ctx context.Context, cardID uuid.UUID, grade Grade, now time.Time) (*Card, error)
	Counts(ctx context.Context, now time.Time) (due, total int, err error)

	ListReviews(ctx context.Context, cardID uuid.UUID) ([]*Review, error)
	MergeSnapshot(ctx context.Context, snap *Snapshot) error

	RunInTx(ctx context.Context, fn func(Repository) error) error
}

// Remote is the canonical copy of word content. Scheduling state stays
// locally authoritative between syncs. The session travels with every call;
// there is no ambient auth state.
type Remote interface {
	FetchSnapshot(ctx context.Context, sess *auth.Session) (*Snapshot, error)
	UpdateWord(ctx context.Context, sess *auth.Session, wordID uuid.UUID, text, translation Field) error
}
