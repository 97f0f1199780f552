// Package service is the facade the front ends talk to. It wires the card
// store, the session manager and the reconciliation engine, and owns nothing
// with invariants of its own.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/language-enforcer/internal/auth"
	"github.com/yourusername/language-enforcer/internal/models"
	"github.com/yourusername/language-enforcer/internal/reconcile"
	"github.com/yourusername/language-enforcer/internal/session"
	"github.com/yourusername/language-enforcer/pkg/utils"
)

type Service struct {
	repo     models.Repository
	sessions *session.Manager
	engine   *reconcile.Engine
	reporter *Reporter
	clock    func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

func NewService(repo models.Repository, remote models.Remote, batchSize int, dataDir string, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		clock: utils.NowUTC,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.sessions = session.NewManager(repo, batchSize, s.clock)
	s.engine = reconcile.NewEngine(repo, remote, s.clock)
	s.reporter = NewReporter(dataDir)

	return s
}

// Counts returns (due, total) card counts at the current time.
func (s *Service) Counts(ctx context.Context) (due, total int, err error) {
	return s.repo.Counts(ctx, s.clock())
}

func (s *Service) StartSession(ctx context.Context) error {
	return s.sessions.Start(ctx)
}

func (s *Service) NextDueCard(ctx context.Context) (*models.CardView, error) {
	return s.sessions.Next(ctx)
}

func (s *Service) GradeCard(ctx context.Context, cardID uuid.UUID, grade models.Grade) error {
	return s.sessions.Grade(ctx, cardID, grade)
}

func (s *Service) ContinueSession(ctx context.Context) error {
	return s.sessions.Continue(ctx)
}

func (s *Service) EndSession() {
	s.sessions.End()
}

func (s *Service) SessionState() session.State {
	return s.sessions.State()
}

func (s *Service) CreateWord(ctx context.Context, draft models.WordDraft) (*models.Word, *models.Card, error) {
	return s.repo.CreateWord(ctx, draft, s.clock())
}

// Chapters lists the distinct chapter labels present in the store.
func (s *Service) Chapters(ctx context.Context) ([]string, error) {
	return s.repo.ListChapters(ctx)
}

// ApplyCorrectionLocal edits word content in the local store only, e.g.
// while offline. The next PushCorrection or ingest reconciles it.
func (s *Service) ApplyCorrectionLocal(ctx context.Context, wordID uuid.UUID, text, translation models.Field) error {
	if _, err := s.repo.CorrectContent(ctx, wordID, text, translation); err != nil {
		return fmt.Errorf("apply correction locally (word_id: %s): %w", wordID, err)
	}
	return nil
}

// ApplyCorrection pushes the edit to the canonical copy first, then applies
// it locally.
func (s *Service) ApplyCorrection(ctx context.Context, sess *auth.Session, wordID uuid.UUID, text, translation models.Field) error {
	return s.engine.PushCorrection(ctx, sess, wordID, text, translation)
}

// RefreshFromDataAPI merges an already-fetched snapshot into the local
// store.
func (s *Service) RefreshFromDataAPI(ctx context.Context, sess *auth.Session, snap *models.Snapshot) error {
	return s.engine.IngestSnapshot(ctx, sess, snap)
}

// Refresh pulls the snapshot from the configured remote and ingests it.
func (s *Service) Refresh(ctx context.Context, sess *auth.Session) error {
	return s.engine.Refresh(ctx, sess)
}

// ReportIssue captures out-of-band feedback about a card. It never touches
// scheduling state.
func (s *Service) ReportIssue(ctx context.Context, issue models.ReportedIssue) error {
	if issue.ReportedAt.IsZero() {
		issue.ReportedAt = s.clock()
	}
	return s.reporter.Append(issue)
}

func (s *Service) DeleteWord(ctx context.Context, wordID uuid.UUID) error {
	return s.repo.DeleteWord(ctx, wordID)
}

// DeleteAll wipes every word, card and review. The confirmation policy
// lives with the caller.
func (s *Service) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}
