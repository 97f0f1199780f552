// Package reconcile merges remote snapshots into the local card store and
// pushes local content corrections outward. The remote is the system of
// record for word content; local scheduling state stays authoritative
// between syncs.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/language-enforcer/internal/auth"
	"github.com/yourusername/language-enforcer/internal/models"
)

type Engine struct {
	repo   models.Repository
	remote models.Remote
	clock  func() time.Time
}

func NewEngine(repo models.Repository, remote models.Remote, clock func() time.Time) *Engine {
	return &Engine{
		repo:   repo,
		remote: remote,
		clock:  clock,
	}
}

// IngestSnapshot validates and merges a remote snapshot into the local
// store. The whole batch applies atomically or not at all; re-ingesting the
// same snapshot is a no-op. Requires a valid session and mutates nothing
// without one.
func (e *Engine) IngestSnapshot(ctx context.Context, sess *auth.Session, snap *models.Snapshot) error {
	if !sess.Valid(e.clock()) {
		return fmt.Errorf("ingest snapshot: %w", models.ErrAuthRequired)
	}

	if err := ValidateSnapshot(snap); err != nil {
		return err
	}

	if err := e.repo.MergeSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("ingest snapshot (words: %d, cards: %d, reviews: %d): %w",
			len(snap.Words), len(snap.Cards), len(snap.Reviews), err)
	}

	zap.S().Infow("snapshot ingested",
		"words", len(snap.Words), "cards", len(snap.Cards), "reviews", len(snap.Reviews))
	return nil
}

// Refresh fetches the current snapshot from the remote and ingests it.
// Remote I/O failures surface as ErrTransient and the whole call may be
// retried; ingest is idempotent by identifier.
func (e *Engine) Refresh(ctx context.Context, sess *auth.Session) error {
	if !sess.Valid(e.clock()) {
		return fmt.Errorf("refresh: %w", models.ErrAuthRequired)
	}

	snap, err := e.remote.FetchSnapshot(ctx, sess)
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}

	return e.IngestSnapshot(ctx, sess, snap)
}

// PushCorrection propagates a content edit to the remote before applying it
// locally. Both fields unset is a no-op success. Scheduling state is never
// touched.
func (e *Engine) PushCorrection(ctx context.Context, sess *auth.Session, wordID uuid.UUID, text, translation models.Field) error {
	if !sess.Valid(e.clock()) {
		return fmt.Errorf("push correction (word_id: %s): %w", wordID, models.ErrAuthRequired)
	}

	if !text.Set && !translation.Set {
		return nil
	}

	if err := e.remote.UpdateWord(ctx, sess, wordID, text, translation); err != nil {
		return fmt.Errorf("push correction (word_id: %s): %w", wordID, err)
	}

	if _, err := e.repo.CorrectContent(ctx, wordID, text, translation); err != nil {
		return fmt.Errorf("apply correction locally (word_id: %s): %w", wordID, err)
	}

	return nil
}

// ValidateSnapshot checks that the snapshot is self-contained: every card
// must reference a snapshot word, every word must carry a card (a word never
// exists without scheduling state), and every review must reference a
// snapshot card. A single violation rejects the whole batch.
func ValidateSnapshot(snap *models.Snapshot) error {
	wordIDs := make(map[uuid.UUID]struct{}, len(snap.Words))
	for i := range snap.Words {
		wordIDs[snap.Words[i].ID] = struct{}{}
	}

	cardIDs := make(map[uuid.UUID]struct{}, len(snap.Cards))
	carded := make(map[uuid.UUID]struct{}, len(snap.Cards))
	for i := range snap.Cards {
		card := &snap.Cards[i]
		if _, ok := wordIDs[card.WordID]; !ok {
			return fmt.Errorf("%w: card %s references unknown word %s",
				models.ErrValidation, card.ID, card.WordID)
		}
		cardIDs[card.ID] = struct{}{}
		carded[card.WordID] = struct{}{}
	}

	for i := range snap.Words {
		if _, ok := carded[snap.Words[i].ID]; !ok {
			return fmt.Errorf("%w: word %s has no card",
				models.ErrValidation, snap.Words[i].ID)
		}
	}

	for i := range snap.Reviews {
		review := &snap.Reviews[i]
		if _, ok := cardIDs[review.CardID]; !ok {
			return fmt.Errorf("%w: review %s references unknown card %s",
				models.ErrValidation, review.ID, review.CardID)
		}
	}

	return nil
}
