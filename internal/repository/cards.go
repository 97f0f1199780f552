package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/language-enforcer/internal/models"
	"github.com/yourusername/language-enforcer/internal/srs"
)

func (r *SQLite) insertCard(ctx context.Context, card *models.Card) error {
	query := r.psql.Insert("cards").
		Columns("id", "word_id", "due_at", "interval_days", "ease", "reps", "lapses", "seen_count").
		Values(card.ID, card.WordID, card.DueAt, card.IntervalDays, card.Ease, card.Reps, card.Lapses, card.SeenCount)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (card_id: %s): %w", card.ID, err)
	}

	if _, err = r.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert card (card_id: %s, word_id: %s): %w", card.ID, card.WordID, err)
	}
	return nil
}

func (r *SQLite) GetCard(ctx context.Context, cardID uuid.UUID) (*models.Card, error) {
	query := `
		SELECT id, word_id, due_at, interval_days, ease, reps, lapses, seen_count
		FROM cards
		WHERE id = ?
	`

	var card models.Card
	err := r.GetContext(ctx, &card, query, cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get card (card_id: %s): %w", cardID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get card (card_id: %s): %w", cardID, err)
	}

	return &card, nil
}

// GetDueCards returns cards due at or before the given time joined with
// their words, ordered by due date with the card id as a deterministic
// tie-break. A non-positive limit means no limit.
func (r *SQLite) GetDueCards(ctx context.Context, before time.Time, limit int) ([]*models.CardView, error) {
	query := `
		SELECT c.id AS card_id, c.word_id, c.due_at,
		       w.text, w.translation, w.language, w.chapter, w.group_name
		FROM cards c
		JOIN words w ON w.id = c.word_id
		WHERE c.due_at <= ?
		ORDER BY c.due_at, c.id
	`
	args := []any{before}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var views []*models.CardView
	if err := r.SelectContext(ctx, &views, query, args...); err != nil {
		return nil, fmt.Errorf("query due cards (cutoff: %s): %w", before.Format(time.RFC3339), err)
	}

	return views, nil
}

// ApplyGrade computes the next retention state for the card and persists the
// updated card together with the appended review as one atomic unit. A
// concurrent grade on the same card observes ErrConflict and must reload
// before retrying.
func (r *SQLite) ApplyGrade(ctx context.Context, cardID uuid.UUID, grade models.Grade, now time.Time) (*models.Card, error) {
	if !grade.IsValid() {
		return nil, fmt.Errorf("apply grade (card_id: %s): invalid grade %d", cardID, int(grade))
	}

	if !r.grading.acquire(cardID) {
		return nil, fmt.Errorf("apply grade (card_id: %s): %w", cardID, models.ErrConflict)
	}
	defer r.grading.release(cardID)

	var updated models.Card
	err := r.RunInTx(ctx, func(tx models.Repository) error {
		txr := tx.(*SQLite)

		card, err := txr.GetCard(ctx, cardID)
		if err != nil {
			return err
		}

		next := srs.Schedule(*card, grade, now)
		next.SeenCount = card.SeenCount + 1
		if err = txr.updateCard(ctx, &next); err != nil {
			return err
		}

		if txr.beforeReviewAppend != nil {
			if err = txr.beforeReviewAppend(); err != nil {
				return err
			}
		}

		review := &models.Review{
			ID:         uuid.New(),
			CardID:     cardID,
			Grade:      grade.Quality(),
			ReviewedAt: now,
		}
		if err = txr.insertReview(ctx, review); err != nil {
			return err
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *SQLite) updateCard(ctx context.Context, card *models.Card) error {
	query := r.psql.Update("cards").
		Set("due_at", card.DueAt).
		Set("interval_days", card.IntervalDays).
		Set("ease", card.Ease).
		Set("reps", card.Reps).
		Set("lapses", card.Lapses).
		Set("seen_count", card.SeenCount).
		Where("id = ?", card.ID)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (card_id: %s): %w", card.ID, err)
	}

	if _, err = r.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("update card (card_id: %s, reps: %d): %w", card.ID, card.Reps, err)
	}
	return nil
}

// Counts reports how many cards are due at the given time and how many exist
// in total.
func (r *SQLite) Counts(ctx context.Context, now time.Time) (due, total int, err error) {
	if err = r.GetContext(ctx, &total, "SELECT COUNT(*) FROM cards"); err != nil {
		return 0, 0, fmt.Errorf("count cards: %w", err)
	}

	if err = r.GetContext(ctx, &due, "SELECT COUNT(*) FROM cards WHERE due_at <= ?", now); err != nil {
		return 0, 0, fmt.Errorf("count due cards (cutoff: %s): %w", now.Format(time.RFC3339), err)
	}

	return due, total, nil
}
