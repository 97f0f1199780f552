package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/language-enforcer/internal/models"
)

// MergeSnapshot merges a validated remote snapshot into the store as one
// transaction. Remote wins content fields, local wins scheduling state for
// cards it already holds, and the review log is an append-only union keyed
// by review id. Re-merging the same snapshot leaves the store unchanged.
func (r *SQLite) MergeSnapshot(ctx context.Context, snap *models.Snapshot) error {
	return r.RunInTx(ctx, func(tx models.Repository) error {
		txr := tx.(*SQLite)

		for i := range snap.Words {
			if err := txr.upsertWordContent(ctx, &snap.Words[i]); err != nil {
				return err
			}
		}

		for i := range snap.Cards {
			if err := txr.insertCardIfUnseen(ctx, &snap.Cards[i]); err != nil {
				return err
			}
		}

		for i := range snap.Reviews {
			if err := txr.insertReviewIfUnseen(ctx, &snap.Reviews[i]); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *SQLite) upsertWordContent(ctx context.Context, word *models.Word) error {
	query := r.psql.Insert("words").
		Columns("id", "text", "language", "translation", "chapter", "group_name", "sentence", "created_at").
		Values(word.ID, word.Text, word.Language, word.Translation, word.Chapter, word.Group, word.Sentence, word.CreatedAt).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			language = excluded.language,
			translation = excluded.translation,
			chapter = excluded.chapter,
			group_name = excluded.group_name,
			sentence = excluded.sentence`)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (word_id: %s): %w", word.ID, err)
	}

	if _, err = r.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("upsert word content (word_id: %s): %w", word.ID, err)
	}
	return nil
}

// insertCardIfUnseen seeds local scheduling state from the remote card only
// on first sight. Known cards keep their local due date, interval, ease and
// counters.
func (r *SQLite) insertCardIfUnseen(ctx context.Context, card *models.Card) error {
	query := r.psql.Insert("cards").
		Columns("id", "word_id", "due_at", "interval_days", "ease", "reps", "lapses", "seen_count").
		Values(card.ID, card.WordID, card.DueAt, card.IntervalDays, card.Ease, card.Reps, card.Lapses, card.SeenCount).
		// Bare ON CONFLICT also covers the unique word_id index: a remote
		// card for an already-carded word never displaces the local one.
		Suffix("ON CONFLICT DO NOTHING")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (card_id: %s): %w", card.ID, err)
	}

	if _, err = r.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert snapshot card (card_id: %s, word_id: %s): %w", card.ID, card.WordID, err)
	}
	return nil
}

func (r *SQLite) insertReviewIfUnseen(ctx context.Context, review *models.Review) error {
	query := r.psql.Insert("reviews").
		Columns("id", "card_id", "grade", "reviewed_at").
		Values(review.ID, review.CardID, review.Grade, review.ReviewedAt).
		Suffix("ON CONFLICT(id) DO NOTHING")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (review_id: %s): %w", review.ID, err)
	}

	if _, err = r.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert snapshot review (review_id: %s, card_id: %s): %w", review.ID, review.CardID, err)
	}
	return nil
}
