package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/language-enforcer/internal/models"
	"github.com/yourusername/language-enforcer/internal/srs"
)

// CreateWord inserts a word together with its default card in one
// transaction. A word never exists without a card.
func (r *SQLite) CreateWord(ctx context.Context, draft models.WordDraft, now time.Time) (*models.Word, *models.Card, error) {
	word := &models.Word{
		ID:          uuid.New(),
		Text:        strings.TrimSpace(draft.Text),
		Language:    draft.Language,
		Translation: optional(draft.Translation),
		Chapter:     optional(draft.Chapter),
		Group:       optional(draft.Group),
		Sentence:    optional(draft.Sentence),
		CreatedAt:   now,
	}
	card := srs.NewCard(word.ID, now)

	err := r.RunInTx(ctx, func(tx models.Repository) error {
		txr := tx.(*SQLite)
		if err := txr.insertWord(ctx, word); err != nil {
			return err
		}
		return txr.insertCard(ctx, &card)
	})
	if err != nil {
		return nil, nil, err
	}

	return word, &card, nil
}

func (r *SQLite) insertWord(ctx context.Context, word *models.Word) error {
	query := r.psql.Insert("words").
		Columns("id", "text", "language", "translation", "chapter", "group_name", "sentence", "created_at").
		Values(word.ID, word.Text, word.Language, word.Translation, word.Chapter, word.Group, word.Sentence, word.CreatedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (word_id: %s): %w", word.ID, err)
	}

	if _, err = r.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert word (word_id: %s, text: %s): %w", word.ID, word.Text, err)
	}
	return nil
}

func (r *SQLite) GetWord(ctx context.Context, wordID uuid.UUID) (*models.Word, error) {
	query := `
		SELECT id, text, language, translation, chapter, group_name, sentence, created_at
		FROM words
		WHERE id = ?
	`

	var word models.Word
	err := r.GetContext(ctx, &word, query, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get word (word_id: %s): %w", wordID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get word (word_id: %s): %w", wordID, err)
	}

	return &word, nil
}

func (r *SQLite) WordExists(ctx context.Context, text, language string) (bool, error) {
	query := r.psql.Select("COUNT(*)").From("words").
		Where("text = ? COLLATE NOCASE AND language = ?", strings.TrimSpace(text), language)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("build SQL query (text: %s): %w", text, err)
	}

	var count int
	if err = r.QueryRowxContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("check word exists (text: %s): %w", text, err)
	}
	return count > 0, nil
}

func (r *SQLite) ListChapters(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT chapter
		FROM words
		WHERE chapter IS NOT NULL
		ORDER BY chapter
	`

	var chapters []string
	if err := r.SelectContext(ctx, &chapters, query); err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}

	return chapters, nil
}

// LastGroupForChapter returns the group label of the most recently created
// word in the chapter, or nil when the chapter has no grouped words.
func (r *SQLite) LastGroupForChapter(ctx context.Context, chapter string) (*string, error) {
	query := `
		SELECT group_name
		FROM words
		WHERE chapter = ? AND group_name IS NOT NULL
		ORDER BY created_at DESC
		LIMIT 1
	`

	var group string
	err := r.GetContext(ctx, &group, query, chapter)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last group for chapter (chapter: %s): %w", chapter, err)
	}

	return &group, nil
}

// CorrectContent updates the word's text and/or translation. Unset fields
// stay untouched; both unset is a no-op success. Scheduling state is never
// affected.
func (r *SQLite) CorrectContent(ctx context.Context, wordID uuid.UUID, text, translation models.Field) (*models.Word, error) {
	if !text.Set && !translation.Set {
		return r.GetWord(ctx, wordID)
	}

	query := r.psql.Update("words").Where("id = ?", wordID)
	if text.Set {
		query = query.Set("text", text.Value)
	}
	if translation.Set {
		query = query.Set("translation", translation.Value)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query (word_id: %s): %w", wordID, err)
	}

	res, err := r.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("correct content (word_id: %s): %w", wordID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("correct content (word_id: %s): %w", wordID, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("correct content (word_id: %s): %w", wordID, models.ErrNotFound)
	}

	return r.GetWord(ctx, wordID)
}

// DeleteWord removes the word, its card and its review log.
func (r *SQLite) DeleteWord(ctx context.Context, wordID uuid.UUID) error {
	query := r.psql.Delete("words").Where("id = ?", wordID)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (word_id: %s): %w", wordID, err)
	}

	res, err := r.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("delete word (word_id: %s): %w", wordID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete word (word_id: %s): %w", wordID, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete word (word_id: %s): %w", wordID, models.ErrNotFound)
	}

	return nil
}

func (r *SQLite) DeleteAll(ctx context.Context) error {
	return r.RunInTx(ctx, func(tx models.Repository) error {
		txr := tx.(*SQLite)
		for _, table := range []string{"reviews", "cards", "words"} {
			if _, err := txr.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("delete all (table: %s): %w", table, err)
			}
		}
		return nil
	})
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
