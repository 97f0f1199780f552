// Package remote implements the canonical-copy clients. The Postgres mirror
// holds the system of record for word content.
package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/yourusername/language-enforcer/internal/auth"
	"github.com/yourusername/language-enforcer/internal/models"
)

type Postgres struct {
	db   *sqlx.DB
	psql squirrel.StatementBuilderType
}

func NewPostgres(dsn string, maxIdle, maxOpen int) (*Postgres, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to remote database: %w", err)
	}

	db.SetMaxIdleConns(maxIdle)
	db.SetMaxOpenConns(maxOpen)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(time.Minute * 10)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping remote database: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	return &Postgres{db: db, psql: psql}, nil
}

func (r *Postgres) Close() error {
	return r.db.Close()
}

// FetchSnapshot pulls the full remote copy: words, cards and the review log.
// The mirror authenticates via its DSN; the session is checked upstream by
// the reconciliation engine.
func (r *Postgres) FetchSnapshot(ctx context.Context, _ *auth.Session) (*models.Snapshot, error) {
	snap := &models.Snapshot{}

	query := `
		SELECT id, text, language, translation, chapter, group_name, sentence, created_at
		FROM words
	`
	if err := r.db.SelectContext(ctx, &snap.Words, query); err != nil {
		return nil, fmt.Errorf("fetch remote words: %w: %w", models.ErrTransient, err)
	}

	query = `
		SELECT id, word_id, due_at, interval_days, ease, reps, lapses, 0 AS seen_count
		FROM cards
	`
	if err := r.db.SelectContext(ctx, &snap.Cards, query); err != nil {
		return nil, fmt.Errorf("fetch remote cards: %w: %w", models.ErrTransient, err)
	}

	query = `
		SELECT id, card_id, grade, reviewed_at
		FROM reviews
	`
	if err := r.db.SelectContext(ctx, &snap.Reviews, query); err != nil {
		return nil, fmt.Errorf("fetch remote reviews: %w: %w", models.ErrTransient, err)
	}

	return snap, nil
}

// UpdateWord pushes a content correction to the canonical copy.
func (r *Postgres) UpdateWord(ctx context.Context, _ *auth.Session, wordID uuid.UUID, text, translation models.Field) error {
	if !text.Set && !translation.Set {
		return nil
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
		return fmt.Errorf("build SQL query (word_id: %s): %w", wordID, err)
	}

	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("update remote word (word_id: %s): %w: %w", wordID, models.ErrTransient, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update remote word (word_id: %s): %w", wordID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update remote word (word_id: %s): %w", wordID, models.ErrNotFound)
	}

	return nil
}
