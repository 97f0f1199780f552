package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/language-enforcer/internal/models"
)

func (r *SQLite) insertReview(ctx context.Context, review *models.Review) error {
	query := r.psql.Insert("reviews").
		Columns("id", "card_id", "grade", "reviewed_at").
		Values(review.ID, review.CardID, review.Grade, review.ReviewedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (review_id: %s): %w", review.ID, err)
	}

	if _, err = r.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert review (review_id: %s, card_id: %s): %w", review.ID, review.CardID, err)
	}
	return nil
}

// ListReviews returns the card's review log ordered by time, oldest first.
func (r *SQLite) ListReviews(ctx context.Context, cardID uuid.UUID) ([]*models.Review, error) {
	query := `
		SELECT id, card_id, grade, reviewed_at
		FROM reviews
		WHERE card_id = ?
		ORDER BY reviewed_at, id
	`

	var reviews []*models.Review
	if err := r.SelectContext(ctx, &reviews, query, cardID); err != nil {
		return nil, fmt.Errorf("list reviews (card_id: %s): %w", cardID, err)
	}

	return reviews, nil
}
