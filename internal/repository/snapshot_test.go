package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/language-enforcer/internal/models"
	"github.com/yourusername/language-enforcer/internal/srs"
)

func remoteSnapshot(now time.Time) *models.Snapshot {
	wordID := uuid.New()
	card := srs.NewCard(wordID, now)

	return &models.Snapshot{
		Words: []models.Word{{
			ID:        wordID,
			Text:      "die Katze",
			Language:  "de",
			CreatedAt: now,
		}},
		Cards: []models.Card{card},
		Reviews: []models.Review{{
			ID:         uuid.New(),
			CardID:     card.ID,
			Grade:      models.Good.Quality(),
			ReviewedAt: now,
		}},
	}
}

// dumpState reads every row of all three tables, normalized for comparison.
func dumpState(t *testing.T, repo *SQLite) ([]models.Word, []models.Card, []models.Review) {
	t.Helper()
	ctx := context.Background()

	var words []models.Word
	require.NoError(t, repo.SelectContext(ctx, &words,
		"SELECT id, text, language, translation, chapter, group_name, sentence, created_at FROM words ORDER BY id"))

	var cards []models.Card
	require.NoError(t, repo.SelectContext(ctx, &cards,
		"SELECT id, word_id, due_at, interval_days, ease, reps, lapses, seen_count FROM cards ORDER BY id"))

	var reviews []models.Review
	require.NoError(t, repo.SelectContext(ctx, &reviews,
		"SELECT id, card_id, grade, reviewed_at FROM reviews ORDER BY id"))

	return words, cards, reviews
}

func TestMergeSnapshot_PopulatesEmptyStore(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	snap := remoteSnapshot(testNow)
	require.NoError(t, repo.MergeSnapshot(ctx, snap))

	word, err := repo.GetWord(ctx, snap.Words[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "die Katze", word.Text)

	card, err := repo.GetCard(ctx, snap.Cards[0].ID)
	require.NoError(t, err)
	assert.Equal(t, snap.Words[0].ID, card.WordID)

	reviews, err := repo.ListReviews(ctx, snap.Cards[0].ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestMergeSnapshot_Idempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateWord(t, repo, "der Hund", testNow)

	snap := remoteSnapshot(testNow)
	require.NoError(t, repo.MergeSnapshot(ctx, snap))
	words1, cards1, reviews1 := dumpState(t, repo)

	require.NoError(t, repo.MergeSnapshot(ctx, snap))
	words2, cards2, reviews2 := dumpState(t, repo)

	assert.Empty(t, cmp.Diff(words1, words2))
	assert.Empty(t, cmp.Diff(cards1, cards2))
	assert.Empty(t, cmp.Diff(reviews1, reviews2))
}

func TestMergeSnapshot_RemoteWinsContent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	word, _ := mustCreateWord(t, repo, "der Hunt", testNow)

	snap := &models.Snapshot{
		Words: []models.Word{{
			ID:          word.ID,
			Text:        "der Hund",
			Language:    "de",
			Translation: word.Translation,
			CreatedAt:   word.CreatedAt,
		}},
	}
	require.NoError(t, repo.MergeSnapshot(ctx, snap))

	got, err := repo.GetWord(ctx, word.ID)
	require.NoError(t, err)
	assert.Equal(t, "der Hund", got.Text)
}

func TestMergeSnapshot_LocalWinsScheduling(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	word, card := mustCreateWord(t, repo, "der Hund", testNow)

	graded, err := repo.ApplyGrade(ctx, card.ID, models.Good, testNow)
	require.NoError(t, err)

	// The remote holds the same card with stale scheduling state.
	stale := *card
	stale.Reps = 7
	stale.Ease = 1.3
	snap := &models.Snapshot{
		Words: []models.Word{{ID: word.ID, Text: word.Text, Language: word.Language, CreatedAt: word.CreatedAt}},
		Cards: []models.Card{stale},
	}
	require.NoError(t, repo.MergeSnapshot(ctx, snap))

	got, err := repo.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, graded.Reps, got.Reps)
	assert.Equal(t, graded.Ease, got.Ease)
	assert.True(t, got.DueAt.Equal(graded.DueAt))
}

func TestMergeSnapshot_RemoteCardForCardedWordIsSkipped(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	word, local := mustCreateWord(t, repo, "der Hund", testNow)

	// The remote assigned its own card id to the same word.
	remoteCard := srs.NewCard(word.ID, testNow.Add(-time.Hour))
	snap := &models.Snapshot{
		Words: []models.Word{{ID: word.ID, Text: word.Text, Language: word.Language, CreatedAt: word.CreatedAt}},
		Cards: []models.Card{remoteCard},
	}
	require.NoError(t, repo.MergeSnapshot(ctx, snap))

	_, total, err := repo.Counts(ctx, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, err = repo.GetCard(ctx, local.ID)
	require.NoError(t, err)
	_, err = repo.GetCard(ctx, remoteCard.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMergeSnapshot_ReviewLogIsUnion(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	word, card := mustCreateWord(t, repo, "der Hund", testNow)

	_, err := repo.ApplyGrade(ctx, card.ID, models.Good, testNow)
	require.NoError(t, err)

	// A full canonical snapshot: the shared word and card plus a review
	// graded on another device.
	snap := &models.Snapshot{
		Words: []models.Word{{ID: word.ID, Text: word.Text, Language: word.Language, CreatedAt: word.CreatedAt}},
		Cards: []models.Card{*card},
		Reviews: []models.Review{{
			ID:         uuid.New(),
			CardID:     card.ID,
			Grade:      models.Easy.Quality(),
			ReviewedAt: testNow.Add(-time.Hour),
		}},
	}
	require.NoError(t, repo.MergeSnapshot(ctx, snap))
	require.NoError(t, repo.MergeSnapshot(ctx, snap))

	reviews, err := repo.ListReviews(ctx, card.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestMergeSnapshot_PreservesLocalOnlyRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	localWord, localCard := mustCreateWord(t, repo, "der Hund", testNow)

	require.NoError(t, repo.MergeSnapshot(ctx, remoteSnapshot(testNow)))

	_, err := repo.GetWord(ctx, localWord.ID)
	require.NoError(t, err)
	_, err = repo.GetCard(ctx, localCard.ID)
	require.NoError(t, err)

	_, total, err := repo.Counts(ctx, testNow)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
