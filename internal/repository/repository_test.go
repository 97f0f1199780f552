package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/language-enforcer/internal/models"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	repo, err := NewDB(filepath.Join(t.TempDir(), "enforcer.db"))
	require.NoError(t, err)
	require.NoError(t, repo.Up())
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func mustCreateWord(t *testing.T, repo *SQLite, text string, now time.Time) (*models.Word, *models.Card) {
	t.Helper()

	word, card, err := repo.CreateWord(context.Background(), models.WordDraft{
		Text:        text,
		Translation: text + " (en)",
		Language:    "de",
		Chapter:     "chapter 1",
	}, now)
	require.NoError(t, err)

	return word, card
}
