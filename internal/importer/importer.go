// Package importer converts OCR output into learnable words. It consumes
// only the card store's creation contract; the OCR provider itself is an
// external collaborator.
package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/language-enforcer/internal/models"
)

// DefaultMinConfidence drops OCR spans the provider itself is unsure about.
const DefaultMinConfidence = 0.6

// Span is one recognized text region from the OCR provider.
type Span struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"w"`
	Height     int     `json:"h"`
}

// Result summarizes one import run.
type Result struct {
	Created int
	Skipped int
}

type Importer struct {
	repo          models.Repository
	minConfidence float64
	clock         func() time.Time
}

func New(repo models.Repository, minConfidence float64, clock func() time.Time) *Importer {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &Importer{
		repo:          repo,
		minConfidence: minConfidence,
		clock:         clock,
	}
}

// ImportSpans turns recognized spans into words with freshly initialized
// cards. Low-confidence spans and duplicates of existing words are skipped;
// a span of the form "text - translation" fills both content fields. When
// the group label is empty, the chapter's most recent group is reused.
func (im *Importer) ImportSpans(ctx context.Context, spans []Span, language, chapter, group string) (*Result, error) {
	if group == "" && chapter != "" {
		last, err := im.repo.LastGroupForChapter(ctx, chapter)
		if err != nil {
			return nil, fmt.Errorf("import spans (chapter: %s): %w", chapter, err)
		}
		if last != nil {
			group = *last
		}
	}

	now := im.clock()
	res := &Result{}

	for _, span := range spans {
		text, translation := splitSpan(span.Text)
		if text == "" || span.Confidence < im.minConfidence {
			res.Skipped++
			continue
		}

		exists, err := im.repo.WordExists(ctx, text, language)
		if err != nil {
			return nil, fmt.Errorf("import spans (text: %s): %w", text, err)
		}
		if exists {
			res.Skipped++
			continue
		}

		draft := models.WordDraft{
			Text:        text,
			Translation: translation,
			Language:    language,
			Chapter:     chapter,
			Group:       group,
		}
		if _, _, err = im.repo.CreateWord(ctx, draft, now); err != nil {
			return nil, fmt.Errorf("import spans (text: %s): %w", text, err)
		}
		res.Created++
	}

	zap.S().Infow("import finished",
		"created", res.Created, "skipped", res.Skipped, "chapter", chapter)
	return res, nil
}

// splitSpan separates "text - translation" span pairs. Spans without a
// separator become a word with no translation yet.
func splitSpan(raw string) (text, translation string) {
	for _, sep := range []string{" - ", " – ", "\t"} {
		if before, after, found := strings.Cut(raw, sep); found {
			return strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}
	return strings.TrimSpace(raw), ""
}
