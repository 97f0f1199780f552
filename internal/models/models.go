package models

import (
	"time"

	"github.com/google/uuid"
)

// Word is a vocabulary unit. Content fields are mutable via correction;
// scheduling never touches them.
type Word struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Text        string    `db:"text" json:"text"`
	Translation *string   `db:"translation" json:"translation"`
	Language    string    `db:"language" json:"language"`
	Chapter     *string   `db:"chapter" json:"chapter"`
	Group       *string   `db:"group_name" json:"group_name"`
	Sentence    *string   `db:"sentence" json:"sentence"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Card is the scheduling state for exactly one word. Created together with
// its word, mutated only by applying a grade.
type Card struct {
	ID           uuid.UUID `db:"id" json:"id"`
	WordID       uuid.UUID `db:"word_id" json:"word_id"`
	DueAt        time.Time `db:"due_at" json:"due_at"`
	IntervalDays float64   `db:"interval_days" json:"interval_days"`
	Ease         float64   `db:"ease" json:"ease"`
	Reps         int       `db:"reps" json:"reps"`
	Lapses       int       `db:"lapses" json:"lapses"`
	SeenCount    int       `db:"seen_count" json:"-"`
}

// Review is one immutable grading event, append-only per card.
type Review struct {
	ID         uuid.UUID `db:"id" json:"id"`
	CardID     uuid.UUID `db:"card_id" json:"card_id"`
	Grade      int       `db:"grade" json:"grade"`
	ReviewedAt time.Time `db:"reviewed_at" json:"reviewed_at"`
}

// CardView is a due card joined with its word, as handed to the front end.
type CardView struct {
	CardID      uuid.UUID `db:"card_id"`
	WordID      uuid.UUID `db:"word_id"`
	DueAt       time.Time `db:"due_at"`
	Text        string    `db:"text"`
	Translation *string   `db:"translation"`
	Language    string    `db:"language"`
	Chapter     *string   `db:"chapter"`
	Group       *string   `db:"group_name"`
}

// WordDraft is the input for creating a word with its default card.
type WordDraft struct {
	Text        string
	Translation string
	Language    string
	Chapter     string
	Group       string
	Sentence    string
}

// Field is an explicit set-or-unchanged value for partial updates, so an
// empty string stays distinguishable from "leave as is".
type Field struct {
	Set   bool
	Value string
}

// SetField returns a Field carrying the given value.
func SetField(v string) Field {
	return Field{Set: true, Value: v}
}

// Snapshot is the wire shape exchanged with the remote canonical copy.
type Snapshot struct {
	Words   []Word   `json:"words"`
	Cards   []Card   `json:"cards"`
	Reviews []Review `json:"reviews"`
}

// ReportedIssue captures out-of-band feedback about a card. Not part of
// scheduling.
type ReportedIssue struct {
	CardID      uuid.UUID `json:"card_id"`
	WordID      uuid.UUID `json:"word_id"`
	Text        string    `json:"text"`
	Translation *string   `json:"translation"`
	Note        *string   `json:"note"`
	ReportedAt  time.Time `json:"reported_at"`
}
