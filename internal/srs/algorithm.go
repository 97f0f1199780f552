// Package srs implements the SM-2 family scheduling function. It is pure
// computation: no I/O, no clock reads, total over its input domain.
package srs

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/language-enforcer/internal/models"
)

const (
	// InitialEase is the ease factor assigned to a fresh card.
	InitialEase = 2.5
	// EaseFloor is the lowest ease a card can reach.
	EaseFloor = 1.3
	// RelapseInterval is the interval assigned after a lapse.
	RelapseInterval = 10 * time.Minute

	firstInterval  = 1.0 // days, after the first successful repetition
	secondInterval = 6.0 // days, after the second

	dayHours = 24.0
)

// relapseIntervalDays is RelapseInterval expressed in fractional days, the
// unit Card.IntervalDays is stored in.
var relapseIntervalDays = RelapseInterval.Hours() / dayHours

// NewCard returns the default scheduling state for a freshly created word:
// due immediately, interval zero, ease at the initial value.
func NewCard(wordID uuid.UUID, now time.Time) models.Card {
	return models.Card{
		ID:     uuid.New(),
		WordID: wordID,
		DueAt:  now,
		Ease:   InitialEase,
	}
}

// Schedule applies a grade to the card's retention state at the given time
// and returns the updated card. The input is not mutated. The function never
// fails: any card, grade and timestamp produce a well-defined next state with
// ease >= EaseFloor, interval >= RelapseInterval and due strictly after now.
func Schedule(card models.Card, grade models.Grade, now time.Time) models.Card {
	q := grade.Quality()

	// Classic SM-2 ease update, floored so ease never collapses.
	delta := 0.1 - float64(5-q)*(0.08+float64(5-q)*0.02)
	card.Ease = math.Max(card.Ease+delta, EaseFloor)

	if grade == models.Again {
		card.Reps = 0
		card.Lapses++
		card.IntervalDays = relapseIntervalDays
	} else {
		card.Reps++
		switch card.Reps {
		case 1:
			card.IntervalDays = firstInterval
		case 2:
			card.IntervalDays = secondInterval
		default:
			card.IntervalDays = math.Max(firstInterval, card.IntervalDays*card.Ease)
		}
	}

	if card.IntervalDays < relapseIntervalDays {
		card.IntervalDays = relapseIntervalDays
	}

	card.DueAt = now.Add(Interval(card.IntervalDays))
	return card
}

// Interval converts fractional days to a duration.
func Interval(days float64) time.Duration {
	return time.Duration(days * dayHours * float64(time.Hour))
}
