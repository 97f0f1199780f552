package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/language-enforcer/internal/models"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func freshCard() models.Card {
	return NewCard(uuid.New(), testNow)
}

func TestNewCard_Defaults(t *testing.T) {
	wordID := uuid.New()
	card := NewCard(wordID, testNow)

	assert.Equal(t, wordID, card.WordID)
	assert.Equal(t, testNow, card.DueAt)
	assert.Equal(t, InitialEase, card.Ease)
	assert.Zero(t, card.IntervalDays)
	assert.Zero(t, card.Reps)
	assert.Zero(t, card.Lapses)
}

func TestSchedule_SeedIntervals(t *testing.T) {
	card := freshCard()

	card = Schedule(card, models.Good, testNow)
	assert.Equal(t, 1, card.Reps)
	assert.Equal(t, 1.0, card.IntervalDays)

	card = Schedule(card, models.Good, testNow.AddDate(0, 0, 1))
	assert.Equal(t, 2, card.Reps)
	assert.Equal(t, 6.0, card.IntervalDays)
}

func TestSchedule_GrowthUsesEase(t *testing.T) {
	card := freshCard()
	for i := 0; i < 2; i++ {
		card = Schedule(card, models.Good, testNow)
	}

	prev := card
	card = Schedule(card, models.Good, testNow)
	assert.Equal(t, 3, card.Reps)
	assert.InDelta(t, prev.IntervalDays*card.Ease, card.IntervalDays, 1e-9)
}

func TestSchedule_Lapse(t *testing.T) {
	card := freshCard()
	card = Schedule(card, models.Good, testNow)
	card = Schedule(card, models.Good, testNow)

	lapsed := Schedule(card, models.Again, testNow)
	assert.Equal(t, 0, lapsed.Reps)
	assert.Equal(t, 1, lapsed.Lapses)
	assert.InDelta(t, relapseIntervalDays, lapsed.IntervalDays, 1e-9)
	assert.Equal(t, testNow.Add(RelapseInterval), lapsed.DueAt)
	assert.Less(t, lapsed.Ease, card.Ease)
}

func TestSchedule_EaseFloor(t *testing.T) {
	card := freshCard()
	for i := 0; i < 20; i++ {
		card = Schedule(card, models.Again, testNow)
	}

	assert.Equal(t, EaseFloor, card.Ease)
	assert.Equal(t, 20, card.Lapses)
}

func TestSchedule_GradeMonotonicity(t *testing.T) {
	// From the same prior state, a better grade never yields a shorter
	// interval or a lower ease.
	base := freshCard()
	for i := 0; i < 3; i++ {
		base = Schedule(base, models.Good, testNow)
	}

	again := Schedule(base, models.Again, testNow)
	hard := Schedule(base, models.Hard, testNow)
	good := Schedule(base, models.Good, testNow)
	easy := Schedule(base, models.Easy, testNow)

	assert.Less(t, again.IntervalDays, hard.IntervalDays)
	assert.Less(t, hard.IntervalDays, good.IntervalDays)
	assert.Less(t, good.IntervalDays, easy.IntervalDays)

	assert.Less(t, again.Ease, hard.Ease)
	assert.Less(t, hard.Ease, good.Ease)
	assert.Less(t, good.Ease, easy.Ease)
}

func TestSchedule_RepeatedEasyStrictlyIncreases(t *testing.T) {
	card := freshCard()

	var prev float64
	now := testNow
	for i := 0; i < 6; i++ {
		card = Schedule(card, models.Easy, now)
		require.Greater(t, card.IntervalDays, prev, "repetition %d", i+1)
		prev = card.IntervalDays
		now = card.DueAt
	}
}

func TestSchedule_DueAlwaysInFuture(t *testing.T) {
	for _, grade := range []models.Grade{models.Again, models.Hard, models.Good, models.Easy} {
		card := freshCard()
		for i := 0; i < 10; i++ {
			card = Schedule(card, grade, testNow)
			require.True(t, card.DueAt.After(testNow), "grade %s, repetition %d", grade, i+1)
			require.GreaterOrEqual(t, card.IntervalDays, relapseIntervalDays)
			require.GreaterOrEqual(t, card.Ease, EaseFloor)
		}
	}
}

func TestSchedule_ThreeGoodGrades(t *testing.T) {
	card := freshCard()
	now := testNow

	var lastDue time.Time
	for i := 0; i < 3; i++ {
		card = Schedule(card, models.Good, now)
		require.True(t, card.DueAt.After(lastDue))
		lastDue = card.DueAt
		now = card.DueAt
	}

	assert.Equal(t, 3, card.Reps)
	assert.Equal(t, 0, card.Lapses)
}

func TestSchedule_AgainAfterTwoGood(t *testing.T) {
	card := freshCard()
	card = Schedule(card, models.Good, testNow)
	card = Schedule(card, models.Good, testNow)

	card = Schedule(card, models.Again, testNow)
	assert.Equal(t, 0, card.Reps)
	assert.Equal(t, 1, card.Lapses)
	assert.InDelta(t, relapseIntervalDays, card.IntervalDays, 1e-9)
}

func TestSchedule_DoesNotMutateInput(t *testing.T) {
	card := freshCard()
	before := card

	Schedule(card, models.Easy, testNow)
	assert.Equal(t, before, card)
}
