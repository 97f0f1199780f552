// Package session sequences a bounded run of due-card reviews. Session state
// lives only in memory and never touches scheduling data.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/language-enforcer/internal/models"
)

// DefaultBatchSize bounds how many cards one active run pulls in. It paces
// the UI only; scheduling is unaffected.
const DefaultBatchSize = 10

type State int

const (
	Idle State = iota
	Active
	Prompt // batch finished, waiting for the continue/stop decision
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Prompt:
		return "prompt"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Manager struct {
	repo      models.Repository
	batchSize int
	clock     func() time.Time

	mu       sync.Mutex
	state    State
	queue    []uuid.UUID
	reviewed int
}

func NewManager(repo models.Repository, batchSize int, clock func() time.Time) *Manager {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Manager{
		repo:      repo,
		batchSize: batchSize,
		clock:     clock,
	}
}

// Start begins a new active run: the reviewed counter resets and up to
// batchSize due cards are pulled in store order.
func (m *Manager) Start(ctx context.Context) error {
	now := m.clock()
	views, err := m.repo.GetDueCards(ctx, now, m.batchSize)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	queue := make([]uuid.UUID, 0, len(views))
	for _, v := range views {
		queue = append(queue, v.CardID)
	}

	m.mu.Lock()
	m.state = Active
	m.queue = queue
	m.reviewed = 0
	m.mu.Unlock()

	zap.S().Debugw("session started", "queued", len(queue), "batch_size", m.batchSize)
	return nil
}

// Next returns the next due card of the current run, or nil when the queue
// is drained. Draining a run that has graded at least one card moves the
// session to Prompt so the front end can offer "continue?" instead of
// silently idling.
func (m *Manager) Next(ctx context.Context) (*models.CardView, error) {
	m.mu.Lock()
	if m.state != Active {
		state := m.state
		m.mu.Unlock()
		return nil, fmt.Errorf("next card: session is %s, not active", state)
	}

	if len(m.queue) == 0 {
		if m.reviewed > 0 {
			m.state = Prompt
		}
		m.mu.Unlock()
		return nil, nil
	}

	cardID := m.queue[0]
	m.mu.Unlock()

	card, err := m.repo.GetCard(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("next card (card_id: %s): %w", cardID, err)
	}

	word, err := m.repo.GetWord(ctx, card.WordID)
	if err != nil {
		return nil, fmt.Errorf("next card (card_id: %s): %w", cardID, err)
	}

	return &models.CardView{
		CardID:      card.ID,
		WordID:      word.ID,
		DueAt:       card.DueAt,
		Text:        word.Text,
		Translation: word.Translation,
		Language:    word.Language,
		Chapter:     word.Chapter,
		Group:       word.Group,
	}, nil
}

// Grade applies the grade through the store and advances the session
// counter. It does not advance the state machine; the caller re-invokes Next.
func (m *Manager) Grade(ctx context.Context, cardID uuid.UUID, grade models.Grade) error {
	if _, err := m.repo.ApplyGrade(ctx, cardID, grade, m.clock()); err != nil {
		return fmt.Errorf("grade card (card_id: %s, grade: %s): %w", cardID, grade, err)
	}

	m.mu.Lock()
	m.reviewed++
	for i, id := range m.queue {
		if id == cardID {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	return nil
}

// Continue resumes reviewing from the Prompt decision point with a fresh
// batch.
func (m *Manager) Continue(ctx context.Context) error {
	m.mu.Lock()
	if m.state != Prompt {
		state := m.state
		m.mu.Unlock()
		return fmt.Errorf("continue session: session is %s, not prompt", state)
	}
	m.mu.Unlock()

	return m.Start(ctx)
}

// End discards the session-local counters and returns to Idle. It never
// mutates retention state.
func (m *Manager) End() {
	m.mu.Lock()
	m.state = Idle
	m.queue = nil
	m.reviewed = 0
	m.mu.Unlock()
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) Reviewed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reviewed
}
