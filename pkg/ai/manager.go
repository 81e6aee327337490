package ai

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/yourusername/ludoengine/pkg/engine"
)

// ErrNotAIControlled is returned when stepping a seat that has no AI
// configured.
var ErrNotAIControlled = errors.New("color is not AI controlled")

// Manager drives AI-controlled seats of one game. It owns no game state:
// policies read snapshots and the manager feeds their choices back through
// the engine's public move operation.
type Manager struct {
	game       *engine.Game
	rng        *rand.Rand
	strategies map[engine.Color]Strategy
	tiers      map[engine.Color]Difficulty
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSeed seeds the manager's random source for reproducible play. A
// seed of 0 seeds from the current time.
func WithSeed(seed int64) ManagerOption {
	return func(m *Manager) {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		m.rng = rand.New(rand.NewSource(seed))
	}
}

// NewManager creates a manager for a game.
func NewManager(g *engine.Game, opts ...ManagerOption) *Manager {
	m := &Manager{
		game:       g,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		strategies: make(map[engine.Color]Strategy),
		tiers:      make(map[engine.Color]Difficulty),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Configure puts a seat under AI control at the given tier. Reconfiguring
// an already-controlled seat replaces its tier.
func (m *Manager) Configure(c engine.Color, d Difficulty) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", engine.ErrUnknownColor, int(c))
	}
	if !d.Valid() {
		return fmt.Errorf("invalid difficulty %d", int(d))
	}
	m.strategies[c] = ForDifficulty(d)
	m.tiers[c] = d
	return nil
}

// Release returns a seat to human control.
func (m *Manager) Release(c engine.Color) {
	delete(m.strategies, c)
	delete(m.tiers, c)
}

// IsAIControlled reports whether a seat is under AI control.
func (m *Manager) IsAIControlled(c engine.Color) bool {
	_, ok := m.strategies[c]
	return ok
}

// Difficulty returns the configured tier for a seat.
func (m *Manager) Difficulty(c engine.Color) (Difficulty, bool) {
	d, ok := m.tiers[c]
	return d, ok
}

// StepMove advances the game by one AI action for color c: it rolls if a
// roll is owed, then picks and plays a move. When the roll resolves the
// turn on its own (no valid moves) the step is complete without a move.
func (m *Manager) StepMove(c engine.Color) error {
	strategy, ok := m.strategies[c]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotAIControlled, c)
	}
	current, inProgress := m.game.CurrentPlayer()
	if !inProgress {
		return engine.ErrNotInProgress
	}
	if current != c {
		return fmt.Errorf("%w: it is %s's turn", engine.ErrOutOfTurn, current)
	}

	if m.game.Stage() == engine.StageRoll {
		if _, err := m.game.RollDice(); err != nil {
			return err
		}
		// The roll may have auto-passed or granted a no-move bonus roll.
		if current, inProgress = m.game.CurrentPlayer(); !inProgress ||
			current != c || m.game.Stage() != engine.StageMove {
			return nil
		}
	}

	moves, err := m.game.ValidMoves(c)
	if err != nil {
		return err
	}
	chosen := strategy.Choose(m.game.Snapshot(), moves, m.rng)
	return m.game.MovePiece(c, chosen.PieceID)
}
