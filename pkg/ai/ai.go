// Package ai implements the layered move-selection policies for the Ludo
// engine: three difficulty tiers behind one Strategy interface, a manager
// that drives AI-controlled seats, and Monte Carlo rollouts for position
// estimation.
package ai

import (
	"fmt"
	"math/rand"

	"github.com/yourusername/ludoengine/pkg/engine"
)

// Difficulty selects one of the three policy tiers.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

var difficultyNames = [...]string{"easy", "medium", "hard"}

func (d Difficulty) String() string {
	if d < 0 || int(d) >= len(difficultyNames) {
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	return d >= 0 && int(d) < len(difficultyNames)
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid difficulty %d", int(d))
	}
	return []byte(difficultyNames[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDifficulty converts a lowercase tier name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	for i, name := range difficultyNames {
		if s == name {
			return Difficulty(i), nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// Strategy selects one move from a non-empty valid-move list. A Strategy
// is a pure function of the snapshot and move list: it mutates neither,
// and for a fixed rng state its choice is deterministic. The engine never
// asks a strategy to choose from an empty list.
type Strategy interface {
	Choose(snap *engine.Snapshot, moves []engine.Move, rng *rand.Rand) engine.Move
}

// strategies is the dispatch table for the difficulty variants.
var strategies = map[Difficulty]Strategy{
	Easy:   easyStrategy{exitBias: DefaultExitBias},
	Medium: mediumStrategy{},
	Hard:   hardStrategy{},
}

// ForDifficulty returns the strategy for a tier.
func ForDifficulty(d Difficulty) Strategy {
	return strategies[d]
}

// mover returns the color the strategy is choosing for.
func mover(snap *engine.Snapshot) engine.Color {
	if snap.CurrentPlayer != nil {
		return *snap.CurrentPlayer
	}
	return engine.Red
}

// progressOf is a position's progress along c's path: 0..50 on the track,
// 51..56 in the stretch, 57 finished, -1 in the yard.
func progressOf(c engine.Color, pos engine.Position) int {
	switch pos.Phase {
	case engine.OnTrack:
		return engine.RelativeOffset(c, pos.Square)
	case engine.InStretch:
		return engine.TrackOffsets + pos.Stretch
	case engine.Finished:
		return engine.TrackOffsets + engine.StretchSize
	default:
		return -1
	}
}

// capturesOpponent reports whether landing on mv.To takes an opponent
// piece: an unsafe track square held by another color.
func capturesOpponent(snap *engine.Snapshot, mover engine.Color, to engine.Position) bool {
	if to.Phase != engine.OnTrack || engine.IsSafe(to.Square) {
		return false
	}
	_, owner, ok := snap.OccupantOn(to.Square)
	return ok && owner != mover
}
