package ai

import (
	"math/rand"

	"github.com/yourusername/ludoengine/pkg/engine"
)

// DefaultExitBias is the default probability that the easy tier prefers a
// yard-exit move when one is available.
const DefaultExitBias = 0.7

// easyStrategy picks weighted-random moves: with probability exitBias it
// brings a piece out of the yard when it can, otherwise it picks uniformly
// among all valid moves.
type easyStrategy struct {
	exitBias float64
}

// NewEasy returns the easy tier with a custom yard-exit bias in [0,1].
func NewEasy(exitBias float64) Strategy {
	if exitBias < 0 {
		exitBias = 0
	}
	if exitBias > 1 {
		exitBias = 1
	}
	return easyStrategy{exitBias: exitBias}
}

func (s easyStrategy) Choose(_ *engine.Snapshot, moves []engine.Move, rng *rand.Rand) engine.Move {
	var exits []engine.Move
	for _, mv := range moves {
		if mv.From.Phase == engine.InYard {
			exits = append(exits, mv)
		}
	}
	if len(exits) > 0 && rng.Float64() < s.exitBias {
		return exits[rng.Intn(len(exits))]
	}
	return moves[rng.Intn(len(moves))]
}
