package ai

import (
	"math/rand"

	"github.com/yourusername/ludoengine/pkg/engine"
)

// Priority tiers for the medium policy. The tier gaps exceed the maximum
// progress bonus (57) so the fixed ordering never interleaves: capture >
// reaching safety from an unsafe square > finishing > leaving the yard >
// raw progress.
const (
	scoreCapture   = 400.0
	scoreEnterSafe = 300.0
	scoreFinish    = 200.0
	scoreExitYard  = 100.0
)

// mediumStrategy scores each candidate by fixed priority and takes the
// best, breaking ties toward the lowest piece id.
type mediumStrategy struct{}

func (mediumStrategy) Choose(snap *engine.Snapshot, moves []engine.Move, _ *rand.Rand) engine.Move {
	me := mover(snap)
	best := moves[0]
	bestScore := mediumScore(snap, me, moves[0])
	for _, mv := range moves[1:] {
		// Strict comparison in ascending id order keeps the lowest id on ties.
		if score := mediumScore(snap, me, mv); score > bestScore {
			best, bestScore = mv, score
		}
	}
	return best
}

// mediumScore implements the fixed priority ladder plus a progress bonus.
func mediumScore(snap *engine.Snapshot, me engine.Color, mv engine.Move) float64 {
	score := float64(progressOf(me, mv.To))
	switch {
	case capturesOpponent(snap, me, mv.To):
		score += scoreCapture
	case reachesSafety(me, mv):
		score += scoreEnterSafe
	case mv.To.Phase == engine.Finished:
		score += scoreFinish
	case mv.From.Phase == engine.InYard:
		score += scoreExitYard
	}
	return score
}

// reachesSafety reports whether the move takes a piece from an unsafe
// track square to a square where it cannot be captured: a safe track
// square or the private home stretch.
func reachesSafety(me engine.Color, mv engine.Move) bool {
	if mv.From.Phase != engine.OnTrack || engine.IsSafe(mv.From.Square) {
		return false
	}
	switch mv.To.Phase {
	case engine.OnTrack:
		return engine.IsSafe(mv.To.Square)
	case engine.InStretch:
		return true
	}
	return false
}
