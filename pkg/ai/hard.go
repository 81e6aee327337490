package ai

import (
	"math/rand"

	"github.com/yourusername/ludoengine/pkg/engine"
)

// Look-ahead adjustments layered on the medium score.
const (
	threatPenalty    = 60.0 // per opponent piece that can reach the destination next roll
	coverBonus       = 25.0 // own piece on an adjacent track square
	entryBlockBonus  = 35.0 // sitting on an opponent's entry square while they have yard pieces
	maxThreatsScored = 3    // cap so exposure never outweighs a capture tier
)

// hardStrategy extends the medium scoring with one-roll look-ahead: it
// penalizes leaving the moved piece exposed, rewards mutual cover between
// adjacent own pieces, and rewards camping an opponent's entry square.
type hardStrategy struct{}

func (hardStrategy) Choose(snap *engine.Snapshot, moves []engine.Move, _ *rand.Rand) engine.Move {
	me := mover(snap)
	best := moves[0]
	bestScore := hardScore(snap, me, moves[0])
	for _, mv := range moves[1:] {
		if score := hardScore(snap, me, mv); score > bestScore {
			best, bestScore = mv, score
		}
	}
	return best
}

func hardScore(snap *engine.Snapshot, me engine.Color, mv engine.Move) float64 {
	score := mediumScore(snap, me, mv)
	if mv.To.Phase != engine.OnTrack {
		return score
	}

	if !engine.IsSafe(mv.To.Square) {
		threats := threatsToSquare(snap, me, mv.To.Square)
		if threats > maxThreatsScored {
			threats = maxThreatsScored
		}
		score -= threatPenalty * float64(threats)
	}
	if hasAdjacentAlly(snap, me, mv) {
		score += coverBonus
	}
	score += entryBlockValue(snap, me, mv.To.Square)
	return score
}

// threatsToSquare counts opponent track pieces that could land on square
// with a single roll. Pieces whose path turns into their home stretch
// before the square are no threat.
func threatsToSquare(snap *engine.Snapshot, me engine.Color, square int) int {
	threats := 0
	for c, player := range snap.Players {
		if c == me {
			continue
		}
		for _, piece := range player.Pieces {
			if piece.Phase != engine.OnTrack {
				continue
			}
			dist := (square - piece.Square + engine.TrackSize) % engine.TrackSize
			if dist < 1 || dist > 6 {
				continue
			}
			if engine.RelativeOffset(c, piece.Square)+dist < engine.TrackOffsets {
				threats++
			}
		}
	}
	return threats
}

// hasAdjacentAlly reports whether another of me's pieces sits on a track
// square adjacent to the destination, forming a mutual block.
func hasAdjacentAlly(snap *engine.Snapshot, me engine.Color, mv engine.Move) bool {
	player, ok := snap.Player(me)
	if !ok {
		return false
	}
	for _, piece := range player.Pieces {
		if piece.ID == mv.PieceID || piece.Phase != engine.OnTrack {
			continue
		}
		dist := (piece.Square - mv.To.Square + engine.TrackSize) % engine.TrackSize
		if dist == 1 || dist == engine.TrackSize-1 {
			return true
		}
	}
	return false
}

// entryBlockValue rewards occupying an opponent's entry square while that
// opponent still has pieces waiting in the yard.
func entryBlockValue(snap *engine.Snapshot, me engine.Color, square int) float64 {
	for c, player := range snap.Players {
		if c == me || !engine.OwnsSquare(c, square) {
			continue
		}
		for _, piece := range player.Pieces {
			if piece.Phase == engine.InYard {
				return entryBlockBonus
			}
		}
	}
	return 0
}
