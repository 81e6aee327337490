// Package positionid implements a compact, shareable encoding of a Ludo
// game position.
//
// A position ID is a 19-character URL-safe base64 string packing a 2-byte
// header (seated colors, game phase, turn stage, current player, dice)
// followed by 6 bits per piece for all 16 pieces in color and piece-id
// order. Turn and move counters are not part of the ID.
package positionid

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/yourusername/ludoengine/pkg/engine"
)

// ErrInvalidID is returned for strings that do not decode to a position.
var ErrInvalidID = errors.New("invalid position id")

const (
	// Piece codes: 0 yard, 1..52 track square+1, 53..58 stretch index+53,
	// 59 finished.
	codeYard        = 0
	codeTrackBase   = 1
	codeStretchBase = 53
	codeFinished    = 59

	rawLen = 2 + (engine.NumColors*engine.PiecesPerPlayer*6+7)/8 // header + 96 piece bits
)

func pieceCode(p engine.PieceState) (byte, error) {
	switch p.Phase {
	case engine.InYard:
		return codeYard, nil
	case engine.OnTrack:
		if p.Square < 0 || p.Square >= engine.TrackSize {
			return 0, fmt.Errorf("track square %d out of range", p.Square)
		}
		return byte(codeTrackBase + p.Square), nil
	case engine.InStretch:
		if p.Stretch < 0 || p.Stretch >= engine.StretchSize {
			return 0, fmt.Errorf("stretch index %d out of range", p.Stretch)
		}
		return byte(codeStretchBase + p.Stretch), nil
	case engine.Finished:
		return codeFinished, nil
	}
	return 0, fmt.Errorf("invalid phase %d", int(p.Phase))
}

func pieceFromCode(id int, code byte) (engine.PieceState, error) {
	state := engine.PieceState{ID: id, Square: -1, Stretch: -1}
	switch {
	case code == codeYard:
		state.Phase = engine.InYard
	case code >= codeTrackBase && code < codeTrackBase+engine.TrackSize:
		state.Phase = engine.OnTrack
		state.Square = int(code - codeTrackBase)
	case code >= codeStretchBase && code < codeStretchBase+engine.StretchSize:
		state.Phase = engine.InStretch
		state.Stretch = int(code - codeStretchBase)
	case code == codeFinished:
		state.Phase = engine.Finished
	default:
		return state, fmt.Errorf("piece code %d out of range", code)
	}
	return state, nil
}

// Make encodes a snapshot as a position ID.
func Make(snap *engine.Snapshot) (string, error) {
	if snap == nil {
		return "", fmt.Errorf("nil snapshot")
	}

	var raw [rawLen]byte

	// Header byte 0: seated-color mask in bits 0-3, phase in bits 4-5,
	// stage in bit 6.
	for _, c := range engine.Colors {
		if _, ok := snap.Players[c]; ok {
			raw[0] |= 1 << uint(c)
		}
	}
	raw[0] |= byte(snap.Phase) << 4
	raw[0] |= byte(snap.Stage) << 6

	// Header byte 1: current player (or winner) in bits 0-1, dice in
	// bits 2-4.
	switch {
	case snap.Phase == engine.InProgress && snap.CurrentPlayer != nil:
		raw[1] |= byte(*snap.CurrentPlayer)
	case snap.Phase == engine.GameOver && snap.Winner != nil:
		raw[1] |= byte(*snap.Winner)
	}
	if snap.Dice < 0 || snap.Dice > 6 {
		return "", fmt.Errorf("dice %d out of range", snap.Dice)
	}
	raw[1] |= byte(snap.Dice) << 2

	// 6 bits per piece, packed little-endian into the remaining bytes.
	bit := 16
	for _, c := range engine.Colors {
		player, seated := snap.Players[c]
		for id := 0; id < engine.PiecesPerPlayer; id++ {
			code := byte(codeYard)
			if seated {
				if len(player.Pieces) != engine.PiecesPerPlayer {
					return "", fmt.Errorf("player %s has %d pieces", c, len(player.Pieces))
				}
				var err error
				code, err = pieceCode(player.Pieces[id])
				if err != nil {
					return "", fmt.Errorf("piece %s/%d: %w", c, id, err)
				}
			}
			for b := 0; b < 6; b++ {
				if code&(1<<uint(b)) != 0 {
					raw[bit/8] |= 1 << uint(bit%8)
				}
				bit++
			}
		}
	}

	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// Parse decodes a position ID back into a snapshot. Finished counts and
// won flags are recomputed from the pieces.
func Parse(id string) (*engine.Snapshot, error) {
	raw, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	if len(raw) != rawLen {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidID, len(raw), rawLen)
	}

	phase := engine.GamePhase((raw[0] >> 4) & 0x3)
	stage := engine.TurnStage((raw[0] >> 6) & 0x1)
	if phase < engine.WaitingForPlayers || phase > engine.GameOver {
		return nil, fmt.Errorf("%w: phase %d", ErrInvalidID, int(phase))
	}
	actor := engine.Color(raw[1] & 0x3)
	dice := int((raw[1] >> 2) & 0x7)
	if dice > 6 {
		return nil, fmt.Errorf("%w: dice %d", ErrInvalidID, dice)
	}

	snap := &engine.Snapshot{
		Phase:   phase,
		Stage:   stage,
		Dice:    dice,
		Players: make(map[engine.Color]engine.PlayerState),
	}
	switch phase {
	case engine.InProgress:
		current := actor
		snap.CurrentPlayer = &current
	case engine.GameOver:
		winner := actor
		snap.Winner = &winner
	}

	bit := 16
	for _, c := range engine.Colors {
		seated := raw[0]&(1<<uint(c)) != 0
		var pieces []engine.PieceState
		for id := 0; id < engine.PiecesPerPlayer; id++ {
			var code byte
			for b := 0; b < 6; b++ {
				if raw[bit/8]&(1<<uint(bit%8)) != 0 {
					code |= 1 << uint(b)
				}
				bit++
			}
			if !seated {
				continue
			}
			piece, err := pieceFromCode(id, code)
			if err != nil {
				return nil, fmt.Errorf("%w: piece %s/%d: %v", ErrInvalidID, c, id, err)
			}
			pieces = append(pieces, piece)
		}
		if !seated {
			continue
		}

		state := engine.PlayerState{Color: c, Pieces: pieces}
		for _, p := range pieces {
			if p.Phase == engine.Finished {
				state.Finished++
			}
		}
		state.Won = state.Finished == engine.PiecesPerPlayer
		snap.Players[c] = state
	}

	// Cross-validate through the engine so a parsed ID is always playable.
	if _, err := engine.FromSnapshot(snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return snap, nil
}
