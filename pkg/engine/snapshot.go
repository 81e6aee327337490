package engine

import "fmt"

// Snapshot is a serializable, read-only view of a game. Snapshots are deep
// copies: two calls with no intervening mutation return identical values,
// and holding one never observes later mutations.

// PieceState is one piece record in a snapshot. Square is -1 unless the
// piece is on the track; Stretch is -1 unless it is in the home stretch.
type PieceState struct {
	ID      int   `json:"id"`
	Phase   Phase `json:"phase"`
	Square  int   `json:"square"`
	Stretch int   `json:"stretch"`
}

// Pos converts the record back to a Position.
func (p PieceState) Pos() Position {
	pos := Position{Phase: p.Phase}
	if p.Phase == OnTrack {
		pos.Square = p.Square
	}
	if p.Phase == InStretch {
		pos.Stretch = p.Stretch
	}
	return pos
}

// PlayerState is one player record in a snapshot.
type PlayerState struct {
	Color    Color        `json:"color"`
	Finished int          `json:"finished_count"`
	Won      bool         `json:"won"`
	Pieces   []PieceState `json:"pieces"`
}

// Snapshot is the full game state exposed to presentation layers and AI
// policies.
type Snapshot struct {
	Phase         GamePhase             `json:"phase"`
	Stage         TurnStage             `json:"stage"`
	CurrentPlayer *Color                `json:"current_player,omitempty"`
	Dice          int                   `json:"dice"`
	TurnCount     int                   `json:"turn_count"`
	MoveCount     int                   `json:"move_count"`
	Winner        *Color                `json:"winner,omitempty"`
	Players       map[Color]PlayerState `json:"players"`
}

// Player returns the record for a color.
func (s *Snapshot) Player(c Color) (PlayerState, bool) {
	p, ok := s.Players[c]
	return p, ok
}

// OccupantOn returns the piece occupying a global track square, if any.
func (s *Snapshot) OccupantOn(square int) (PieceState, Color, bool) {
	for c, player := range s.Players {
		for _, piece := range player.Pieces {
			if piece.Phase == OnTrack && piece.Square == square {
				return piece, c, true
			}
		}
	}
	return PieceState{}, 0, false
}

// Snapshot captures the current game state.
func (g *Game) Snapshot() *Snapshot {
	snap := &Snapshot{
		Phase:     g.phase,
		Stage:     g.stage,
		Dice:      g.dice,
		TurnCount: g.turns,
		MoveCount: g.moves,
		Players:   make(map[Color]PlayerState, g.PlayerCount()),
	}
	if g.phase == InProgress {
		current := g.current
		snap.CurrentPlayer = &current
	}
	if g.phase == GameOver {
		winner := g.winner
		snap.Winner = &winner
	}

	for _, seat := range g.seats {
		if seat == nil {
			continue
		}
		state := PlayerState{
			Color:    seat.Color,
			Finished: seat.FinishedCount(),
			Won:      seat.HasWon(),
			Pieces:   make([]PieceState, 0, PiecesPerPlayer),
		}
		for _, piece := range seat.Pieces {
			record := PieceState{ID: piece.ID, Phase: piece.Pos.Phase, Square: -1, Stretch: -1}
			switch piece.Pos.Phase {
			case OnTrack:
				record.Square = piece.Pos.Square
			case InStretch:
				record.Stretch = piece.Pos.Stretch
			}
			state.Pieces = append(state.Pieces, record)
		}
		snap.Players[seat.Color] = state
	}
	return snap
}

// FromSnapshot rebuilds a playable game from a snapshot. Options apply as
// in NewGame, so a caller can replay a position with a fresh seed. No
// events are emitted while restoring.
func FromSnapshot(snap *Snapshot, opts ...Option) (*Game, error) {
	if snap == nil {
		return nil, fmt.Errorf("nil snapshot")
	}
	g := NewGame(opts...)
	g.phase = snap.Phase
	g.stage = snap.Stage
	g.dice = snap.Dice
	g.turns = snap.TurnCount
	g.moves = snap.MoveCount

	for c, state := range snap.Players {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownColor, int(c))
		}
		if len(state.Pieces) != PiecesPerPlayer {
			return nil, fmt.Errorf("player %s has %d pieces, want %d", c, len(state.Pieces), PiecesPerPlayer)
		}
		seat := newPlayer(c)
		for _, record := range state.Pieces {
			if record.ID < 0 || record.ID >= PiecesPerPlayer {
				return nil, fmt.Errorf("%w: %d", ErrInvalidPiece, record.ID)
			}
			switch record.Phase {
			case InYard:
			case OnTrack:
				if record.Square < 0 || record.Square >= TrackSize {
					return nil, fmt.Errorf("piece %s/%d: track square %d out of range", c, record.ID, record.Square)
				}
			case InStretch:
				if record.Stretch < 0 || record.Stretch >= StretchSize {
					return nil, fmt.Errorf("piece %s/%d: stretch index %d out of range", c, record.ID, record.Stretch)
				}
			case Finished:
				seat.finished++
			default:
				return nil, fmt.Errorf("piece %s/%d: invalid phase %d", c, record.ID, int(record.Phase))
			}
			seat.Pieces[record.ID].Pos = record.Pos()
		}
		g.seats[c] = seat
	}

	switch snap.Phase {
	case InProgress:
		if snap.CurrentPlayer == nil {
			return nil, fmt.Errorf("in-progress snapshot has no current player")
		}
		if !snap.CurrentPlayer.Valid() || g.seats[*snap.CurrentPlayer] == nil {
			return nil, fmt.Errorf("%w: current player %s not seated", ErrNotInGame, *snap.CurrentPlayer)
		}
		g.current = *snap.CurrentPlayer
		if snap.Stage == StageMove && (snap.Dice < 1 || snap.Dice > 6) {
			return nil, fmt.Errorf("move stage with dice %d", snap.Dice)
		}
	case GameOver:
		if snap.Winner == nil || !snap.Winner.Valid() || g.seats[*snap.Winner] == nil {
			return nil, fmt.Errorf("game-over snapshot has no seated winner")
		}
		g.winner = *snap.Winner
	}
	return g, nil
}
