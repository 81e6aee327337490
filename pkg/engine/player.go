package engine

// Player aggregates the four pieces of one color.
type Player struct {
	Color  Color
	Pieces [PiecesPerPlayer]*Piece

	// finished counts this player's finished pieces. It is maintained by
	// move resolution and never decreases.
	finished int
}

func newPlayer(c Color) *Player {
	p := &Player{Color: c}
	for i := range p.Pieces {
		p.Pieces[i] = &Piece{Color: c, ID: i, Pos: Position{Phase: InYard}}
	}
	return p
}

// FinishedCount returns the number of finished pieces.
func (p *Player) FinishedCount() int {
	return p.finished
}

// HasWon reports whether all four pieces have finished.
func (p *Player) HasWon() bool {
	return p.finished == PiecesPerPlayer
}

// reset returns every piece to the yard and clears the finished count.
func (p *Player) reset() {
	for _, piece := range p.Pieces {
		piece.reset()
	}
	p.finished = 0
}
