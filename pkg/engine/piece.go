package engine

import "fmt"

// Phase is a piece's lifecycle phase. A piece is in exactly one phase at
// all times: waiting in its yard, on the shared track, in its color's
// private home stretch, or finished.
type Phase int

const (
	InYard Phase = iota
	OnTrack
	InStretch
	Finished
)

var phaseNames = [...]string{"yard", "track", "stretch", "finished"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(phaseNames) {
		return nil, fmt.Errorf("invalid phase %d", int(p))
	}
	return []byte(phaseNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if string(text) == name {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Position locates a piece within its lifecycle phase. Square is the
// global track square and is meaningful only when Phase is OnTrack;
// Stretch is the color-relative home-stretch index in [0,5] and is
// meaningful only when Phase is InStretch.
type Position struct {
	Phase   Phase `json:"phase"`
	Square  int   `json:"square,omitempty"`
	Stretch int   `json:"stretch,omitempty"`
}

func (p Position) String() string {
	switch p.Phase {
	case OnTrack:
		return fmt.Sprintf("track %d", p.Square)
	case InStretch:
		return fmt.Sprintf("stretch %d", p.Stretch)
	default:
		return p.Phase.String()
	}
}

// PiecesPerPlayer is the number of pieces each color plays.
const PiecesPerPlayer = 4

// Piece is one of a player's four pieces. Pieces are created in-yard when
// the player joins and persist for the game lifetime; only the game's move
// resolution mutates them.
type Piece struct {
	Color Color
	ID    int
	Pos   Position
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s piece %d", p.Color, p.ID)
}

// reset returns the piece to its yard.
func (p *Piece) reset() {
	p.Pos = Position{Phase: InYard}
}
