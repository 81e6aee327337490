// Package engine implements the Ludo rules engine: the position model,
// piece and player state, the turn state machine, and the event stream
// a presentation layer consumes.
package engine

import "fmt"

// Color identifies one of the four player colors. The declaration order
// is the turn order.
type Color int

const (
	Red Color = iota
	Green
	Yellow
	Blue

	// NumColors is the number of seats on the board.
	NumColors = 4
)

// Colors lists all colors in turn order.
var Colors = [NumColors]Color{Red, Green, Yellow, Blue}

var colorNames = [NumColors]string{"red", "green", "yellow", "blue"}

// entrySquares[c] is the global track square where color c's pieces enter
// from the yard. Entries are spaced 13 squares apart.
var entrySquares = [NumColors]int{0, 13, 26, 39}

func (c Color) String() string {
	if c < 0 || c >= NumColors {
		return fmt.Sprintf("color(%d)", int(c))
	}
	return colorNames[c]
}

// Valid reports whether c is one of the four board colors.
func (c Color) Valid() bool {
	return c >= 0 && c < NumColors
}

// EntrySquare returns the global track square where c's pieces enter play.
func (c Color) EntrySquare() int {
	return entrySquares[c]
}

// MarshalText implements encoding.TextMarshaler so colors serialize as
// their lowercase names, including as JSON map keys.
func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", int(c))
	}
	return []byte(colorNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor converts a lowercase color name to a Color.
func ParseColor(s string) (Color, error) {
	for i, name := range colorNames {
		if s == name {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}
