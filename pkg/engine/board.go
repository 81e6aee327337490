package engine

// board.go contains the position model: pure conversions between a color's
// relative track offset and global board coordinates, plus the fixed board
// geometry (entry squares, safe squares, home stretch).

const (
	// TrackSize is the number of squares on the shared circular track.
	TrackSize = 52

	// TrackOffsets is the number of track squares a piece traverses before
	// turning into its home stretch: relative offsets 0 through 50.
	TrackOffsets = 51

	// StretchSize is the length of each color's private home stretch.
	StretchSize = 6

	// finishOffset is the color-relative offset of the finished state:
	// 51 track offsets followed by 6 stretch squares.
	finishOffset = TrackOffsets + StretchSize
)

// safeSquares marks the 8 global squares where no capture may occur:
// the four entry squares plus four more spaced around the track.
var safeSquares = [TrackSize]bool{
	0: true, 8: true, 13: true, 21: true,
	26: true, 34: true, 39: true, 47: true,
}

// ToGlobal maps a color-relative track offset in [0,50] to a global square.
// Offsets of 51 and beyond lie past the shared track, in c's home stretch.
func ToGlobal(c Color, rel int) int {
	return (c.EntrySquare() + rel) % TrackSize
}

// RelativeOffset maps a global track square back to c's relative offset,
// with 0 at c's entry square.
func RelativeOffset(c Color, square int) int {
	return (square - c.EntrySquare() + TrackSize) % TrackSize
}

// IsSafe reports whether a global track square is in the fixed safe set.
func IsSafe(square int) bool {
	return square >= 0 && square < TrackSize && safeSquares[square]
}

// OwnsSquare reports whether a global track square is c's entry square,
// the only shared-track square a color owns.
func OwnsSquare(c Color, square int) bool {
	return square == c.EntrySquare()
}

// pathOffset returns a position's progress along c's full path: track
// offsets 0..50, stretch squares 51..56, 57 when finished. Yard pieces
// return -1.
func pathOffset(c Color, pos Position) int {
	switch pos.Phase {
	case OnTrack:
		return RelativeOffset(c, pos.Square)
	case InStretch:
		return TrackOffsets + pos.Stretch
	case Finished:
		return finishOffset
	default:
		return -1
	}
}

// destination computes where a piece of color c at pos would land with the
// given dice value. ok is false when the geometry forbids the move: a yard
// piece without a 6, a finished piece, or an overshoot past the final
// stretch square (finishing requires an exact roll).
func destination(c Color, pos Position, dice int) (Position, bool) {
	switch pos.Phase {
	case Finished:
		return Position{}, false
	case InYard:
		if dice != 6 {
			return Position{}, false
		}
		return Position{Phase: OnTrack, Square: c.EntrySquare()}, true
	}

	target := pathOffset(c, pos) + dice
	switch {
	case target < TrackOffsets:
		return Position{Phase: OnTrack, Square: ToGlobal(c, target)}, true
	case target < finishOffset:
		return Position{Phase: InStretch, Stretch: target - TrackOffsets}, true
	case target == finishOffset:
		return Position{Phase: Finished}, true
	default:
		return Position{}, false
	}
}
