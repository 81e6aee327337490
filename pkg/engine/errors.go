package engine

import "errors"

// All engine failures are local and recoverable: they reject the offending
// call with one of these sentinels (possibly wrapped with context) and
// leave the game state untouched.
var (
	// Sequencing errors.
	ErrNotInProgress  = errors.New("game is not in progress")
	ErrGameInProgress = errors.New("game already in progress")
	ErrGameOver       = errors.New("game is over")
	ErrOutOfTurn      = errors.New("not this player's turn")
	ErrRollPending    = errors.New("a roll is already pending")
	ErrNoRoll         = errors.New("no roll pending")

	// Invalid-argument errors.
	ErrUnknownColor   = errors.New("unknown color")
	ErrDuplicateColor = errors.New("color already in game")
	ErrNotInGame      = errors.New("color not in game")
	ErrInvalidPiece   = errors.New("invalid piece id")
	ErrIllegalMove    = errors.New("illegal move")

	// Capacity errors.
	ErrGameFull         = errors.New("game already has four players")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
)
