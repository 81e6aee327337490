package engine

// Events form a closed set: one kind per state transition, each with its
// own fixed payload struct. Emission is synchronous and ordered: listeners
// run in registration order during the mutating call, before it returns,
// so they always observe a fully consistent post-mutation state.

// EventKind tags an event payload.
type EventKind string

const (
	EventGameStarted   EventKind = "game_started"
	EventDiceRolled    EventKind = "dice_rolled"
	EventPieceMoved    EventKind = "piece_moved"
	EventPieceCaptured EventKind = "piece_captured"
	EventPieceFinished EventKind = "piece_finished"
	EventTurnChanged   EventKind = "turn_changed"
	EventGameOver      EventKind = "game_over"
)

// Event is implemented by every event payload.
type Event interface {
	Kind() EventKind
}

// Listener receives game events. Listeners must not mutate the game.
type Listener func(Event)

// GameStartedEvent fires when the game transitions to in-progress.
type GameStartedEvent struct {
	Players []Color `json:"players"`
	First   Color   `json:"first"`
}

// DiceRolledEvent fires after every roll, including rolls that turn out to
// have no valid moves.
type DiceRolledEvent struct {
	Color Color `json:"color"`
	Value int   `json:"value"`
}

// PieceMovedEvent fires when a piece changes position, before any capture
// or finish event the same move produces.
type PieceMovedEvent struct {
	Color   Color    `json:"color"`
	PieceID int      `json:"piece_id"`
	From    Position `json:"from"`
	To      Position `json:"to"`
	Dice    int      `json:"dice"`
}

// PieceCapturedEvent fires when a landing sends an opponent piece back to
// its yard.
type PieceCapturedEvent struct {
	Color   Color `json:"color"`    // owner of the captured piece
	PieceID int   `json:"piece_id"` // captured piece
	Square  int   `json:"square"`   // global track square it was taken from
	By      Color `json:"by"`
	ByPiece int   `json:"by_piece"`
}

// PieceFinishedEvent fires when a piece reaches the finished state.
type PieceFinishedEvent struct {
	Color   Color `json:"color"`
	PieceID int   `json:"piece_id"`
}

// TurnChangedEvent fires when the turn passes to another player.
type TurnChangedEvent struct {
	Color Color `json:"color"`
}

// GameOverEvent fires exactly once, when a player finishes their fourth
// piece.
type GameOverEvent struct {
	Winner Color `json:"winner"`
}

func (GameStartedEvent) Kind() EventKind   { return EventGameStarted }
func (DiceRolledEvent) Kind() EventKind    { return EventDiceRolled }
func (PieceMovedEvent) Kind() EventKind    { return EventPieceMoved }
func (PieceCapturedEvent) Kind() EventKind { return EventPieceCaptured }
func (PieceFinishedEvent) Kind() EventKind { return EventPieceFinished }
func (TurnChangedEvent) Kind() EventKind   { return EventTurnChanged }
func (GameOverEvent) Kind() EventKind      { return EventGameOver }
