package engine

import "fmt"

// GamePhase is the lifecycle phase of a game session.
type GamePhase int

const (
	WaitingForPlayers GamePhase = iota
	InProgress
	GameOver
)

var gamePhaseNames = [...]string{"waiting_for_players", "in_progress", "game_over"}

func (p GamePhase) String() string {
	if p < 0 || int(p) >= len(gamePhaseNames) {
		return fmt.Sprintf("game_phase(%d)", int(p))
	}
	return gamePhaseNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p GamePhase) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(gamePhaseNames) {
		return nil, fmt.Errorf("invalid game phase %d", int(p))
	}
	return []byte(gamePhaseNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *GamePhase) UnmarshalText(text []byte) error {
	for i, name := range gamePhaseNames {
		if string(text) == name {
			*p = GamePhase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown game phase %q", text)
}

// TurnStage is the sub-state of an in-progress turn: the current player
// either owes a roll or owes a move for a pending roll.
type TurnStage int

const (
	StageRoll TurnStage = iota
	StageMove
)

var turnStageNames = [...]string{"roll", "move"}

func (s TurnStage) String() string {
	if s < 0 || int(s) >= len(turnStageNames) {
		return fmt.Sprintf("turn_stage(%d)", int(s))
	}
	return turnStageNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s TurnStage) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(turnStageNames) {
		return nil, fmt.Errorf("invalid turn stage %d", int(s))
	}
	return []byte(turnStageNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TurnStage) UnmarshalText(text []byte) error {
	for i, name := range turnStageNames {
		if string(text) == name {
			*s = TurnStage(i)
			return nil
		}
	}
	return fmt.Errorf("unknown turn stage %q", text)
}

// Move is one legal (piece, destination) pair for a pending roll.
type Move struct {
	PieceID int      `json:"piece_id"`
	From    Position `json:"from"`
	To      Position `json:"to"`
}

// maxConsecutiveSixes is the extra-sixes stall guard: the third 6 in a row
// without a successful move forfeits the bonus and passes the turn.
const maxConsecutiveSixes = 3

// Game is the Ludo state machine. It exclusively owns all players and
// pieces; every mutation flows through its public operations, which run
// synchronously to completion. A Game is not safe for concurrent use.
type Game struct {
	seats   [NumColors]*Player
	phase   GamePhase
	stage   TurnStage
	current Color
	dice    int
	sixes   int // consecutive sixes without a successful move
	turns   int
	moves   int
	winner  Color

	minPlayers int
	roller     Roller
	listeners  []Listener
}

// Option configures a Game.
type Option func(*Game)

// WithRoller injects the dice source.
func WithRoller(r Roller) Option {
	return func(g *Game) {
		if r != nil {
			g.roller = r
		}
	}
}

// WithSeed installs a rand-backed roller with the given seed. A seed of 0
// seeds from the current time.
func WithSeed(seed int64) Option {
	return func(g *Game) {
		g.roller = NewRoller(seed)
	}
}

// WithMinPlayers sets the player count at which an explicit Start is
// accepted. The game still auto-starts when the fourth player joins.
// Values outside [2,4] are clamped.
func WithMinPlayers(n int) Option {
	return func(g *Game) {
		if n < 2 {
			n = 2
		}
		if n > NumColors {
			n = NumColors
		}
		g.minPlayers = n
	}
}

// NewGame creates an empty game in the WaitingForPlayers phase.
func NewGame(opts ...Option) *Game {
	g := &Game{
		phase:      WaitingForPlayers,
		minPlayers: NumColors,
		roller:     NewRoller(0),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddListener registers a listener. Listeners are invoked synchronously in
// registration order during the mutating call that produced the event.
func (g *Game) AddListener(l Listener) {
	if l != nil {
		g.listeners = append(g.listeners, l)
	}
}

func (g *Game) emit(e Event) {
	for _, l := range g.listeners {
		l(e)
	}
}

// checkJoinable rejects player-list mutations outside WaitingForPlayers.
func (g *Game) checkJoinable() error {
	switch g.phase {
	case InProgress:
		return ErrGameInProgress
	case GameOver:
		return ErrGameOver
	}
	return nil
}

// AddPlayer seats a new color. The game starts automatically when the
// fourth player joins.
func (g *Game) AddPlayer(c Color) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownColor, int(c))
	}
	if err := g.checkJoinable(); err != nil {
		return err
	}
	if g.seats[c] != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateColor, c)
	}
	if g.PlayerCount() >= NumColors {
		return ErrGameFull
	}

	g.seats[c] = newPlayer(c)
	if g.PlayerCount() == NumColors {
		g.start()
	}
	return nil
}

// RemovePlayer unseats a color. Players may only leave before the game has
// started.
func (g *Game) RemovePlayer(c Color) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownColor, int(c))
	}
	if err := g.checkJoinable(); err != nil {
		return err
	}
	if g.seats[c] == nil {
		return fmt.Errorf("%w: %s", ErrNotInGame, c)
	}
	g.seats[c] = nil
	return nil
}

// Start begins play with fewer than four players. At least two players,
// and no fewer than the configured minimum, must be seated.
func (g *Game) Start() error {
	if err := g.checkJoinable(); err != nil {
		return err
	}
	if n := g.PlayerCount(); n < 2 || n < g.minPlayers {
		return fmt.Errorf("%w: have %d, need %d", ErrNotEnoughPlayers, g.PlayerCount(), g.minPlayers)
	}
	g.start()
	return nil
}

func (g *Game) start() {
	g.phase = InProgress
	g.stage = StageRoll
	g.dice = 0
	g.sixes = 0

	joined := g.Players()
	g.current = joined[0]
	g.emit(GameStartedEvent{Players: joined, First: g.current})
}

// checkTurn validates that color c may act right now.
func (g *Game) checkTurn(c Color) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownColor, int(c))
	}
	switch g.phase {
	case WaitingForPlayers:
		return ErrNotInProgress
	case GameOver:
		return ErrGameOver
	}
	if g.seats[c] == nil {
		return fmt.Errorf("%w: %s", ErrNotInGame, c)
	}
	if c != g.current {
		return fmt.Errorf("%w: it is %s's turn", ErrOutOfTurn, g.current)
	}
	return nil
}

// RollDice rolls for the current player and stores the value. When the
// roll has no valid moves the turn resolves immediately: a 6 keeps the
// turn for a bonus roll (up to the extra-sixes limit), anything else
// passes it.
func (g *Game) RollDice() (int, error) {
	switch g.phase {
	case WaitingForPlayers:
		return 0, ErrNotInProgress
	case GameOver:
		return 0, ErrGameOver
	}
	if g.stage != StageRoll {
		return 0, ErrRollPending
	}

	value := g.roller.Roll()
	if value < 1 || value > 6 {
		return 0, fmt.Errorf("roller produced %d, want 1..6", value)
	}
	g.dice = value
	g.stage = StageMove
	if value == 6 {
		g.sixes++
	} else {
		g.sixes = 0
	}
	g.emit(DiceRolledEvent{Color: g.current, Value: value})

	if len(g.validMoves(g.current)) == 0 {
		// Roll is consumed without a move.
		g.dice = 0
		g.stage = StageRoll
		if value == 6 && g.sixes < maxConsecutiveSixes {
			return value, nil // bonus roll for the 6
		}
		g.advanceTurn()
	}
	return value, nil
}

// ValidMoves enumerates the legal (piece, destination) pairs for the
// pending roll, in ascending piece id order. Only the current player, with
// a roll pending, may ask.
func (g *Game) ValidMoves(c Color) ([]Move, error) {
	if err := g.checkTurn(c); err != nil {
		return nil, err
	}
	if g.stage != StageMove {
		return nil, ErrNoRoll
	}
	return g.validMoves(c), nil
}

func (g *Game) validMoves(c Color) []Move {
	player := g.seats[c]
	var moves []Move
	for _, piece := range player.Pieces {
		dest, ok := destination(c, piece.Pos, g.dice)
		if !ok {
			continue
		}
		if dest.Phase != Finished && g.ownPieceOn(player, piece.ID, dest) {
			continue // no stacking own pieces
		}
		moves = append(moves, Move{PieceID: piece.ID, From: piece.Pos, To: dest})
	}
	return moves
}

// ownPieceOn reports whether another of player's pieces already occupies
// the destination.
func (g *Game) ownPieceOn(player *Player, movingID int, dest Position) bool {
	for _, other := range player.Pieces {
		if other.ID == movingID {
			continue
		}
		if other.Pos == dest {
			return true
		}
	}
	return false
}

// opponentOn returns the opposing piece sitting on a global track square,
// or nil. At most one opponent can occupy a non-safe square.
func (g *Game) opponentOn(mover Color, square int) *Piece {
	for _, seat := range g.seats {
		if seat == nil || seat.Color == mover {
			continue
		}
		for _, piece := range seat.Pieces {
			if piece.Pos.Phase == OnTrack && piece.Pos.Square == square {
				return piece
			}
		}
	}
	return nil
}

// MovePiece resolves the pending roll by moving the given piece. The piece
// must appear in the valid-move list. Landing on a non-safe track square
// held by an opponent captures it; reaching the end of the home stretch
// finishes the piece and may end the game. Rolling a 6, capturing, or
// finishing earns a bonus roll; otherwise the turn passes.
func (g *Game) MovePiece(c Color, pieceID int) error {
	if err := g.checkTurn(c); err != nil {
		return err
	}
	if g.stage != StageMove {
		return ErrNoRoll
	}
	if pieceID < 0 || pieceID >= PiecesPerPlayer {
		return fmt.Errorf("%w: %d", ErrInvalidPiece, pieceID)
	}

	var chosen *Move
	for _, mv := range g.validMoves(c) {
		if mv.PieceID == pieceID {
			chosen = &mv
			break
		}
	}
	if chosen == nil {
		return fmt.Errorf("%w: piece %d cannot move with a %d", ErrIllegalMove, pieceID, g.dice)
	}

	player := g.seats[c]
	piece := player.Pieces[pieceID]
	dice := g.dice
	from := piece.Pos
	to := chosen.To

	piece.Pos = to
	g.moves++
	g.sixes = 0
	g.dice = 0
	g.stage = StageRoll
	g.emit(PieceMovedEvent{Color: c, PieceID: pieceID, From: from, To: to, Dice: dice})

	captured := false
	if to.Phase == OnTrack && !IsSafe(to.Square) {
		if victim := g.opponentOn(c, to.Square); victim != nil {
			square := victim.Pos.Square
			victim.reset()
			captured = true
			g.emit(PieceCapturedEvent{
				Color: victim.Color, PieceID: victim.ID, Square: square,
				By: c, ByPiece: pieceID,
			})
		}
	}

	finished := false
	if to.Phase == Finished {
		player.finished++
		finished = true
		g.emit(PieceFinishedEvent{Color: c, PieceID: pieceID})
		if player.HasWon() {
			g.phase = GameOver
			g.winner = c
			g.emit(GameOverEvent{Winner: c})
			return nil
		}
	}

	if dice == 6 || captured || finished {
		return nil // bonus roll, same player
	}
	g.advanceTurn()
	return nil
}

// advanceTurn passes the turn to the next seated, non-won color in turn
// order.
func (g *Game) advanceTurn() {
	next := g.current
	for i := 1; i <= NumColors; i++ {
		candidate := Color((int(g.current) + i) % NumColors)
		if seat := g.seats[candidate]; seat != nil && !seat.HasWon() {
			next = candidate
			break
		}
	}
	g.current = next
	g.stage = StageRoll
	g.dice = 0
	g.sixes = 0
	g.turns++
	g.emit(TurnChangedEvent{Color: next})
}

// Reset returns every piece to its yard, clears all counters, and puts the
// game back in WaitingForPlayers. Seated players stay seated; play resumes
// through Start or a fourth player joining.
func (g *Game) Reset() {
	for _, seat := range g.seats {
		if seat != nil {
			seat.reset()
		}
	}
	g.phase = WaitingForPlayers
	g.stage = StageRoll
	g.dice = 0
	g.sixes = 0
	g.turns = 0
	g.moves = 0
	g.winner = 0
}

// Phase returns the game lifecycle phase.
func (g *Game) Phase() GamePhase { return g.phase }

// Stage returns the in-progress turn sub-state.
func (g *Game) Stage() TurnStage { return g.stage }

// CurrentPlayer returns whose turn it is. ok is false unless the game is
// in progress.
func (g *Game) CurrentPlayer() (Color, bool) {
	return g.current, g.phase == InProgress
}

// DiceValue returns the pending roll, or 0 when no roll is pending.
func (g *Game) DiceValue() int { return g.dice }

// Winner returns the winning color once the game is over.
func (g *Game) Winner() (Color, bool) {
	return g.winner, g.phase == GameOver
}

// PlayerCount returns the number of seated players.
func (g *Game) PlayerCount() int {
	n := 0
	for _, seat := range g.seats {
		if seat != nil {
			n++
		}
	}
	return n
}

// Players returns the seated colors in turn order.
func (g *Game) Players() []Color {
	var joined []Color
	for _, c := range Colors {
		if g.seats[c] != nil {
			joined = append(joined, c)
		}
	}
	return joined
}

// TurnCount returns the number of completed turn passes.
func (g *Game) TurnCount() int { return g.turns }

// MoveCount returns the number of successful moves.
func (g *Game) MoveCount() int { return g.moves }
