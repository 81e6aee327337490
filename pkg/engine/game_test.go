package engine

import (
	"errors"
	"reflect"
	"testing"
)

// scriptedRoller feeds a fixed dice sequence to the game.
type scriptedRoller struct {
	rolls []int
	next  int
}

func (r *scriptedRoller) Roll() int {
	v := r.rolls[r.next%len(r.rolls)]
	r.next++
	return v
}

// fourPlayerGame seats all four colors, which auto-starts the game with
// Red to roll.
func fourPlayerGame(t *testing.T, rolls ...int) *Game {
	t.Helper()
	g := NewGame(WithRoller(&scriptedRoller{rolls: rolls}))
	for _, c := range Colors {
		if err := g.AddPlayer(c); err != nil {
			t.Fatalf("AddPlayer(%s): %v", c, err)
		}
	}
	if g.Phase() != InProgress {
		t.Fatalf("game did not auto-start with 4 players, phase = %s", g.Phase())
	}
	return g
}

// yardState returns a player record with all four pieces in the yard.
func yardState(c Color) PlayerState {
	state := PlayerState{Color: c}
	for i := 0; i < PiecesPerPlayer; i++ {
		state.Pieces = append(state.Pieces, PieceState{ID: i, Phase: InYard, Square: -1, Stretch: -1})
	}
	return state
}

// testSnapshot builds an in-progress 4-player snapshot with current player
// and explicit piece overrides.
func testSnapshot(current Color, dice int, stage TurnStage, overrides map[Color][]PieceState) *Snapshot {
	snap := &Snapshot{
		Phase:         InProgress,
		Stage:         stage,
		CurrentPlayer: &current,
		Dice:          dice,
		Players:       make(map[Color]PlayerState),
	}
	for _, c := range Colors {
		state := yardState(c)
		for _, p := range overrides[c] {
			state.Pieces[p.ID] = p
		}
		finished := 0
		for _, p := range state.Pieces {
			if p.Phase == Finished {
				finished++
			}
		}
		state.Finished = finished
		state.Won = finished == PiecesPerPlayer
		snap.Players[c] = state
	}
	return snap
}

func onTrack(id, square int) PieceState {
	return PieceState{ID: id, Phase: OnTrack, Square: square, Stretch: -1}
}

func inStretch(id, idx int) PieceState {
	return PieceState{ID: id, Phase: InStretch, Square: -1, Stretch: idx}
}

func finishedPiece(id int) PieceState {
	return PieceState{ID: id, Phase: Finished, Square: -1, Stretch: -1}
}

func TestAddPlayerErrors(t *testing.T) {
	g := NewGame()
	if err := g.AddPlayer(Red); err != nil {
		t.Fatalf("AddPlayer(red): %v", err)
	}
	if err := g.AddPlayer(Red); !errors.Is(err, ErrDuplicateColor) {
		t.Errorf("duplicate add: got %v, want ErrDuplicateColor", err)
	}
	if err := g.AddPlayer(Color(9)); !errors.Is(err, ErrUnknownColor) {
		t.Errorf("bogus color: got %v, want ErrUnknownColor", err)
	}

	for _, c := range []Color{Green, Yellow, Blue} {
		if err := g.AddPlayer(c); err != nil {
			t.Fatalf("AddPlayer(%s): %v", c, err)
		}
	}
	// Game auto-started; no further joins.
	if err := g.AddPlayer(Red); !errors.Is(err, ErrGameInProgress) {
		t.Errorf("add while in progress: got %v, want ErrGameInProgress", err)
	}
	if err := g.RemovePlayer(Blue); !errors.Is(err, ErrGameInProgress) {
		t.Errorf("remove while in progress: got %v, want ErrGameInProgress", err)
	}
}

func TestExplicitStart(t *testing.T) {
	g := NewGame(WithMinPlayers(2))
	if err := g.Start(); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Errorf("start with 0 players: got %v, want ErrNotEnoughPlayers", err)
	}

	g.AddPlayer(Red)
	g.AddPlayer(Yellow)
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if g.Phase() != InProgress {
		t.Fatalf("phase = %s, want in_progress", g.Phase())
	}
	if current, _ := g.CurrentPlayer(); current != Red {
		t.Errorf("first player = %s, want red", current)
	}
}

func TestDefaultMinimumRequiresFourForExplicitStart(t *testing.T) {
	g := NewGame()
	g.AddPlayer(Red)
	g.AddPlayer(Green)
	g.AddPlayer(Yellow)
	if err := g.Start(); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Errorf("got %v, want ErrNotEnoughPlayers", err)
	}
}

func TestSequencingErrors(t *testing.T) {
	g := NewGame()
	if _, err := g.RollDice(); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("roll before start: got %v, want ErrNotInProgress", err)
	}

	g = fourPlayerGame(t, 6, 6)
	if _, err := g.ValidMoves(Red); !errors.Is(err, ErrNoRoll) {
		t.Errorf("moves before roll: got %v, want ErrNoRoll", err)
	}
	if err := g.MovePiece(Red, 0); !errors.Is(err, ErrNoRoll) {
		t.Errorf("move before roll: got %v, want ErrNoRoll", err)
	}

	if _, err := g.RollDice(); err != nil {
		t.Fatalf("RollDice: %v", err)
	}
	if _, err := g.RollDice(); !errors.Is(err, ErrRollPending) {
		t.Errorf("second roll: got %v, want ErrRollPending", err)
	}
	if _, err := g.ValidMoves(Green); !errors.Is(err, ErrOutOfTurn) {
		t.Errorf("moves out of turn: got %v, want ErrOutOfTurn", err)
	}
	if err := g.MovePiece(Red, 7); !errors.Is(err, ErrInvalidPiece) {
		t.Errorf("bad piece id: got %v, want ErrInvalidPiece", err)
	}
}

// Scenario: Red rolls 6 then 3. Piece 0 leaves the yard to the red entry
// square, then advances 3; the turn passes to Green with no bonus.
func TestOpeningSixThenThree(t *testing.T) {
	g := fourPlayerGame(t, 6, 3)

	value, err := g.RollDice()
	if err != nil || value != 6 {
		t.Fatalf("RollDice = %d, %v", value, err)
	}
	moves, err := g.ValidMoves(Red)
	if err != nil {
		t.Fatalf("ValidMoves: %v", err)
	}
	if len(moves) != PiecesPerPlayer {
		t.Fatalf("got %d yard-exit moves, want 4", len(moves))
	}
	for i, mv := range moves {
		if mv.PieceID != i {
			t.Errorf("moves not in ascending piece id order: %v", moves)
		}
		if mv.To != (Position{Phase: OnTrack, Square: Red.EntrySquare()}) {
			t.Errorf("yard exit destination = %v, want entry square", mv.To)
		}
	}

	if err := g.MovePiece(Red, 0); err != nil {
		t.Fatalf("MovePiece: %v", err)
	}
	if current, _ := g.CurrentPlayer(); current != Red {
		t.Fatal("rolling a 6 should grant a bonus turn")
	}

	if _, err := g.RollDice(); err != nil {
		t.Fatalf("second roll: %v", err)
	}
	moves, _ = g.ValidMoves(Red)
	if len(moves) != 1 || moves[0].PieceID != 0 {
		t.Fatalf("moves = %v, want only piece 0", moves)
	}
	if err := g.MovePiece(Red, 0); err != nil {
		t.Fatalf("MovePiece: %v", err)
	}

	snap := g.Snapshot()
	red := snap.Players[Red]
	if red.Pieces[0].Phase != OnTrack || red.Pieces[0].Square != 3 {
		t.Errorf("red piece 0 at %+v, want track square 3", red.Pieces[0])
	}
	if current, _ := g.CurrentPlayer(); current != Green {
		t.Errorf("turn did not pass to green, current = %s", current)
	}
}

// Scenario: Red lands on an unsafe square held by a single green piece.
// The green piece returns to its yard and Red earns a bonus turn.
func TestCaptureGrantsBonusTurn(t *testing.T) {
	snap := testSnapshot(Red, 0, StageRoll, map[Color][]PieceState{
		Red:   {onTrack(0, 7)},
		Green: {onTrack(0, 10)},
	})
	g, err := FromSnapshot(snap, WithRoller(&scriptedRoller{rolls: []int{3}}))
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}

	var events []EventKind
	g.AddListener(func(e Event) { events = append(events, e.Kind()) })

	if _, err := g.RollDice(); err != nil {
		t.Fatalf("RollDice: %v", err)
	}
	if err := g.MovePiece(Red, 0); err != nil {
		t.Fatalf("MovePiece: %v", err)
	}

	state := g.Snapshot()
	if p := state.Players[Green].Pieces[0]; p.Phase != InYard {
		t.Errorf("green piece 0 = %+v, want back in yard", p)
	}
	if p := state.Players[Red].Pieces[0]; p.Phase != OnTrack || p.Square != 10 {
		t.Errorf("red piece 0 = %+v, want track square 10", p)
	}
	if current, _ := g.CurrentPlayer(); current != Red {
		t.Error("capture should grant a bonus turn")
	}

	want := []EventKind{EventDiceRolled, EventPieceMoved, EventPieceCaptured}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("event order = %v, want %v", events, want)
	}
}

func TestNoCaptureOnSafeSquare(t *testing.T) {
	// Square 8 is safe; landing there must not capture.
	snap := testSnapshot(Red, 0, StageRoll, map[Color][]PieceState{
		Red:   {onTrack(0, 5)},
		Green: {onTrack(0, 8)},
	})
	g, err := FromSnapshot(snap, WithRoller(&scriptedRoller{rolls: []int{3}}))
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	g.RollDice()
	if err := g.MovePiece(Red, 0); err != nil {
		t.Fatalf("MovePiece: %v", err)
	}
	if p := g.Snapshot().Players[Green].Pieces[0]; p.Phase != OnTrack || p.Square != 8 {
		t.Errorf("green piece 0 = %+v, want untouched on square 8", p)
	}
	if current, _ := g.CurrentPlayer(); current != Green {
		t.Error("no capture occurred, turn should pass")
	}
}

func TestNoStackingOwnPieces(t *testing.T) {
	snap := testSnapshot(Red, 0, StageRoll, map[Color][]PieceState{
		Red: {onTrack(0, 5), onTrack(1, 8)},
	})
	g, err := FromSnapshot(snap, WithRoller(&scriptedRoller{rolls: []int{3}}))
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	g.RollDice()
	moves, err := g.ValidMoves(Red)
	if err != nil {
		t.Fatalf("ValidMoves: %v", err)
	}
	for _, mv := range moves {
		if mv.PieceID == 0 {
			t.Errorf("piece 0 may not land on its own piece: %v", mv)
		}
	}
	if err := g.MovePiece(Red, 0); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("stacking move: got %v, want ErrIllegalMove", err)
	}
}

// Scenario: a piece two squares from finishing rolls a 5. The overshoot is
// excluded from the valid-move list.
func TestOvershootExcludedFromValidMoves(t *testing.T) {
	snap := testSnapshot(Red, 0, StageRoll, map[Color][]PieceState{
		Red: {inStretch(0, 4), onTrack(1, 20)},
	})
	g, err := FromSnapshot(snap, WithRoller(&scriptedRoller{rolls: []int{5}}))
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	g.RollDice()
	moves, err := g.ValidMoves(Red)
	if err != nil {
		t.Fatalf("ValidMoves: %v", err)
	}
	if len(moves) != 1 || moves[0].PieceID != 1 {
		t.Errorf("moves = %v, want only piece 1", moves)
	}
}

// A non-6 roll with zero valid moves advances the turn without touching
// any piece.
func TestNoMovesPassesTurnWithoutMutation(t *testing.T) {
	snap := testSnapshot(Red, 0, StageRoll, map[Color][]PieceState{
		Red: {inStretch(0, 2), inStretch(1, 3), inStretch(2, 4), inStretch(3, 5)},
	})
	g, err := FromSnapshot(snap, WithRoller(&scriptedRoller{rolls: []int{5}}))
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	before := g.Snapshot()

	if _, err := g.RollDice(); err != nil {
		t.Fatalf("RollDice: %v", err)
	}

	after := g.Snapshot()
	if !reflect.DeepEqual(before.Players, after.Players) {
		t.Error("pieces mutated on a no-move roll")
	}
	if current, _ := g.CurrentPlayer(); current != Green {
		t.Errorf("current = %s, want green", current)
	}
	if g.Stage() != StageRoll || g.DiceValue() != 0 {
		t.Errorf("stage %s dice %d after auto-pass", g.Stage(), g.DiceValue())
	}
}

// Three consecutive sixes with no valid move forfeit the bonus and pass
// the turn.
func TestExtraSixesForfeit(t *testing.T) {
	snap := testSnapshot(Red, 0, StageRoll, map[Color][]PieceState{
		Red: {inStretch(0, 1), inStretch(1, 2), inStretch(2, 3), inStretch(3, 4)},
	})
	g, err := FromSnapshot(snap, WithRoller(&scriptedRoller{rolls: []int{6}}))
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}

	for i := 1; i <= 2; i++ {
		if _, err := g.RollDice(); err != nil {
			t.Fatalf("roll %d: %v", i, err)
		}
		if current, _ := g.CurrentPlayer(); current != Red {
			t.Fatalf("turn passed after %d sixes, want bonus roll", i)
		}
	}

	if _, err := g.RollDice(); err != nil {
		t.Fatalf("third roll: %v", err)
	}
	if current, _ := g.CurrentPlayer(); current != Green {
		t.Error("third consecutive six without a move should pass the turn")
	}
}

// Scenario: the fourth piece finishes. GameOver fires exactly once with
// the winner, and no further rolls are accepted.
func TestWinEndsGame(t *testing.T) {
	snap := testSnapshot(Yellow, 0, StageRoll, map[Color][]PieceState{
		Yellow: {finishedPiece(0), finishedPiece(1), finishedPiece(2), inStretch(3, 1)},
	})
	g, err := FromSnapshot(snap, WithRoller(&scriptedRoller{rolls: []int{5}}))
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}

	var events []Event
	g.AddListener(func(e Event) { events = append(events, e) })

	g.RollDice()
	if err := g.MovePiece(Yellow, 3); err != nil {
		t.Fatalf("MovePiece: %v", err)
	}

	if g.Phase() != GameOver {
		t.Fatalf("phase = %s, want game_over", g.Phase())
	}
	winner, ok := g.Winner()
	if !ok || winner != Yellow {
		t.Errorf("winner = %s ok=%v, want yellow", winner, ok)
	}

	overs := 0
	for _, e := range events {
		if over, ok := e.(GameOverEvent); ok {
			overs++
			if over.Winner != Yellow {
				t.Errorf("game over winner = %s, want yellow", over.Winner)
			}
		}
	}
	if overs != 1 {
		t.Errorf("GameOver fired %d times, want exactly once", overs)
	}

	kinds := make([]EventKind, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, e.Kind())
	}
	want := []EventKind{EventDiceRolled, EventPieceMoved, EventPieceFinished, EventGameOver}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("event order = %v, want %v", kinds, want)
	}

	if _, err := g.RollDice(); !errors.Is(err, ErrGameOver) {
		t.Errorf("roll after game over: got %v, want ErrGameOver", err)
	}
	if snap := g.Snapshot().Players[Yellow]; snap.Finished != 4 || !snap.Won {
		t.Errorf("yellow record = %+v, want finished_count 4 and won", snap)
	}
}

func TestFinishGrantsBonusTurn(t *testing.T) {
	snap := testSnapshot(Blue, 0, StageRoll, map[Color][]PieceState{
		Blue: {inStretch(0, 4), onTrack(1, 20)},
	})
	g, err := FromSnapshot(snap, WithRoller(&scriptedRoller{rolls: []int{2}}))
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	g.RollDice()
	if err := g.MovePiece(Blue, 0); err != nil {
		t.Fatalf("MovePiece: %v", err)
	}
	if current, _ := g.CurrentPlayer(); current != Blue {
		t.Error("finishing a piece should grant a bonus turn")
	}
}

func TestSnapshotIdempotent(t *testing.T) {
	g := fourPlayerGame(t, 6, 3, 2)
	g.RollDice()
	g.MovePiece(Red, 0)

	a := g.Snapshot()
	b := g.Snapshot()
	if !reflect.DeepEqual(a, b) {
		t.Error("consecutive snapshots differ without mutation")
	}

	// A held snapshot must not observe later mutation.
	g.RollDice()
	g.MovePiece(Red, 0)
	if !reflect.DeepEqual(a, b) {
		t.Error("snapshot mutated by later game activity")
	}
}

func TestReset(t *testing.T) {
	g := fourPlayerGame(t, 6, 3)
	g.RollDice()
	g.MovePiece(Red, 0)

	g.Reset()
	if g.Phase() != WaitingForPlayers {
		t.Fatalf("phase = %s, want waiting_for_players", g.Phase())
	}
	snap := g.Snapshot()
	if len(snap.Players) != 4 {
		t.Fatalf("players dropped on reset: %d", len(snap.Players))
	}
	for c, player := range snap.Players {
		for _, piece := range player.Pieces {
			if piece.Phase != InYard {
				t.Errorf("%s piece %d = %+v, want in yard", c, piece.ID, piece)
			}
		}
	}
	if snap.TurnCount != 0 || snap.MoveCount != 0 || snap.Dice != 0 {
		t.Errorf("counters not cleared: %+v", snap)
	}

	// Start relaunches with the seated players.
	if err := g.Start(); err != nil {
		t.Fatalf("Start after reset: %v", err)
	}
	if g.Phase() != InProgress {
		t.Errorf("phase = %s after restart", g.Phase())
	}
}

func TestTurnOrderSkipsUnseatedColors(t *testing.T) {
	g := NewGame(WithMinPlayers(2), WithRoller(&scriptedRoller{rolls: []int{2}}))
	g.AddPlayer(Green)
	g.AddPlayer(Blue)
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if current, _ := g.CurrentPlayer(); current != Green {
		t.Fatalf("first = %s, want green", current)
	}

	// Green rolls a 2 with everything in the yard: auto-pass to Blue,
	// skipping the unseated yellow seat.
	g.RollDice()
	if current, _ := g.CurrentPlayer(); current != Blue {
		t.Errorf("current = %s, want blue", current)
	}
	// And Blue passes back to Green, wrapping around.
	g.RollDice()
	if current, _ := g.CurrentPlayer(); current != Green {
		t.Errorf("current = %s, want green", current)
	}
}
