package ai

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/ludoengine/pkg/engine"
)

func startedGame(t *testing.T, seed int64) *engine.Game {
	t.Helper()
	g := engine.NewGame(engine.WithSeed(seed))
	for _, c := range engine.Colors {
		require.NoError(t, g.AddPlayer(c))
	}
	require.Equal(t, engine.InProgress, g.Phase())
	return g
}

func TestManagerPlaysFullGame(t *testing.T) {
	g := startedGame(t, 31)
	mgr := NewManager(g, WithSeed(31))
	for _, c := range engine.Colors {
		require.NoError(t, mgr.Configure(c, Medium))
	}

	for steps := 0; g.Phase() == engine.InProgress; steps++ {
		require.Less(t, steps, 20000, "game should finish")
		current, ok := g.CurrentPlayer()
		require.True(t, ok)
		require.NoError(t, mgr.StepMove(current))
	}

	winner, ok := g.Winner()
	require.True(t, ok)
	player, ok := g.Snapshot().Player(winner)
	require.True(t, ok)
	require.True(t, player.Won, "winner should have all pieces home")
}

func TestManagerStepErrors(t *testing.T) {
	g := startedGame(t, 5)
	mgr := NewManager(g, WithSeed(5))

	current, ok := g.CurrentPlayer()
	require.True(t, ok)

	t.Run("unconfigured seat", func(t *testing.T) {
		err := mgr.StepMove(current)
		require.ErrorIs(t, err, ErrNotAIControlled)
	})

	t.Run("out of turn", func(t *testing.T) {
		other := engine.Colors[(int(current)+1)%engine.NumColors]
		require.NoError(t, mgr.Configure(other, Easy))
		err := mgr.StepMove(other)
		require.ErrorIs(t, err, engine.ErrOutOfTurn)
	})

	t.Run("bad difficulty", func(t *testing.T) {
		require.Error(t, mgr.Configure(current, Difficulty(9)))
	})
}

func TestManagerConfigureAndRelease(t *testing.T) {
	g := startedGame(t, 1)
	mgr := NewManager(g)

	require.False(t, mgr.IsAIControlled(engine.Blue))
	require.NoError(t, mgr.Configure(engine.Blue, Hard))
	require.True(t, mgr.IsAIControlled(engine.Blue))

	d, ok := mgr.Difficulty(engine.Blue)
	require.True(t, ok)
	require.Equal(t, Hard, d)

	mgr.Release(engine.Blue)
	require.False(t, mgr.IsAIControlled(engine.Blue))
}

func TestRollout(t *testing.T) {
	snap := startedGame(t, 17).Snapshot()
	opts := RolloutOptions{Games: 24, Workers: 3, Seed: 11, Difficulty: Easy}

	result, err := Rollout(snap, opts)
	require.NoError(t, err)
	require.Equal(t, 24, result.Games)

	finished := 0
	for _, wins := range result.Wins {
		finished += wins
	}
	require.Equal(t, 24, finished+result.Unfinished)
	for c, rate := range result.WinRate {
		require.GreaterOrEqual(t, rate, 0.0, "rate for %s", c)
		require.LessOrEqual(t, rate, 1.0, "rate for %s", c)
	}
	if finished > 0 {
		require.Greater(t, result.MeanTurns, 0.0)
	}

	t.Run("deterministic for a fixed seed", func(t *testing.T) {
		again, err := Rollout(snap, opts)
		require.NoError(t, err)
		require.Equal(t, result.Wins, again.Wins)
		require.Equal(t, result.Unfinished, again.Unfinished)
		require.InDelta(t, result.MeanTurns, again.MeanTurns, 1e-9)
	})

	t.Run("rejects positions not in progress", func(t *testing.T) {
		idle := engine.NewGame()
		_, err := Rollout(idle.Snapshot(), RolloutOptions{Games: 1})
		require.ErrorIs(t, err, engine.ErrNotInProgress)
	})
}
