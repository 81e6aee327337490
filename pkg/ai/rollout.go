package ai

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/ludoengine/pkg/engine"
)

// RolloutOptions controls a Monte Carlo rollout.
type RolloutOptions struct {
	Games      int        // number of games to simulate (default 500)
	Workers    int        // parallel workers (0 = GOMAXPROCS)
	Seed       int64      // RNG seed (0 = random)
	MaxPlies   int        // per-game safety cutoff (default 2000 AI steps)
	Difficulty Difficulty // policy played by every seat (default Easy)
}

// RolloutResult aggregates the simulated games.
type RolloutResult struct {
	Games         int                      `json:"games"`
	Wins          map[engine.Color]int     `json:"wins"`
	WinRate       map[engine.Color]float64 `json:"win_rate"`
	WinRateStdErr map[engine.Color]float64 `json:"win_rate_std_err"`
	MeanTurns     float64                  `json:"mean_turns"`
	TurnsStdDev   float64                  `json:"turns_std_dev"`
	Unfinished    int                      `json:"unfinished"`
}

// partialResult holds one worker's tallies.
type partialResult struct {
	wins       map[engine.Color]int
	turns      []float64
	unfinished int
	err        error
}

// Rollout estimates per-color win rates by playing seeded games from the
// given position with every seat on the same policy tier. The snapshot
// must be in progress. Results are deterministic for a fixed non-zero
// seed and worker count.
func Rollout(snap *engine.Snapshot, opts RolloutOptions) (*RolloutResult, error) {
	if snap == nil || snap.Phase != engine.InProgress {
		return nil, engine.ErrNotInProgress
	}
	if !opts.Difficulty.Valid() {
		return nil, fmt.Errorf("invalid difficulty %d", int(opts.Difficulty))
	}
	if opts.Games <= 0 {
		opts.Games = 500
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Workers > opts.Games {
		opts.Workers = opts.Games
	}
	if opts.MaxPlies <= 0 {
		opts.MaxPlies = 2000
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Int63()
	}

	gamesPerWorker := opts.Games / opts.Workers
	extraGames := opts.Games % opts.Workers

	results := make(chan partialResult, opts.Workers)
	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		games := gamesPerWorker
		if i < extraGames {
			games++
		}
		workerSeed := opts.Seed + int64(i)*1000000

		wg.Add(1)
		go func(games int, seed int64) {
			defer wg.Done()
			results <- rolloutWorker(snap, games, seed, opts)
		}(games, workerSeed)
	}
	wg.Wait()
	close(results)

	merged := partialResult{wins: make(map[engine.Color]int)}
	for part := range results {
		if part.err != nil {
			return nil, part.err
		}
		for c, n := range part.wins {
			merged.wins[c] += n
		}
		merged.turns = append(merged.turns, part.turns...)
		merged.unfinished += part.unfinished
	}

	result := &RolloutResult{
		Games:         opts.Games,
		Wins:          merged.wins,
		WinRate:       make(map[engine.Color]float64),
		WinRateStdErr: make(map[engine.Color]float64),
		Unfinished:    merged.unfinished,
	}
	n := float64(opts.Games)
	for c := range snap.Players {
		p := float64(merged.wins[c]) / n
		result.WinRate[c] = p
		result.WinRateStdErr[c] = math.Sqrt(p * (1 - p) / n)
	}
	if len(merged.turns) > 0 {
		result.MeanTurns = stat.Mean(merged.turns, nil)
		if len(merged.turns) > 1 {
			result.TurnsStdDev = stat.StdDev(merged.turns, nil)
		}
	}
	return result, nil
}

// rolloutWorker plays its share of games with per-game derived seeds.
func rolloutWorker(snap *engine.Snapshot, games int, seed int64, opts RolloutOptions) partialResult {
	part := partialResult{wins: make(map[engine.Color]int)}
	for i := 0; i < games; i++ {
		gameSeed := seed + int64(i)*2 + 1

		g, err := engine.FromSnapshot(snap, engine.WithSeed(gameSeed))
		if err != nil {
			part.err = err
			return part
		}
		mgr := NewManager(g, WithSeed(gameSeed+1))
		for c := range snap.Players {
			if err := mgr.Configure(c, opts.Difficulty); err != nil {
				part.err = err
				return part
			}
		}

		for ply := 0; ply < opts.MaxPlies; ply++ {
			current, ok := g.CurrentPlayer()
			if !ok {
				break
			}
			if err := mgr.StepMove(current); err != nil {
				part.err = fmt.Errorf("rollout game %d: %w", i, err)
				return part
			}
		}

		if winner, ok := g.Winner(); ok {
			part.wins[winner]++
			part.turns = append(part.turns, float64(g.TurnCount()))
		} else {
			part.unfinished++
		}
	}
	return part
}
