// ludo - command line driver for the Ludo rules engine
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yourusername/ludoengine/internal/positionid"
	"github.com/yourusername/ludoengine/pkg/ai"
	"github.com/yourusername/ludoengine/pkg/engine"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "state":
		cmdState(args)
	case "simulate":
		cmdSimulate(args)
	case "watch":
		cmdWatch(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ludo - Ludo Rules Engine

Usage: ludo <command> [options]

Commands:
  state     Decode and print a position ID
  simulate  Monte Carlo simulation from a position
  watch     Play out an AI-vs-AI game move by move

Use "ludo <command> -h" for command-specific help.

Position ID Format:
  Positions are compact base64 strings produced by the engine
  (GET /api/games/{id}/position on the server).`)
}

func parsePosition(pos string) (*engine.Snapshot, error) {
	snap, err := positionid.Parse(pos)
	if err != nil {
		return nil, fmt.Errorf("invalid position ID: %w", err)
	}
	return snap, nil
}

func cmdState(args []string) {
	fs := flag.NewFlagSet("state", flag.ExitOnError)
	posFlag := fs.String("position", "", "Position ID")
	posShort := fs.String("p", "", "Position ID (short form)")
	fs.Parse(args)

	pos := *posFlag
	if pos == "" {
		pos = *posShort
	}
	if pos == "" {
		fmt.Fprintln(os.Stderr, "Error: position required")
		fmt.Fprintln(os.Stderr, "Usage: ludo state -position <positionID>")
		os.Exit(1)
	}

	snap, err := parsePosition(pos)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printSnapshot(snap)
}

func printSnapshot(snap *engine.Snapshot) {
	fmt.Printf("Phase: %s\n", snap.Phase)
	if snap.CurrentPlayer != nil {
		fmt.Printf("Turn:  %s (stage %s, dice %d)\n", *snap.CurrentPlayer, snap.Stage, snap.Dice)
	}
	if snap.Winner != nil {
		fmt.Printf("Winner: %s\n", *snap.Winner)
	}
	for _, c := range engine.Colors {
		player, ok := snap.Player(c)
		if !ok {
			continue
		}
		parts := make([]string, 0, len(player.Pieces))
		for _, piece := range player.Pieces {
			parts = append(parts, pieceString(piece))
		}
		fmt.Printf("  %-6s %s (%d home)\n", c, strings.Join(parts, ", "), player.Finished)
	}
}

func pieceString(p engine.PieceState) string {
	switch p.Phase {
	case engine.OnTrack:
		return fmt.Sprintf("sq %d", p.Square)
	case engine.InStretch:
		return fmt.Sprintf("stretch %d", p.Stretch)
	case engine.Finished:
		return "home"
	default:
		return "yard"
	}
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	posFlag := fs.String("position", "", "Position ID")
	posShort := fs.String("p", "", "Position ID (short form)")
	games := fs.Int("games", 500, "Number of games to simulate")
	workers := fs.Int("workers", 0, "Number of worker goroutines (0 = auto)")
	seed := fs.Int64("seed", 0, "Random seed (0 = random)")
	difficulty := fs.String("difficulty", "easy", "Policy tier for every seat (easy, medium, hard)")
	fs.Parse(args)

	pos := *posFlag
	if pos == "" {
		pos = *posShort
	}
	if pos == "" {
		fmt.Fprintln(os.Stderr, "Error: position required")
		fmt.Fprintln(os.Stderr, "Usage: ludo simulate -position <positionID> [-games N] [-workers N]")
		os.Exit(1)
	}

	snap, err := parsePosition(pos)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tier, err := ai.ParseDifficulty(*difficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := ai.RolloutOptions{
		Games:      *games,
		Workers:    *workers,
		Seed:       *seed,
		Difficulty: tier,
	}

	start := time.Now()
	result, err := ai.Rollout(snap, opts)
	elapsed := time.Since(start)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error during simulation: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Simulation (%d games, %s policy, %.1fs):\n", result.Games, tier, elapsed.Seconds())
	for _, c := range engine.Colors {
		rate, ok := result.WinRate[c]
		if !ok {
			continue
		}
		fmt.Printf("  %-6s %5.1f%% ± %.1f%% (%d wins)\n",
			c, rate*100, result.WinRateStdErr[c]*100, result.Wins[c])
	}
	fmt.Printf("  Mean length: %.1f turns (std %.1f)\n", result.MeanTurns, result.TurnsStdDev)
	if result.Unfinished > 0 {
		fmt.Printf("  Unfinished after cutoff: %d\n", result.Unfinished)
	}
}

func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	players := fs.Int("players", 4, "Number of players (2-4)")
	seed := fs.Int64("seed", 0, "Random seed (0 = random)")
	difficulty := fs.String("difficulty", "medium", "Policy tier for every seat (easy, medium, hard)")
	delay := fs.Duration("delay", 0, "Pause between AI steps (e.g. 500ms)")
	fs.Parse(args)

	if *players < 2 || *players > engine.NumColors {
		fmt.Fprintln(os.Stderr, "Error: players must be 2-4")
		os.Exit(1)
	}

	tier, err := ai.ParseDifficulty(*difficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	g := engine.NewGame(engine.WithSeed(*seed), engine.WithMinPlayers(*players))
	g.AddListener(printEvent)

	seats := engine.Colors[:*players]
	for _, c := range seats {
		if err := g.AddPlayer(c); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if g.Phase() != engine.InProgress {
		if err := g.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	mgr := ai.NewManager(g, ai.WithSeed(*seed))
	for _, c := range seats {
		if err := mgr.Configure(c, tier); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	for steps := 0; g.Phase() == engine.InProgress; steps++ {
		if steps > 100000 {
			fmt.Fprintln(os.Stderr, "Error: game did not finish")
			os.Exit(1)
		}
		current, _ := g.CurrentPlayer()
		if err := mgr.StepMove(current); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if *delay > 0 {
			time.Sleep(*delay)
		}
	}

	fmt.Printf("Finished in %d turns, %d moves.\n", g.TurnCount(), g.MoveCount())
}

func printEvent(e engine.Event) {
	switch ev := e.(type) {
	case engine.GameStartedEvent:
		names := make([]string, len(ev.Players))
		for i, c := range ev.Players {
			names[i] = c.String()
		}
		fmt.Printf("Game on: %s. %s to move.\n", strings.Join(names, ", "), ev.First)
	case engine.DiceRolledEvent:
		fmt.Printf("%s rolls %d\n", ev.Color, ev.Value)
	case engine.PieceMovedEvent:
		fmt.Printf("%s moves piece %d: %s -> %s\n", ev.Color, ev.PieceID, ev.From, ev.To)
	case engine.PieceCapturedEvent:
		fmt.Printf("%s piece %d captured on sq %d by %s\n", ev.Color, ev.PieceID, ev.Square, ev.By)
	case engine.PieceFinishedEvent:
		fmt.Printf("%s piece %d is home\n", ev.Color, ev.PieceID)
	case engine.TurnChangedEvent:
		fmt.Printf("-- %s to move\n", ev.Color)
	case engine.GameOverEvent:
		fmt.Printf("%s wins!\n", ev.Winner)
	}
}
