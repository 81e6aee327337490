// Package api provides the HTTP/JSON surface for the Ludo engine: game
// session management, turn operations, AI control, and live event streams
// over SSE and WebSocket.
package api

import (
	"github.com/yourusername/ludoengine/pkg/ai"
	"github.com/yourusername/ludoengine/pkg/engine"
)

// ============================================================================
// Request Types
// ============================================================================

// CreateGameRequest is the request body for creating a game session. When
// Position is set the session resumes from that encoded state instead of
// starting empty.
type CreateGameRequest struct {
	Players    []engine.Color                 `json:"players,omitempty"`     // Colors to seat immediately
	MinPlayers int                            `json:"min_players,omitempty"` // Explicit-start threshold (default 4)
	Seed       int64                          `json:"seed,omitempty"`        // Dice seed (0 = random)
	Position   string                         `json:"position,omitempty"`    // Compact position ID to resume from
	AI         map[engine.Color]ai.Difficulty `json:"ai,omitempty"`          // Seats to put under AI control
}

// PlayerRequest names a color for seat and turn operations.
type PlayerRequest struct {
	Color engine.Color `json:"color"`
}

// MovePieceRequest is the request body for resolving a pending roll.
type MovePieceRequest struct {
	Color   engine.Color `json:"color"`
	PieceID int          `json:"piece_id"`
}

// ConfigureAIRequest is the request body for putting a seat under AI
// control.
type ConfigureAIRequest struct {
	Color      engine.Color  `json:"color"`
	Difficulty ai.Difficulty `json:"difficulty"`
}

// SimulateRequest is the request body for Monte Carlo simulation. Exactly
// one of GameID and Position selects the starting state.
type SimulateRequest struct {
	GameID     string        `json:"game_id,omitempty"`    // Simulate from a live session
	Position   string        `json:"position,omitempty"`   // Or from a compact position ID
	Games      int           `json:"games,omitempty"`      // Number of games (default 500)
	Workers    int           `json:"workers,omitempty"`    // Parallel workers (0 = GOMAXPROCS)
	Seed       int64         `json:"seed,omitempty"`       // Random seed (0 = random)
	MaxPlies   int           `json:"max_plies,omitempty"`  // Per-game cutoff (default 2000)
	Difficulty ai.Difficulty `json:"difficulty,omitempty"` // Policy for every seat (default easy)
}

// ============================================================================
// Response Types
// ============================================================================

// GameResponse is a game session with its full state.
type GameResponse struct {
	ID    string           `json:"id"`
	State *engine.Snapshot `json:"state"`
}

// RollResponse is the outcome of a dice roll. State reflects any turn
// resolution the roll triggered (auto-pass or bonus roll).
type RollResponse struct {
	ID    string           `json:"id"`
	Color engine.Color     `json:"color"`
	Value int              `json:"value"`
	State *engine.Snapshot `json:"state"`
}

// MovesResponse lists the legal moves for the pending roll.
type MovesResponse struct {
	Color engine.Color  `json:"color"`
	Dice  int           `json:"dice"`
	Moves []engine.Move `json:"moves"`
}

// AIStatusResponse reports whether a seat is AI controlled.
type AIStatusResponse struct {
	Color        engine.Color   `json:"color"`
	AIControlled bool           `json:"ai_controlled"`
	Difficulty   *ai.Difficulty `json:"difficulty,omitempty"`
}

// PositionResponse is a compact shareable position ID.
type PositionResponse struct {
	ID       string `json:"id"`
	Position string `json:"position"`
}

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error   string `json:"error"`             // Error message
	Code    string `json:"code,omitempty"`    // Error code
	Details string `json:"details,omitempty"` // Additional details
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status   string     `json:"status"`         // "ok" or "error"
	Version  string     `json:"version"`        // Engine version
	Sessions int        `json:"sessions"`       // Live game sessions
	Pool     *PoolStats `json:"pool,omitempty"` // Worker pool statistics
}

// EventEnvelope wraps an engine event for the wire: the kind discriminates
// the payload shape.
type EventEnvelope struct {
	Type engine.EventKind `json:"type"`
	Data engine.Event     `json:"data"`
}
