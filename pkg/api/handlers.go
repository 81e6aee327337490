package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/yourusername/ludoengine/internal/positionid"
	"github.com/yourusername/ludoengine/pkg/ai"
	"github.com/yourusername/ludoengine/pkg/engine"
)

// Handlers holds the HTTP handlers and the session registry.
type Handlers struct {
	sessions *SessionManager
	version  string
	pool     *WorkerPool
}

// NewHandlers creates a Handlers instance without a worker pool.
func NewHandlers(sessions *SessionManager, version string) *Handlers {
	return &Handlers{
		sessions: sessions,
		version:  version,
		pool:     nil,
	}
}

// NewHandlersWithPool creates a Handlers instance with a worker pool.
func NewHandlersWithPool(sessions *SessionManager, version string, pool *WorkerPool) *Handlers {
	return &Handlers{
		sessions: sessions,
		version:  version,
		pool:     pool,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// writeEngineError maps an engine, AI, or session error to an HTTP status
// and stable error code.
func writeEngineError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, ErrSessionNotFound):
		status, code = http.StatusNotFound, "GAME_NOT_FOUND"
	case errors.Is(err, engine.ErrNotInGame):
		status, code = http.StatusNotFound, "NOT_IN_GAME"
	case errors.Is(err, engine.ErrUnknownColor):
		status, code = http.StatusBadRequest, "UNKNOWN_COLOR"
	case errors.Is(err, engine.ErrInvalidPiece):
		status, code = http.StatusBadRequest, "INVALID_PIECE"
	case errors.Is(err, positionid.ErrInvalidID):
		status, code = http.StatusBadRequest, "INVALID_POSITION"
	case errors.Is(err, engine.ErrDuplicateColor):
		status, code = http.StatusConflict, "DUPLICATE_COLOR"
	case errors.Is(err, engine.ErrGameFull):
		status, code = http.StatusConflict, "GAME_FULL"
	case errors.Is(err, engine.ErrGameInProgress):
		status, code = http.StatusConflict, "GAME_IN_PROGRESS"
	case errors.Is(err, engine.ErrGameOver):
		status, code = http.StatusConflict, "GAME_OVER"
	case errors.Is(err, engine.ErrNotInProgress):
		status, code = http.StatusConflict, "NOT_IN_PROGRESS"
	case errors.Is(err, engine.ErrOutOfTurn):
		status, code = http.StatusConflict, "OUT_OF_TURN"
	case errors.Is(err, engine.ErrRollPending):
		status, code = http.StatusConflict, "ROLL_PENDING"
	case errors.Is(err, engine.ErrNoRoll):
		status, code = http.StatusConflict, "NO_ROLL"
	case errors.Is(err, engine.ErrNotEnoughPlayers):
		status, code = http.StatusConflict, "NOT_ENOUGH_PLAYERS"
	case errors.Is(err, engine.ErrIllegalMove):
		status, code = http.StatusConflict, "ILLEGAL_MOVE"
	case errors.Is(err, ai.ErrNotAIControlled):
		status, code = http.StatusConflict, "NOT_AI_CONTROLLED"
	}
	writeError(w, status, err.Error(), code)
}

// session resolves the {id} path value to a live session, writing the 404
// itself on a miss.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return nil, false
	}
	return s, true
}

// checkActor verifies that color c may act in g right now. The engine's
// roll operation is current-player-implicit, so the transport enforces the
// caller's identity.
func checkActor(g *engine.Game, c engine.Color) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", engine.ErrUnknownColor, int(c))
	}
	current, ok := g.CurrentPlayer()
	if !ok {
		if g.Phase() == engine.GameOver {
			return engine.ErrGameOver
		}
		return engine.ErrNotInProgress
	}
	if current != c {
		return fmt.Errorf("%w: it is %s's turn", engine.ErrOutOfTurn, current)
	}
	return nil
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Version:  h.version,
		Sessions: h.sessions.Len(),
	}
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateGame handles POST /api/games
func (h *Handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireGame(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseGame()
	}

	var req CreateGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
			return
		}
	}

	var opts []engine.Option
	if req.Seed != 0 {
		opts = append(opts, engine.WithSeed(req.Seed))
	}
	if req.MinPlayers != 0 {
		opts = append(opts, engine.WithMinPlayers(req.MinPlayers))
	}

	var s *Session
	if req.Position != "" {
		snap, err := positionid.Parse(req.Position)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		g, err := engine.FromSnapshot(snap, opts...)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "INVALID_POSITION")
			return
		}
		s = h.sessions.CreateFromGame(g)
	} else {
		s = h.sessions.Create(opts...)
	}

	err := s.Do(func(g *engine.Game, mgr *ai.Manager) error {
		for _, c := range req.Players {
			if err := g.AddPlayer(c); err != nil {
				return err
			}
		}
		for c, d := range req.AI {
			if err := mgr.Configure(c, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.sessions.Delete(s.ID)
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, GameResponse{ID: s.ID, State: s.State()})
}

// GetGame handles GET /api/games/{id}
func (h *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, GameResponse{ID: s.ID, State: s.State()})
}

// DeleteGame handles DELETE /api/games/{id}
func (h *Handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.PathValue("id")); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddPlayer handles POST /api/games/{id}/players
func (h *Handlers) AddPlayer(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req PlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	err := s.Do(func(g *engine.Game, _ *ai.Manager) error {
		return g.AddPlayer(req.Color)
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GameResponse{ID: s.ID, State: s.State()})
}

// RemovePlayer handles DELETE /api/games/{id}/players/{color}
func (h *Handlers) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	color, err := engine.ParseColor(r.PathValue("color"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "UNKNOWN_COLOR")
		return
	}
	err = s.Do(func(g *engine.Game, mgr *ai.Manager) error {
		if err := g.RemovePlayer(color); err != nil {
			return err
		}
		mgr.Release(color)
		return nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GameResponse{ID: s.ID, State: s.State()})
}

// StartGame handles POST /api/games/{id}/start
func (h *Handlers) StartGame(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	err := s.Do(func(g *engine.Game, _ *ai.Manager) error {
		return g.Start()
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GameResponse{ID: s.ID, State: s.State()})
}

// ResetGame handles POST /api/games/{id}/reset
func (h *Handlers) ResetGame(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Do(func(g *engine.Game, _ *ai.Manager) error {
		g.Reset()
		return nil
	})
	writeJSON(w, http.StatusOK, GameResponse{ID: s.ID, State: s.State()})
}

// RollDice handles POST /api/games/{id}/roll
func (h *Handlers) RollDice(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req PlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	var value int
	err := s.Do(func(g *engine.Game, _ *ai.Manager) error {
		if err := checkActor(g, req.Color); err != nil {
			return err
		}
		v, err := g.RollDice()
		value = v
		return err
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RollResponse{
		ID:    s.ID,
		Color: req.Color,
		Value: value,
		State: s.State(),
	})
}

// ValidMoves handles GET /api/games/{id}/moves?color=red
func (h *Handlers) ValidMoves(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	color, err := engine.ParseColor(r.URL.Query().Get("color"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "UNKNOWN_COLOR")
		return
	}
	var moves []engine.Move
	var dice int
	err = s.Do(func(g *engine.Game, _ *ai.Manager) error {
		mv, err := g.ValidMoves(color)
		if err != nil {
			return err
		}
		moves, dice = mv, g.DiceValue()
		return nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if moves == nil {
		moves = []engine.Move{}
	}
	writeJSON(w, http.StatusOK, MovesResponse{Color: color, Dice: dice, Moves: moves})
}

// MovePiece handles POST /api/games/{id}/move
func (h *Handlers) MovePiece(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req MovePieceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	err := s.Do(func(g *engine.Game, _ *ai.Manager) error {
		return g.MovePiece(req.Color, req.PieceID)
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GameResponse{ID: s.ID, State: s.State()})
}

// Position handles GET /api/games/{id}/position
func (h *Handlers) Position(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id, err := positionid.Make(s.State())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PositionResponse{ID: s.ID, Position: id})
}

// ConfigureAI handles POST /api/games/{id}/ai
func (h *Handlers) ConfigureAI(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req ConfigureAIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	err := s.Do(func(_ *engine.Game, mgr *ai.Manager) error {
		return mgr.Configure(req.Color, req.Difficulty)
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	d := req.Difficulty
	writeJSON(w, http.StatusOK, AIStatusResponse{
		Color:        req.Color,
		AIControlled: true,
		Difficulty:   &d,
	})
}

// AIStatus handles GET /api/games/{id}/ai/{color}
func (h *Handlers) AIStatus(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	color, err := engine.ParseColor(r.PathValue("color"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "UNKNOWN_COLOR")
		return
	}
	resp := AIStatusResponse{Color: color}
	s.Do(func(_ *engine.Game, mgr *ai.Manager) error {
		if d, ok := mgr.Difficulty(color); ok {
			resp.AIControlled = true
			resp.Difficulty = &d
		}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

// ReleaseAI handles DELETE /api/games/{id}/ai/{color}
func (h *Handlers) ReleaseAI(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	color, err := engine.ParseColor(r.PathValue("color"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "UNKNOWN_COLOR")
		return
	}
	s.Do(func(_ *engine.Game, mgr *ai.Manager) error {
		mgr.Release(color)
		return nil
	})
	w.WriteHeader(http.StatusNoContent)
}

// StepAI handles POST /api/games/{id}/ai/step
func (h *Handlers) StepAI(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req PlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	err := s.Do(func(_ *engine.Game, mgr *ai.Manager) error {
		return mgr.StepMove(req.Color)
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GameResponse{ID: s.ID, State: s.State()})
}

// Simulate handles POST /api/simulate
func (h *Handlers) Simulate(w http.ResponseWriter, r *http.Request) {
	// Simulations are CPU-intensive; they go through the narrow pool.
	if h.pool != nil {
		if err := h.pool.AcquireSim(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseSim()
	}

	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	var snap *engine.Snapshot
	switch {
	case req.Position != "":
		parsed, err := positionid.Parse(req.Position)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		snap = parsed
	case req.GameID != "":
		s, err := h.sessions.Get(req.GameID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		snap = s.State()
	default:
		writeError(w, http.StatusBadRequest, "game_id or position is required", "MISSING_POSITION")
		return
	}

	result, err := ai.Rollout(snap, ai.RolloutOptions{
		Games:      req.Games,
		Workers:    req.Workers,
		Seed:       req.Seed,
		MaxPlies:   req.MaxPlies,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
