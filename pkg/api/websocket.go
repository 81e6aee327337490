package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/yourusername/ludoengine/pkg/ai"
	"github.com/yourusername/ludoengine/pkg/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

// WSMessage is a client command over the WebSocket.
type WSMessage struct {
	Type    string          `json:"type"`    // "state", "roll", "moves", "move", "ai_step", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a server message: either a reply to a command or a pushed
// game event.
type WSResponse struct {
	Type    string      `json:"type"`              // "result", "event", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID (replies only)
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
}

// wsClient is one connected WebSocket client bound to a game session.
type wsClient struct {
	conn    *websocket.Conn
	session *Session
	send    chan WSResponse
	events  <-chan EventEnvelope
	cancel  func()
}

// WebSocket handles /api/games/{id}/ws: commands in, replies and game
// events out.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	events, cancel := s.Subscribe()
	client := &wsClient{
		conn:    conn,
		session: s,
		send:    make(chan WSResponse, 256),
		events:  events,
		cancel:  cancel,
	}
	go client.writePump()
	client.readPump()
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case envelope, ok := <-c.events:
			if !ok {
				// Session was deleted out from under us.
				c.conn.WriteJSON(WSResponse{Type: "error", Error: "session closed"})
				return
			}
			if err := c.conn.WriteJSON(WSResponse{Type: "event", Payload: envelope}); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) readPump() {
	defer func() {
		c.cancel()
		close(c.send)
		c.conn.Close()
	}()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.handleMessage(msg)
	}
}

func (c *wsClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "state":
		c.send <- WSResponse{Type: "result", ID: msg.ID, Payload: GameResponse{ID: c.session.ID, State: c.session.State()}}
	case "roll":
		c.handleRoll(msg)
	case "moves":
		c.handleMoves(msg)
	case "move":
		c.handleMove(msg)
	case "ai_step":
		c.handleAIStep(msg)
	case "ping":
		c.send <- WSResponse{Type: "pong", ID: msg.ID}
	default:
		c.send <- WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type"}
	}
}

func (c *wsClient) fail(msg WSMessage, err error) {
	c.send <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error()}
}

func (c *wsClient) handleRoll(msg WSMessage) {
	var req PlayerRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.send <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	var value int
	err := c.session.Do(func(g *engine.Game, _ *ai.Manager) error {
		if err := checkActor(g, req.Color); err != nil {
			return err
		}
		v, err := g.RollDice()
		value = v
		return err
	})
	if err != nil {
		c.fail(msg, err)
		return
	}
	c.send <- WSResponse{Type: "result", ID: msg.ID, Payload: RollResponse{
		ID:    c.session.ID,
		Color: req.Color,
		Value: value,
		State: c.session.State(),
	}}
}

func (c *wsClient) handleMoves(msg WSMessage) {
	var req PlayerRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.send <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	var moves []engine.Move
	var dice int
	err := c.session.Do(func(g *engine.Game, _ *ai.Manager) error {
		mv, err := g.ValidMoves(req.Color)
		if err != nil {
			return err
		}
		moves, dice = mv, g.DiceValue()
		return nil
	})
	if err != nil {
		c.fail(msg, err)
		return
	}
	if moves == nil {
		moves = []engine.Move{}
	}
	c.send <- WSResponse{Type: "result", ID: msg.ID, Payload: MovesResponse{Color: req.Color, Dice: dice, Moves: moves}}
}

func (c *wsClient) handleMove(msg WSMessage) {
	var req MovePieceRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.send <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	err := c.session.Do(func(g *engine.Game, _ *ai.Manager) error {
		return g.MovePiece(req.Color, req.PieceID)
	})
	if err != nil {
		c.fail(msg, err)
		return
	}
	c.send <- WSResponse{Type: "result", ID: msg.ID, Payload: GameResponse{ID: c.session.ID, State: c.session.State()}}
}

func (c *wsClient) handleAIStep(msg WSMessage) {
	var req PlayerRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.send <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}
	err := c.session.Do(func(_ *engine.Game, mgr *ai.Manager) error {
		return mgr.StepMove(req.Color)
	})
	if err != nil {
		c.fail(msg, err)
		return
	}
	c.send <- WSResponse{Type: "result", ID: msg.ID, Payload: GameResponse{ID: c.session.ID, State: c.session.State()}}
}
