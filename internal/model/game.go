package model

import (
	"errors"
	"sync"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

var (
	ErrGameFull        = errors.New("game is full")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrPlayerNotInGame = errors.New("player not in game")
	ErrNotAuthorized   = errors.New("not authorized to join this game")
)

// Subscriber receives pushed messages. *websocket.Conn satisfies it.
type Subscriber interface {
	WriteJSON(v interface{}) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Subscriber // playerID -> connection
	mu          sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Subscriber),
	}
}

// Game is one hosted game: the rules engine, the seated players and the
// connections watching it. All engine access goes through mu.
type Game struct {
	ID          string
	mu          sync.Mutex
	engine      *engine.Engine
	players     Players
	connections *GameConnections
}

// ClientState is the snapshot sent to clients for rendering.
type ClientState struct {
	ID                  string                   `json:"id"`
	Board               engine.Board             `json:"boardState"`
	ToMove              engine.Color             `json:"toMove"`
	Castling            engine.Castling          `json:"castling"`
	LastMove            *engine.LastMove         `json:"lastMove"`
	PendingPromotion    *engine.PendingPromotion `json:"pendingPromotion"`
	PromotionCandidates []engine.PieceType       `json:"promotionCandidates"`
	Players             Players                  `json:"players"`
}

func NewGame(id string) *Game {
	return NewGameFromState(id, engine.NewGameState())
}

// NewGameFromState hosts a game starting from an arbitrary position.
func NewGameFromState(id string, state engine.GameState) *Game {
	return &Game{
		ID:          id,
		engine:      engine.NewEngineFromState(state),
		connections: NewGameConnections(),
	}
}

// AddPlayer seats the first player as white and the second as black. A
// player already seated gets their existing color back.
func (g *Game) AddPlayer(playerID string) (engine.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.players.colorOf(playerID); ok {
		return color, nil
	}
	if g.players.White.ID == "" {
		g.players.White = ClientPlayer{ID: playerID, Color: engine.White}
		log.Infof("game %s: %s seated as white", g.ID, playerID)
		return engine.White, nil
	}
	if g.players.Black.ID == "" {
		g.players.Black = ClientPlayer{ID: playerID, Color: engine.Black}
		log.Infof("game %s: %s seated as black", g.ID, playerID)
		return engine.Black, nil
	}
	return "", ErrGameFull
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.players.colorOf(playerID)
	return ok
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.players.hasOpenSeat()
}

func (g *Game) GetState() ClientState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() ClientState {
	state := g.engine.State()
	cs := ClientState{
		ID:               g.ID,
		Board:            state.Board,
		ToMove:           state.ToMove,
		Castling:         state.Castling,
		LastMove:         state.LastMove,
		PendingPromotion: state.Pending,
		Players:          g.players,
	}
	if state.Pending != nil {
		cs.PromotionCandidates = engine.PromotionCandidates()
	}
	return cs
}

// authorize checks that playerID holds the seat of the side to move.
// Callers hold g.mu.
func (g *Game) authorize(playerID string) error {
	color, ok := g.players.colorOf(playerID)
	if !ok {
		return ErrPlayerNotInGame
	}
	if color != g.engine.State().ToMove {
		return ErrNotYourTurn
	}
	return nil
}

// AttemptMove asks the engine to move for playerID. An illegal move is not an
// error; it comes back with engine.StatusRejected and nothing is broadcast.
func (g *Game) AttemptMove(playerID string, from, to engine.Square) (engine.MoveResult, error) {
	g.mu.Lock()
	if err := g.authorize(playerID); err != nil {
		g.mu.Unlock()
		return engine.MoveResult{}, err
	}
	result := g.engine.AttemptMove(from, to)
	g.mu.Unlock()

	log.Debugf("game %s: %s %s%s -> %s", g.ID, playerID, from, to, result.Status)
	if result.Status != engine.StatusRejected {
		g.broadcastState()
	}
	return result, nil
}

func (g *Game) ResolvePromotion(playerID string, kind engine.PieceType) (engine.MoveResult, error) {
	g.mu.Lock()
	if err := g.authorize(playerID); err != nil {
		g.mu.Unlock()
		return engine.MoveResult{}, err
	}
	result, err := g.engine.ResolvePromotion(kind)
	g.mu.Unlock()
	if err != nil {
		return result, err
	}

	log.Debugf("game %s: %s promoted to %s", g.ID, playerID, kind)
	g.broadcastState()
	return result, nil
}

func (g *Game) CancelPromotion(playerID string) (engine.MoveResult, error) {
	g.mu.Lock()
	if err := g.authorize(playerID); err != nil {
		g.mu.Unlock()
		return engine.MoveResult{}, err
	}
	result, err := g.engine.CancelPromotion()
	g.mu.Unlock()
	if err != nil {
		return result, err
	}

	log.Debugf("game %s: %s cancelled promotion", g.ID, playerID)
	g.broadcastState()
	return result, nil
}

func (g *Game) LegalDestinations(from engine.Square) []engine.Square {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.engine.LegalDestinations(from)
}

// RegisterConnection subscribes conn to state pushes. Seated players may
// always connect; others only while a seat is open. A second connection for
// the same player is closed and the existing one kept.
func (g *Game) RegisterConnection(playerID string, conn Subscriber) error {
	g.mu.Lock()
	isAuthorized := func() bool {
		_, seated := g.players.colorOf(playerID)
		return seated || g.players.hasOpenSeat()
	}()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[playerID]; exists {
		log.Warnf("game %s: rejecting duplicate connection for %s", g.ID, playerID)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	log.Infof("game %s: registered connection for %s", g.ID, playerID)

	// initial push under the same lock as broadcasts, so it cannot overtake a newer state
	msg, err := ws.NewMessage(ws.MessageTypeGameState, g.GetState())
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(msg); err != nil {
		delete(g.connections.connections, playerID)
		return err
	}
	return nil
}

// UnregisterConnection removes conn if it is still the player's current
// connection.
func (g *Game) UnregisterConnection(playerID string, conn Subscriber) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		log.Infof("game %s: unregistered connection for %s", g.ID, playerID)
		delete(g.connections.connections, playerID)
	}
}

// Notify writes one message to a single player's connection. Writes are
// serialized with broadcasts so a connection never sees concurrent writers.
func (g *Game) Notify(playerID string, t ws.MessageType, payload interface{}) error {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		return err
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	conn, ok := g.connections.connections[playerID]
	if !ok {
		return ErrPlayerNotInGame
	}
	if err := conn.WriteJSON(msg); err != nil {
		delete(g.connections.connections, playerID)
		return err
	}
	return nil
}

// broadcastState pushes the current snapshot to every connection, dropping
// connections whose write fails.
func (g *Game) broadcastState() {
	// the snapshot is taken under connections.mu so concurrent broadcasts
	// are delivered in state order
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	msg, err := ws.NewMessage(ws.MessageTypeGameState, g.GetState())
	if err != nil {
		log.Errorf("game %s: failed to marshal state: %v", g.ID, err)
		return
	}

	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("game %s: failed to send state to %s: %v", g.ID, playerID, err)
			delete(g.connections.connections, playerID)
		}
	}
}
