package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	mu               sync.RWMutex
}

func NewGameManager() *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
	}
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("matchmaking stopped")
			return
		case <-ticker.C:
			gm.processMatchmaking()
		}
	}
}

// processMatchmaking turns every queued pair into a new game and tells both
// players over their matchmaking channels.
func (gm *GameManager) processMatchmaking() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.GetNextPair(gm.listening)
		if !ok {
			return
		}

		gameID := uuid.New().String()
		game := model.NewGame(gameID)
		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			log.Errorf("adding %s to game %s: %v", player1.ID, gameID, err)
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			log.Errorf("adding %s to game %s: %v", player2.ID, gameID, err)
			continue
		}
		gm.games[gameID] = game
		log.Infof("matched %s (%s) and %s (%s) in game %s", player1.ID, p1Color, player2.ID, p2Color, gameID)

		gm.sendMatchFound(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
		gm.sendMatchFound(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	}
}

// sendMatchFound delivers the event and closes the player's channel. Callers
// hold gm.mu.
func (gm *GameManager) sendMatchFound(playerID string, event model.MatchFoundEvent) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		log.Warnf("no matchmaking channel for %s", playerID)
		return false
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Errorf("marshal match event for %s: %v", playerID, err)
		return false
	}

	delete(gm.matchingChannels, playerID)
	defer close(ch)
	select {
	case ch <- string(payload):
		return true
	default:
		log.Warnf("failed to send match event to %s", playerID)
		return false
	}
}

// listening reports whether the player has a channel to receive a match on.
// Callers hold gm.mu.
func (gm *GameManager) listening(playerID string) bool {
	_, ok := gm.matchingChannels[playerID]
	return ok
}

// StartMatchmaking registers ch as the player's match channel and queues the
// player. A channel registered before is closed. A player already queued
// keeps their place.
func (gm *GameManager) StartMatchmaking(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil && !errors.Is(err, model.ErrPlayerAlreadyQueued) {
		return err
	}
	if existing, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
	return nil
}

// UnregisterMatchmakingChannel forgets the channel without closing it and
// takes the player out of the queue.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, exists := gm.matchingChannels[playerID]; exists && current == ch {
		delete(gm.matchingChannels, playerID)
		gm.queue.RemovePlayer(playerID)
	}
}

// JoinMatchmaking reserves a place in the queue. The player is only paired
// once they listen through StartMatchmaking.
func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}

	gm.games[gameID] = model.NewGame(gameID)
	return nil
}

// HostGame registers a game built elsewhere, for example from a custom
// starting position.
func (gm *GameManager) HostGame(game *model.Game) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[game.ID]; exists {
		return ErrGameExists
	}
	gm.games[game.ID] = game
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (engine.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.ClientState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.ClientState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, from, to engine.Square) (engine.MoveResult, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return engine.MoveResult{}, err
	}
	return game.AttemptMove(playerID, from, to)
}

func (gm *GameManager) ResolvePromotion(gameID string, playerID string, kind engine.PieceType) (engine.MoveResult, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return engine.MoveResult{}, err
	}
	return game.ResolvePromotion(playerID, kind)
}

func (gm *GameManager) CancelPromotion(gameID string, playerID string) (engine.MoveResult, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return engine.MoveResult{}, err
	}
	return game.CancelPromotion(playerID)
}

func (gm *GameManager) LegalDestinations(gameID string, from engine.Square) ([]engine.Square, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalDestinations(from), nil
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Subscriber) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Subscriber) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}
