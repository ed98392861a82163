package service

import (
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (engine.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.ClientState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move ws.MoveRequest) (engine.MoveResult, error) {
	return gs.gameManager.MakeMove(gameID, playerID, move.From, move.To)
}

func (gs *GameService) ResolvePromotion(gameID string, playerID string, req ws.PromotionRequest) (engine.MoveResult, error) {
	return gs.gameManager.ResolvePromotion(gameID, playerID, req.Kind)
}

func (gs *GameService) CancelPromotion(gameID string, playerID string) (engine.MoveResult, error) {
	return gs.gameManager.CancelPromotion(gameID, playerID)
}

func (gs *GameService) LegalDestinations(gameID string, square string) ([]engine.Square, error) {
	from, err := engine.ParseSquare(square)
	if err != nil {
		return nil, err
	}
	return gs.gameManager.LegalDestinations(gameID, from)
}

func (gs *GameService) Notify(gameID string, playerID string, t ws.MessageType, payload interface{}) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Notify(playerID, t, payload)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Subscriber) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Subscriber) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) StartMatchmaking(playerID string, ch chan string) error {
	return gs.gameManager.StartMatchmaking(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
