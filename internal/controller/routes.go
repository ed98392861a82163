package controller

import (
	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func RegisterRoutes(app *fiber.App, gc *GameController, wsc *WebSocketController, wsConfig websocket.Config) {
	wsRoutes := app.Group("/ws", middleware.EnsurePlayerID(), middleware.WebSocketUpgrade())
	wsRoutes.Get("/game/:gameId", websocket.New(wsc.HandleConnection, wsConfig))
	wsRoutes.Get("/matchmaking", websocket.New(wsc.HandleMatchmaking, wsConfig))

	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", gc.CreateGame)
	gameRoutes.Post("/matchmaking/join", gc.JoinMatchmaking)
	gameRoutes.Post("/:gameId/join", gc.JoinGame)
	gameRoutes.Get("/:gameId/state", gc.GetGameState)
	gameRoutes.Get("/:gameId/moves/:square", gc.LegalDestinations)
	gameRoutes.Post("/:gameId/move", gc.MakeMove)
	gameRoutes.Post("/:gameId/promotion", gc.ResolvePromotion)
	gameRoutes.Delete("/:gameId/promotion", gc.CancelPromotion)
}
