package controller

import (
	"errors"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrGameExists),
		errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrPlayerAlreadyQueued),
		errors.Is(err, engine.ErrNoPendingPromotion):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrPlayerNotInGame),
		errors.Is(err, model.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, engine.ErrInvalidPromotionKind),
		errors.Is(err, engine.ErrInvalidSquare):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
