package controller

import (
	"errors"

	"github.com/benbeisheim/chesscore/internal/middleware"
	"github.com/benbeisheim/chesscore/internal/model"
	"github.com/benbeisheim/chesscore/internal/service"
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
	log         *log.Logger
}

func NewGameController(gameService *service.GameService, logger *log.Logger) *GameController {
	return &GameController{gameService: gameService, log: logger}
}

type createGameRequest struct {
	FEN string `json:"fen"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return gc.fail(c, fiber.NewError(fiber.StatusBadRequest, err.Error()))
		}
	}

	gameID, err := gc.gameService.CreateGame(req.FEN)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.UserContext(), c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return gc.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.UserContext(), c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) LegalDestinations(c *fiber.Ctx) error {
	square := c.Params("square")
	dests, err := gc.gameService.LegalDestinations(c.UserContext(), c.Params("gameId"), square)
	if err != nil {
		return gc.fail(c, err)
	}
	if dests == nil {
		dests = []model.Coordinate{}
	}
	return c.JSON(fiber.Map{
		"from":         square,
		"destinations": dests,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.Move
	if err := c.BodyParser(&move); err != nil {
		return gc.fail(c, fiber.NewError(fiber.StatusBadRequest, err.Error()))
	}

	gameState, err := gc.gameService.HandleMove(c.UserContext(), c.Params("gameId"), middleware.PlayerID(c), move)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	if err := gc.gameService.Resign(c.UserContext(), c.Params("gameId"), middleware.PlayerID(c)); err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game resigned",
	})
}

func (gc *GameController) OfferDraw(c *fiber.Ctx) error {
	if err := gc.gameService.OfferDraw(c.UserContext(), c.Params("gameId"), middleware.PlayerID(c)); err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Draw offered",
	})
}

func (gc *GameController) AcceptDraw(c *fiber.Ctx) error {
	if err := gc.gameService.AcceptDraw(c.UserContext(), c.Params("gameId"), middleware.PlayerID(c)); err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Draw agreed",
	})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return gc.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		gc.log.Error("request failed", "path", c.Path(), "err", err)
	}
	body := fiber.Map{"error": err.Error()}
	if reason := Reason(err); reason != "" {
		body["reason"] = reason
	}
	return c.Status(status).JSON(body)
}

// StatusFor maps service and rules errors to HTTP status codes.
func StatusFor(err error) int {
	var fe *fiber.Error
	var moveErr *model.MoveError
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNotAPlayer):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrGameFull),
		errors.Is(err, service.ErrGameOver),
		errors.Is(err, service.ErrGameExists),
		errors.Is(err, service.ErrWaitingForOpponent),
		errors.Is(err, service.ErrAlreadyQueued),
		errors.Is(err, service.ErrNoDrawOffer):
		return fiber.StatusConflict
	case errors.As(err, &moveErr):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, model.ErrMalformedNotation),
		errors.Is(err, model.ErrOutOfRange),
		errors.Is(err, model.ErrInvalidFEN):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrGameClosed):
		return fiber.StatusGone
	}
	return fiber.StatusInternalServerError
}

// Reason returns the rule a move broke, or "" for other errors.
func Reason(err error) string {
	var moveErr *model.MoveError
	if errors.As(err, &moveErr) {
		return moveErr.Err.Error()
	}
	return ""
}
