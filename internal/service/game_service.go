package service

import (
	"context"
	"fmt"

	"github.com/benbeisheim/chesscore/internal/model"
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

// CreateGame registers a new game under a fresh id. An empty fen means the
// standard starting position.
func (gs *GameService) CreateGame(fen string) (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID, fen); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinGame(ctx context.Context, gameID, playerID string) (model.Color, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.Join(ctx, playerID)
}

func (gs *GameService) GetGameState(ctx context.Context, gameID string) (GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}
	return game.Snapshot(ctx)
}

func (gs *GameService) LegalDestinations(ctx context.Context, gameID, square string) ([]model.Coordinate, error) {
	from, err := model.ParseCoordinate(square)
	if err != nil {
		return nil, err
	}
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalDestinations(ctx, from)
}

func (gs *GameService) HandleMove(ctx context.Context, gameID, playerID string, move model.Move) (GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}
	return game.Move(ctx, playerID, move)
}

func (gs *GameService) Resign(ctx context.Context, gameID, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Resign(ctx, playerID)
}

// Subscribe streams the game's states; see Game.Subscribe.
func (gs *GameService) Subscribe(ctx context.Context, gameID string) (<-chan GameState, func(), error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, nil, err
	}
	return game.Subscribe(ctx)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan<- MatchFoundEvent) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID)
}

func (gs *GameService) OfferDraw(ctx context.Context, gameID, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.OfferDraw(ctx, playerID)
}

func (gs *GameService) AcceptDraw(ctx context.Context, gameID, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.AcceptDraw(ctx, playerID)
}
