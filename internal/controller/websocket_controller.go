package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/chesscore/internal/middleware"
	"github.com/benbeisheim/chesscore/internal/model"
	"github.com/benbeisheim/chesscore/internal/service"
	"github.com/benbeisheim/chesscore/internal/ws"
	"github.com/charmbracelet/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
	log         *log.Logger
}

func NewWebSocketController(gameService *service.GameService, logger *log.Logger) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		log:         logger,
	}
}

// conn serialises writes; the state pump and the read loop both write.
type conn struct {
	mu sync.Mutex
	c  *websocket.Conn
}

func (c *conn) send(t ws.MessageType, payload any) error {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.WriteJSON(msg)
}

// HandleConnection streams a game's states to the client and applies the
// moves, resignations and draw offers it sends.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.LocalPlayerID).(string)
	logger := wsc.log.With("game", gameID, "player", playerID)
	out := &conn{c: c}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	states, unsubscribe, err := wsc.gameService.Subscribe(ctx, gameID)
	if err != nil {
		logger.Warn("subscribe failed", "err", err)
		_ = out.send(ws.MessageTypeError, ws.ErrorPayload{Message: err.Error()})
		return
	}
	defer unsubscribe()
	logger.Info("websocket connected")

	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		for state := range states {
			if err := out.send(ws.MessageTypeGameState, state); err != nil {
				logger.Debug("write failed", "err", err)
				return
			}
		}
	}()

	for {
		messageType, data, err := c.ReadMessage()
		if err != nil {
			logger.Debug("read ended", "err", err)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = out.send(ws.MessageTypeError, ws.ErrorPayload{Message: "malformed message"})
			continue
		}
		if err := wsc.handleMessage(ctx, gameID, playerID, msg); err != nil {
			logger.Debug("command rejected", "type", msg.Type, "err", err)
			_ = out.send(ws.MessageTypeError, ws.ErrorPayload{Message: err.Error(), Reason: Reason(err)})
		}
	}

	unsubscribe()
	<-pumpDone
	logger.Info("websocket disconnected")
}

func (wsc *WebSocketController) handleMessage(ctx context.Context, gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.Move
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("bad move payload: %w", err)
		}
		_, err := wsc.gameService.HandleMove(ctx, gameID, playerID, move)
		return err
	case ws.MessageTypeResign:
		return wsc.gameService.Resign(ctx, gameID, playerID)
	case ws.MessageTypeDrawOffer:
		return wsc.gameService.OfferDraw(ctx, gameID, playerID)
	case ws.MessageTypeDraw:
		return wsc.gameService.AcceptDraw(ctx, gameID, playerID)
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking waits until the player is matched, sends the match and
// closes. Disconnecting first takes the player out of the queue.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals(middleware.LocalPlayerID).(string)
	logger := wsc.log.With("player", playerID)
	out := &conn{c: c}

	matches := make(chan service.MatchFoundEvent, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, matches)

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event := <-matches:
		if err := out.send(ws.MessageTypeMatchFound, event); err != nil {
			logger.Warn("match notification failed", "game", event.GameID, "err", err)
		}
		_ = c.Close()
		<-gone
	case <-gone:
		wsc.gameService.UnregisterMatchmakingChannel(playerID)
		logger.Debug("left matchmaking before a match")
	}
}
