package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chesscore/internal/model"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// MatchFoundEvent tells a queued player which game and color they were given.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  model.Color `json:"color"`
}

// ManagerConfig tunes a GameManager. FinishedRetention is how long a finished
// game stays readable before it is closed and removed; PendingMatchTTL is how
// long a match event waits for its player to register a channel. Zero values
// take defaults.
type ManagerConfig struct {
	ClockTime         time.Duration
	MatchInterval     time.Duration
	FinishedRetention time.Duration
	PendingMatchTTL   time.Duration
	Logger            *log.Logger
}

type pendingMatch struct {
	event MatchFoundEvent
	at    time.Time
}

// GameManager is the registry of running games and the matchmaking queue.
type GameManager struct {
	games            map[string]*Game
	queue            *Queue
	matchingChannels map[string]chan<- MatchFoundEvent
	pendingMatches   map[string]pendingMatch
	finishedAt       map[string]time.Time
	clockTime        time.Duration
	retention        time.Duration
	pendingTTL       time.Duration
	log              *log.Logger
	mu               sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
	stopped          chan struct{}
}

func NewGameManager(cfg ManagerConfig) *GameManager {
	if cfg.ClockTime <= 0 {
		cfg.ClockTime = 10 * time.Minute
	}
	if cfg.MatchInterval <= 0 {
		cfg.MatchInterval = time.Second
	}
	if cfg.FinishedRetention <= 0 {
		cfg.FinishedRetention = 5 * time.Minute
	}
	if cfg.PendingMatchTTL <= 0 {
		cfg.PendingMatchTTL = 2 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	gm := &GameManager{
		games:            make(map[string]*Game),
		queue:            NewQueue(),
		matchingChannels: make(map[string]chan<- MatchFoundEvent),
		pendingMatches:   make(map[string]pendingMatch),
		finishedAt:       make(map[string]time.Time),
		clockTime:        cfg.ClockTime,
		retention:        cfg.FinishedRetention,
		pendingTTL:       cfg.PendingMatchTTL,
		log:              cfg.Logger,
		ctx:              ctx,
		cancel:           cancel,
		stopped:          make(chan struct{}),
	}

	go gm.processMatchmaking(cfg.MatchInterval)

	return gm
}

func (gm *GameManager) processMatchmaking(interval time.Duration) {
	defer close(gm.stopped)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.ctx.Done():
			return
		case now := <-ticker.C:
			for gm.matchOnce(gm.ctx) {
			}
			gm.reap(now)
		}
	}
}

// matchOnce pairs the two longest-waiting players. It reports whether a pair
// was made.
func (gm *GameManager) matchOnce(ctx context.Context) bool {
	first, second, ok := gm.queue.NextPair()
	if !ok {
		return false
	}
	gameID, game := gm.register(NewGame(uuid.New().String(), gm.clockTime, gm.log))

	for _, p := range []QueuedPlayer{first, second} {
		color, err := game.Join(ctx, p.PlayerID)
		if err != nil {
			gm.log.Error("seating matched player", "game", gameID, "player", p.PlayerID, "err", err)
			continue
		}
		gm.notifyMatch(p.PlayerID, MatchFoundEvent{GameID: gameID, Color: color})
	}
	gm.log.Info("match made", "game", gameID, "white", first.PlayerID, "black", second.PlayerID,
		"waited", time.Since(first.JoinedAt).Round(time.Millisecond))
	return true
}

// notifyMatch delivers the event to the player's waiting channel, or keeps it
// until the player registers one.
func (gm *GameManager) notifyMatch(playerID string, event MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if ch, ok := gm.matchingChannels[playerID]; ok {
		select {
		case ch <- event:
			delete(gm.matchingChannels, playerID)
			gm.log.Debug("sent match found event", "player", playerID, "game", event.GameID)
			return
		default:
			gm.log.Warn("matchmaking channel full", "player", playerID)
		}
	}
	gm.pendingMatches[playerID] = pendingMatch{event: event, at: time.Now()}
}

// reap closes games that finished more than the retention ago and drops
// match events nobody claimed in time. A game counts as finished from the
// first pass that sees its result.
func (gm *GameManager) reap(now time.Time) {
	var expired []*Game

	gm.mu.Lock()
	for id, g := range gm.games {
		select {
		case <-g.Over():
		default:
			continue
		}
		at, seen := gm.finishedAt[id]
		if !seen {
			gm.finishedAt[id] = now
			continue
		}
		if now.Sub(at) >= gm.retention {
			expired = append(expired, g)
			delete(gm.games, id)
			delete(gm.finishedAt, id)
		}
	}
	for playerID, pending := range gm.pendingMatches {
		if now.Sub(pending.at) >= gm.pendingTTL {
			delete(gm.pendingMatches, playerID)
			gm.log.Debug("match event expired", "player", playerID, "game", pending.event.GameID)
		}
	}
	gm.mu.Unlock()

	for _, g := range expired {
		g.Close()
		gm.log.Info("finished game removed", "game", g.ID)
	}
}

// RegisterMatchmakingChannel sets where playerID's match notification goes.
// The channel needs room for one event; it is never closed by the manager.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan<- MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if pending, ok := gm.pendingMatches[playerID]; ok {
		select {
		case ch <- pending.event:
			delete(gm.pendingMatches, playerID)
			return
		default:
		}
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel forgets the player's channel and takes them out
// of the queue if they are still waiting.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	delete(gm.matchingChannels, playerID)
	gm.mu.Unlock()

	if gm.queue.RemovePlayer(playerID) {
		gm.log.Debug("left matchmaking", "player", playerID)
	}
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(playerID); err != nil {
		return err
	}
	gm.log.Info("joined matchmaking", "player", playerID, "queued", gm.queue.Size())
	return nil
}

func (gm *GameManager) register(g *Game) (string, *Game) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.games[g.ID] = g
	return g.ID, g
}

// CreateGame starts a game from the standard position, or from fen when it
// is not empty.
func (gm *GameManager) CreateGame(gameID, fen string) error {
	board := model.StartingBoard()
	if fen != "" {
		var err error
		if board, err = model.ParseFEN(fen); err != nil {
			return err
		}
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return fmt.Errorf("%w: %s", ErrGameExists, gameID)
	}
	gm.games[gameID] = NewGameFromBoard(gameID, board, gm.clockTime, gm.log)
	gm.log.Info("game created", "game", gameID)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return game, nil
}

// RemoveGame stops a game and drops it from the registry.
func (gm *GameManager) RemoveGame(gameID string) error {
	gm.mu.Lock()
	game, exists := gm.games[gameID]
	delete(gm.games, gameID)
	delete(gm.finishedAt, gameID)
	gm.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	game.Close()
	return nil
}

// Close stops matchmaking and every game.
func (gm *GameManager) Close() {
	gm.cancel()
	<-gm.stopped

	gm.mu.Lock()
	games := gm.games
	gm.games = make(map[string]*Game)
	gm.mu.Unlock()

	for _, g := range games {
		g.Close()
	}
}
