package service

import (
	"context"
	"sync"
	"time"

	"github.com/benbeisheim/chesscore/internal/model"
	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"
)

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusCheckmate Status = "checkmate"
	StatusStalemate Status = "stalemate"
	StatusResigned  Status = "resigned"
	StatusTimeout   Status = "timeout"
	StatusDrawn     Status = "drawAgreed"
)

// Over reports whether the game has finished.
func (s Status) Over() bool {
	return s != StatusWaiting && s != StatusActive
}

// CapturedPieces lists the pieces each color has lost.
type CapturedPieces struct {
	White []model.Piece `json:"white"`
	Black []model.Piece `json:"black"`
}

func (c *CapturedPieces) add(p model.Piece) {
	if p.Color == model.White {
		c.White = append(c.White, p)
	} else {
		c.Black = append(c.Black, p)
	}
}

// GameState is the snapshot sent to clients after every change.
type GameState struct {
	ID             string           `json:"id"`
	Board          model.BoardState `json:"boardState"`
	ToMove         model.Color      `json:"toMove"`
	MoveHistory    []model.Ply      `json:"moveHistory"`
	CapturedPieces CapturedPieces   `json:"capturedPieces"`
	IsCheck        bool             `json:"isCheck"`
	DrawOfferedBy  model.Color      `json:"drawOfferedBy,omitempty"`
	Status         Status           `json:"status"`
	Winner         model.Color      `json:"winner,omitempty"`
	Players        struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

const subscriberBuffer = 8

// Game owns one board. Every command runs on the game's own goroutine, one
// at a time, so the board is never shared.
type Game struct {
	ID      string
	mailbox chan func(*session)
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	over    chan struct{}
}

// session is the state owned by the game goroutine.
type session struct {
	id          string
	board       model.Board
	white       *Player
	black       *Player
	history     []model.Ply
	captured    CapturedPieces
	status      Status
	winner      model.Color
	drawOffer   model.Color
	over        chan struct{}
	subscribers map[int]chan GameState
	nextSub     int
	log         *log.Logger
}

// NewGame starts a game from the standard position.
func NewGame(id string, initialTime time.Duration, logger *log.Logger) *Game {
	return NewGameFromBoard(id, model.StartingBoard(), initialTime, logger)
}

// NewGameFromBoard starts a game from an arbitrary position.
func NewGameFromBoard(id string, board model.Board, initialTime time.Duration, logger *log.Logger) *Game {
	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		ID:      id,
		mailbox: make(chan func(*session)),
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		over:    make(chan struct{}),
	}
	s := &session{
		id:          id,
		board:       board,
		white:       newPlayer(model.White, initialTime),
		black:       newPlayer(model.Black, initialTime),
		history:     make([]model.Ply, 0),
		captured:    CapturedPieces{White: make([]model.Piece, 0), Black: make([]model.Piece, 0)},
		status:      StatusWaiting,
		over:        g.over,
		subscribers: make(map[int]chan GameState),
		log:         logger.With("game", id),
	}
	go g.run(s)
	return g
}

func (g *Game) run(s *session) {
	defer close(g.stopped)

	var timer *time.Timer
	var expired <-chan time.Time
	for {
		select {
		case <-g.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			s.closeSubscribers()
			s.log.Debug("game stopped")
			return
		case fn := <-g.mailbox:
			fn(s)
		case <-expired:
			s.checkFlag()
		}

		if timer != nil {
			timer.Stop()
		}
		timer, expired = nil, nil
		if d, ok := s.deadline(); ok {
			timer = time.NewTimer(d)
			expired = timer.C
		}
	}
}

// do runs fn on the game goroutine and waits for it to finish.
func (g *Game) do(ctx context.Context, fn func(*session)) error {
	done := make(chan struct{})
	select {
	case g.mailbox <- func(s *session) {
		defer close(done)
		fn(s)
	}:
	case <-g.ctx.Done():
		return ErrGameClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Join seats a player. The first player takes White, the second Black; a
// player who is already seated gets their color back.
func (g *Game) Join(ctx context.Context, playerID string) (model.Color, error) {
	var color model.Color
	var err error
	if doErr := g.do(ctx, func(s *session) { color, err = s.join(playerID) }); doErr != nil {
		return "", doErr
	}
	return color, err
}

// Move plays m for playerID and returns the resulting state.
func (g *Game) Move(ctx context.Context, playerID string, m model.Move) (GameState, error) {
	var state GameState
	var err error
	doErr := g.do(ctx, func(s *session) {
		if err = s.move(playerID, m); err == nil {
			state = s.snapshot()
		}
	})
	if doErr != nil {
		return GameState{}, doErr
	}
	return state, err
}

func (g *Game) Resign(ctx context.Context, playerID string) error {
	var err error
	if doErr := g.do(ctx, func(s *session) { err = s.resign(playerID) }); doErr != nil {
		return doErr
	}
	return err
}

// OfferDraw records a draw offer from playerID. An offer made while the
// opponent's offer stands is an acceptance.
func (g *Game) OfferDraw(ctx context.Context, playerID string) error {
	var err error
	if doErr := g.do(ctx, func(s *session) { err = s.offerDraw(playerID) }); doErr != nil {
		return doErr
	}
	return err
}

// AcceptDraw ends the game drawn if the opponent of playerID has an offer
// standing.
func (g *Game) AcceptDraw(ctx context.Context, playerID string) error {
	var err error
	if doErr := g.do(ctx, func(s *session) { err = s.acceptDraw(playerID) }); doErr != nil {
		return doErr
	}
	return err
}

func (g *Game) Snapshot(ctx context.Context) (GameState, error) {
	var state GameState
	err := g.do(ctx, func(s *session) { state = s.snapshot() })
	return state, err
}

// LegalDestinations answers for the piece on from, whichever side it belongs to.
func (g *Game) LegalDestinations(ctx context.Context, from model.Coordinate) ([]model.Coordinate, error) {
	var dests []model.Coordinate
	err := g.do(ctx, func(s *session) { dests = s.board.LegalDestinations(from) })
	return dests, err
}

// Subscribe returns a channel that receives the current state immediately and
// every state after it. A slow subscriber loses stale states, never the
// latest one. The channel is closed by the returned cancel func or when the
// game stops.
func (g *Game) Subscribe(ctx context.Context) (<-chan GameState, func(), error) {
	ch := make(chan GameState, subscriberBuffer)
	var id int
	err := g.do(ctx, func(s *session) {
		id = s.nextSub
		s.nextSub++
		s.subscribers[id] = ch
		ch <- s.snapshot()
	})
	if err != nil {
		return nil, nil, err
	}
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			_ = g.do(context.Background(), func(s *session) { s.unsubscribe(id) })
		})
	}
	return ch, cancel, nil
}

// Close stops the game goroutine and closes every subscription.
func (g *Game) Close() {
	g.cancel()
	<-g.stopped
}

// Done is closed once the game goroutine has exited.
func (g *Game) Done() <-chan struct{} { return g.stopped }

// Over is closed once the game has a result.
func (g *Game) Over() <-chan struct{} { return g.over }

func (s *session) player(playerID string) *Player {
	switch {
	case playerID == "":
		return nil
	case s.white.ID == playerID:
		return s.white
	case s.black.ID == playerID:
		return s.black
	}
	return nil
}

func (s *session) seat(c model.Color) *Player {
	if c == model.White {
		return s.white
	}
	return s.black
}

func (s *session) join(playerID string) (model.Color, error) {
	if playerID == "" {
		return "", ErrNotAPlayer
	}
	if p := s.player(playerID); p != nil {
		return p.Color, nil
	}
	var seat *Player
	switch {
	case !s.white.seated():
		seat = s.white
	case !s.black.seated():
		seat = s.black
	default:
		return "", ErrGameFull
	}
	seat.ID = playerID
	s.log.Info("player joined", "player", playerID, "color", seat.Color)

	if s.white.seated() && s.black.seated() && s.status == StatusWaiting {
		s.status = StatusActive
		s.seat(s.board.Turn()).Clock.Start()
		s.log.Info("game started", "fen", s.board.FEN())
	}
	s.broadcast()
	return seat.Color, nil
}

// activePlayer returns the seat of playerID in a game that is under way.
func (s *session) activePlayer(playerID string) (*Player, error) {
	p := s.player(playerID)
	switch {
	case p == nil:
		return nil, ErrNotAPlayer
	case s.status == StatusWaiting:
		return nil, ErrWaitingForOpponent
	case s.status.Over():
		return nil, ErrGameOver
	}
	return p, nil
}

func (s *session) move(playerID string, m model.Move) error {
	p, err := s.activePlayer(playerID)
	if err != nil {
		return err
	}
	if p.Color != s.board.Turn() {
		return &model.MoveError{From: m.From, To: m.To, Err: model.ErrNotYourTurn}
	}
	// the flag may fall between timer ticks
	if p.Clock.TimeLeft() == 0 {
		s.finish(StatusTimeout, p.Color.Opponent())
		s.broadcast()
		return ErrGameOver
	}

	next, outcome, err := s.board.Play(m)
	if err != nil {
		s.log.Debug("move rejected", "player", playerID, "move", m, "err", err)
		return err
	}
	ply, _ := next.LastMove()
	s.board = next
	s.history = append(s.history, ply)
	if ply.CapturedPiece != nil {
		s.captured.add(*ply.CapturedPiece)
	}
	p.Clock.Stop()
	// moving declines the opponent's offer
	if s.drawOffer == p.Color.Opponent() {
		s.drawOffer = ""
	}
	s.log.Info("move", "player", playerID, "notation", ply.Notation, "outcome", outcome)

	switch outcome {
	case model.Checkmate:
		s.finish(StatusCheckmate, p.Color)
	case model.Stalemate:
		s.finish(StatusStalemate, "")
	default:
		s.seat(next.Turn()).Clock.Start()
	}
	s.broadcast()
	return nil
}

func (s *session) resign(playerID string) error {
	p, err := s.activePlayer(playerID)
	if err != nil {
		return err
	}
	s.finish(StatusResigned, p.Color.Opponent())
	s.broadcast()
	return nil
}

func (s *session) offerDraw(playerID string) error {
	p, err := s.activePlayer(playerID)
	if err != nil {
		return err
	}
	if s.drawOffer == p.Color.Opponent() {
		s.finish(StatusDrawn, "")
	} else {
		s.drawOffer = p.Color
		s.log.Info("draw offered", "player", playerID, "color", p.Color)
	}
	s.broadcast()
	return nil
}

func (s *session) acceptDraw(playerID string) error {
	p, err := s.activePlayer(playerID)
	if err != nil {
		return err
	}
	if s.drawOffer != p.Color.Opponent() {
		return ErrNoDrawOffer
	}
	s.finish(StatusDrawn, "")
	s.broadcast()
	return nil
}

// deadline is how long the side to move has before its flag falls.
func (s *session) deadline() (time.Duration, bool) {
	if s.status != StatusActive {
		return 0, false
	}
	return s.seat(s.board.Turn()).Clock.TimeLeft(), true
}

func (s *session) checkFlag() {
	if s.status != StatusActive {
		return
	}
	mover := s.seat(s.board.Turn())
	if mover.Clock.TimeLeft() > 0 {
		return
	}
	s.finish(StatusTimeout, mover.Color.Opponent())
	s.broadcast()
}

func (s *session) finish(status Status, winner model.Color) {
	s.white.Clock.Stop()
	s.black.Clock.Stop()
	s.status = status
	s.winner = winner
	s.drawOffer = ""
	close(s.over)
	s.log.Info("game over", "status", status, "winner", winner)
}

func (s *session) snapshot() GameState {
	state := GameState{
		ID:          s.id,
		Board:       s.board.State(),
		ToMove:      s.board.Turn(),
		MoveHistory: slices.Clone(s.history),
		CapturedPieces: CapturedPieces{
			White: slices.Clone(s.captured.White),
			Black: slices.Clone(s.captured.Black),
		},
		IsCheck:       s.board.IsInCheck(s.board.Turn()),
		DrawOfferedBy: s.drawOffer,
		Status:        s.status,
		Winner:        s.winner,
	}
	state.Players.White = s.white.client()
	state.Players.Black = s.black.client()
	return state
}

// broadcast hands the current state to every subscriber without blocking.
// A full channel drops its oldest state to make room.
func (s *session) broadcast() {
	if len(s.subscribers) == 0 {
		return
	}
	state := s.snapshot()
	for id, ch := range s.subscribers {
		select {
		case ch <- state:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
			s.log.Warn("dropped state for subscriber", "subscriber", id)
		}
	}
}

func (s *session) unsubscribe(id int) {
	if ch, ok := s.subscribers[id]; ok {
		delete(s.subscribers, id)
		close(ch)
	}
}

func (s *session) closeSubscribers() {
	for id := range s.subscribers {
		s.unsubscribe(id)
	}
}
