package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/benbeisheim/chesscore/internal/model"
	"github.com/charmbracelet/log"
)

func newTestGame(t *testing.T, fen string, clock time.Duration) *Game {
	t.Helper()
	board := model.StartingBoard()
	if fen != "" {
		var err error
		if board, err = model.ParseFEN(fen); err != nil {
			t.Fatalf("ParseFEN: %v", err)
		}
	}
	g := NewGameFromBoard("test", board, clock, log.New(io.Discard))
	t.Cleanup(g.Close)
	return g
}

func seatPlayers(t *testing.T, g *Game) {
	t.Helper()
	ctx := context.Background()
	if c, err := g.Join(ctx, "alice"); err != nil || c != model.White {
		t.Fatalf("alice joined as %q, %v", c, err)
	}
	if c, err := g.Join(ctx, "bob"); err != nil || c != model.Black {
		t.Fatalf("bob joined as %q, %v", c, err)
	}
}

func mv(s string) model.Move {
	return model.Move{From: model.MustParseCoordinate(s[:2]), To: model.MustParseCoordinate(s[2:4])}
}

func playMoves(t *testing.T, g *Game, moves ...string) GameState {
	t.Helper()
	var state GameState
	for i, m := range moves {
		player := "alice"
		if i%2 == 1 {
			player = "bob"
		}
		var err error
		if state, err = g.Move(context.Background(), player, mv(m)); err != nil {
			t.Fatalf("%s plays %s: %v", player, m, err)
		}
	}
	return state
}

func recv(t *testing.T, ch <-chan GameState) GameState {
	t.Helper()
	select {
	case state, ok := <-ch:
		if !ok {
			t.Fatalf("subscription closed")
		}
		return state
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for state")
	}
	return GameState{}
}

func TestJoinAssignsColors(t *testing.T) {
	g := newTestGame(t, "", time.Minute)
	ctx := context.Background()
	seatPlayers(t, g)

	if c, err := g.Join(ctx, "alice"); err != nil || c != model.White {
		t.Fatalf("rejoin gave %q, %v", c, err)
	}
	if _, err := g.Join(ctx, "carol"); !errors.Is(err, ErrGameFull) {
		t.Fatalf("third player: %v", err)
	}
	if _, err := g.Join(ctx, ""); !errors.Is(err, ErrNotAPlayer) {
		t.Fatalf("empty player id: %v", err)
	}

	state, err := g.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if state.Status != StatusActive || state.Players.White.ID != "alice" || state.Players.Black.ID != "bob" {
		t.Fatalf("unexpected state: %+v", state.Players)
	}
}

func TestMoveNeedsOpponent(t *testing.T) {
	g := newTestGame(t, "", time.Minute)
	if _, err := g.Join(context.Background(), "alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := g.Move(context.Background(), "alice", mv("e2e4")); !errors.Is(err, ErrWaitingForOpponent) {
		t.Fatalf("got %v", err)
	}
}

func TestMoveOwnership(t *testing.T) {
	g := newTestGame(t, "", time.Minute)
	seatPlayers(t, g)
	ctx := context.Background()

	_, err := g.Move(ctx, "bob", mv("e7e5"))
	var moveErr *model.MoveError
	if !errors.Is(err, model.ErrNotYourTurn) || !errors.As(err, &moveErr) {
		t.Fatalf("black moving first: %v", err)
	}
	if _, err := g.Move(ctx, "carol", mv("e2e4")); !errors.Is(err, ErrNotAPlayer) {
		t.Fatalf("stranger moving: %v", err)
	}

	state, err := g.Move(ctx, "alice", mv("e2e4"))
	if err != nil {
		t.Fatalf("e2e4: %v", err)
	}
	if state.ToMove != model.Black || len(state.MoveHistory) != 1 || state.MoveHistory[0].Notation != "e4" {
		t.Fatalf("unexpected state after e4: to move %s, history %v", state.ToMove, state.MoveHistory)
	}
	if state.Players.White.TimeLeft > time.Minute.Milliseconds() {
		t.Fatalf("white clock grew: %d", state.Players.White.TimeLeft)
	}
}

func TestRejectedMoveKeepsState(t *testing.T) {
	g := newTestGame(t, "", time.Minute)
	seatPlayers(t, g)
	ctx := context.Background()

	if _, err := g.Move(ctx, "alice", mv("e2e5")); !errors.Is(err, model.ErrDestinationDoesNotFollowMovementPattern) {
		t.Fatalf("got %v", err)
	}
	state, _ := g.Snapshot(ctx)
	if state.Board.FEN != model.StartFEN || len(state.MoveHistory) != 0 {
		t.Fatalf("rejected move changed the game: %s", state.Board.FEN)
	}
}

func TestCapturedPieces(t *testing.T) {
	g := newTestGame(t, "", time.Minute)
	seatPlayers(t, g)
	state := playMoves(t, g, "e2e4", "d7d5", "e4d5")
	if len(state.CapturedPieces.Black) != 1 || state.CapturedPieces.Black[0].Type != model.Pawn {
		t.Fatalf("captured = %+v", state.CapturedPieces)
	}
	if len(state.CapturedPieces.White) != 0 {
		t.Fatalf("white lost pieces: %+v", state.CapturedPieces.White)
	}
}

func TestCheckmateEndsGame(t *testing.T) {
	g := newTestGame(t, "", time.Minute)
	seatPlayers(t, g)
	state := playMoves(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
	if state.Status != StatusCheckmate || state.Winner != model.Black || !state.IsCheck {
		t.Fatalf("status %s winner %s check %v", state.Status, state.Winner, state.IsCheck)
	}
	if _, err := g.Move(context.Background(), "alice", mv("e1f2")); !errors.Is(err, ErrGameOver) {
		t.Fatalf("move after mate: %v", err)
	}
}

func TestStalemateEndsGame(t *testing.T) {
	g := newTestGame(t, "7k/8/4Q1K1/8/8/8/8/8 w - - 0 1", time.Minute)
	seatPlayers(t, g)
	state := playMoves(t, g, "e6f7")
	if state.Status != StatusStalemate || state.Winner != "" {
		t.Fatalf("status %s winner %q", state.Status, state.Winner)
	}
}

func TestResign(t *testing.T) {
	g := newTestGame(t, "", time.Minute)
	ctx := context.Background()
	if _, err := g.Join(ctx, "alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := g.Resign(ctx, "alice"); !errors.Is(err, ErrWaitingForOpponent) {
		t.Fatalf("resign before start: %v", err)
	}
	if _, err := g.Join(ctx, "bob"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := g.Resign(ctx, "alice"); err != nil {
		t.Fatalf("resign: %v", err)
	}
	state, _ := g.Snapshot(ctx)
	if state.Status != StatusResigned || state.Winner != model.Black {
		t.Fatalf("status %s winner %s", state.Status, state.Winner)
	}
	if err := g.Resign(ctx, "bob"); !errors.Is(err, ErrGameOver) {
		t.Fatalf("second resignation: %v", err)
	}
}

func TestSubscribe(t *testing.T) {
	g := newTestGame(t, "", time.Minute)
	ctx := context.Background()
	ch, cancel, err := g.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if state := recv(t, ch); state.Status != StatusWaiting {
		t.Fatalf("initial status %s", state.Status)
	}
	seatPlayers(t, g)
	recv(t, ch)
	if state := recv(t, ch); state.Status != StatusActive {
		t.Fatalf("status after both joined: %s", state.Status)
	}
	playMoves(t, g, "e2e4")
	if state := recv(t, ch); len(state.MoveHistory) != 1 {
		t.Fatalf("history %v", state.MoveHistory)
	}

	cancel()
	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("state delivered after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("subscription not closed")
	}
}

func TestSlowSubscriberGetsLatestState(t *testing.T) {
	g := newTestGame(t, "", time.Minute)
	ch, cancel, err := g.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()
	seatPlayers(t, g)
	moves := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for i := 0; i < 3; i++ {
		playMoves(t, g, moves...)
	}

	var last GameState
	for len(ch) > 0 {
		last = <-ch
	}
	if len(last.MoveHistory) != 3*len(moves) {
		t.Fatalf("latest buffered state has %d moves", len(last.MoveHistory))
	}
}

func TestClockForfeit(t *testing.T) {
	g := newTestGame(t, "", 50*time.Millisecond)
	ch, cancel, err := g.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()
	seatPlayers(t, g)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case state := <-ch:
			if state.Status != StatusTimeout {
				continue
			}
			if state.Winner != model.Black || state.Players.White.TimeLeft != 0 {
				t.Fatalf("winner %s, white time %d", state.Winner, state.Players.White.TimeLeft)
			}
			return
		case <-deadline:
			t.Fatalf("white never flagged")
		}
	}
}

func TestClosedGame(t *testing.T) {
	g := NewGame("closed", time.Minute, log.New(io.Discard))
	ch, _, err := g.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	<-ch
	g.Close()

	if _, ok := <-ch; ok {
		t.Fatalf("subscription still open")
	}
	if _, err := g.Snapshot(context.Background()); !errors.Is(err, ErrGameClosed) {
		t.Fatalf("snapshot of closed game: %v", err)
	}
	select {
	case <-g.Done():
	default:
		t.Fatalf("Done not closed")
	}
}

func TestContextCancellation(t *testing.T) {
	g := newTestGame(t, "", time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// a cancelled context may still win the race against an idle mailbox
	if _, err := g.Snapshot(ctx); err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestDrawByAgreement(t *testing.T) {
	g := newTestGame(t, "", time.Minute)
	ctx := context.Background()
	seatPlayers(t, g)

	if err := g.AcceptDraw(ctx, "bob"); !errors.Is(err, ErrNoDrawOffer) {
		t.Fatalf("accept without offer: %v", err)
	}
	if err := g.OfferDraw(ctx, "alice"); err != nil {
		t.Fatalf("offer: %v", err)
	}
	if err := g.AcceptDraw(ctx, "alice"); !errors.Is(err, ErrNoDrawOffer) {
		t.Fatalf("accepting own offer: %v", err)
	}
	state, _ := g.Snapshot(ctx)
	if state.DrawOfferedBy != model.White || state.Status != StatusActive {
		t.Fatalf("offer by %q status %s", state.DrawOfferedBy, state.Status)
	}
	select {
	case <-g.Over():
		t.Fatalf("game over after an offer")
	default:
	}

	if err := g.AcceptDraw(ctx, "bob"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	state, _ = g.Snapshot(ctx)
	if state.Status != StatusDrawn || state.Winner != "" || state.DrawOfferedBy != "" {
		t.Fatalf("status %s winner %q offer %q", state.Status, state.Winner, state.DrawOfferedBy)
	}
	<-g.Over()
	if err := g.OfferDraw(ctx, "alice"); !errors.Is(err, ErrGameOver) {
		t.Fatalf("offer after the end: %v", err)
	}
}

func TestMoveDeclinesDrawOffer(t *testing.T) {
	g := newTestGame(t, "", time.Minute)
	ctx := context.Background()
	seatPlayers(t, g)

	if err := g.OfferDraw(ctx, "alice"); err != nil {
		t.Fatalf("offer: %v", err)
	}
	// the offerer's own move keeps the offer standing
	state := playMoves(t, g, "e2e4")
	if state.DrawOfferedBy != model.White {
		t.Fatalf("offer lost after white moved: %q", state.DrawOfferedBy)
	}
	state, err := g.Move(ctx, "bob", mv("e7e5"))
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if state.DrawOfferedBy != "" {
		t.Fatalf("offer still standing after black replied: %q", state.DrawOfferedBy)
	}
	if err := g.AcceptDraw(ctx, "bob"); !errors.Is(err, ErrNoDrawOffer) {
		t.Fatalf("accepting a declined offer: %v", err)
	}

	if err := g.OfferDraw(ctx, "bob"); err != nil {
		t.Fatalf("offer: %v", err)
	}
	if err := g.OfferDraw(ctx, "alice"); err != nil {
		t.Fatalf("counter offer: %v", err)
	}
	state, _ = g.Snapshot(ctx)
	if state.Status != StatusDrawn {
		t.Fatalf("crossing offers left status %s", state.Status)
	}
}
