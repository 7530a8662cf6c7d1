package service

import (
	"time"

	"github.com/benbeisheim/chesscore/internal/model"
)

// Player is a seat at a game.
type Player struct {
	ID    string
	Color model.Color
	Clock *Clock
}

func (p *Player) seated() bool { return p.ID != "" }

// ClientPlayer is the wire view of a seat.
type ClientPlayer struct {
	ID       string      `json:"id"`
	Color    model.Color `json:"color"`
	TimeLeft int64       `json:"timeLeft"` // milliseconds
}

func (p *Player) client() ClientPlayer {
	return ClientPlayer{
		ID:       p.ID,
		Color:    p.Color,
		TimeLeft: p.Clock.TimeLeft().Milliseconds(),
	}
}

func newPlayer(c model.Color, initialTime time.Duration) *Player {
	return &Player{Color: c, Clock: NewClock(initialTime)}
}
