package service

import "errors"

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameExists         = errors.New("game already exists")
	ErrGameFull           = errors.New("game is full")
	ErrGameOver           = errors.New("game is over")
	ErrWaitingForOpponent = errors.New("waiting for opponent")
	ErrNotAPlayer         = errors.New("not a player in this game")
	ErrAlreadyQueued      = errors.New("player already in queue")
	ErrGameClosed         = errors.New("game closed")
	ErrNoDrawOffer        = errors.New("no draw offer to accept")
)
