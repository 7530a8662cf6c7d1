package model

import (
	"errors"
	"fmt"
)

// Coordinate construction errors.
var (
	ErrMalformedNotation = errors.New("malformed notation")
	ErrOutOfRange        = errors.New("coordinate out of range")
)

// Move application errors.
var (
	ErrNoPieceAtOrigin                         = errors.New("no piece at origin")
	ErrNotYourTurn                             = errors.New("not your turn")
	ErrDestinationOccupiedBySameColor          = errors.New("destination occupied by same color")
	ErrDestinationDoesNotFollowMovementPattern = errors.New("destination does not follow movement pattern")
	ErrMoveDoesNotResolveCheck                 = errors.New("move does not resolve check")
	ErrMoveWouldCauseSelfCheck                 = errors.New("move would cause self check")
	ErrCastlingRightUnavailable                = errors.New("castling right unavailable")
	ErrInvalidPromotion                        = errors.New("invalid promotion")
)

var ErrInvalidFEN = errors.New("invalid fen")

// MoveError is returned by the move validator when a move is rejected. The board
// the move was submitted against is left untouched.
type MoveError struct {
	From Coordinate
	To   Coordinate
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s%s: %v", e.From, e.To, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

func rejectMove(from, to Coordinate, err error) *MoveError {
	return &MoveError{From: from, To: to, Err: err}
}
