package model

import (
	"encoding/json"
	"fmt"
)

// BoardState is the field-stable interchange form of a Board. Board rows run
// from rank 8 (index 0) down to rank 1, the way the board is drawn.
type BoardState struct {
	Board             [8][8]*Piece   `json:"board"`
	WhitePieces       []Piece        `json:"whitePieces"`
	BlackPieces       []Piece        `json:"blackPieces"`
	WhiteKingPosition Coordinate     `json:"whiteKingPosition"`
	BlackKingPosition Coordinate     `json:"blackKingPosition"`
	Check             *CheckState    `json:"check"`
	EnPassantTarget   *Coordinate    `json:"enPassantTarget"`
	Castling          CastlingRights `json:"castling"`
	ToMove            Color          `json:"toMove"`
	Fullmove          int            `json:"fullmove"`
	LastMove          *Ply           `json:"lastMove"`
	FEN               string         `json:"fen"`
}

// State snapshots b.
func (b Board) State() BoardState {
	s := BoardState{
		WhitePieces:       b.Pieces(White),
		BlackPieces:       b.Pieces(Black),
		WhiteKingPosition: b.whiteKing,
		BlackKingPosition: b.blackKing,
		Castling:          b.castling,
		ToMove:            b.turn,
		Fullmove:          b.fullmove,
		FEN:               b.FEN(),
	}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p, ok := b.grid[row][col].Occupant(); ok {
				s.Board[7-row][col] = &p
			}
		}
	}
	if check, ok := b.CheckState(); ok {
		s.Check = &check
	}
	if target, ok := b.EnPassantTarget(); ok {
		s.EnPassantTarget = &target
	}
	if ply, ok := b.LastMove(); ok {
		s.LastMove = &ply
	}
	return s
}

func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.State())
}

// UnmarshalJSON rebuilds the board from the piece lists; the board rows and
// check state in the document are derived data and are recomputed.
func (b *Board) UnmarshalJSON(data []byte) error {
	var s BoardState
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	pieces := make([]Piece, 0, len(s.WhitePieces)+len(s.BlackPieces))
	for _, list := range []struct {
		color  Color
		pieces []Piece
	}{{White, s.WhitePieces}, {Black, s.BlackPieces}} {
		for _, p := range list.pieces {
			if p.Color != list.color {
				return fmt.Errorf("%s piece on %s listed as %s", p.Color, p.Coordinate, list.color)
			}
			pieces = append(pieces, p)
		}
	}
	restored, err := NewBoard(pieces, Position{
		Turn:            s.ToMove,
		Castling:        s.Castling,
		EnPassantTarget: s.EnPassantTarget,
		Fullmove:        s.Fullmove,
	})
	if err != nil {
		return err
	}
	if restored.whiteKing != s.WhiteKingPosition || restored.blackKing != s.BlackKingPosition {
		return fmt.Errorf("king positions %s/%s do not match pieces", s.WhiteKingPosition, s.BlackKingPosition)
	}
	restored.lastMove = s.LastMove
	*b = restored
	return nil
}
