package model

import "fmt"

// Outcome tags a committed move.
type Outcome string

const (
	Normal    Outcome = "normal"
	Checkmate Outcome = "checkmate"
	Stalemate Outcome = "stalemate"
)

// Move is a from/to pair, with the promotion piece for pawns reaching the
// last rank.
type Move struct {
	From      Coordinate `json:"from"`
	To        Coordinate `json:"to"`
	Promotion PieceType  `json:"promotion,omitempty"`
}

// String renders the move in coordinate form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != "" {
		s += promotionLetter(m.Promotion)
	}
	return s
}

func promotionLetter(p PieceType) string {
	switch p {
	case Queen:
		return "q"
	case Rook:
		return "r"
	case Bishop:
		return "b"
	case Knight:
		return "n"
	}
	return ""
}

type CastleRookMove struct {
	From Coordinate `json:"from"`
	To   Coordinate `json:"to"`
}

// Ply describes the move that produced a board.
type Ply struct {
	Piece          Piece           `json:"piece"`
	From           Coordinate      `json:"from"`
	To             Coordinate      `json:"to"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      PieceType       `json:"promotion,omitempty"`
	Notation       string          `json:"notation"`
}

// notation builds short algebraic notation for a ply played on before. The
// check suffix is added once the resulting board is known.
func (p Ply) notation(before Board) string {
	if p.CastleRookMove != nil {
		if p.To.file == 6 {
			return "O-O"
		}
		return "O-O-O"
	}
	capture := ""
	if p.CapturedPiece != nil {
		capture = "x"
	}
	if p.Piece.Type == Pawn {
		prefix := ""
		if capture != "" {
			prefix = string(p.From.File())
		}
		promo := ""
		if p.Promotion != "" {
			promo = "=" + p.Promotion.notation()
		}
		return fmt.Sprintf("%s%s%s%s", prefix, capture, p.To, promo)
	}
	return fmt.Sprintf("%s%s%s%s", p.Piece.Type.notation(), before.disambiguation(p), capture, p.To)
}

// disambiguation returns the file, rank or square needed to tell p's piece
// apart from another piece of the same type that can reach the same square.
func (b Board) disambiguation(p Ply) string {
	var sameFile, sameRank, rivals bool
	for _, other := range *b.list(p.Piece.Color) {
		if other.Type != p.Piece.Type || other.Coordinate == p.From {
			continue
		}
		for _, to := range b.legalDestinations(other) {
			if to != p.To {
				continue
			}
			rivals = true
			sameFile = sameFile || other.Coordinate.file == p.From.file
			sameRank = sameRank || other.Coordinate.rank == p.From.rank
		}
	}
	switch {
	case !rivals:
		return ""
	case !sameFile:
		return string(p.From.File())
	case !sameRank:
		return fmt.Sprint(p.From.Rank())
	}
	return p.From.String()
}
