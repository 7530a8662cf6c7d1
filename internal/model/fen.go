package model

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN of StartingBoard.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fenPieces = map[byte]PieceType{
	'p': Pawn, 'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen, 'k': King,
}

// ParseFEN builds a board from Forsyth-Edwards Notation. The halfmove clock
// is accepted but not tracked; the move counters may be omitted.
func ParseFEN(fen string) (Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return Board{}, fmt.Errorf("%w: want 4 to 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return Board{}, fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	var pieces []Piece
	for i, rank := range ranks {
		row, col := 7-i, 0
		for j := 0; j < len(rank); j++ {
			ch := rank[j]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			kind, ok := fenPieces[ch|0x20]
			if !ok {
				return Board{}, fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, ch)
			}
			if col > 7 {
				return Board{}, fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, row+1)
			}
			color := Black
			if ch < 'a' {
				color = White
			}
			pieces = append(pieces, Piece{Type: kind, Color: color, Coordinate: Coordinate{file: int8(col), rank: int8(row)}})
			col++
		}
		if col != 8 {
			return Board{}, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, row+1, col)
		}
	}

	var pos Position
	switch fields[1] {
	case "w":
		pos.Turn = White
	case "b":
		pos.Turn = Black
	default:
		return Board{}, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				pos.Castling.WhiteKingside = true
			case 'Q':
				pos.Castling.WhiteQueenside = true
			case 'k':
				pos.Castling.BlackKingside = true
			case 'q':
				pos.Castling.BlackQueenside = true
			default:
				return Board{}, fmt.Errorf("%w: castling %q", ErrInvalidFEN, fields[2])
			}
		}
	}

	if fields[3] != "-" {
		target, err := ParseCoordinate(fields[3])
		if err != nil {
			return Board{}, fmt.Errorf("%w: en passant: %v", ErrInvalidFEN, err)
		}
		pos.EnPassantTarget = &target
	}

	pos.Fullmove = 1
	if len(fields) == 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return Board{}, fmt.Errorf("%w: fullmove %q", ErrInvalidFEN, fields[5])
		}
		pos.Fullmove = n
	}

	b, err := NewBoard(pieces, pos)
	if err != nil {
		return Board{}, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return b, nil
}

// FEN renders b. The halfmove clock is always 0.
func (b Board) FEN() string {
	var sb strings.Builder
	for row := 7; row >= 0; row-- {
		empty := 0
		for col := 0; col < 8; col++ {
			p, ok := b.grid[row][col].Occupant()
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(fenLetter(p))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}

	turn := "w"
	if b.turn == Black {
		turn = "b"
	}
	castling := ""
	for _, r := range []struct {
		set    bool
		letter string
	}{
		{b.castling.WhiteKingside, "K"},
		{b.castling.WhiteQueenside, "Q"},
		{b.castling.BlackKingside, "k"},
		{b.castling.BlackQueenside, "q"},
	} {
		if r.set {
			castling += r.letter
		}
	}
	if castling == "" {
		castling = "-"
	}
	ep := "-"
	if target, ok := b.EnPassantTarget(); ok {
		ep = target.String()
	}
	return fmt.Sprintf("%s %s %s %s 0 %d", sb.String(), turn, castling, ep, b.fullmove)
}

func fenLetter(p Piece) byte {
	for letter, kind := range fenPieces {
		if kind == p.Type {
			if p.Color == White {
				return letter &^ 0x20
			}
			return letter
		}
	}
	return '?'
}
