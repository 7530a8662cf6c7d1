package model

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// CastlingRights holds the per-color, per-side castling flags.
type CastlingRights struct {
	WhiteKingside  bool `json:"whiteKingside"`
	WhiteQueenside bool `json:"whiteQueenside"`
	BlackKingside  bool `json:"blackKingside"`
	BlackQueenside bool `json:"blackQueenside"`
}

func (r CastlingRights) Has(c Color, kingside bool) bool {
	switch {
	case c == White && kingside:
		return r.WhiteKingside
	case c == White:
		return r.WhiteQueenside
	case kingside:
		return r.BlackKingside
	default:
		return r.BlackQueenside
	}
}

func (r *CastlingRights) revoke(c Color, kingside bool) {
	switch {
	case c == White && kingside:
		r.WhiteKingside = false
	case c == White:
		r.WhiteQueenside = false
	case kingside:
		r.BlackKingside = false
	default:
		r.BlackQueenside = false
	}
}

func (r *CastlingRights) revokeAll(c Color) {
	r.revoke(c, true)
	r.revoke(c, false)
}

// CheckPath is one attack on a king: the attacking piece's square and the
// squares strictly between it and the king (empty for contact attacks).
type CheckPath struct {
	Attacker Coordinate `json:"attacker"`
	Between  Path       `json:"between"`
}

func (p CheckPath) covers(c Coordinate) bool {
	return p.Attacker == c || p.Between.contains(c)
}

// CheckState records the color whose king is attacked and every attack on it.
type CheckState struct {
	Color Color       `json:"color"`
	Paths []CheckPath `json:"paths"`
}

// Board is the aggregate game state. It is a value: every move produces a new
// Board and leaves the previous one untouched, so a Board must be held by one
// goroutine at a time.
type Board struct {
	grid      [8][8]Cell // [row][col], row 0 is rank 1
	white     []Piece
	black     []Piece
	whiteKing Coordinate
	blackKing Coordinate
	check     *CheckState
	enPassant *Coordinate
	castling  CastlingRights
	turn      Color
	fullmove  int
	lastMove  *Ply
}

var backRow = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StartingBoard returns the standard 32-piece setup with White to move.
func StartingBoard() Board {
	pieces := make([]Piece, 0, 32)
	for _, color := range []Color{White, Black} {
		home := color.homeRow()
		for col, kind := range backRow {
			pieces = append(pieces, Piece{Type: kind, Color: color, Coordinate: Coordinate{file: int8(col), rank: int8(home)}})
		}
		for col := 0; col < 8; col++ {
			pieces = append(pieces, Piece{Type: Pawn, Color: color, Coordinate: Coordinate{file: int8(col), rank: int8(home + color.forward())}})
		}
	}
	rights := CastlingRights{WhiteKingside: true, WhiteQueenside: true, BlackKingside: true, BlackQueenside: true}
	b, err := NewBoard(pieces, Position{Turn: White, Castling: rights, Fullmove: 1})
	if err != nil {
		panic(fmt.Sprintf("starting board: %v", err))
	}
	return b
}

// Position carries the non-placement part of a game state.
type Position struct {
	Turn            Color
	Castling        CastlingRights
	EnPassantTarget *Coordinate
	Fullmove        int
}

// NewBoard builds a board from an arbitrary set of pieces. Each color needs
// exactly one king and no two pieces may share a square. Castling rights whose
// king or rook is not on its home square are dropped. An en passant target
// must be the square skipped by an opposing pawn's double step, and the side
// not to move may not be in check. The check state is computed for the side
// to move.
func NewBoard(pieces []Piece, pos Position) (Board, error) {
	b := Board{
		castling: pos.Castling,
		turn:     pos.Turn,
		fullmove: pos.Fullmove,
	}
	if b.turn != White && b.turn != Black {
		return Board{}, fmt.Errorf("unknown turn %q", pos.Turn)
	}
	if b.fullmove < 1 {
		b.fullmove = 1
	}
	kings := map[Color]int{}
	for _, p := range pieces {
		if !p.Type.valid() || (p.Color != White && p.Color != Black) {
			return Board{}, fmt.Errorf("invalid piece %s %s", p.Color, p.Type)
		}
		if !b.At(p.Coordinate).Empty() {
			return Board{}, fmt.Errorf("two pieces on %s", p.Coordinate)
		}
		if p.Type == Pawn {
			if row, _ := p.Coordinate.Index(); row == 0 || row == 7 {
				return Board{}, fmt.Errorf("pawn on back rank %s", p.Coordinate)
			}
		}
		if p.Type == King {
			kings[p.Color]++
		}
		b.place(p)
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return Board{}, fmt.Errorf("need exactly one king per color, got white=%d black=%d", kings[White], kings[Black])
	}
	for _, color := range []Color{White, Black} {
		for _, kingside := range []bool{true, false} {
			if b.castling.Has(color, kingside) && !b.castlePiecesHome(color, kingside) {
				b.castling.revoke(color, kingside)
			}
		}
	}
	if pos.EnPassantTarget != nil {
		target := *pos.EnPassantTarget
		if err := b.checkEnPassantTarget(target); err != nil {
			return Board{}, err
		}
		b.enPassant = &target
	}
	if paths := b.checkPaths(b.turn.Opponent()); len(paths) > 0 {
		return Board{}, fmt.Errorf("%s is in check with %s to move", b.turn.Opponent(), b.turn)
	}
	b.updateCheckState(b.turn.Opponent())
	return b, nil
}

// At returns the cell at c.
func (b Board) At(c Coordinate) Cell {
	row, col := c.Index()
	return b.grid[row][col]
}

// Pieces returns a copy of the piece list of one color.
func (b Board) Pieces(c Color) []Piece {
	if c == White {
		return slices.Clone(b.white)
	}
	return slices.Clone(b.black)
}

// KingCoordinate returns where the king of c stands.
func (b Board) KingCoordinate(c Color) Coordinate {
	if c == White {
		return b.whiteKing
	}
	return b.blackKing
}

// Turn returns the color to move.
func (b Board) Turn() Color { return b.turn }

func (b Board) Fullmove() int { return b.fullmove }

func (b Board) CastlingRights() CastlingRights { return b.castling }

// EnPassantTarget returns the square skipped by a pawn double step on the
// previous move, if any.
func (b Board) EnPassantTarget() (Coordinate, bool) {
	if b.enPassant == nil {
		return Coordinate{}, false
	}
	return *b.enPassant, true
}

// CheckState returns the recorded check, if any.
func (b Board) CheckState() (CheckState, bool) {
	if b.check == nil {
		return CheckState{}, false
	}
	return *b.check, true
}

// LastMove returns the move that produced this board.
func (b Board) LastMove() (Ply, bool) {
	if b.lastMove == nil {
		return Ply{}, false
	}
	return *b.lastMove, true
}

// clone returns a board sharing nothing mutable with b. Check state, en
// passant target and last move are never mutated once set, so the pointers
// are shared.
func (b Board) clone() Board {
	b.white = slices.Clone(b.white)
	b.black = slices.Clone(b.black)
	return b
}

func (b *Board) list(c Color) *[]Piece {
	if c == White {
		return &b.white
	}
	return &b.black
}

func (b *Board) setKing(c Color, at Coordinate) {
	if c == White {
		b.whiteKing = at
	} else {
		b.blackKing = at
	}
}

// place puts p on its square and in its color list. The square must be empty.
func (b *Board) place(p Piece) {
	row, col := p.Coordinate.Index()
	b.grid[row][col] = occupiedCell(p)
	list := b.list(p.Color)
	*list = append(*list, p)
	if p.Type == King {
		b.setKing(p.Color, p.Coordinate)
	}
}

// remove takes the piece on c off the board and out of its color list.
func (b *Board) remove(c Coordinate) (Piece, bool) {
	p, ok := b.At(c).Occupant()
	if !ok {
		return Piece{}, false
	}
	row, col := c.Index()
	b.grid[row][col] = Cell{}
	list := b.list(p.Color)
	if i := slices.IndexFunc(*list, func(q Piece) bool { return q.Coordinate == c }); i >= 0 {
		*list = slices.Delete(*list, i, i+1)
	}
	return p, true
}

// relocate moves the piece on from to the empty square to, keeping the grid,
// the color list and the king field in step.
func (b *Board) relocate(from, to Coordinate) Piece {
	p, ok := b.At(from).Occupant()
	if !ok {
		panic(fmt.Sprintf("relocate: no piece on %s", from))
	}
	moved := p.moveTo(to)
	fr, fc := from.Index()
	tr, tc := to.Index()
	b.grid[fr][fc] = Cell{}
	b.grid[tr][tc] = occupiedCell(moved)
	list := *b.list(p.Color)
	for i := range list {
		if list[i].Coordinate == from {
			list[i] = moved
			break
		}
	}
	if p.Type == King {
		b.setKing(p.Color, to)
	}
	return moved
}

// promote replaces the pawn on c with a piece of another type.
func (b *Board) promote(c Coordinate, kind PieceType) {
	p, _ := b.At(c).Occupant()
	p.Type = kind
	row, col := c.Index()
	b.grid[row][col] = occupiedCell(p)
	list := *b.list(p.Color)
	for i := range list {
		if list[i].Coordinate == c {
			list[i] = p
			break
		}
	}
}

// castlePiecesHome reports whether king and rook of one castling side stand on
// their original squares.
func (b Board) castlePiecesHome(c Color, kingside bool) bool {
	home := c.homeRow()
	king, ok := b.grid[home][4].Occupant()
	if !ok || king.Type != King || king.Color != c {
		return false
	}
	rook, ok := b.grid[home][rookHomeCol(kingside)].Occupant()
	return ok && rook.Type == Rook && rook.Color == c
}

// validate checks the structural invariants: lists and grid agree, and king
// fields match the kings.
func (b Board) validate() error {
	seen := 0
	for _, color := range []Color{White, Black} {
		kings := 0
		for _, p := range *b.list(color) {
			if p.Color != color {
				return fmt.Errorf("%s piece in %s list", p.Color, color)
			}
			cell, ok := b.At(p.Coordinate).Occupant()
			if !ok || cell != p {
				return fmt.Errorf("%s list entry %s %s not on its square", color, p.Type, p.Coordinate)
			}
			if p.Type == King {
				kings++
				if b.KingCoordinate(color) != p.Coordinate {
					return fmt.Errorf("%s king field %s, king on %s", color, b.KingCoordinate(color), p.Coordinate)
				}
			}
			seen++
		}
		if kings != 1 {
			return fmt.Errorf("%s has %d kings", color, kings)
		}
	}
	occupied := 0
	for row := range b.grid {
		for col := range b.grid[row] {
			if !b.grid[row][col].Empty() {
				occupied++
			}
		}
	}
	if occupied != seen {
		return fmt.Errorf("%d occupied cells, %d listed pieces", occupied, seen)
	}
	return nil
}
