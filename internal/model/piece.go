package model

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) notation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

func (p PieceType) valid() bool {
	switch p {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the rank direction pawns of this color advance in.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

// homeRow is the zero-based rank of the color's back row.
func (c Color) homeRow() int {
	if c == White {
		return 0
	}
	return 7
}

// Piece identity is positional: a piece is found by its coordinate.
type Piece struct {
	Type       PieceType  `json:"type"`
	Color      Color      `json:"color"`
	Coordinate Coordinate `json:"coordinate"`
}

func (p Piece) moveTo(c Coordinate) Piece {
	p.Coordinate = c
	return p
}

// Cell holds at most one piece.
type Cell struct {
	occupant Piece
	occupied bool
}

func occupiedCell(p Piece) Cell { return Cell{occupant: p, occupied: true} }

func (c Cell) Empty() bool { return !c.occupied }

// Occupant returns the piece in the cell, if any.
func (c Cell) Occupant() (Piece, bool) {
	return c.occupant, c.occupied
}
