package model

import "testing"

func countSquares(paths []Path) int {
	n := 0
	for _, p := range paths {
		n += len(p)
	}
	return n
}

func TestPatternSizes(t *testing.T) {
	tests := []struct {
		name  string
		piece Piece
		paths int
		total int
	}{
		{"rook d4", Piece{Type: Rook, Color: White, Coordinate: sq("d4")}, 4, 14},
		{"bishop d4", Piece{Type: Bishop, Color: White, Coordinate: sq("d4")}, 4, 13},
		{"queen d4", Piece{Type: Queen, Color: Black, Coordinate: sq("d4")}, 8, 27},
		{"bishop a1", Piece{Type: Bishop, Color: White, Coordinate: sq("a1")}, 1, 7},
		{"knight d4", Piece{Type: Knight, Color: White, Coordinate: sq("d4")}, 8, 8},
		{"knight a1", Piece{Type: Knight, Color: White, Coordinate: sq("a1")}, 2, 2},
		{"king e1", Piece{Type: King, Color: White, Coordinate: sq("e1")}, 5, 5},
		{"king h8", Piece{Type: King, Color: Black, Coordinate: sq("h8")}, 3, 3},
		{"white pawn e2", Piece{Type: Pawn, Color: White, Coordinate: sq("e2")}, 1, 2},
		{"white pawn e3", Piece{Type: Pawn, Color: White, Coordinate: sq("e3")}, 1, 1},
		{"black pawn e7", Piece{Type: Pawn, Color: Black, Coordinate: sq("e7")}, 1, 2},
		{"black pawn e2", Piece{Type: Pawn, Color: Black, Coordinate: sq("e2")}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := Pattern(tt.piece)
			if len(paths) != tt.paths {
				t.Fatalf("got %d paths, want %d", len(paths), tt.paths)
			}
			if got := countSquares(paths); got != tt.total {
				t.Fatalf("got %d squares, want %d", got, tt.total)
			}
		})
	}
}

func TestPawnPatternDirection(t *testing.T) {
	white := Pattern(Piece{Type: Pawn, Color: White, Coordinate: sq("c2")})
	if white[0][0] != sq("c3") || white[0][1] != sq("c4") {
		t.Fatalf("white pawn path = %v", white[0])
	}
	black := Pattern(Piece{Type: Pawn, Color: Black, Coordinate: sq("c7")})
	if black[0][0] != sq("c6") || black[0][1] != sq("c5") {
		t.Fatalf("black pawn path = %v", black[0])
	}
}

func TestRaysAreOrderedFromThePiece(t *testing.T) {
	for _, path := range Pattern(Piece{Type: Rook, Color: White, Coordinate: sq("d4")}) {
		prev := sq("d4")
		for _, c := range path {
			pr, pc := prev.Index()
			cr, cc := c.Index()
			if abs(cr-pr)+abs(cc-pc) != 1 {
				t.Fatalf("path %v jumps from %s to %s", path, prev, c)
			}
			prev = c
		}
	}
}

func TestEmptyBoardDestinations(t *testing.T) {
	tests := []struct {
		fen  string
		from string
		want int
	}{
		{"k7/8/8/8/3R4/8/8/7K w - - 0 1", "d4", 14},
		{"k7/8/8/8/3B4/8/8/7K w - - 0 1", "d4", 13},
	}
	for _, tt := range tests {
		b := mustFEN(t, tt.fen)
		if got := len(b.LegalDestinations(sq(tt.from))); got != tt.want {
			t.Fatalf("%s: got %d destinations, want %d", tt.fen, got, tt.want)
		}
	}
}
