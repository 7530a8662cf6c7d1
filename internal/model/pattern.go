package model

// Path is an ordered run of coordinates radiating from a piece in one direction.
type Path []Coordinate

func (p Path) contains(c Coordinate) bool {
	for _, sq := range p {
		if sq == c {
			return true
		}
	}
	return false
}

type direction struct {
	dRank, dFile int
}

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([]direction{}, rookDirs...), bishopDirs...)
	knightDirs = []direction{{2, 1}, {1, 2}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingDirs   = []direction{{1, -1}, {1, 0}, {1, 1}, {0, -1}, {0, 1}, {-1, -1}, {-1, 1}, {-1, 0}}
)

// Pattern returns the geometric move candidates of a piece standing on its
// coordinate, ignoring every other piece on the board. Pawn diagonal captures
// are not part of the pattern.
func Pattern(p Piece) []Path {
	switch p.Type {
	case Pawn:
		return pawnPattern(p)
	case Rook:
		return rays(p.Coordinate, rookDirs)
	case Bishop:
		return rays(p.Coordinate, bishopDirs)
	case Queen:
		return rays(p.Coordinate, queenDirs)
	case Knight:
		return steps(p.Coordinate, knightDirs)
	case King:
		return steps(p.Coordinate, kingDirs)
	}
	return nil
}

func pawnPattern(p Piece) []Path {
	forward := direction{dRank: p.Color.forward()}
	one, ok := p.Coordinate.offset(forward)
	if !ok {
		return nil
	}
	path := Path{one}
	if row, _ := p.Coordinate.Index(); row == p.Color.homeRow()+p.Color.forward() {
		if two, ok := one.offset(forward); ok {
			path = append(path, two)
		}
	}
	return []Path{path}
}

// rays walks each direction to the edge of the board.
func rays(from Coordinate, dirs []direction) []Path {
	paths := make([]Path, 0, len(dirs))
	for _, dir := range dirs {
		var path Path
		for sq, ok := from.offset(dir); ok; sq, ok = sq.offset(dir) {
			path = append(path, sq)
		}
		if len(path) > 0 {
			paths = append(paths, path)
		}
	}
	return paths
}

// steps yields one single-square path per offset that stays on the board.
func steps(from Coordinate, dirs []direction) []Path {
	paths := make([]Path, 0, len(dirs))
	for _, dir := range dirs {
		if sq, ok := from.offset(dir); ok {
			paths = append(paths, Path{sq})
		}
	}
	return paths
}
