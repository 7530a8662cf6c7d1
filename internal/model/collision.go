package model

// truncate walks each path in order and stops at the first occupied square.
// That square is kept only when it holds an opposing piece. Pawns never
// capture straight ahead, so their forward path drops the occupied square too.
func (b Board) truncate(p Piece, paths []Path) []Coordinate {
	var out []Coordinate
	for _, path := range paths {
		for _, sq := range path {
			occupant, ok := b.At(sq).Occupant()
			if !ok {
				out = append(out, sq)
				continue
			}
			if occupant.Color != p.Color && p.Type != Pawn {
				out = append(out, sq)
			}
			break
		}
	}
	return out
}

// reach is every square p may move to by its pattern: the truncated pattern
// plus pawn diagonal captures. Castling and en passant are added by
// candidates.
func (b Board) reach(p Piece) []Coordinate {
	dests := b.truncate(p, Pattern(p))
	if p.Type == Pawn {
		dests = append(dests, b.pawnCaptures(p)...)
	}
	return dests
}

// attackSet is every square p could capture on. A pawn covers both
// diagonal-forward squares whatever stands there and never the squares it
// pushes to. Castling and en passant never capture on the square they land
// on, so they are left out, which also keeps king safety checks from
// recursing into castling.
func (b Board) attackSet(p Piece) []Coordinate {
	if p.Type != Pawn {
		return b.truncate(p, Pattern(p))
	}
	var out []Coordinate
	for _, dFile := range []int{-1, 1} {
		if sq, ok := p.Coordinate.offset(direction{dRank: p.Color.forward(), dFile: dFile}); ok {
			out = append(out, sq)
		}
	}
	return out
}

// Attacks reports whether any piece of the opponent of c could capture on
// target.
func (b Board) Attacks(target Coordinate, c Color) bool {
	return b.attacks(target, c)
}

func (b Board) attacks(target Coordinate, c Color) bool {
	for _, p := range *b.list(c.Opponent()) {
		for _, sq := range b.attackSet(p) {
			if sq == target {
				return true
			}
		}
	}
	return false
}
