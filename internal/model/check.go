package model

// checkPaths returns every attack on the king of c.
func (b Board) checkPaths(c Color) []CheckPath {
	king := b.KingCoordinate(c)
	var paths []CheckPath
	for _, attacker := range *b.list(c.Opponent()) {
		hit := false
		for _, sq := range b.attackSet(attacker) {
			if sq == king {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		path := CheckPath{Attacker: attacker.Coordinate}
		switch attacker.Type {
		case Rook, Bishop, Queen:
			ar, ac := attacker.Coordinate.Index()
			kr, kc := king.Index()
			step := direction{dRank: sign(kr - ar), dFile: sign(kc - ac)}
			for sq, _ := attacker.Coordinate.offset(step); sq != king; sq, _ = sq.offset(step) {
				path.Between = append(path.Between, sq)
			}
		}
		paths = append(paths, path)
	}
	return paths
}

// updateCheckState recomputes the recorded check after mover has moved. The
// mover's own color is tested first; only one color is ever recorded.
func (b *Board) updateCheckState(mover Color) {
	b.check = nil
	for _, c := range []Color{mover, mover.Opponent()} {
		if paths := b.checkPaths(c); len(paths) > 0 {
			b.check = &CheckState{Color: c, Paths: paths}
			return
		}
	}
}

// resolvedBy reports whether landing on any of squares interrupts every
// recorded attack. Two attackers never share a square, so a double check is
// only resolved by moving the king.
func (s CheckState) resolvedBy(squares []Coordinate) bool {
	for _, path := range s.Paths {
		covered := false
		for _, sq := range squares {
			if path.covers(sq) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

// IsInCheck reports whether c is the color recorded in check.
func (b Board) IsInCheck(c Color) bool {
	return b.check != nil && b.check.Color == c
}

// IsCheckmate reports whether c is in check, its king has no legal square and
// no other piece can land on every attacking path.
func (b Board) IsCheckmate(c Color) bool {
	if !b.IsInCheck(c) {
		return false
	}
	king, _ := b.At(b.KingCoordinate(c)).Occupant()
	if len(b.legalDestinations(king)) > 0 {
		return false
	}
	for _, p := range *b.list(c) {
		if p.Type == King {
			continue
		}
		for _, to := range b.legalDestinations(p) {
			if b.check.resolvedBy(b.landingSquares(p, to)) {
				return false
			}
		}
	}
	return true
}

// IsStalemate reports whether c is not in check and has no legal move.
func (b Board) IsStalemate(c Color) bool {
	if b.IsInCheck(c) {
		return false
	}
	for _, p := range *b.list(c) {
		if len(b.legalDestinations(p)) > 0 {
			return false
		}
	}
	return true
}

// landingSquares are the squares a move interacts with for check purposes:
// the destination, plus the captured pawn's square for en passant.
func (b Board) landingSquares(p Piece, to Coordinate) []Coordinate {
	if b.isEnPassant(p, to) {
		return []Coordinate{to, enPassantVictim(p.Coordinate, to)}
	}
	return []Coordinate{to}
}
