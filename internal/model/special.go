package model

import "fmt"

func rookHomeCol(kingside bool) int {
	if kingside {
		return 7
	}
	return 0
}

// pawnCaptures returns the diagonal-forward squares holding an opposing piece.
func (b Board) pawnCaptures(p Piece) []Coordinate {
	var out []Coordinate
	for _, dFile := range []int{-1, 1} {
		sq, ok := p.Coordinate.offset(direction{dRank: p.Color.forward(), dFile: dFile})
		if !ok {
			continue
		}
		if occupant, ok := b.At(sq).Occupant(); ok && occupant.Color != p.Color {
			out = append(out, sq)
		}
	}
	return out
}

// enPassantDestination returns the en passant target when p may capture onto
// it: the target is one of p's diagonal-forward squares and is empty.
func (b Board) enPassantDestination(p Piece) (Coordinate, bool) {
	target, ok := b.EnPassantTarget()
	if !ok || p.Type != Pawn || !b.At(target).Empty() {
		return Coordinate{}, false
	}
	victim, ok := b.At(enPassantVictim(p.Coordinate, target)).Occupant()
	if !ok || victim.Type != Pawn || victim.Color == p.Color {
		return Coordinate{}, false
	}
	for _, dFile := range []int{-1, 1} {
		sq, ok := p.Coordinate.offset(direction{dRank: p.Color.forward(), dFile: dFile})
		if ok && sq == target {
			return target, true
		}
	}
	return Coordinate{}, false
}

// checkEnPassantTarget accepts target only when the opponent of the side to
// move could just have double-stepped a pawn across it: the target is on the
// skipped rank and empty, the pawn stands in front of it and the square it
// left is empty.
func (b Board) checkEnPassantTarget(target Coordinate) error {
	pusher := b.turn.Opponent()
	if int(target.rank) != pusher.homeRow()+2*pusher.forward() {
		return fmt.Errorf("en passant target %s is not on the skipped rank", target)
	}
	landed, _ := target.offset(direction{dRank: pusher.forward()})
	origin, _ := target.offset(direction{dRank: -pusher.forward()})
	if !b.At(target).Empty() || !b.At(origin).Empty() {
		return fmt.Errorf("en passant target %s: squares %s and %s must be empty", target, target, origin)
	}
	if p, ok := b.At(landed).Occupant(); !ok || p.Type != Pawn || p.Color != pusher {
		return fmt.Errorf("en passant target %s: no %s pawn on %s", target, pusher, landed)
	}
	return nil
}

// enPassantVictim is the square of the pawn removed by an en passant capture
// landing on to: same rank as the mover, same file as the destination.
func enPassantVictim(from, to Coordinate) Coordinate {
	return Coordinate{file: to.file, rank: from.rank}
}

func (b Board) isEnPassant(p Piece, to Coordinate) bool {
	dest, ok := b.enPassantDestination(p)
	return ok && dest == to
}

// castleRequest reports whether moving p to `to` is a castling attempt: a king
// on its home square hopping two files along its rank.
func castleRequest(p Piece, to Coordinate) (kingside bool, ok bool) {
	home := Coordinate{file: 4, rank: int8(p.Color.homeRow())}
	if p.Type != King || p.Coordinate != home || to.rank != home.rank {
		return false, false
	}
	switch int(to.file) - int(p.Coordinate.file) {
	case 2:
		return true, true
	case -2:
		return false, true
	}
	return false, false
}

// castleRookMove returns the rook's origin and destination for one side.
func castleRookMove(c Color, kingside bool) (from, to Coordinate) {
	row := int8(c.homeRow())
	if kingside {
		return Coordinate{file: 7, rank: row}, Coordinate{file: 5, rank: row}
	}
	return Coordinate{file: 0, rank: row}, Coordinate{file: 3, rank: row}
}

// castleRight checks that king p is on its original square and the side's
// flag is still set.
func (b Board) castleRight(p Piece, kingside bool) bool {
	home := Coordinate{file: 4, rank: int8(p.Color.homeRow())}
	return p.Coordinate == home && b.castling.Has(p.Color, kingside) && b.castlePiecesHome(p.Color, kingside)
}

// castlePathClear checks that the squares between king and rook are empty.
func (b Board) castlePathClear(c Color, kingside bool) bool {
	row := c.homeRow()
	lo, hi := 1, 3
	if kingside {
		lo, hi = 5, 6
	}
	for col := lo; col <= hi; col++ {
		if !b.grid[row][col].Empty() {
			return false
		}
	}
	return true
}

// castleTransitSafe checks that the king is not in check and that neither the
// square it crosses nor its destination is attacked.
func (b Board) castleTransitSafe(p Piece, kingside bool) bool {
	if b.attacks(p.Coordinate, p.Color) {
		return false
	}
	step := direction{dFile: -1}
	if kingside {
		step = direction{dFile: 1}
	}
	sq := p.Coordinate
	for i := 0; i < 2; i++ {
		sq, _ = sq.offset(step)
		probe := b.clone()
		probe.relocate(p.Coordinate, sq)
		if probe.attacks(sq, p.Color) {
			return false
		}
	}
	return true
}

// castleDestinations lists the castling hops currently available to king p.
func (b Board) castleDestinations(p Piece) []Coordinate {
	var out []Coordinate
	for _, kingside := range []bool{true, false} {
		if !b.castleRight(p, kingside) || !b.castlePathClear(p.Color, kingside) || !b.castleTransitSafe(p, kingside) {
			continue
		}
		dFile := -2
		if kingside {
			dFile = 2
		}
		dest, _ := p.Coordinate.offset(direction{dFile: dFile})
		out = append(out, dest)
	}
	return out
}
