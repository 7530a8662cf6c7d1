package model

import "sort"

// candidates is the resolved destination set of p: its pattern truncated by
// occupancy, plus pawn captures, en passant and castling.
func (b Board) candidates(p Piece) []Coordinate {
	dests := b.reach(p)
	switch p.Type {
	case Pawn:
		if target, ok := b.enPassantDestination(p); ok {
			dests = append(dests, target)
		}
	case King:
		dests = append(dests, b.castleDestinations(p)...)
	}
	return dests
}

// legalDestinations filters candidates that would leave p's own king attacked.
func (b Board) legalDestinations(p Piece) []Coordinate {
	var out []Coordinate
	for _, to := range b.candidates(p) {
		next, _ := b.step(p, to, "")
		if !next.attacks(next.KingCoordinate(p.Color), p.Color) {
			out = append(out, to)
		}
	}
	return out
}

// LegalDestinations returns the squares the piece on from may move to, in
// rank then file order. It answers for either color regardless of turn and
// returns nil for an empty square.
func (b Board) LegalDestinations(from Coordinate) []Coordinate {
	p, ok := b.At(from).Occupant()
	if !ok {
		return nil
	}
	dests := b.legalDestinations(p)
	sort.Slice(dests, func(i, j int) bool {
		if dests[i].rank != dests[j].rank {
			return dests[i].rank < dests[j].rank
		}
		return dests[i].file < dests[j].file
	})
	return dests
}

var promotionTypes = []PieceType{Queen, Rook, Bishop, Knight}

// LegalMoves enumerates every legal move of the side to move. Promotions are
// expanded into one move per promotion piece.
func (b Board) LegalMoves() []Move {
	var moves []Move
	for _, p := range *b.list(b.turn) {
		for _, to := range b.legalDestinations(p) {
			if isPromotion(p, to) {
				for _, kind := range promotionTypes {
					moves = append(moves, Move{From: p.Coordinate, To: to, Promotion: kind})
				}
				continue
			}
			moves = append(moves, Move{From: p.Coordinate, To: to})
		}
	}
	return moves
}

func isPromotion(p Piece, to Coordinate) bool {
	return p.Type == Pawn && int(to.rank) == p.Color.Opponent().homeRow()
}

// ApplyMove validates and commits moving the piece on from to `to`. Pawns
// reaching the last rank become queens. On rejection the returned board is b
// and the error is a *MoveError.
func (b Board) ApplyMove(from, to Coordinate) (Board, Outcome, error) {
	return b.apply(from, to, "")
}

// ApplyPromotion is ApplyMove with an explicit promotion piece.
func (b Board) ApplyPromotion(from, to Coordinate, kind PieceType) (Board, Outcome, error) {
	for _, allowed := range promotionTypes {
		if kind == allowed {
			return b.apply(from, to, kind)
		}
	}
	return b, Normal, rejectMove(from, to, ErrInvalidPromotion)
}

// Play applies m, using its promotion piece when set.
func (b Board) Play(m Move) (Board, Outcome, error) {
	if m.Promotion != "" {
		return b.ApplyPromotion(m.From, m.To, m.Promotion)
	}
	return b.ApplyMove(m.From, m.To)
}

func (b Board) apply(from, to Coordinate, promo PieceType) (Board, Outcome, error) {
	p, ok := b.At(from).Occupant()
	if !ok {
		return b, Normal, rejectMove(from, to, ErrNoPieceAtOrigin)
	}
	if p.Color != b.turn {
		return b, Normal, rejectMove(from, to, ErrNotYourTurn)
	}
	if occupant, ok := b.At(to).Occupant(); ok && occupant.Color == p.Color {
		return b, Normal, rejectMove(from, to, ErrDestinationOccupiedBySameColor)
	}
	if promo != "" && !isPromotion(p, to) {
		return b, Normal, rejectMove(from, to, ErrInvalidPromotion)
	}
	kingside, castling := castleRequest(p, to)
	if err := b.checkGate(p, to, castling); err != nil {
		return b, Normal, rejectMove(from, to, err)
	}
	if castling {
		switch {
		case !b.castleRight(p, kingside):
			return b, Normal, rejectMove(from, to, ErrCastlingRightUnavailable)
		case !b.castlePathClear(p.Color, kingside):
			return b, Normal, rejectMove(from, to, ErrDestinationDoesNotFollowMovementPattern)
		case !b.castleTransitSafe(p, kingside):
			return b, Normal, rejectMove(from, to, ErrMoveWouldCauseSelfCheck)
		}
	} else if !containsCoordinate(b.candidates(p), to) {
		return b, Normal, rejectMove(from, to, ErrDestinationDoesNotFollowMovementPattern)
	}

	next, ply := b.step(p, to, promo)
	if next.attacks(next.KingCoordinate(p.Color), p.Color) {
		if b.IsInCheck(p.Color) {
			return b, Normal, rejectMove(from, to, ErrMoveDoesNotResolveCheck)
		}
		return b, Normal, rejectMove(from, to, ErrMoveWouldCauseSelfCheck)
	}
	next.updateCheckState(p.Color)

	opponent := p.Color.Opponent()
	outcome := Normal
	ply.Notation = ply.notation(b)
	switch {
	case next.IsCheckmate(opponent):
		outcome = Checkmate
		ply.Notation += "#"
	case next.IsInCheck(opponent):
		ply.Notation += "+"
	case next.IsStalemate(opponent):
		outcome = Stalemate
	}
	next.lastMove = &ply
	return next, outcome, nil
}

// checkGate rejects moves that cannot resolve a check recorded against the
// mover: the king may not step onto an attacking line, castling is never
// allowed, and any other piece has to land on every attacking path.
func (b Board) checkGate(p Piece, to Coordinate, castling bool) error {
	state, ok := b.CheckState()
	if !ok || state.Color != p.Color {
		return nil
	}
	if castling {
		return ErrMoveDoesNotResolveCheck
	}
	if p.Type == King {
		for _, path := range state.Paths {
			if path.Between.contains(to) {
				return ErrMoveDoesNotResolveCheck
			}
		}
		return nil
	}
	if !state.resolvedBy(b.landingSquares(p, to)) {
		return ErrMoveDoesNotResolveCheck
	}
	return nil
}

// step produces the board after p moves to `to` without validating the move
// or recomputing the check state.
func (b Board) step(p Piece, to Coordinate, promo PieceType) (Board, Ply) {
	from := p.Coordinate
	next := b.clone()
	ply := Ply{Piece: p, From: from, To: to}

	if captured, ok := next.remove(to); ok {
		ply.CapturedPiece = &captured
	} else if b.isEnPassant(p, to) {
		if captured, ok := next.remove(enPassantVictim(from, to)); ok {
			ply.CapturedPiece = &captured
		}
	}
	if kingside, ok := castleRequest(p, to); ok {
		rookFrom, rookTo := castleRookMove(p.Color, kingside)
		next.relocate(rookFrom, rookTo)
		ply.CastleRookMove = &CastleRookMove{From: rookFrom, To: rookTo}
	}
	next.relocate(from, to)
	if isPromotion(p, to) {
		if promo == "" {
			promo = Queen
		}
		next.promote(to, promo)
		ply.Promotion = promo
	}

	if p.Type == King {
		next.castling.revokeAll(p.Color)
	}
	next.revokeCornerRights(from)
	next.revokeCornerRights(to)

	next.enPassant = nil
	if p.Type == Pawn && abs(int(to.rank)-int(from.rank)) == 2 {
		skipped := Coordinate{file: from.file, rank: (from.rank + to.rank) / 2}
		next.enPassant = &skipped
	}

	next.turn = p.Color.Opponent()
	if p.Color == Black {
		next.fullmove++
	}
	next.check = nil
	next.lastMove = nil
	return next, ply
}

// revokeCornerRights drops the castling right tied to a rook corner once a
// piece leaves or lands on it.
func (b *Board) revokeCornerRights(c Coordinate) {
	for _, color := range []Color{White, Black} {
		if int(c.rank) != color.homeRow() {
			continue
		}
		switch int(c.file) {
		case rookHomeCol(true):
			b.castling.revoke(color, true)
		case rookHomeCol(false):
			b.castling.revoke(color, false)
		}
	}
}

func containsCoordinate(list []Coordinate, c Coordinate) bool {
	for _, sq := range list {
		if sq == c {
			return true
		}
	}
	return false
}
