package model

// Perft counts the leaf nodes of the legal move tree of the given depth.
func Perft(b Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var nodes uint64
	for _, m := range b.LegalMoves() {
		if depth == 1 {
			nodes++
			continue
		}
		nodes += Perft(b.advance(m), depth-1)
	}
	return nodes
}

// Divide returns the perft count below each legal root move.
func Divide(b Board, depth int) map[Move]uint64 {
	out := make(map[Move]uint64)
	if depth <= 0 {
		return out
	}
	for _, m := range b.LegalMoves() {
		out[m] = Perft(b.advance(m), depth-1)
	}
	return out
}

// advance plays a move known to be legal without recomputing check state or
// notation.
func (b Board) advance(m Move) Board {
	p, _ := b.At(m.From).Occupant()
	next, _ := b.step(p, m.To, m.Promotion)
	return next
}
