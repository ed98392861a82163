package engine

// Apply commits a decision produced by Evaluate on the same state and returns
// the resulting state. A rejected decision returns state unchanged.
func Apply(state GameState, d Decision) GameState {
	if d.Outcome == Rejected {
		return state
	}
	next := state
	from, to := d.Move.From, d.Move.To

	captured := next.Board.PieceAt(to)
	next.Board.Place(to, d.Piece)
	next.Board.Clear(from)
	if d.CastleRook != nil {
		rook := next.Board.PieceAt(d.CastleRook.From)
		next.Board.Clear(d.CastleRook.From)
		next.Board.Place(d.CastleRook.To, rook)
	}
	if d.EnPassantCapture != nil {
		next.Board.Clear(*d.EnPassantCapture)
	}
	next.Castling = next.Castling.with(d.Piece.Color, d.Rights)

	if d.Outcome == AcceptedWithPromotionPending {
		// the turn stays with the mover until the promotion is resolved
		next.Pending = &PendingPromotion{From: from, To: to, Pawn: d.Piece, Captured: captured}
		return next
	}

	next.LastMove = &LastMove{Piece: d.Piece, From: from, To: to}
	next.ToMove = state.ToMove.Opponent()
	return next
}
