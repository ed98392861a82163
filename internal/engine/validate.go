package engine

type Outcome int

const (
	Rejected Outcome = iota
	Accepted
	AcceptedWithPromotionPending
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case AcceptedWithPromotionPending:
		return "acceptedWithPromotionPending"
	}
	return "rejected"
}

type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

type RookRelocation struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// Decision is the result of Evaluate. Besides the outcome it carries every
// board and rights change the move implies, so Apply needs no rule knowledge.
type Decision struct {
	Outcome Outcome
	Move    Move
	Piece   Piece
	// Rights are the mover's castling rights once the move is made.
	Rights           CastlingRights
	CastleRook       *RookRelocation
	EnPassantCapture *Square
}

type pieceRule func(s *GameState, d Decision) Decision

var pieceRules = map[PieceType]pieceRule{
	King:   evaluateKing,
	Queen:  evaluateQueen,
	Rook:   evaluateRook,
	Bishop: evaluateBishop,
	Knight: evaluateKnight,
	Pawn:   evaluatePawn,
}

// Evaluate decides whether move is legal in state. It does not modify state.
// Attacked squares are never considered: kings may move into or stay in check
// and castling ignores attacked squares.
func Evaluate(state GameState, move Move) Decision {
	d := Decision{Outcome: Rejected, Move: move}
	if state.Pending != nil {
		return d
	}
	if !move.From.InBounds() || !move.To.InBounds() || move.From == move.To {
		return d
	}
	piece := state.Board.PieceAt(move.From)
	if piece.IsEmpty() || piece.Color != state.ToMove {
		return d
	}
	if target := state.Board.PieceAt(move.To); !target.IsEmpty() && target.Color == piece.Color {
		return d
	}
	rule, ok := pieceRules[piece.Type]
	if !ok {
		return d
	}
	d.Piece = piece
	d.Rights = state.Castling.For(piece.Color)
	return rule(&state, d)
}

func evaluateKing(s *GameState, d Decision) Decision {
	from, to := d.Move.From, d.Move.To
	if from.Rank == to.Rank && abs(to.File-from.File) == 2 {
		return evaluateCastle(s, d)
	}
	if IsKingStep(from, to) {
		d.Rights.KingNotMoved = false
		d.Outcome = Accepted
	}
	return d
}

func evaluateCastle(s *GameState, d Decision) Decision {
	side := d.Piece.Color.rules()
	from, to := d.Move.From, d.Move.To
	if from != side.kingHome() || !d.Rights.KingNotMoved {
		return d
	}

	corner, rookTo, intact := side.kingRookCorner(), Square{Rank: to.Rank, File: to.File - 1}, d.Rights.KingRookIntact
	if to.File < from.File {
		corner, rookTo, intact = side.queenRookCorner(), Square{Rank: to.Rank, File: to.File + 1}, d.Rights.QueenRookIntact
	}
	if !intact {
		return d
	}
	if s.Board.PieceAt(corner) != (Piece{Type: Rook, Color: d.Piece.Color}) {
		return d
	}
	if !IsClearPath(&s.Board, from, corner) {
		return d
	}

	d.Rights = CastlingRights{}
	d.CastleRook = &RookRelocation{From: corner, To: rookTo}
	d.Outcome = Accepted
	return d
}

func evaluateQueen(s *GameState, d Decision) Decision {
	from, to := d.Move.From, d.Move.To
	if (isStraight(from, to) || isDiagonal(from, to)) && IsClearPath(&s.Board, from, to) {
		d.Outcome = Accepted
	}
	return d
}

func evaluateRook(s *GameState, d Decision) Decision {
	from, to := d.Move.From, d.Move.To
	if !isStraight(from, to) || !IsClearPath(&s.Board, from, to) {
		return d
	}
	side := d.Piece.Color.rules()
	switch from {
	case side.queenRookCorner():
		d.Rights.QueenRookIntact = false
	case side.kingRookCorner():
		d.Rights.KingRookIntact = false
	}
	d.Outcome = Accepted
	return d
}

func evaluateBishop(s *GameState, d Decision) Decision {
	from, to := d.Move.From, d.Move.To
	if isDiagonal(from, to) && IsClearPath(&s.Board, from, to) {
		d.Outcome = Accepted
	}
	return d
}

func evaluateKnight(_ *GameState, d Decision) Decision {
	if IsKnightStep(d.Move.From, d.Move.To) {
		d.Outcome = Accepted
	}
	return d
}

func evaluatePawn(s *GameState, d Decision) Decision {
	side := d.Piece.Color.rules()
	from, to := d.Move.From, d.Move.To
	dr, df := to.Rank-from.Rank, to.File-from.File
	target := s.Board.PieceAt(to)

	switch {
	case df == 0 && from.Rank == side.pawnRank && (dr == side.forward || dr == 2*side.forward):
		if target.IsEmpty() && IsClearPath(&s.Board, from, to) {
			d.Outcome = Accepted
		}
	case df == 0 && dr == side.forward:
		if target.IsEmpty() {
			d.Outcome = Accepted
		}
	case abs(df) == 1 && dr == side.forward && !target.IsEmpty():
		d.Outcome = Accepted
	}

	if d.Outcome == Rejected {
		if victim, ok := enPassantVictim(s, d); ok {
			d.EnPassantCapture = &victim
			d.Outcome = Accepted
		}
	}
	if d.Outcome == Accepted && to.Rank == side.lastRank {
		d.Outcome = AcceptedWithPromotionPending
	}
	return d
}

// enPassantVictim returns the square of the pawn captured en passant, which
// must have made a double step on the immediately preceding move and now sit
// beside the mover on the destination file.
func enPassantVictim(s *GameState, d Decision) (Square, bool) {
	side := d.Piece.Color.rules()
	from, to := d.Move.From, d.Move.To
	last := s.LastMove
	if last == nil || !last.isDoublePawnStep() || last.Piece.Color == d.Piece.Color {
		return Square{}, false
	}
	if abs(to.File-from.File) != 1 || to.Rank-from.Rank != side.forward || !s.Board.PieceAt(to).IsEmpty() {
		return Square{}, false
	}
	if last.To.Rank != from.Rank || last.To.File != to.File {
		return Square{}, false
	}
	victim := Square{Rank: to.Rank - side.forward, File: to.File}
	if s.Board.PieceAt(victim) != last.Piece {
		return Square{}, false
	}
	return victim, true
}

// LegalDestinations lists every square the piece on from may move to.
func LegalDestinations(state GameState, from Square) []Square {
	destinations := []Square{}
	for rank := 0; rank < Size; rank++ {
		for file := 0; file < Size; file++ {
			to := Square{Rank: rank, File: file}
			if Evaluate(state, Move{From: from, To: to}).Outcome != Rejected {
				destinations = append(destinations, to)
			}
		}
	}
	return destinations
}
