package engine

// CastlingRights flags only ever go from true to false.
type CastlingRights struct {
	QueenRookIntact bool `json:"queenRookIntact"`
	KingNotMoved    bool `json:"kingNotMoved"`
	KingRookIntact  bool `json:"kingRookIntact"`
}

func fullCastlingRights() CastlingRights {
	return CastlingRights{QueenRookIntact: true, KingNotMoved: true, KingRookIntact: true}
}

// restrict keeps a flag only if it is set in both r and next.
func (r CastlingRights) restrict(next CastlingRights) CastlingRights {
	return CastlingRights{
		QueenRookIntact: r.QueenRookIntact && next.QueenRookIntact,
		KingNotMoved:    r.KingNotMoved && next.KingNotMoved,
		KingRookIntact:  r.KingRookIntact && next.KingRookIntact,
	}
}

type Castling struct {
	White CastlingRights `json:"white"`
	Black CastlingRights `json:"black"`
}

func (c Castling) For(color Color) CastlingRights {
	if color == Black {
		return c.Black
	}
	return c.White
}

func (c Castling) with(color Color, rights CastlingRights) Castling {
	if color == Black {
		c.Black = c.Black.restrict(rights)
	} else {
		c.White = c.White.restrict(rights)
	}
	return c
}

// LastMove is the most recently executed move, kept for en passant.
type LastMove struct {
	Piece Piece  `json:"piece"`
	From  Square `json:"from"`
	To    Square `json:"to"`
}

func (m LastMove) isDoublePawnStep() bool {
	return m.Piece.Type == Pawn && m.From.File == m.To.File && abs(m.To.Rank-m.From.Rank) == 2
}

// PendingPromotion records a pawn that reached the last rank and waits for a
// piece kind. Captured is whatever stood on To before the pawn arrived.
type PendingPromotion struct {
	From     Square `json:"from"`
	To       Square `json:"to"`
	Pawn     Piece  `json:"pawn"`
	Captured Piece  `json:"captured"`
}

// GameState is passed and returned by value. The pointed-to LastMove and
// PendingPromotion records are never modified once created.
type GameState struct {
	Board    Board             `json:"board"`
	ToMove   Color             `json:"toMove"`
	Castling Castling          `json:"castling"`
	LastMove *LastMove         `json:"lastMove"`
	Pending  *PendingPromotion `json:"pendingPromotion"`
}

func NewGameState() GameState {
	return GameState{
		Board:  NewBoard(),
		ToMove: White,
		Castling: Castling{
			White: fullCastlingRights(),
			Black: fullCastlingRights(),
		},
	}
}
