package engine

import (
	"errors"
	"fmt"
)

var (
	ErrNoPendingPromotion   = errors.New("no promotion pending")
	ErrInvalidPromotionKind = errors.New("invalid promotion kind")
)

var promotionKinds = []PieceType{Queen, Rook, Bishop, Knight}

// PromotionCandidates returns the kinds a pawn may promote to.
func PromotionCandidates() []PieceType {
	return append([]PieceType(nil), promotionKinds...)
}

func IsPromotionKind(kind PieceType) bool {
	for _, k := range promotionKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ResolvePromotion replaces the pending pawn with a piece of kind, records the
// move as the last move and passes the turn.
func ResolvePromotion(state GameState, kind PieceType) (GameState, error) {
	p := state.Pending
	if p == nil {
		return state, ErrNoPendingPromotion
	}
	if !IsPromotionKind(kind) {
		return state, fmt.Errorf("%w: %q", ErrInvalidPromotionKind, kind)
	}
	next := state
	next.Board.Place(p.To, Piece{Type: kind, Color: p.Pawn.Color})
	next.LastMove = &LastMove{Piece: p.Pawn, From: p.From, To: p.To}
	next.Pending = nil
	next.ToMove = state.ToMove.Opponent()
	return next, nil
}

// CancelPromotion takes the pending pawn move back: the pawn returns to its
// origin and anything it captured is restored. The turn does not pass.
func CancelPromotion(state GameState) (GameState, error) {
	p := state.Pending
	if p == nil {
		return state, ErrNoPendingPromotion
	}
	next := state
	next.Board.Place(p.From, p.Pawn)
	next.Board.Place(p.To, p.Captured)
	next.Pending = nil
	return next, nil
}
