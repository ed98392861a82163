package engine

import "testing"

func sq(t *testing.T, s string) Square {
	t.Helper()
	square, err := ParseSquare(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return square
}

// position builds a state with full castling rights holding only the given
// pieces, keyed by algebraic square.
func position(t *testing.T, toMove Color, pieces map[string]Piece) GameState {
	t.Helper()
	s := GameState{
		ToMove:   toMove,
		Castling: Castling{White: fullCastlingRights(), Black: fullCastlingRights()},
	}
	for at, p := range pieces {
		s.Board.Place(sq(t, at), p)
	}
	return s
}

func wp(kind PieceType) Piece { return Piece{Type: kind, Color: White} }
func bp(kind PieceType) Piece { return Piece{Type: kind, Color: Black} }

func mustOutcome(t *testing.T, s GameState, from, to Square, want Outcome) Decision {
	t.Helper()
	d := Evaluate(s, Move{From: from, To: to})
	if d.Outcome != want {
		t.Fatalf("%s%s: expected %s, got %s\n%s", from, to, want, d.Outcome, s.Board)
	}
	return d
}
