package engine

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewBoardLayout(t *testing.T) {
	b := NewBoard()
	checks := map[Square]Piece{
		{Rank: 0, File: 0}: bp(Rook),
		{Rank: 0, File: 4}: bp(King),
		{Rank: 1, File: 3}: bp(Pawn),
		{Rank: 6, File: 4}: wp(Pawn),
		{Rank: 7, File: 3}: wp(Queen),
		{Rank: 7, File: 4}: wp(King),
		{Rank: 7, File: 6}: wp(Knight),
		{Rank: 4, File: 4}: {},
	}
	for at, want := range checks {
		if got := b.PieceAt(at); got != want {
			t.Errorf("%s: expected %+v, got %+v", at, want, got)
		}
	}
}

func TestBoardPlaceAndClear(t *testing.T) {
	var b Board
	at := Square{Rank: 3, File: 3}
	b.Place(at, wp(Knight))
	if b.PieceAt(at) != wp(Knight) {
		t.Fatalf("expected knight at %s", at)
	}
	copied := b
	b.Clear(at)
	if !b.PieceAt(at).IsEmpty() {
		t.Fatalf("expected %s to be empty", at)
	}
	if copied.PieceAt(at) != wp(Knight) {
		t.Fatalf("copy must not alias the original board")
	}
	if !b.PieceAt(Square{Rank: 8, File: 0}).IsEmpty() {
		t.Fatalf("off-board squares must read as empty")
	}
}

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in   string
		want Square
	}{
		{"a8", Square{Rank: 0, File: 0}},
		{"e2", Square{Rank: 6, File: 4}},
		{"h1", Square{Rank: 7, File: 7}},
		{" D5 ", Square{Rank: 3, File: 3}},
	}
	for _, tt := range tests {
		got, err := ParseSquare(tt.in)
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%q: expected %+v, got %+v", tt.in, tt.want, got)
		}
		if got.String() != tt.want.String() {
			t.Errorf("%q: round trip gave %s", tt.in, got)
		}
	}
	for _, bad := range []string{"", "e", "e9", "i1", "e0", "e22", "`1"} {
		if _, err := ParseSquare(bad); !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("%q: expected ErrInvalidSquare, got %v", bad, err)
		}
	}
}

func TestBoardJSONUsesNullForEmptySquares(t *testing.T) {
	b := NewBoard()
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var rows [][]*Piece
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("unmarshal rows: %v", err)
	}
	if rows[4][4] != nil {
		t.Fatalf("expected null for an empty square, got %+v", rows[4][4])
	}
	if rows[7][4] == nil || *rows[7][4] != wp(King) {
		t.Fatalf("expected white king at rows[7][4], got %+v", rows[7][4])
	}

	var decoded Board
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal board: %v", err)
	}
	if decoded != b {
		t.Fatalf("decoded board differs:\n%s\nvs\n%s", decoded, b)
	}
	if err := json.Unmarshal([]byte(`[[null]]`), &decoded); err == nil {
		t.Fatalf("expected an error for a malformed board")
	}
}
