package engine

import "strings"

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) letter() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return "."
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Piece is a value type; the zero Piece is an empty square.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func (p Piece) IsEmpty() bool {
	return p.Type == ""
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "."
	}
	if p.Color == Black {
		return strings.ToLower(p.Type.letter())
	}
	return p.Type.letter()
}

// sideRules holds every color-dependent constant the move rules need.
type sideRules struct {
	backRank int
	pawnRank int
	lastRank int
	forward  int
}

var sides = map[Color]sideRules{
	White: {backRank: 7, pawnRank: 6, lastRank: 0, forward: -1},
	Black: {backRank: 0, pawnRank: 1, lastRank: 7, forward: 1},
}

func (c Color) rules() sideRules {
	return sides[c]
}

func (r sideRules) kingHome() Square {
	return Square{Rank: r.backRank, File: 4}
}

func (r sideRules) queenRookCorner() Square {
	return Square{Rank: r.backRank, File: 0}
}

func (r sideRules) kingRookCorner() Square {
	return Square{Rank: r.backRank, File: Size - 1}
}
