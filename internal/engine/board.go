package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const Size = 8

var ErrInvalidSquare = errors.New("invalid square")

// Square addresses the board by rank and file. Rank 0 is black's back rank,
// rank 7 is white's.
type Square struct {
	Rank int `json:"rank"`
	File int `json:"file"`
}

func (s Square) InBounds() bool {
	return s.Rank >= 0 && s.Rank < Size && s.File >= 0 && s.File < Size
}

func (s Square) String() string {
	if !s.InBounds() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+s.File, Size-s.Rank)
}

// ParseSquare reads algebraic coordinates such as "e2".
func ParseSquare(s string) (Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	sq := Square{Rank: Size - int(s[1]-'0'), File: int(s[0] - 'a')}
	if s[1] < '1' || s[1] > '8' || !sq.InBounds() {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return sq, nil
}

// Board is indexed [rank][file]. It is an array so assigning a Board copies it.
type Board [Size][Size]Piece

var backRankOrder = [Size]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func NewBoard() Board {
	var b Board
	for file, kind := range backRankOrder {
		b[0][file] = Piece{Type: kind, Color: Black}
		b[1][file] = Piece{Type: Pawn, Color: Black}
		b[6][file] = Piece{Type: Pawn, Color: White}
		b[7][file] = Piece{Type: kind, Color: White}
	}
	return b
}

// PieceAt returns the empty piece for squares off the board.
func (b *Board) PieceAt(sq Square) Piece {
	if !sq.InBounds() {
		return Piece{}
	}
	return b[sq.Rank][sq.File]
}

func (b *Board) Place(sq Square, p Piece) {
	if sq.InBounds() {
		b[sq.Rank][sq.File] = p
	}
}

func (b *Board) Clear(sq Square) {
	b.Place(sq, Piece{})
}

func (b Board) String() string {
	var sb strings.Builder
	for rank := 0; rank < Size; rank++ {
		for file := 0; file < Size; file++ {
			sb.WriteString(b[rank][file].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// MarshalJSON emits an 8x8 array with null for empty squares.
func (b Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Piece, Size)
	for rank := range b {
		rows[rank] = make([]*Piece, Size)
		for file := range b[rank] {
			if p := b[rank][file]; !p.IsEmpty() {
				rows[rank][file] = &p
			}
		}
	}
	return json.Marshal(rows)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]*Piece
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	if len(rows) != Size {
		return fmt.Errorf("board must have %d ranks, got %d", Size, len(rows))
	}
	var next Board
	for rank, row := range rows {
		if len(row) != Size {
			return fmt.Errorf("rank %d must have %d files, got %d", rank, Size, len(row))
		}
		for file, p := range row {
			if p != nil {
				next[rank][file] = *p
			}
		}
	}
	*b = next
	return nil
}
