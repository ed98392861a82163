package engine

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func isStraight(from, to Square) bool {
	return from.Rank == to.Rank || from.File == to.File
}

func isDiagonal(from, to Square) bool {
	return abs(to.Rank-from.Rank) == abs(to.File-from.File)
}

// IsClearPath reports whether every square strictly between from and to is
// empty. The squares must share a rank, a file or a diagonal; any other pair
// reports false.
func IsClearPath(b *Board, from, to Square) bool {
	if !isStraight(from, to) && !isDiagonal(from, to) {
		return false
	}
	dr, df := sign(to.Rank-from.Rank), sign(to.File-from.File)
	for sq := (Square{Rank: from.Rank + dr, File: from.File + df}); sq != to; sq.Rank, sq.File = sq.Rank+dr, sq.File+df {
		if !b.PieceAt(sq).IsEmpty() {
			return false
		}
	}
	return true
}

func IsKingStep(from, to Square) bool {
	return abs(to.Rank-from.Rank) <= 1 && abs(to.File-from.File) <= 1
}

func IsKnightStep(from, to Square) bool {
	dr, df := abs(to.Rank-from.Rank), abs(to.File-from.File)
	return (dr == 2 && df == 1) || (dr == 1 && df == 2)
}
