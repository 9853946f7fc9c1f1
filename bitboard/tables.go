package bitboard

type direction struct {
	df, dr int
}

var (
	knightDirs = []direction{{1, 2}, {-1, 2}, {2, 1}, {-2, 1}, {1, -2}, {-1, -2}, {2, -1}, {-2, -1}}
	kingDirs   = []direction{{1, 1}, {0, 1}, {-1, 1}, {1, 0}, {-1, 0}, {1, -1}, {0, -1}, {-1, -1}}
)

// Step tables. Sliders go through dragontoothmg's magic lookups, which
// has no exported equivalent for these.
var (
	pawnAttacks   [2][NumSquares]Bitboard
	knightAttacks [NumSquares]Bitboard
	kingAttacks   [NumSquares]Bitboard
)

func init() {
	for sq := Square(0); sq < NumSquares; sq++ {
		knightAttacks[sq] = stepAttacks(sq, knightDirs)
		kingAttacks[sq] = stepAttacks(sq, kingDirs)
		pawnAttacks[White][sq] = stepAttacks(sq, []direction{{-1, 1}, {1, 1}})
		pawnAttacks[Black][sq] = stepAttacks(sq, []direction{{-1, -1}, {1, -1}})
	}
}

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

func stepAttacks(sq Square, dirs []direction) Bitboard {
	attacks := Empty
	for _, d := range dirs {
		file, rank := sq.File()+d.df, sq.Rank()+d.dr
		if onBoard(file, rank) {
			attacks |= SquareBB(NewSquare(file, rank))
		}
	}
	return attacks
}
