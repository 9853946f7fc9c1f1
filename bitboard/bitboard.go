// Package bitboard holds the 64-bit square sets and precomputed attack
// tables used by the position scorer.
package bitboard

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares, bit 0 is a1 and bit 63 is h8.
type Bitboard uint64

// Square is a board index in the range [0, 64), a1 = 0, h8 = 63.
type Square int8

// Color of a side. The zero value is White.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType uses the conventional 1..6 numbering; zero means no piece.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceLetters = [...]string{"", "p", "n", "b", "r", "q", "k"}

func (pt PieceType) String() string {
	if int(pt) < len(pieceLetters) {
		return pieceLetters[pt]
	}
	return "?"
}

const (
	NumSquares = 64

	Empty Bitboard = 0
	All   Bitboard = ^Empty

	FileA Bitboard = 0x0101010101010101
	FileH Bitboard = FileA << 7
	Rank1 Bitboard = 0xFF
	Rank8 Bitboard = Rank1 << 56
)

// NewSquare builds a square from a 0-based file and rank.
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

func (sq Square) File() int {
	return int(sq) & 7
}

func (sq Square) Rank() int {
	return int(sq) >> 3
}

func (sq Square) String() string {
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// SquareBB returns the single-bit bitboard for sq.
func SquareBB(sq Square) Bitboard {
	return Bitboard(1) << uint(sq)
}

// PopCount is the number of squares in the set.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// Has reports whether sq is in the set.
func (b Bitboard) Has(sq Square) bool {
	return b&SquareBB(sq) != 0
}

// Squares lists the members of the set in ascending order.
func (b Bitboard) Squares() []Square {
	sqs := make([]Square, 0, b.PopCount())
	for b != 0 {
		sqs = append(sqs, Square(bits.TrailingZeros64(uint64(b))))
		b &= b - 1
	}
	return sqs
}

// String renders the set as an 8x8 grid with rank 8 on top. Members are
// shown as 1 and the rest as dots.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			if b.Has(NewSquare(file, rank)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('.')
			}
			if file == 7 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String()
}
