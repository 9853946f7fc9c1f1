package bitboard_test

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/matryer/is"

	"github.com/domino14/rookery/bitboard"
	"github.com/domino14/rookery/position"
)

var sliderFENs = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"7k/8/8/8/8/8/1r6/K2N4 w - - 0 1",
}

// Slider attacks from a real position match what dragontoothmg computes
// from the same FEN.
func TestSliderAttacksMatchDragontooth(t *testing.T) {
	is := is.New(t)

	for _, fen := range sliderFENs {
		p, err := position.FromFEN(fen)
		is.NoErr(err)
		b := p.Board()
		dt := dragontoothmg.ParseFen(fen)
		occ := dt.White.All | dt.Black.All
		is.Equal(uint64(b.Occupied()), occ)

		for _, side := range []struct {
			c  bitboard.Color
			bb dragontoothmg.Bitboards
		}{
			{bitboard.White, dt.White},
			{bitboard.Black, dt.Black},
		} {
			own := b.OccupiedBy(side.c)
			is.Equal(uint64(b.Pieces(bitboard.Bishop)&own), side.bb.Bishops)
			is.Equal(uint64(b.Pieces(bitboard.Rook)&own), side.bb.Rooks)
			is.Equal(uint64(b.Pieces(bitboard.Queen)&own), side.bb.Queens)

			for _, s := range bitboard.Bitboard(side.bb.Bishops).Squares() {
				is.Equal(uint64(b.AttacksOf(s)), dragontoothmg.CalculateBishopMoveBitboard(uint8(s), occ))
			}
			for _, s := range bitboard.Bitboard(side.bb.Rooks).Squares() {
				is.Equal(uint64(b.AttacksOf(s)), dragontoothmg.CalculateRookMoveBitboard(uint8(s), occ))
			}
			for _, s := range bitboard.Bitboard(side.bb.Queens).Squares() {
				want := dragontoothmg.CalculateBishopMoveBitboard(uint8(s), occ) |
					dragontoothmg.CalculateRookMoveBitboard(uint8(s), occ)
				is.Equal(uint64(b.AttacksOf(s)), want)
			}
		}
	}
}
