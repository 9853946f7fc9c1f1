package bitboard

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"
)

// Simulate returns the squares a piece of type pt and color c would attack
// from sq given the occupancy. sq does not have to hold that piece, or any
// piece. Nothing is mutated.
func Simulate(sq Square, pt PieceType, c Color, occupied Bitboard) Bitboard {
	switch pt {
	case Pawn:
		return pawnAttacks[c][sq]
	case Knight:
		return knightAttacks[sq]
	case King:
		return kingAttacks[sq]
	case Bishop:
		return diagonalAttacks(sq, occupied)
	case Rook:
		return straightAttacks(sq, occupied)
	case Queen:
		return diagonalAttacks(sq, occupied) | straightAttacks(sq, occupied)
	}
	panic(fmt.Sprintf("no attack table for piece type %d", pt))
}

// Both slider lookups include the first blocker on each ray. dragontoothmg
// numbers squares a1=0..h8=63 like Square does.
func diagonalAttacks(sq Square, occupied Bitboard) Bitboard {
	return Bitboard(dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), uint64(occupied)))
}

func straightAttacks(sq Square, occupied Bitboard) Bitboard {
	return Bitboard(dragontoothmg.CalculateRookMoveBitboard(uint8(sq), uint64(occupied)))
}

// Board is a bitboard snapshot of piece placement.
type Board struct {
	pieces   [King + 1]Bitboard
	colors   [2]Bitboard
	occupied Bitboard
}

// Put places a piece on an empty square.
func (b *Board) Put(sq Square, pt PieceType, c Color) {
	bb := SquareBB(sq)
	b.pieces[pt] |= bb
	b.colors[c] |= bb
	b.occupied |= bb
}

func (b *Board) Occupied() Bitboard {
	return b.occupied
}

// OccupiedBy is the set of squares holding pieces of color c.
func (b *Board) OccupiedBy(c Color) Bitboard {
	return b.colors[c]
}

// Pieces is the set of squares holding pieces of type pt, either color.
func (b *Board) Pieces(pt PieceType) Bitboard {
	return b.pieces[pt]
}

// PieceAt returns the piece on sq; ok is false for an empty square.
func (b *Board) PieceAt(sq Square) (pt PieceType, c Color, ok bool) {
	if !b.occupied.Has(sq) {
		return NoPieceType, White, false
	}
	for t := Pawn; t <= King; t++ {
		if b.pieces[t].Has(sq) {
			pt = t
			break
		}
	}
	c = White
	if b.colors[Black].Has(sq) {
		c = Black
	}
	return pt, c, true
}

// Attackers is the set of pieces of color c attacking sq, with sliding
// attacks blocked by occupied.
func (b *Board) Attackers(c Color, sq Square, occupied Bitboard) Bitboard {
	queensAndRooks := b.pieces[Queen] | b.pieces[Rook]
	queensAndBishops := b.pieces[Queen] | b.pieces[Bishop]

	attackers := (kingAttacks[sq] & b.pieces[King]) |
		(knightAttacks[sq] & b.pieces[Knight]) |
		(straightAttacks(sq, occupied) & queensAndRooks) |
		(diagonalAttacks(sq, occupied) & queensAndBishops) |
		(pawnAttacks[c.Other()][sq] & b.pieces[Pawn])

	return attackers & b.colors[c]
}

// AttacksOf is the attack set of the piece standing on sq, or Empty if the
// square is empty.
func (b *Board) AttacksOf(sq Square) Bitboard {
	pt, c, ok := b.PieceAt(sq)
	if !ok {
		return Empty
	}
	return Simulate(sq, pt, c, b.occupied)
}
