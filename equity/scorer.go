// Package equity computes the static score of a position.
//
// A score is taken from the point of view of the side to move in the
// position, and is read as the desirability of the position for the
// opponent of the player who just moved: the lower the score, the better
// the move that led here was for its mover. It is not a negamax value and
// must not be negated per ply.
package equity

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/rookery/bitboard"
	"github.com/domino14/rookery/position"
)

const (
	// WinScore: the side to move has won.
	WinScore = 5000
	// LossScore: the player who just moved has won.
	LossScore = -5000
	// DrawScore: the game is drawn.
	DrawScore = -4000
)

// Cache is the part of the score cache the scorer needs.
type Cache interface {
	Get(key string) (int, bool, error)
	Put(key string, score int) error
}

type Scorer struct {
	cache Cache
}

func NewScorer(c Cache) *Scorer {
	return &Scorer{cache: c}
}

// Score returns the cached score for pos, computing and caching it on a
// miss. If the cache cannot persist the new value the score is returned
// together with the cache's error.
func (s *Scorer) Score(pos *position.Position) (int, error) {
	key := pos.Key()
	if v, ok, err := s.cache.Get(key); err != nil {
		return 0, err
	} else if ok {
		return v, nil
	}

	if pos.Outcome().Terminal() {
		return terminalScore(pos.Outcome(), pos.Turn()), nil
	}

	score := Static(pos)
	log.Debug().Str("fen", key).Int("score", score).Msg("scored-position")
	if err := s.cache.Put(key, score); err != nil {
		return score, err
	}
	return score, nil
}

// Static computes the score of pos without consulting any cache.
func Static(pos *position.Position) int {
	if pos.Outcome().Terminal() {
		return terminalScore(pos.Outcome(), pos.Turn())
	}
	return heuristic(pos)
}

func terminalScore(o position.Outcome, toMove bitboard.Color) int {
	winner, ok := o.Winner()
	switch {
	case !ok:
		return DrawScore
	case winner == toMove:
		return WinScore
	default:
		return LossScore
	}
}

// heuristic sums, over every legal move of the side to move, the
// difference between that side's and the mover's defenders of the
// destination square, weighted by the mobility the moving piece would have
// there plus the mobility of whatever currently stands on it. The material
// count difference is added at the end.
func heuristic(pos *position.Position) int {
	board := pos.Board()
	occupied := board.Occupied()
	cp := pos.Turn()
	mp := cp.Other()

	score := 0
	for _, m := range pos.LegalMoves() {
		to := bitboard.Square(m.S2())
		pt := pos.PieceAt(m.S1())

		cpMovesAfter := bitboard.Simulate(to, pt, cp, occupied).PopCount()
		cpDefenders := board.Attackers(cp, to, occupied).PopCount() - 1
		mpDefenders := board.Attackers(mp, to, occupied).PopCount()
		mpMovesBefore := board.AttacksOf(to).PopCount()

		score += (cpDefenders - mpDefenders) * (cpMovesAfter + mpMovesBefore)
	}
	score += board.OccupiedBy(cp).PopCount() - board.OccupiedBy(mp).PopCount()
	return score
}
