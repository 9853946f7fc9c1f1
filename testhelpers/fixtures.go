// Package testhelpers has fixtures shared by package tests.
package testhelpers

import (
	"testing"

	"github.com/domino14/rookery/cache"
	"github.com/domino14/rookery/equity"
	"github.com/domino14/rookery/gametree"
	"github.com/domino14/rookery/position"
)

const (
	StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	// White to move; Qxf7 mates.
	ScholarsMateInOneFEN = "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4"
	ScholarsMateFEN      = "r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4"
	StalemateFEN         = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
	BareKingsFEN         = "8/8/8/4k3/8/8/8/4K3 w - - 0 1"
	// King and pawn against king, four legal moves for white.
	PawnEndingFEN = "7k/8/8/8/8/8/7P/7K w - - 0 1"
)

// MemoryScorer is a scorer over a fresh in-memory cache.
func MemoryScorer() (*equity.Scorer, *cache.ScoreCache) {
	c := cache.New(cache.NewMemoryStore(), 16)
	return equity.NewScorer(c), c
}

// Position parses fen or fails the test.
func Position(t testing.TB, fen string) *position.Position {
	t.Helper()
	p, err := position.FromFEN(fen)
	if err != nil {
		t.Fatalf("parsing %q: %v", fen, err)
	}
	return p
}

// Root builds a root node for fen with the given scorer.
func Root(t testing.TB, fen string, s gametree.Scorer) *gametree.Node {
	t.Helper()
	n, err := gametree.NewRoot(Position(t, fen), s)
	if err != nil {
		t.Fatalf("building root for %q: %v", fen, err)
	}
	return n
}

// ConstScorer gives every position the same score.
type ConstScorer int

func (c ConstScorer) Score(*position.Position) (int, error) {
	return int(c), nil
}

// MapScorer scores positions by key, falling back to Default.
type MapScorer struct {
	Scores  map[string]int
	Default int
	Calls   int
}

func (m *MapScorer) Score(p *position.Position) (int, error) {
	m.Calls++
	if v, ok := m.Scores[p.Key()]; ok {
		return v, nil
	}
	return m.Default, nil
}
