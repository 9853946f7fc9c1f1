package equity

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/rookery/bitboard"
	"github.com/domino14/rookery/cache"
	"github.com/domino14/rookery/position"
)

type failingStore struct {
	cache.Store
}

func (f failingStore) Put(string, int) error {
	return errors.New("read-only filesystem")
}

func mustFEN(t *testing.T, fen string) *position.Position {
	t.Helper()
	p, err := position.FromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestTerminalScore(t *testing.T) {
	is := is.New(t)
	is.Equal(terminalScore(position.WhiteWins, bitboard.White), WinScore)
	is.Equal(terminalScore(position.BlackWins, bitboard.Black), WinScore)
	is.Equal(terminalScore(position.WhiteWins, bitboard.Black), LossScore)
	is.Equal(terminalScore(position.BlackWins, bitboard.White), LossScore)
	is.Equal(terminalScore(position.Draw, bitboard.White), DrawScore)
	is.Equal(terminalScore(position.Draw, bitboard.Black), DrawScore)
}

func TestTerminalPositions(t *testing.T) {
	is := is.New(t)
	s := NewScorer(cache.New(cache.NewMemoryStore(), 4))

	for _, tc := range []struct {
		fen   string
		score int
	}{
		// white just mated black
		{"r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4", LossScore},
		// fool's mate, black just mated white
		{"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", LossScore},
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", DrawScore},
		{"8/8/8/4k3/8/8/8/4K3 w - - 0 1", DrawScore},
	} {
		score, err := s.Score(mustFEN(t, tc.fen))
		is.NoErr(err)
		is.Equal(score, tc.score)
	}
}

func TestTerminalScoresAreNotCached(t *testing.T) {
	is := is.New(t)
	c := cache.New(cache.NewMemoryStore(), 4)
	s := NewScorer(c)
	_, err := s.Score(mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"))
	is.NoErr(err)
	is.Equal(c.Stats().Writes, uint64(0))
}

func TestHeuristicByHand(t *testing.T) {
	is := is.New(t)

	// Kg1 and Kg2 contribute nothing; h3 and h4 land on undefended
	// squares with one attacked square each: -1 -1, plus material 2-1.
	is.Equal(Static(mustFEN(t, "7k/8/8/8/8/8/7P/7K w - - 0 1")), -1)

	// Kxb2 (1-0)*(8+14) + Nxb2 (1-0)*(4+14) + Nc3 0 + Ne3 0
	// + Nf2 (0-1)*(6+0), material 2-2.
	is.Equal(Static(mustFEN(t, "7k/8/8/8/8/8/1r6/K2N4 w - - 0 1")), 34)
}

func TestScoreDeterministicColdAndWarm(t *testing.T) {
	is := is.New(t)
	c := cache.New(cache.NewMemoryStore(), 8)
	s := NewScorer(c)

	start := position.New()
	for _, m := range start.LegalMoves() {
		p, err := start.Apply(m)
		is.NoErr(err)

		cold, err := s.Score(p)
		is.NoErr(err)
		warm, err := s.Score(p)
		is.NoErr(err)
		is.Equal(cold, warm)
		is.Equal(cold, Static(p))
	}
	st := c.Stats()
	is.Equal(st.Writes, uint64(20))
	is.Equal(st.Hits, uint64(20))
}

func TestCachedValueIsAuthoritative(t *testing.T) {
	is := is.New(t)
	c := cache.New(cache.NewMemoryStore(), 8)
	start := position.New()
	is.NoErr(c.Put(start.Key(), 0))

	score, err := NewScorer(c).Score(start)
	is.NoErr(err)
	is.Equal(score, 0)
	is.Equal(c.Stats().Writes, uint64(1))
}

func TestPersistenceFailureStillScores(t *testing.T) {
	is := is.New(t)
	c := cache.New(failingStore{cache.NewMemoryStore()}, 2)
	s := NewScorer(c)
	p := position.New()

	score, err := s.Score(p)
	is.True(errors.Is(err, cache.ErrPersistence))
	is.Equal(score, Static(p))

	again, err := s.Score(p)
	is.NoErr(err)
	is.Equal(again, score)
}
