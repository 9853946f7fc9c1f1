package search

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/rookery/gametree"
)

type Solver struct {
	parallelism int
}

type Option func(*Solver)

// WithParallelism searches up to n root subtrees at once. The score cache
// behind the tree must be in multi-threaded mode when n > 1.
func WithParallelism(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

func NewSolver(opts ...Option) *Solver {
	s := &Solver{parallelism: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Solver) Parallelism() int {
	return s.parallelism
}

// GetMove is GetMove, with the root's subtrees split across goroutines.
// The chosen index is the one a sequential search would pick.
func (s *Solver) GetMove(node *gametree.Node, depth int) (int, int, error) {
	if s.parallelism < 2 {
		return GetMove(node, depth)
	}
	if node.Outcome().Terminal() || depth < 1 {
		return node.Score(), 0, nil
	}
	tstart := time.Now()
	children, err := node.Children()
	if err != nil {
		return 0, 0, err
	}
	scores := make([]int, len(children))
	g := s.group()
	for i, child := range children {
		g.Go(func() error {
			score, _, err := GetMove(child, depth-1)
			if err != nil {
				return fmt.Errorf("searching %s: %w", child.MoveString(), err)
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	best, bestIdx := SentinelScore, 0
	for i, score := range scores {
		if score < best {
			best, bestIdx = score, i
		}
	}
	s.logDone(len(children), bestIdx, tstart)
	return node.Score(), bestIdx, nil
}

// GetMoveWithTrace is the parallel counterpart of GetMoveWithTrace.
func (s *Solver) GetMoveWithTrace(node *gametree.Node, depth int) (Trace, int, error) {
	if s.parallelism < 2 {
		return GetMoveWithTrace(node, depth)
	}
	self := Trace{Scores: []int{node.Score()}, Moves: []string{node.MoveString()}}
	if node.Outcome().Terminal() || depth < 1 {
		return self, 0, nil
	}
	tstart := time.Now()
	children, err := node.Children()
	if err != nil {
		return Trace{}, 0, err
	}
	traces := make([]Trace, len(children))
	g := s.group()
	for i, child := range children {
		g.Go(func() error {
			t, _, err := GetMoveWithTrace(child, depth-1)
			if err != nil {
				return fmt.Errorf("searching %s: %w", child.MoveString(), err)
			}
			traces[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Trace{}, 0, err
	}
	best, bestIdx := Trace{Scores: []int{SentinelScore}}, 0
	for i, t := range traces {
		if t.Scores[0] < best.Scores[0] {
			best, bestIdx = t, i
		}
	}
	s.logDone(len(children), bestIdx, tstart)
	return self.extend(best), bestIdx, nil
}

func (s *Solver) group() *errgroup.Group {
	g := &errgroup.Group{}
	g.SetLimit(s.parallelism)
	return g
}

func (s *Solver) logDone(subtrees, bestIdx int, tstart time.Time) {
	log.Debug().
		Int("threads", s.parallelism).
		Int("subtrees", subtrees).
		Int("best-index", bestIdx).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("parallel-search-done")
}
