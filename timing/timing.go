// Package timing measures how long the engine's node operations take.
package timing

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/domino14/rookery/gametree"
	"github.com/domino14/rookery/search"
)

type Operation int

const (
	Score Operation = iota
	Search
	SearchWithTrace
)

var operationNames = map[Operation]string{
	Score:           "score",
	Search:          "search",
	SearchWithTrace: "search-trace",
}

func (o Operation) String() string {
	if n, ok := operationNames[o]; ok {
		return n
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// Operations lists the names ParseOperation accepts.
func Operations() []string {
	return []string{Score.String(), Search.String(), SearchWithTrace.String()}
}

func ParseOperation(name string) (Operation, error) {
	for op, n := range operationNames {
		if strings.EqualFold(n, name) {
			return op, nil
		}
	}
	return 0, &NotSupportedError{Operation: name}
}

const (
	histogramBins  = 10
	histogramWidth = 40
)

// Result of one harness run. Mean, StdDev and Samples are per iteration,
// in seconds.
type Result struct {
	Operation  Operation
	Depth      int
	Iterations int
	Elapsed    time.Duration
	Mean       float64
	StdDev     float64
	Index      int
	Samples    []float64
}

func (r Result) String() string {
	if r.Operation == Score {
		return fmt.Sprintf("Scoring function '%s' evaluation time: %.7fs (%d runs, mean %.9fs, stddev %.9fs)",
			r.Operation, r.Elapsed.Seconds(), r.Iterations, r.Mean, r.StdDev)
	}
	return fmt.Sprintf("Search function '%s' evaluation time: %.7fs\t%d",
		r.Operation, r.Elapsed.Seconds(), r.Index)
}

// Histogram writes the distribution of iteration times to w. A single
// sample has no distribution, so nothing is written for searches.
func (r Result) Histogram(w io.Writer) error {
	if len(r.Samples) < 2 {
		return nil
	}
	ns := lo.Map(r.Samples, func(s float64, _ int) float64 {
		return s * float64(time.Second)
	})
	h := histogram.Hist(histogramBins, ns)
	return histogram.Fprintf(w, h, histogram.Linear(histogramWidth), func(v float64) string {
		return time.Duration(v).String()
	})
}

type Harness struct {
	scorer     gametree.Scorer
	solver     *search.Solver
	iterations int
}

// NewHarness returns a harness that repeats scoring iterations times.
// Searches always run once.
func NewHarness(scorer gametree.Scorer, solver *search.Solver, iterations int) *Harness {
	if iterations < 1 {
		iterations = 1
	}
	if solver == nil {
		solver = search.NewSolver()
	}
	return &Harness{scorer: scorer, solver: solver, iterations: iterations}
}

// Run times op on a copy of node, so node itself is never expanded. ctx
// is only checked between scoring iterations.
func (h *Harness) Run(ctx context.Context, node *gametree.Node, op Operation, depth int) (Result, error) {
	n := node.Copy()
	res := Result{Operation: op, Depth: depth}

	var samples []float64
	var err error
	tstart := time.Now()
	switch op {
	case Score:
		samples = make([]float64, 0, h.iterations)
		for i := 0; i < h.iterations; i++ {
			if err = ctx.Err(); err != nil {
				break
			}
			t := time.Now()
			if _, err = h.scorer.Score(n.Position()); err != nil {
				break
			}
			samples = append(samples, time.Since(t).Seconds())
		}
	case Search:
		_, res.Index, err = h.solver.GetMove(n, depth)
		samples = []float64{time.Since(tstart).Seconds()}
	case SearchWithTrace:
		_, res.Index, err = h.solver.GetMoveWithTrace(n, depth)
		samples = []float64{time.Since(tstart).Seconds()}
	default:
		return res, &NotSupportedError{Operation: op.String()}
	}
	res.Elapsed = time.Since(tstart)
	if err != nil {
		return res, err
	}

	res.Iterations = len(samples)
	res.Samples = samples
	res.Mean = stat.Mean(samples, nil)
	if len(samples) > 1 {
		res.StdDev = stat.StdDev(samples, nil)
	}
	log.Debug().
		Str("op", op.String()).
		Int("depth", depth).
		Int("iterations", res.Iterations).
		Dur("elapsed", res.Elapsed).
		Msg("timed")
	return res, nil
}
