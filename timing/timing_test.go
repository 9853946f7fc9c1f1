package timing_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/rookery/search"
	"github.com/domino14/rookery/testhelpers"
	"github.com/domino14/rookery/timing"
)

func TestParseOperation(t *testing.T) {
	is := is.New(t)
	for _, name := range timing.Operations() {
		op, err := timing.ParseOperation(name)
		is.NoErr(err)
		is.Equal(op.String(), name)
	}
	op, err := timing.ParseOperation("SEARCH")
	is.NoErr(err)
	is.Equal(op, timing.Search)

	_, err = timing.ParseOperation("get_move_fast")
	is.True(errors.Is(err, timing.ErrNotSupported))
	var nse *timing.NotSupportedError
	is.True(errors.As(err, &nse))
	is.Equal(nse.Operation, "get_move_fast")
}

func TestRunLeavesNodeUntouched(t *testing.T) {
	is := is.New(t)
	scorer, _ := testhelpers.MemoryScorer()
	root := testhelpers.Root(t, testhelpers.ScholarsMateInOneFEN, scorer)
	h := timing.NewHarness(scorer, search.NewSolver(), 50)

	res, err := h.Run(context.Background(), root, timing.Score, 0)
	is.NoErr(err)
	is.Equal(res.Iterations, 50)
	is.True(res.Mean >= 0)
	is.True(res.StdDev >= 0)
	is.True(strings.HasPrefix(res.String(), "Scoring function 'score' evaluation time: "))
	is.Equal(len(res.Samples), 50)
	var hist bytes.Buffer
	is.NoErr(res.Histogram(&hist))
	lines := strings.Split(strings.TrimSpace(hist.String()), "\n")
	is.True(len(lines) >= 1 && len(lines) <= 10)

	for _, op := range []timing.Operation{timing.Search, timing.SearchWithTrace} {
		res, err = h.Run(context.Background(), root, op, 1)
		is.NoErr(err)
		is.Equal(res.Iterations, 1)
		is.Equal(res.StdDev, 0.0)
		var hist bytes.Buffer
		is.NoErr(res.Histogram(&hist))
		is.Equal(hist.Len(), 0)
		child, err := root.Copy().Child(res.Index)
		is.NoErr(err)
		is.Equal(child.MoveString(), "h5f7")
	}
	is.True(!root.Expanded())
}

func TestResultHistogram(t *testing.T) {
	is := is.New(t)
	res := timing.Result{
		Operation:  timing.Score,
		Iterations: 6,
		Samples:    []float64{0.5, 0.5, 0.75, 1, 1.5, 2.5},
	}
	var buf bytes.Buffer
	is.NoErr(res.Histogram(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	is.Equal(len(lines), 10)
	is.True(strings.HasPrefix(lines[0], "500ms-700ms"))
	is.True(strings.Contains(lines[0], "33.3%"))
	is.True(strings.HasPrefix(lines[9], "2.3s-2.5s"))
	is.True(strings.Contains(lines[9], "16.7%"))
}

func TestRunUnknownOperation(t *testing.T) {
	is := is.New(t)
	root := testhelpers.Root(t, testhelpers.StartFEN, testhelpers.ConstScorer(0))
	h := timing.NewHarness(testhelpers.ConstScorer(0), nil, 1)
	_, err := h.Run(context.Background(), root, timing.Operation(42), 1)
	is.True(errors.Is(err, timing.ErrNotSupported))
}

func TestRunStopsOnCancel(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	root := testhelpers.Root(t, testhelpers.StartFEN, testhelpers.ConstScorer(0))
	h := timing.NewHarness(testhelpers.ConstScorer(0), nil, 1000)
	_, err := h.Run(ctx, root, timing.Score, 0)
	is.True(errors.Is(err, context.Canceled))
}
